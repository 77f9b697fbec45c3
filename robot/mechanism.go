package robot

import (
	"fmt"

	"github.com/bytearena/box2d"
	uuid "github.com/satori/go.uuid"

	"github.com/Allegro-Leon-Li/SimulatorCore/common/types"
	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils"
	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils/vector"
	"github.com/Allegro-Leon-Li/SimulatorCore/events"
)

const (
	mechanismBoxHalfExtent = 0.15
	partBoxHalfExtent      = 0.1
)

// MechanismPart is a bodied grandchild owned by a mechanism (an elevator
// carriage, for instance). It is joint-linked to its owning mechanism,
// not to the robot base.
type MechanismPart struct {
	name       string
	bodydef    box2d.B2BodyDef
	fixturedef box2d.B2FixtureDef
	body       *box2d.B2Body
	visual     *VisualNode
}

func NewMechanismPart(name string, robotID uuid.UUID, position vector.Vector2, color string, visualEnabled bool) *MechanismPart {
	bodydef := box2d.MakeB2BodyDef()
	bodydef.Type = box2d.B2BodyType.B2_dynamicBody
	bodydef.Position.Set(position.GetX(), position.GetY())
	bodydef.LinearDamping = 0.5
	bodydef.AngularDamping = 0.3

	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBox(partBoxHalfExtent, partBoxHalfExtent)

	fixturedef := box2d.MakeB2FixtureDef()
	fixturedef.Shape = &shape
	fixturedef.Density = 1.0
	fixturedef.Friction = 0.3
	fixturedef.Restitution = 0.4
	fixturedef.Filter.CategoryBits = CollisionGroup.Robot
	fixturedef.Filter.MaskBits = utils.BuildTag(CollisionGroup.Robot, CollisionGroup.Wall)
	fixturedef.UserData = types.MakePhysicalBodyDescriptor(
		types.PhysicalBodyDescriptorType.Mechanism,
		robotID.String(),
		name,
	)

	var visual *VisualNode
	if visualEnabled {
		visual = NewVisualNode(name, color)
	} else {
		visual = NewPlaceholderNode(name)
	}
	visual.SetPosition(vector.MakeVector3(position.GetX(), 0, position.GetY()))

	return &MechanismPart{
		name:       name,
		bodydef:    bodydef,
		fixturedef: fixturedef,
		visual:     visual,
	}
}

func (part *MechanismPart) GetName() string {
	return part.name
}

func (part *MechanismPart) GetBodyDescription() *box2d.B2BodyDef {
	return &part.bodydef
}

func (part *MechanismPart) GetFixtureDescription() *box2d.B2FixtureDef {
	return &part.fixturedef
}

func (part *MechanismPart) GetBody() *box2d.B2Body {
	return part.body
}

func (part *MechanismPart) SetBody(body *box2d.B2Body) {
	part.body = body
}

func (part *MechanismPart) GetVisual() *VisualNode {
	return part.visual
}

func (part *MechanismPart) Children() []SimObject {
	return nil
}

func (part *MechanismPart) Update(dtMs float64) {
	if part.body == nil {
		return
	}

	syncVisualFromBody(part.visual, part.body)
}

// Mechanism is a powered attachment (intake, elevator). A mechanism may
// declare additional sensor specs (an elevator needs its limit switch)
// which the aggregate folds into the sensor managers before those managers
// process spec-declared sensors. A mechanism may also own bodied
// grandchildren and performs its own joint-linking pass for them.
type Mechanism struct {
	name    string
	robotID uuid.UUID
	channel int
	kind    string

	bodydef    box2d.B2BodyDef
	fixturedef box2d.B2FixtureDef
	body       *box2d.B2Body
	visual     *VisualNode

	children []SimObject
	output   bool

	registry *events.Registry
}

func NewMechanism(spec MechanismSpec, robotID uuid.UUID, basePosition vector.Vector2, visualEnabled bool) *Mechanism {
	name := fmt.Sprintf("mechanism-%s-%d", spec.Kind, spec.Channel)
	position := basePosition.Add(spec.LocalPosition())

	bodydef := box2d.MakeB2BodyDef()
	bodydef.Type = box2d.B2BodyType.B2_dynamicBody
	bodydef.Position.Set(position.GetX(), position.GetY())
	bodydef.LinearDamping = 0.5
	bodydef.AngularDamping = 0.3

	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBox(mechanismBoxHalfExtent, mechanismBoxHalfExtent)

	fixturedef := box2d.MakeB2FixtureDef()
	fixturedef.Shape = &shape
	fixturedef.Density = 1.0
	fixturedef.Friction = 0.3
	fixturedef.Restitution = 0.4
	fixturedef.Filter.CategoryBits = CollisionGroup.Robot
	fixturedef.Filter.MaskBits = utils.BuildTag(CollisionGroup.Robot, CollisionGroup.Wall)
	fixturedef.UserData = types.MakePhysicalBodyDescriptor(
		types.PhysicalBodyDescriptorType.Mechanism,
		robotID.String(),
		name,
	)

	var visual *VisualNode
	if visualEnabled {
		visual = NewVisualNode(name, spec.Color)
	} else {
		visual = NewPlaceholderNode(name)
	}
	visual.SetPosition(vector.MakeVector3(position.GetX(), 0, position.GetY()))

	mechanism := &Mechanism{
		name:       name,
		robotID:    robotID,
		channel:    spec.Channel,
		kind:       spec.Kind,
		bodydef:    bodydef,
		fixturedef: fixturedef,
		visual:     visual,
		children:   make([]SimObject, 0),
	}

	if spec.Kind == MechanismKindElevator {
		carriage := NewMechanismPart(name+"-carriage", robotID, position, spec.Color, visualEnabled)
		mechanism.children = append(mechanism.children, carriage)
		mechanism.visual.Attach(carriage.GetVisual())
	}

	return mechanism
}

// DeclaredSensorSpecs lists the sensors this mechanism needs on top of
// the robot spec's own. Channels are reused from the mechanism channel so
// controllers can pair them.
func (mechanism *Mechanism) DeclaredSensorSpecs() []SensorSpec {
	switch mechanism.kind {
	case MechanismKindIntake:
		return []SensorSpec{
			{Kind: SensorKindTouch, Channel: mechanism.channel},
		}
	case MechanismKindElevator:
		// The limit switch is purely logical; it never gets a body.
		return []SensorSpec{
			{Kind: SensorKindTouch, Channel: mechanism.channel, Virtual: true},
		}
	}

	return nil
}

func (mechanism *Mechanism) GetName() string {
	return mechanism.name
}

func (mechanism *Mechanism) GetChannel() int {
	return mechanism.channel
}

func (mechanism *Mechanism) GetKind() string {
	return mechanism.kind
}

func (mechanism *Mechanism) GetBodyDescription() *box2d.B2BodyDef {
	return &mechanism.bodydef
}

func (mechanism *Mechanism) GetFixtureDescription() *box2d.B2FixtureDef {
	return &mechanism.fixturedef
}

func (mechanism *Mechanism) GetBody() *box2d.B2Body {
	return mechanism.body
}

func (mechanism *Mechanism) SetBody(body *box2d.B2Body) {
	mechanism.body = body
}

func (mechanism *Mechanism) GetVisual() *VisualNode {
	return mechanism.visual
}

func (mechanism *Mechanism) Children() []SimObject {
	return mechanism.children
}

func (mechanism *Mechanism) GetOutput() bool {
	return mechanism.output
}

func (mechanism *Mechanism) SetOutput(value bool) {
	changed := mechanism.output != value
	mechanism.output = value

	if changed && mechanism.registry != nil {
		mechanism.registry.Publish(EventMechanismOutput, SensorEvent{
			RobotID: mechanism.robotID.String(),
			Channel: mechanism.channel,
			Kind:    mechanism.kind,
			Value:   value,
		})
	}
}

func (mechanism *Mechanism) RegisterWithEventSystem(registry *events.Registry) {
	mechanism.registry = registry
}

func (mechanism *Mechanism) Update(dtMs float64) {
	for _, child := range mechanism.children {
		child.Update(dtMs)
	}

	if mechanism.body == nil {
		return
	}

	syncVisualFromBody(mechanism.visual, mechanism.body)
}

// LinkJoints links every bodied grandchild to the mechanism's own body.
// Called by the aggregate after its own direct children are linked.
func (mechanism *Mechanism) LinkJoints(world *box2d.B2World) []box2d.B2JointInterface {
	utils.Assert(mechanism.body != nil, "cannot link joints: body not registered for "+mechanism.name)

	joints := make([]box2d.B2JointInterface, 0, len(mechanism.children))
	for _, child := range mechanism.children {
		if child.GetBody() == nil {
			continue
		}
		joints = append(joints, linkChild(world, mechanism.body, child))
	}

	return joints
}

// MechanismManager owns the robot's mechanisms and is the only sink for
// digital outputs.
type MechanismManager struct {
	mechanisms []*Mechanism
}

func NewMechanismManager(specs []MechanismSpec, robotID uuid.UUID, basePosition vector.Vector2, visualEnabled bool) *MechanismManager {
	mechanisms := make([]*Mechanism, 0, len(specs))
	for _, spec := range specs {
		mechanisms = append(mechanisms, NewMechanism(spec, robotID, basePosition, visualEnabled))
	}

	return &MechanismManager{
		mechanisms: mechanisms,
	}
}

func (manager *MechanismManager) Mechanisms() []*Mechanism {
	return manager.mechanisms
}

// DeclaredSensorSpecs aggregates the extra sensors every mechanism needs,
// in mechanism creation order.
func (manager *MechanismManager) DeclaredSensorSpecs() []SensorSpec {
	specs := make([]SensorSpec, 0)
	for _, mechanism := range manager.mechanisms {
		specs = append(specs, mechanism.DeclaredSensorSpecs()...)
	}

	return specs
}

func (manager *MechanismManager) SetDigitalOutput(channel int, value bool) {
	for _, mechanism := range manager.mechanisms {
		if mechanism.GetChannel() == channel {
			mechanism.SetOutput(value)
			return
		}
	}
}

func (manager *MechanismManager) RegisterWithEventSystem(registry *events.Registry) {
	for _, mechanism := range manager.mechanisms {
		mechanism.RegisterWithEventSystem(registry)
	}
}
