package robot

import (
	"fmt"
	"math"

	"github.com/bytearena/box2d"
	uuid "github.com/satori/go.uuid"

	"github.com/Allegro-Leon-Li/SimulatorCore/common/types"
	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils"
	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils/vector"
)

// Wheel is the actuated sub-body of the drivetrain. It owns one body and
// one fixture description, holds a single actuation scalar, and each tick
// converts that scalar into a world-space force applied at its center of
// mass before copying the body pose back into its visual transform.
type Wheel struct {
	name      string
	robotID   uuid.UUID
	channel   int
	radius    float64
	thickness float64

	bodydef    box2d.B2BodyDef
	fixturedef box2d.B2FixtureDef
	body       *box2d.B2Body

	actuation float64
	visual    *VisualNode
}

func NewWheel(spec WheelSpec, robotID uuid.UUID, basePosition vector.Vector2, channel int, visualEnabled bool) *Wheel {
	name := fmt.Sprintf("wheel-%d", channel)
	position := basePosition.Add(spec.LocalPosition())

	bodydef := box2d.MakeB2BodyDef()
	bodydef.Type = box2d.B2BodyType.B2_dynamicBody
	bodydef.Position.Set(position.GetX(), position.GetY())
	bodydef.LinearDamping = 0.5
	bodydef.AngularDamping = 0.3
	bodydef.Bullet = true

	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBox(spec.GetThickness()/2, spec.Radius)

	fixturedef := box2d.MakeB2FixtureDef()
	fixturedef.Shape = &shape
	fixturedef.Density = 1.0
	fixturedef.Friction = 0.3
	fixturedef.Restitution = 0.4
	fixturedef.IsSensor = false
	fixturedef.Filter.CategoryBits = CollisionGroup.Robot
	fixturedef.Filter.MaskBits = utils.BuildTag(CollisionGroup.Robot, CollisionGroup.Wall)
	fixturedef.UserData = types.MakePhysicalBodyDescriptor(
		types.PhysicalBodyDescriptorType.Wheel,
		robotID.String(),
		name,
	)

	var visual *VisualNode
	if visualEnabled {
		visual = NewVisualNode(name, spec.GetColor())
	} else {
		visual = NewPlaceholderNode(name)
	}
	visual.SetPosition(vector.MakeVector3(position.GetX(), spec.Radius, position.GetY()))
	// Rotate 90° about the spin axis so the rolling axis matches the
	// contact direction.
	visual.SetRotation(vector.MakeVector3(0, 0, math.Pi/2))

	return &Wheel{
		name:       name,
		robotID:    robotID,
		channel:    channel,
		radius:     spec.Radius,
		thickness:  spec.GetThickness(),
		bodydef:    bodydef,
		fixturedef: fixturedef,
		visual:     visual,
	}
}

func (wheel *Wheel) GetName() string {
	return wheel.name
}

func (wheel *Wheel) GetChannel() int {
	return wheel.channel
}

func (wheel *Wheel) GetRadius() float64 {
	return wheel.radius
}

func (wheel *Wheel) GetBodyDescription() *box2d.B2BodyDef {
	return &wheel.bodydef
}

func (wheel *Wheel) GetFixtureDescription() *box2d.B2FixtureDef {
	return &wheel.fixturedef
}

func (wheel *Wheel) GetBody() *box2d.B2Body {
	return wheel.body
}

func (wheel *Wheel) SetBody(body *box2d.B2Body) {
	wheel.body = body
}

func (wheel *Wheel) GetVisual() *VisualNode {
	return wheel.visual
}

func (wheel *Wheel) Children() []SimObject {
	return nil
}

// SetActuation stores the signed actuation input; any finite value is
// accepted, its magnitude is interpreted as a force scale.
func (wheel *Wheel) SetActuation(value float64) {
	wheel.actuation = value
}

func (wheel *Wheel) GetActuation() float64 {
	return wheel.actuation
}

// Update applies the actuation force for this tick, then resynchronizes
// the visual transform from the body pose. The pose read-back happens
// every tick regardless of actuation, since the solver may move the body
// through its joints alone.
func (wheel *Wheel) Update(dtMs float64) {
	if wheel.body == nil {
		return
	}

	force := wheel.body.GetWorldVector(localForwardAxis())
	force = box2d.B2Vec2MulScalar(wheel.actuation, force)

	if force.LengthSquared() > forceEpsilon {
		wheel.body.ApplyForce(force, wheel.body.GetWorldCenter(), true)
	}

	syncVisualFromBody(wheel.visual, wheel.body)
}
