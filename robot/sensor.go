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

// Event names published by sensors and mechanisms on the registry.
const (
	EventSensorDigital   = "sensor:digital"
	EventSensorAnalog    = "sensor:analog"
	EventSensorComplex   = "sensor:complex"
	EventMechanismOutput = "mechanism:output"
)

type SensorEvent struct {
	RobotID string
	Channel int
	Kind    string
	Value   interface{}
}

const sensorBoxHalfExtent = 0.05

// makeSensorDescriptions builds the body/fixture pair shared by every
// physically present sensor: a small dynamic box flagged as a Box2D
// sensor so it reports contacts without colliding.
func makeSensorDescriptions(spec SensorSpec, robotID uuid.UUID, basePosition vector.Vector2, name string) (box2d.B2BodyDef, box2d.B2FixtureDef) {
	position := basePosition.Add(spec.LocalPosition())

	bodydef := box2d.MakeB2BodyDef()
	bodydef.Type = box2d.B2BodyType.B2_dynamicBody
	bodydef.Position.Set(position.GetX(), position.GetY())
	bodydef.LinearDamping = 0.5
	bodydef.AngularDamping = 0.3

	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBox(sensorBoxHalfExtent, sensorBoxHalfExtent)

	fixturedef := box2d.MakeB2FixtureDef()
	fixturedef.Shape = &shape
	fixturedef.Density = 1.0
	fixturedef.Friction = 0.3
	fixturedef.IsSensor = true
	fixturedef.Filter.CategoryBits = CollisionGroup.Robot
	fixturedef.Filter.MaskBits = utils.BuildTag(CollisionGroup.Robot, CollisionGroup.Wall)
	fixturedef.UserData = types.MakePhysicalBodyDescriptor(
		types.PhysicalBodyDescriptorType.Sensor,
		robotID.String(),
		name,
	)

	return bodydef, fixturedef
}

// BasicSensor is a digital (touch/limit) or analog (distance) input.
// Virtual sensors are purely logical: they have no physical body and are
// skipped at joint-linking time.
type BasicSensor struct {
	name    string
	robotID uuid.UUID
	channel int
	kind    string
	digital bool

	bodydef    *box2d.B2BodyDef
	fixturedef *box2d.B2FixtureDef
	body       *box2d.B2Body
	visual     *VisualNode

	digitalValue bool
	analogValue  float64

	registry *events.Registry
}

func NewBasicSensor(spec SensorSpec, robotID uuid.UUID, basePosition vector.Vector2, visualEnabled bool) *BasicSensor {
	name := fmt.Sprintf("sensor-%s-%d", spec.Kind, spec.Channel)

	sensor := &BasicSensor{
		name:    name,
		robotID: robotID,
		channel: spec.Channel,
		kind:    spec.Kind,
		digital: spec.Kind == SensorKindTouch,
	}

	if !spec.Virtual {
		bodydef, fixturedef := makeSensorDescriptions(spec, robotID, basePosition, name)
		sensor.bodydef = &bodydef
		sensor.fixturedef = &fixturedef
	}

	if visualEnabled && !spec.Virtual {
		sensor.visual = NewVisualNode(name, spec.Color)
	} else {
		sensor.visual = NewPlaceholderNode(name)
	}
	position := basePosition.Add(spec.LocalPosition())
	sensor.visual.SetPosition(vector.MakeVector3(position.GetX(), 0, position.GetY()))

	return sensor
}

func (sensor *BasicSensor) GetName() string {
	return sensor.name
}

func (sensor *BasicSensor) GetChannel() int {
	return sensor.channel
}

func (sensor *BasicSensor) GetKind() string {
	return sensor.kind
}

func (sensor *BasicSensor) IsDigital() bool {
	return sensor.digital
}

func (sensor *BasicSensor) GetBodyDescription() *box2d.B2BodyDef {
	return sensor.bodydef
}

func (sensor *BasicSensor) GetFixtureDescription() *box2d.B2FixtureDef {
	return sensor.fixturedef
}

func (sensor *BasicSensor) GetBody() *box2d.B2Body {
	return sensor.body
}

func (sensor *BasicSensor) SetBody(body *box2d.B2Body) {
	sensor.body = body
}

func (sensor *BasicSensor) GetVisual() *VisualNode {
	return sensor.visual
}

func (sensor *BasicSensor) Children() []SimObject {
	return nil
}

func (sensor *BasicSensor) GetDigitalValue() bool {
	return sensor.digitalValue
}

// SetDigitalValue is driven by collision callbacks outside the core.
func (sensor *BasicSensor) SetDigitalValue(value bool) {
	changed := sensor.digitalValue != value
	sensor.digitalValue = value

	if changed && sensor.registry != nil {
		sensor.registry.Publish(EventSensorDigital, SensorEvent{
			RobotID: sensor.robotID.String(),
			Channel: sensor.channel,
			Kind:    sensor.kind,
			Value:   value,
		})
	}
}

func (sensor *BasicSensor) GetAnalogValue() float64 {
	return sensor.analogValue
}

func (sensor *BasicSensor) SetAnalogValue(value float64) {
	changed := sensor.analogValue != value
	sensor.analogValue = value

	if changed && sensor.registry != nil {
		sensor.registry.Publish(EventSensorAnalog, SensorEvent{
			RobotID: sensor.robotID.String(),
			Channel: sensor.channel,
			Kind:    sensor.kind,
			Value:   value,
		})
	}
}

func (sensor *BasicSensor) RegisterWithEventSystem(registry *events.Registry) {
	sensor.registry = registry
}

func (sensor *BasicSensor) Update(dtMs float64) {
	if sensor.body == nil {
		return
	}

	syncVisualFromBody(sensor.visual, sensor.body)
}

// BasicSensorManager owns the robot's basic sensors. Mechanism-declared
// sensor specs are folded in before the spec-declared ones so that
// creation order is deterministic.
type BasicSensorManager struct {
	sensors []*BasicSensor
}

func NewBasicSensorManager(declared []SensorSpec, specs []SensorSpec, robotID uuid.UUID, basePosition vector.Vector2, visualEnabled bool) *BasicSensorManager {
	manager := &BasicSensorManager{
		sensors: make([]*BasicSensor, 0, len(declared)+len(specs)),
	}

	for _, spec := range declared {
		if !IsComplexSensorKind(spec.Kind) {
			manager.addFromSpec(spec, robotID, basePosition, visualEnabled)
		}
	}
	for _, spec := range specs {
		if !IsComplexSensorKind(spec.Kind) {
			manager.addFromSpec(spec, robotID, basePosition, visualEnabled)
		}
	}

	return manager
}

func (manager *BasicSensorManager) addFromSpec(spec SensorSpec, robotID uuid.UUID, basePosition vector.Vector2, visualEnabled bool) {
	manager.sensors = append(manager.sensors, NewBasicSensor(spec, robotID, basePosition, visualEnabled))
}

func (manager *BasicSensorManager) Sensors() []*BasicSensor {
	return manager.sensors
}

func (manager *BasicSensorManager) GetDigitalInput(channel int) bool {
	for _, sensor := range manager.sensors {
		if sensor.GetChannel() == channel && sensor.IsDigital() {
			return sensor.GetDigitalValue()
		}
	}

	return false
}

func (manager *BasicSensorManager) GetAnalogInput(channel int) float64 {
	for _, sensor := range manager.sensors {
		if sensor.GetChannel() == channel && !sensor.IsDigital() {
			return sensor.GetAnalogValue()
		}
	}

	return 0
}

func (manager *BasicSensorManager) RegisterWithEventSystem(registry *events.Registry) {
	for _, sensor := range manager.sensors {
		sensor.RegisterWithEventSystem(registry)
	}
}
