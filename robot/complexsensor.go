package robot

import (
	"fmt"

	"github.com/bytearena/box2d"
	uuid "github.com/satori/go.uuid"

	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils/vector"
	"github.com/Allegro-Leon-Li/SimulatorCore/events"
)

// Complex sensor readings. The shape depends on the sensor kind and is
// opaque to the core; controllers cast the value themselves.
type GyroReading struct {
	AngleDegrees      float64
	RateDegreesPerSec float64
}

type ColorReading struct {
	R float64
	G float64
	B float64
}

// ComplexSensor carries a structured, kind-specific value. Gyros are
// purely logical (no body); color sensors face the field and carry one.
type ComplexSensor struct {
	name    string
	robotID uuid.UUID
	channel int
	kind    string

	bodydef    *box2d.B2BodyDef
	fixturedef *box2d.B2FixtureDef
	body       *box2d.B2Body
	visual     *VisualNode

	value interface{}

	registry *events.Registry
}

func NewComplexSensor(spec SensorSpec, robotID uuid.UUID, basePosition vector.Vector2, visualEnabled bool) *ComplexSensor {
	name := fmt.Sprintf("sensor-%s-%d", spec.Kind, spec.Channel)

	sensor := &ComplexSensor{
		name:    name,
		robotID: robotID,
		channel: spec.Channel,
		kind:    spec.Kind,
	}

	switch spec.Kind {
	case SensorKindGyro:
		sensor.value = GyroReading{}
	case SensorKindColor:
		sensor.value = ColorReading{}
	}

	bodiless := spec.Virtual || spec.Kind == SensorKindGyro
	if !bodiless {
		bodydef, fixturedef := makeSensorDescriptions(spec, robotID, basePosition, name)
		sensor.bodydef = &bodydef
		sensor.fixturedef = &fixturedef
	}

	if visualEnabled && !bodiless {
		sensor.visual = NewVisualNode(name, spec.Color)
	} else {
		sensor.visual = NewPlaceholderNode(name)
	}
	position := basePosition.Add(spec.LocalPosition())
	sensor.visual.SetPosition(vector.MakeVector3(position.GetX(), 0, position.GetY()))

	return sensor
}

func (sensor *ComplexSensor) GetName() string {
	return sensor.name
}

func (sensor *ComplexSensor) GetChannel() int {
	return sensor.channel
}

func (sensor *ComplexSensor) GetKind() string {
	return sensor.kind
}

func (sensor *ComplexSensor) GetBodyDescription() *box2d.B2BodyDef {
	return sensor.bodydef
}

func (sensor *ComplexSensor) GetFixtureDescription() *box2d.B2FixtureDef {
	return sensor.fixturedef
}

func (sensor *ComplexSensor) GetBody() *box2d.B2Body {
	return sensor.body
}

func (sensor *ComplexSensor) SetBody(body *box2d.B2Body) {
	sensor.body = body
}

func (sensor *ComplexSensor) GetVisual() *VisualNode {
	return sensor.visual
}

func (sensor *ComplexSensor) Children() []SimObject {
	return nil
}

func (sensor *ComplexSensor) GetValue() interface{} {
	return sensor.value
}

// SetValue stores the kind-specific reading, publishing on change. Every
// reading shape in use (GyroReading, ColorReading) is a comparable value.
func (sensor *ComplexSensor) SetValue(value interface{}) {
	changed := sensor.value != value
	sensor.value = value

	if changed && sensor.registry != nil {
		sensor.registry.Publish(EventSensorComplex, SensorEvent{
			RobotID: sensor.robotID.String(),
			Channel: sensor.channel,
			Kind:    sensor.kind,
			Value:   value,
		})
	}
}

func (sensor *ComplexSensor) RegisterWithEventSystem(registry *events.Registry) {
	sensor.registry = registry
}

func (sensor *ComplexSensor) Update(dtMs float64) {
	if sensor.body == nil {
		// Bodiless gyros are fed by the owning robot during its update.
		return
	}

	syncVisualFromBody(sensor.visual, sensor.body)
}

type ComplexSensorManager struct {
	sensors []*ComplexSensor
}

func NewComplexSensorManager(declared []SensorSpec, specs []SensorSpec, robotID uuid.UUID, basePosition vector.Vector2, visualEnabled bool) *ComplexSensorManager {
	manager := &ComplexSensorManager{
		sensors: make([]*ComplexSensor, 0, len(declared)+len(specs)),
	}

	for _, spec := range declared {
		if IsComplexSensorKind(spec.Kind) {
			manager.sensors = append(manager.sensors, NewComplexSensor(spec, robotID, basePosition, visualEnabled))
		}
	}
	for _, spec := range specs {
		if IsComplexSensorKind(spec.Kind) {
			manager.sensors = append(manager.sensors, NewComplexSensor(spec, robotID, basePosition, visualEnabled))
		}
	}

	return manager
}

func (manager *ComplexSensorManager) Sensors() []*ComplexSensor {
	return manager.sensors
}

// GetValue returns the current reading for the sensor on the given
// channel matching the given kind; nil when no such sensor exists.
func (manager *ComplexSensorManager) GetValue(channel int, kind string) interface{} {
	for _, sensor := range manager.sensors {
		if sensor.GetChannel() == channel && sensor.GetKind() == kind {
			return sensor.GetValue()
		}
	}

	return nil
}

func (manager *ComplexSensorManager) RegisterWithEventSystem(registry *events.Registry) {
	for _, sensor := range manager.sensors {
		sensor.RegisterWithEventSystem(registry)
	}
}
