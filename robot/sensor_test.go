package robot

import (
	"testing"

	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils/vector"
	"github.com/Allegro-Leon-Li/SimulatorCore/events"
)

func TestBasicSensorManagerFoldsDeclaredSensorsFirst(t *testing.T) {
	robotID := uuid.NewV4()

	declared := []SensorSpec{
		{Kind: SensorKindTouch, Channel: 3},
	}
	specs := []SensorSpec{
		{Kind: SensorKindTouch, Channel: 5},
		{Kind: SensorKindDistance, Channel: 2},
		{Kind: SensorKindGyro, Channel: 0}, // complex; filtered out here
	}

	manager := NewBasicSensorManager(declared, specs, robotID, vector.MakeNullVector2(), true)

	names := make([]string, 0)
	for _, sensor := range manager.Sensors() {
		names = append(names, sensor.GetName())
	}

	assert.Equal(t, []string{
		"sensor-touch-3",
		"sensor-touch-5",
		"sensor-distance-2",
	}, names)
}

func TestVirtualSensorHasNoBodyDescription(t *testing.T) {
	sensor := NewBasicSensor(
		SensorSpec{Kind: SensorKindTouch, Channel: 1, Virtual: true},
		uuid.NewV4(),
		vector.MakeNullVector2(),
		true,
	)

	assert.Nil(t, sensor.GetBodyDescription())
	assert.Nil(t, sensor.GetFixtureDescription())
	assert.True(t, sensor.GetVisual().IsPlaceholder())
}

func TestBodiedSensorFixtureIsBox2DSensor(t *testing.T) {
	sensor := NewBasicSensor(
		SensorSpec{Kind: SensorKindTouch, Channel: 1},
		uuid.NewV4(),
		vector.MakeNullVector2(),
		true,
	)

	assert.NotNil(t, sensor.GetBodyDescription())
	assert.True(t, sensor.GetFixtureDescription().IsSensor)
}

func TestDigitalValueChangePublishesEvent(t *testing.T) {
	registry := events.NewRegistry("sensor-test")
	sensor := NewBasicSensor(
		SensorSpec{Kind: SensorKindTouch, Channel: 7},
		uuid.NewV4(),
		vector.MakeNullVector2(),
		true,
	)
	sensor.RegisterWithEventSystem(registry)

	received := make(chan interface{}, 1)
	registry.Subscribe(EventSensorDigital, received)
	defer registry.Unsubscribe(EventSensorDigital, received)

	sensor.SetDigitalValue(true)

	event := (<-received).(SensorEvent)
	assert.Equal(t, 7, event.Channel)
	assert.Equal(t, true, event.Value)

	// No change, no event.
	sensor.SetDigitalValue(true)
	assert.Empty(t, received)
}

func TestComplexValueChangePublishesEvent(t *testing.T) {
	registry := events.NewRegistry("complex-sensor-test")
	sensor := NewComplexSensor(
		SensorSpec{Kind: SensorKindGyro, Channel: 0},
		uuid.NewV4(),
		vector.MakeNullVector2(),
		true,
	)
	sensor.RegisterWithEventSystem(registry)

	received := make(chan interface{}, 1)
	registry.Subscribe(EventSensorComplex, received)
	defer registry.Unsubscribe(EventSensorComplex, received)

	sensor.SetValue(GyroReading{AngleDegrees: 90})

	event := (<-received).(SensorEvent)
	assert.Equal(t, 0, event.Channel)
	assert.Equal(t, GyroReading{AngleDegrees: 90}, event.Value)

	// No change, no event.
	sensor.SetValue(GyroReading{AngleDegrees: 90})
	assert.Empty(t, received)
}

func TestComplexSensorManagerValueShape(t *testing.T) {
	robotID := uuid.NewV4()
	specs := []SensorSpec{
		{Kind: SensorKindGyro, Channel: 0},
		{Kind: SensorKindColor, Channel: 1},
	}

	manager := NewComplexSensorManager(nil, specs, robotID, vector.MakeNullVector2(), true)

	_, isGyro := manager.GetValue(0, SensorKindGyro).(GyroReading)
	assert.True(t, isGyro)

	_, isColor := manager.GetValue(1, SensorKindColor).(ColorReading)
	assert.True(t, isColor)

	assert.Nil(t, manager.GetValue(0, SensorKindColor))
}

func TestGyroIsBodiless(t *testing.T) {
	sensor := NewComplexSensor(
		SensorSpec{Kind: SensorKindGyro, Channel: 0},
		uuid.NewV4(),
		vector.MakeNullVector2(),
		true,
	)

	assert.Nil(t, sensor.GetBodyDescription())
}
