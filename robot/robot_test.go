package robot

import (
	"testing"

	"github.com/bytearena/box2d"
	"github.com/stretchr/testify/assert"
)

func makeFullSpec() *RobotSpec {
	return &RobotSpec{
		Name: "testbot",
		Dimensions: DimensionSpec{
			X: 0.6,
			Y: 0.2,
			Z: 0.8,
		},
		Position: &PositionSpec{X: 2, Y: 3},
		Wheels: []WheelSpec{
			{Radius: 0.5},
			{Radius: 0.5},
		},
		Sensors: []SensorSpec{
			{Kind: SensorKindTouch, Channel: 5},
			{Kind: SensorKindDistance, Channel: 2},
			{Kind: SensorKindGyro, Channel: 0},
			{Kind: SensorKindColor, Channel: 1},
		},
		Mechanisms: []MechanismSpec{
			{Kind: MechanismKindIntake, Channel: 3},
			{Kind: MechanismKindElevator, Channel: 4},
		},
	}
}

func registerRobot(world *box2d.B2World, r *Robot) {
	base := world.CreateBody(r.GetBodyDescription())
	base.CreateFixtureFromDef(r.GetFixtureDescription())
	base.SetUserData(r.GetFixtureDescription().UserData)
	r.SetBody(base)

	for _, object := range r.AllObjects() {
		registerTestBody(world, object)
	}
}

func childNames(r *Robot) []string {
	names := make([]string, 0, len(r.Children()))
	for _, child := range r.Children() {
		names = append(names, child.GetName())
	}
	return names
}

func TestConstructionOrderIsDeterministic(t *testing.T) {
	expected := []string{
		"mechanism-intake-3",
		"mechanism-elevator-4",
		"wheel-0",
		"wheel-1",
		// mechanism-declared sensors fold in before spec-declared ones
		"sensor-touch-3",
		"sensor-touch-4",
		"sensor-touch-5",
		"sensor-distance-2",
		"sensor-gyro-0",
		"sensor-color-1",
	}

	first := NewRobot(makeFullSpec(), true)
	second := NewRobot(makeFullSpec(), true)

	assert.Equal(t, expected, childNames(first))
	assert.Equal(t, childNames(first), childNames(second))
}

func TestLinkJointsCreatesOneJointPerBodiedChild(t *testing.T) {
	world := makeTestWorld()
	r := NewRobot(makeFullSpec(), true)
	registerRobot(world, r)

	r.LinkJoints(world)

	// Bodied direct children: 2 mechanisms, 2 wheels, intake touch
	// sensor, spec touch sensor, distance sensor, color sensor.
	// The elevator's virtual limit switch and the gyro are skipped.
	// Plus 1 grandchild joint for the elevator carriage.
	assert.True(t, r.IsLinked())
	assert.Equal(t, 9, r.JointCount())
}

func TestLinkJointsIsOneShot(t *testing.T) {
	world := makeTestWorld()
	r := NewRobot(makeFullSpec(), true)
	registerRobot(world, r)

	r.LinkJoints(world)

	assert.Panics(t, func() {
		r.LinkJoints(world)
	})
}

func TestLinkJointsRequiresRegisteredBodies(t *testing.T) {
	world := makeTestWorld()
	r := NewRobot(makeFullSpec(), true)

	// No registration step ran; the base body is missing.
	assert.Panics(t, func() {
		r.LinkJoints(world)
	})
}

func TestGroundClearanceOffsetIsConsistent(t *testing.T) {
	spec := makeFullSpec()
	r := NewRobot(spec, true)

	clearance := r.Drivetrain().MeshHeightOffset()
	assert.Equal(t, 0.5, clearance)

	// The base visual sits at half its height plus the clearance.
	assert.InDelta(t, spec.Dimensions.Y/2+clearance, r.GetVisual().GetPosition().GetY(), 1e-9)

	for _, mechanism := range r.Mechanisms().Mechanisms() {
		assert.InDelta(t, clearance, mechanism.GetVisual().GetPosition().GetY(), 1e-9)
	}
	for _, sensor := range r.BasicSensors().Sensors() {
		assert.InDelta(t, clearance, sensor.GetVisual().GetPosition().GetY(), 1e-9)
	}
	for _, sensor := range r.ComplexSensors().Sensors() {
		assert.InDelta(t, clearance, sensor.GetVisual().GetPosition().GetY(), 1e-9)
	}
}

func TestControllerAPITotality(t *testing.T) {
	r := NewRobot(makeFullSpec(), true)

	// Unknown channels read zero values, never panic.
	assert.False(t, r.GetDigitalInput(99))
	assert.Equal(t, 0.0, r.GetAnalogInput(99))
	assert.Nil(t, r.GetComplexSensorValue(99, SensorKindGyro))

	r.SetMotorPower(99, 1.0)
	r.SetDigitalOutput(99, true)
}

func TestGyroFollowsBaseHeading(t *testing.T) {
	world := makeTestWorld()
	r := NewRobot(makeFullSpec(), true)
	registerRobot(world, r)
	r.LinkJoints(world)

	r.GetBody().SetTransform(r.GetBody().GetPosition(), 1.5707963267948966)
	r.Update(16.0)

	reading, ok := r.GetComplexSensorValue(0, SensorKindGyro).(GyroReading)
	assert.True(t, ok)
	assert.InDelta(t, 90.0, reading.AngleDegrees, 1e-6)
}

func TestSyncVisualsRefreshesEveryBodiedObject(t *testing.T) {
	world := makeTestWorld()
	r := NewRobot(makeFullSpec(), true)
	registerRobot(world, r)
	r.LinkJoints(world)

	for _, object := range r.AllObjects() {
		if object.GetBody() != nil {
			object.GetBody().SetTransform(box2d.MakeB2Vec2(1, 2), 0.1)
		}
	}
	r.GetBody().SetTransform(box2d.MakeB2Vec2(1, 2), 0.1)

	r.SyncVisuals()

	for _, object := range r.AllObjects() {
		if object.GetBody() == nil {
			continue
		}
		visual := object.GetVisual()
		assert.InDelta(t, 1.0, visual.GetPosition().GetX(), 1e-9)
		assert.InDelta(t, 2.0, visual.GetPosition().GetZ(), 1e-9)
		assert.InDelta(t, -0.1, visual.GetYaw(), 1e-9)
	}

	assert.InDelta(t, 1.0, r.GetVisual().GetPosition().GetX(), 1e-9)
	assert.InDelta(t, 2.0, r.GetVisual().GetPosition().GetZ(), 1e-9)
}

func TestAggregatePoseSyncAfterUpdate(t *testing.T) {
	world := makeTestWorld()
	r := NewRobot(makeFullSpec(), true)
	registerRobot(world, r)
	r.LinkJoints(world)

	r.GetBody().SetTransform(box2d.MakeB2Vec2(7, -1), 0.2)
	r.Update(16.0)

	visual := r.GetVisual()
	assert.InDelta(t, 7.0, visual.GetPosition().GetX(), 1e-9)
	assert.InDelta(t, -1.0, visual.GetPosition().GetZ(), 1e-9)
	assert.InDelta(t, -0.2, visual.GetYaw(), 1e-9)
}
