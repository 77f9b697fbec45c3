package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Allegro-Leon-Li/SimulatorCore/events"
	"github.com/Allegro-Leon-Li/SimulatorCore/robot"
)

func makeTwoWheelSpec() *robot.RobotSpec {
	return &robot.RobotSpec{
		Name: "two-wheeler",
		Dimensions: robot.DimensionSpec{
			X: 0.6,
			Y: 0.2,
			Z: 0.8,
		},
		Position: &robot.PositionSpec{X: 2, Y: 3},
		Wheels: []robot.WheelSpec{
			{Radius: 0.5},
			{Radius: 0.5},
		},
	}
}

func TestAddRobotRegistersAndLinks(t *testing.T) {
	world := NewWorld(nil, 60)
	r := robot.NewRobot(makeTwoWheelSpec(), true)

	world.AddRobot(r)

	assert.NotNil(t, r.GetBody())
	assert.True(t, r.IsLinked())
	assert.Equal(t, 2, r.JointCount())

	for _, wheel := range r.Drivetrain().Wheels() {
		body := wheel.GetBody()
		assert.NotNil(t, body)
		assert.Equal(t, 2.0, body.GetPosition().X)
		assert.Equal(t, 3.0, body.GetPosition().Y)
	}
}

func TestTwoWheelScenario(t *testing.T) {
	world := NewWorld(nil, 60)
	r := robot.NewRobot(makeTwoWheelSpec(), true)
	world.AddRobot(r)

	r.SetMotorPower(0, 1.0)
	r.SetMotorPower(1, -1.0)

	dtMs := 1000.0 / 60.0

	// The robot update applies this tick's forces before the solve.
	r.Update(dtMs)

	wheel0 := r.Drivetrain().Wheels()[0].GetBody()
	wheel1 := r.Drivetrain().Wheels()[1].GetBody()

	assert.InDelta(t, -1.0, wheel0.M_force.Y, 1e-9)
	assert.InDelta(t, 1.0, wheel1.M_force.Y, 1e-9)

	world.GetPhysicalWorld().Step(dtMs/1000.0, 8, 3)

	// The next update resynchronizes every visual with the post-solve
	// pose, force or no force.
	r.Update(dtMs)

	for _, wheel := range r.Drivetrain().Wheels() {
		pos := wheel.GetBody().GetPosition()
		visual := wheel.GetVisual()
		assert.Equal(t, pos.X, visual.GetPosition().GetX())
		assert.Equal(t, pos.Y, visual.GetPosition().GetZ())
		assert.Equal(t, -wheel.GetBody().GetAngle(), visual.GetYaw())
	}
}

func TestVisualsCarryPostSolvePoseAfterStep(t *testing.T) {
	world := NewWorld(nil, 60)
	r := robot.NewRobot(makeTwoWheelSpec(), true)
	world.AddRobot(r)

	r.SetMotorPower(0, 5.0)
	r.SetMotorPower(1, 5.0)

	// A single driver tick: forces, solve, visual resync. The visuals
	// must match the bodies the solver just moved, with no extra update.
	world.Step(1000.0 / 60.0)

	base := r.GetBody()
	visual := r.GetVisual()
	assert.Equal(t, base.GetPosition().X, visual.GetPosition().GetX())
	assert.Equal(t, base.GetPosition().Y, visual.GetPosition().GetZ())
	assert.Equal(t, -base.GetAngle(), visual.GetYaw())

	for _, wheel := range r.Drivetrain().Wheels() {
		pos := wheel.GetBody().GetPosition()
		wheelvisual := wheel.GetVisual()
		assert.Equal(t, pos.X, wheelvisual.GetPosition().GetX())
		assert.Equal(t, pos.Y, wheelvisual.GetPosition().GetZ())
		assert.Equal(t, -wheel.GetBody().GetAngle(), wheelvisual.GetYaw())
	}
}

func TestFieldBoundaryAndFrame(t *testing.T) {
	world := NewWorld(nil, 60)
	world.CreateFieldBoundary(12, 6, 0.5)

	r := robot.NewRobot(makeTwoWheelSpec(), true)
	world.AddRobot(r)

	frame := world.Frame()
	// 4 walls + base + 2 wheels.
	assert.Len(t, frame.Objects, 7)
	assert.Equal(t, 0, frame.Tick)

	world.Step(1000.0 / 60.0)
	assert.Equal(t, 1, world.GetTick())
	assert.Equal(t, 1, world.Frame().Tick)
}

func TestStepPublishesFrames(t *testing.T) {
	registry := events.NewRegistry("world-test")
	world := NewWorld(registry, 60)
	r := robot.NewRobot(makeTwoWheelSpec(), true)
	world.AddRobot(r)

	framechan := make(chan interface{}, 1)
	registry.Subscribe(EventFrame, framechan)
	defer registry.Unsubscribe(EventFrame, framechan)

	world.Step(1000.0 / 60.0)

	frame := <-framechan
	assert.NotNil(t, frame)
}

func TestRobotByID(t *testing.T) {
	world := NewWorld(nil, 60)
	r := robot.NewRobot(makeTwoWheelSpec(), true)
	world.AddRobot(r)

	assert.Equal(t, r, world.RobotByID(r.GetID()))
}

func TestSameRobotFixturesDoNotCollide(t *testing.T) {
	world := NewWorld(nil, 60)
	r := robot.NewRobot(makeTwoWheelSpec(), true)
	world.AddRobot(r)

	filter := newCollisionFilter(world)

	base := r.GetBody().GetFixtureList()
	wheel := r.Drivetrain().Wheels()[0].GetBody().GetFixtureList()

	assert.False(t, filter.ShouldCollide(base, wheel))
}
