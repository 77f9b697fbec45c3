package simulation

import (
	"sync"
	"time"

	"github.com/bytearena/box2d"
	"github.com/bytearena/ecs"
	uuid "github.com/satori/go.uuid"

	commontypes "github.com/Allegro-Leon-Li/SimulatorCore/common/types"
	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils"
	"github.com/Allegro-Leon-Li/SimulatorCore/events"
	"github.com/Allegro-Leon-Li/SimulatorCore/robot"
)

const (
	velocityIterations = 8
	positionIterations = 3
)

// EventFrame carries one viz frame per tick on the event registry.
const EventFrame = "viz:frame"

// World drives the simulation: it owns the Box2D world, registers robots
// (instantiating bodies from their body/fixture descriptions, then running
// the joint-linking pass) and steps everything from a single tick
// goroutine. The core performs no locking around ticks; correctness
// depends on this driver never re-entering Step concurrently.
type World struct {
	physicalWorld *box2d.B2World

	manager               *ecs.Manager
	physicalBodyComponent *ecs.Component
	renderComponent       *ecs.Component
	renderableView        *ecs.View

	robots      map[uuid.UUID]*robot.Robot
	robotsmutex *sync.Mutex

	collisionListener *collisionListener

	registry *events.Registry

	ticknum     int
	tickspersec int
	stopticking chan struct{}
}

func NewWorld(registry *events.Registry, tickspersec int) *World {
	manager := ecs.NewManager()

	world := &World{
		manager:               manager,
		physicalBodyComponent: manager.NewComponent(),
		renderComponent:       manager.NewComponent(),
		robots:                make(map[uuid.UUID]*robot.Robot),
		robotsmutex:           &sync.Mutex{},
		registry:              registry,
		tickspersec:           tickspersec,
		stopticking:           make(chan struct{}),
	}

	// The simulation is seen from the top; gravity is in the screen plane.
	gravity := box2d.MakeB2Vec2(0.0, 0.0)
	physicalWorld := box2d.MakeB2World(gravity)
	world.physicalWorld = &physicalWorld

	world.renderableView = manager.CreateView(
		world.renderComponent,
		world.physicalBodyComponent,
	)

	world.collisionListener = newCollisionListener(world)
	world.physicalWorld.SetContactListener(world.collisionListener)
	world.physicalWorld.SetContactFilter(newCollisionFilter(world))

	return world
}

func (world *World) GetPhysicalWorld() *box2d.B2World {
	return world.physicalWorld
}

func (world *World) GetTick() int {
	return world.ticknum
}

// CreateFieldBoundary surrounds the playing field with four static walls.
func (world *World) CreateFieldBoundary(halfWidth float64, halfDepth float64, thickness float64) {
	walls := []struct {
		name   string
		x, y   float64
		hx, hy float64
	}{
		{"wall-north", 0, halfDepth + thickness/2, halfWidth + thickness, thickness / 2},
		{"wall-south", 0, -halfDepth - thickness/2, halfWidth + thickness, thickness / 2},
		{"wall-east", halfWidth + thickness/2, 0, thickness / 2, halfDepth},
		{"wall-west", -halfWidth - thickness/2, 0, thickness / 2, halfDepth},
	}

	for _, wall := range walls {
		bodydef := box2d.MakeB2BodyDef()
		bodydef.Type = box2d.B2BodyType.B2_staticBody
		bodydef.Position.Set(wall.x, wall.y)

		body := world.physicalWorld.CreateBody(&bodydef)

		shape := box2d.MakeB2PolygonShape()
		shape.SetAsBox(wall.hx, wall.hy)

		fixturedef := box2d.MakeB2FixtureDef()
		fixturedef.Shape = &shape
		fixturedef.Density = 0.0
		fixturedef.Friction = 0.3
		fixturedef.Filter.CategoryBits = robot.CollisionGroup.Wall
		fixturedef.Filter.MaskBits = utils.BuildTag(robot.CollisionGroup.Robot, robot.CollisionGroup.Wall)

		descriptor := commontypes.MakePhysicalBodyDescriptor(
			commontypes.PhysicalBodyDescriptorType.Wall,
			"",
			wall.name,
		)
		fixturedef.UserData = descriptor

		body.CreateFixtureFromDef(&fixturedef)
		body.SetUserData(descriptor)

		world.trackBody(body, "wall", wall.name)
	}
}

func (world *World) trackBody(body *box2d.B2Body, type_ string, name string) {
	world.manager.NewEntity().
		AddComponent(world.physicalBodyComponent, &PhysicalBody{
			body: body,
		}).
		AddComponent(world.renderComponent, &Render{
			type_: type_,
			name:  name,
		})
}

// registerBody instantiates one world body from a sim object's
// descriptions and hands it back to the object. Objects without a body
// description are purely logical and register nothing.
func (world *World) registerBody(object robot.SimObject) {
	bodydef := object.GetBodyDescription()
	if bodydef == nil {
		return
	}

	body := world.physicalWorld.CreateBody(bodydef)

	fixturedef := object.GetFixtureDescription()
	body.CreateFixtureFromDef(fixturedef)
	body.SetUserData(fixturedef.UserData)

	object.SetBody(body)

	descriptor := fixturedef.UserData.(commontypes.PhysicalBodyDescriptor)
	world.trackBody(body, descriptor.Type.String(), descriptor.ObjectID)
}

// AddRobot registers the robot's base and every sub-object with the
// physics world, then runs the one-shot joint-linking pass. Must not be
// called while ticking.
func (world *World) AddRobot(r *robot.Robot) {
	world.robotsmutex.Lock()
	defer world.robotsmutex.Unlock()

	base := world.physicalWorld.CreateBody(r.GetBodyDescription())
	basefixture := r.GetFixtureDescription()
	base.CreateFixtureFromDef(basefixture)
	base.SetUserData(basefixture.UserData)
	r.SetBody(base)
	world.trackBody(base, "robot", r.GetName())

	for _, object := range r.AllObjects() {
		world.registerBody(object)
	}

	r.LinkJoints(world.physicalWorld)

	if world.registry != nil {
		r.RegisterWithEventSystem(world.registry)
	}

	world.robots[r.GetID()] = r

	utils.DebugWith("simulation", "Robot registered", utils.Context{
		"robot":  r.GetName(),
		"joints": r.JointCount(),
	})
}

func (world *World) RobotByID(id uuid.UUID) *robot.Robot {
	world.robotsmutex.Lock()
	defer world.robotsmutex.Unlock()
	return world.robots[id]
}

func (world *World) robotByIDString(id string) *robot.Robot {
	parsed, err := uuid.FromString(id)
	if err != nil {
		return nil
	}

	return world.robots[parsed]
}

// Step advances the simulation by dtMs milliseconds: robot updates first
// (this tick's forces), then the physics solve, then a visual resync so
// every transform carries the post-solve pose, then collision-driven
// sensor state. Runs to completion synchronously; never re-entered.
func (world *World) Step(dtMs float64) {
	world.ticknum++

	for _, r := range world.robots {
		r.Update(dtMs)
	}

	world.physicalWorld.Step(dtMs/1000.0, velocityIterations, positionIterations)

	for _, r := range world.robots {
		r.SyncVisuals()
	}

	world.processCollisions()

	if world.registry != nil {
		world.registry.Publish(EventFrame, world.Frame())
	}
}

// processCollisions maps contacts back to robots through the fixture
// user-data descriptors and drives touch sensor state.
func (world *World) processCollisions() {
	for _, contact := range world.collisionListener.PopBeginCollisions() {
		world.applySensorContact(contact, true)
	}
	for _, contact := range world.collisionListener.PopEndCollisions() {
		world.applySensorContact(contact, false)
	}
}

func (world *World) applySensorContact(contact box2d.B2ContactInterface, touching bool) {
	descriptors := []interface{}{
		contact.GetFixtureA().GetBody().GetUserData(),
		contact.GetFixtureB().GetBody().GetUserData(),
	}

	for _, data := range descriptors {
		descriptor, ok := data.(commontypes.PhysicalBodyDescriptor)
		if !ok || descriptor.Type != commontypes.PhysicalBodyDescriptorType.Sensor {
			continue
		}

		r := world.robotByIDString(descriptor.RobotID)
		if r == nil {
			continue
		}

		for _, sensor := range r.BasicSensors().Sensors() {
			if sensor.GetName() == descriptor.ObjectID && sensor.IsDigital() {
				sensor.SetDigitalValue(touching)
			}
		}
	}
}

// Frame builds the viz message for the current tick from the render view.
func (world *World) Frame() commontypes.VizMessage {
	msg := commontypes.VizMessage{
		Tick:    world.ticknum,
		Objects: []commontypes.VizMessageObject{},
	}

	for _, entityresult := range world.renderableView.Get() {
		renderAspect := world.CastRender(entityresult.Components[world.renderComponent])
		physicalAspect := world.CastPhysicalBody(entityresult.Components[world.physicalBodyComponent])

		msg.Objects = append(msg.Objects, commontypes.VizMessageObject{
			Id:          renderAspect.GetName(),
			Type:        renderAspect.GetType(),
			Position:    physicalAspect.GetPosition(),
			Velocity:    physicalAspect.GetVelocity(),
			Orientation: physicalAspect.GetOrientation(),
		})
	}

	return msg
}

// StartTicking runs the cooperative tick loop until Stop is called. One
// tick executes to completion before the next begins.
func (world *World) StartTicking() {
	go func() {
		tickduration := time.Duration((1000000 / time.Duration(world.tickspersec)) * time.Microsecond)
		dtMs := 1000.0 / float64(world.tickspersec)
		ticker := time.Tick(tickduration)

		for {
			select {
			case <-world.stopticking:
				utils.Debug("simulation", "Received stop ticking signal")
				return
			case <-ticker:
				world.Step(dtMs)
			}
		}
	}()
}

func (world *World) Stop() {
	close(world.stopticking)
}
