package robot

import (
	"github.com/bytearena/box2d"
	uuid "github.com/satori/go.uuid"

	"github.com/Allegro-Leon-Li/SimulatorCore/common/types"
	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils"
	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils/number"
	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils/vector"
	"github.com/Allegro-Leon-Li/SimulatorCore/events"
)

// Robot is the composition root. It owns the whole sub-object tree in a
// fixed order (mechanisms, wheels, basic sensors, complex sensors),
// exposes the actuation/read API used by external controllers, drives the
// per-tick update and performs the one-shot joint-linking pass.
//
// Construction builds body/fixture descriptions only; instantiating world
// bodies from them is the external registration step's job. LinkJoints
// must run after registration and before the first tick.
type Robot struct {
	id   uuid.UUID
	name string
	spec *RobotSpec

	bodydef    box2d.B2BodyDef
	fixturedef box2d.B2FixtureDef
	body       *box2d.B2Body

	visual       *VisualNode
	customVisual bool

	drivetrain     *Drivetrain
	basicSensors   *BasicSensorManager
	complexSensors *ComplexSensorManager
	mechanisms     *MechanismManager

	children []SimObject

	linked bool
	joints []box2d.B2JointInterface
}

func NewRobot(spec *RobotSpec, visualEnabled bool) *Robot {
	id := uuid.NewV4()
	name := spec.Name
	if name == "" {
		name = "robot-" + id.String()[:8]
	}

	position := spec.InitialPosition()

	// 1. Own body/fixture descriptions from spec dimensions.
	bodydef := box2d.MakeB2BodyDef()
	bodydef.Type = box2d.B2BodyType.B2_dynamicBody
	bodydef.Position.Set(position.GetX(), position.GetY())
	bodydef.LinearDamping = 0.5
	bodydef.AngularDamping = 0.3

	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBox(spec.Dimensions.X/2, spec.Dimensions.Z/2)

	fixturedef := box2d.MakeB2FixtureDef()
	fixturedef.Shape = &shape
	fixturedef.Density = 1.0
	fixturedef.Friction = 0.3
	fixturedef.Restitution = 0.4
	fixturedef.Filter.CategoryBits = CollisionGroup.Robot
	fixturedef.Filter.MaskBits = utils.BuildTag(CollisionGroup.Robot, CollisionGroup.Wall)
	fixturedef.UserData = types.MakePhysicalBodyDescriptor(
		types.PhysicalBodyDescriptorType.Base,
		id.String(),
		"base",
	)

	customVisual := spec.CustomMesh != nil

	var visual *VisualNode
	if !visualEnabled {
		visual = NewPlaceholderNode(name)
	} else if customVisual {
		// The mesh arrives asynchronously; the placeholder root keeps the
		// transform tree live in the meantime.
		visual = NewPlaceholderNode(name)
	} else {
		visual = NewVisualNode(name, spec.GetBaseColor())
	}
	visual.SetPosition(vector.MakeVector3(position.GetX(), spec.Dimensions.Y/2, position.GetY()))

	// 2. Leaf managers. Each builds its own sub-objects' body/fixture
	// descriptions from spec alone; none of them needs the base body.
	mechanisms := NewMechanismManager(spec.Mechanisms, id, position, visualEnabled)
	declared := mechanisms.DeclaredSensorSpecs()
	basicSensors := NewBasicSensorManager(declared, spec.Sensors, id, position, visualEnabled)
	drivetrain := NewDrivetrain(spec.Wheels, id, position, visualEnabled)

	robot := &Robot{
		id:           id,
		name:         name,
		spec:         spec,
		bodydef:      bodydef,
		fixturedef:   fixturedef,
		visual:       visual,
		customVisual: customVisual,
		drivetrain:   drivetrain,
		basicSensors: basicSensors,
		mechanisms:   mechanisms,
		children:     make([]SimObject, 0),
	}

	clearance := drivetrain.MeshHeightOffset()

	// 3. Mechanisms first; procedural visuals are lifted to wheel height.
	for _, mechanism := range mechanisms.Mechanisms() {
		robot.addChild(mechanism)
		if !customVisual {
			mechanism.GetVisual().OffsetY(clearance)
		}
	}

	// 5. Wheels, then basic sensors, then complex sensors.
	for _, wheel := range drivetrain.Wheels() {
		robot.addChild(wheel)
	}

	for _, sensor := range basicSensors.Sensors() {
		robot.addChild(sensor)
		if !customVisual {
			sensor.GetVisual().OffsetY(clearance)
		}
	}

	complexSensors := NewComplexSensorManager(declared, spec.Sensors, id, position, visualEnabled)
	robot.complexSensors = complexSensors
	for _, sensor := range complexSensors.Sensors() {
		robot.addChild(sensor)
		if !customVisual {
			sensor.GetVisual().OffsetY(clearance)
		}
	}

	// 6. The base visual shares the same ground line as its children.
	if !customVisual {
		visual.OffsetY(clearance)
	} else if visualEnabled {
		loadMeshAsync(visual, *spec.CustomMesh, name)
	}

	return robot
}

func (robot *Robot) addChild(child SimObject) {
	robot.children = append(robot.children, child)
	robot.visual.Attach(child.GetVisual())
}

func (robot *Robot) GetID() uuid.UUID {
	return robot.id
}

func (robot *Robot) GetName() string {
	return robot.name
}

func (robot *Robot) GetSpec() *RobotSpec {
	return robot.spec
}

func (robot *Robot) GetBodyDescription() *box2d.B2BodyDef {
	return &robot.bodydef
}

func (robot *Robot) GetFixtureDescription() *box2d.B2FixtureDef {
	return &robot.fixturedef
}

func (robot *Robot) GetBody() *box2d.B2Body {
	return robot.body
}

func (robot *Robot) SetBody(body *box2d.B2Body) {
	robot.body = body
}

func (robot *Robot) GetVisual() *VisualNode {
	return robot.visual
}

func (robot *Robot) Children() []SimObject {
	return robot.children
}

func (robot *Robot) Drivetrain() *Drivetrain {
	return robot.drivetrain
}

// AllObjects flattens the sub-object tree (children and grandchildren) in
// tree order; used by the registration step to instantiate every body.
func (robot *Robot) AllObjects() []SimObject {
	objects := make([]SimObject, 0, len(robot.children))

	var walk func(object SimObject)
	walk = func(object SimObject) {
		objects = append(objects, object)
		for _, child := range object.Children() {
			walk(child)
		}
	}

	for _, child := range robot.children {
		walk(child)
	}

	return objects
}

// Update advances the robot by one tick. Order matters: motor forces
// first, then every child in fixed tree order, then the aggregate's own
// pose sync — so the base visual never lags its children by a tick.
func (robot *Robot) Update(dtMs float64) {
	robot.visual.FlushPending()

	robot.drivetrain.Update(dtMs)

	for _, child := range robot.children {
		// Wheels were already advanced by the drivetrain pass.
		if _, isWheel := child.(*Wheel); isWheel {
			continue
		}
		child.Update(dtMs)
	}

	robot.feedGyros()

	if robot.body != nil {
		syncVisualFromBody(robot.visual, robot.body)
	}
}

// SyncVisuals re-reads every bodied object's pose into its visual
// transform. The driver calls it after the physics solve, so no visual
// carries a pre-solve pose across a tick boundary.
func (robot *Robot) SyncVisuals() {
	for _, object := range robot.AllObjects() {
		if body := object.GetBody(); body != nil {
			syncVisualFromBody(object.GetVisual(), body)
		}
	}

	robot.feedGyros()

	if robot.body != nil {
		syncVisualFromBody(robot.visual, robot.body)
	}
}

// feedGyros derives bodiless gyro readings from the base body heading.
func (robot *Robot) feedGyros() {
	if robot.body == nil {
		return
	}

	for _, sensor := range robot.complexSensors.Sensors() {
		if sensor.GetKind() != SensorKindGyro || sensor.GetBody() != nil {
			continue
		}
		sensor.SetValue(GyroReading{
			AngleDegrees:      number.RadianToDegree(robot.body.GetAngle()),
			RateDegreesPerSec: number.RadianToDegree(robot.body.GetAngularVelocity()),
		})
	}
}

// LinkJoints creates one zero-travel sliding joint between the base body
// and every bodied sub-object, then recurses into each mechanism for its
// grandchildren. Callable exactly once, after every body has been
// registered with the world; both preconditions are fail-fast.
func (robot *Robot) LinkJoints(world *box2d.B2World) {
	utils.Assert(!robot.linked, "LinkJoints already ran for "+robot.name)
	utils.Assert(robot.body != nil, "cannot link joints: base body not registered for "+robot.name)

	robot.joints = make([]box2d.B2JointInterface, 0, len(robot.children))

	for _, child := range robot.children {
		if child.GetBody() == nil {
			// Purely logical sensors have no physical presence.
			continue
		}
		robot.joints = append(robot.joints, linkChild(world, robot.body, child))
	}

	for _, mechanism := range robot.mechanisms.Mechanisms() {
		robot.joints = append(robot.joints, mechanism.LinkJoints(world)...)
	}

	robot.linked = true
}

func (robot *Robot) IsLinked() bool {
	return robot.linked
}

func (robot *Robot) JointCount() int {
	return len(robot.joints)
}

// <Controller API>

func (robot *Robot) SetMotorPower(channel int, power float64) {
	robot.drivetrain.SetMotorPower(channel, power)
}

func (robot *Robot) GetDigitalInput(channel int) bool {
	return robot.basicSensors.GetDigitalInput(channel)
}

func (robot *Robot) GetAnalogInput(channel int) float64 {
	return robot.basicSensors.GetAnalogInput(channel)
}

func (robot *Robot) SetDigitalOutput(channel int, value bool) {
	robot.mechanisms.SetDigitalOutput(channel, value)
}

func (robot *Robot) GetComplexSensorValue(channel int, sensorKind string) interface{} {
	return robot.complexSensors.GetValue(channel, sensorKind)
}

// </Controller API>

func (robot *Robot) RegisterWithEventSystem(registry *events.Registry) {
	robot.basicSensors.RegisterWithEventSystem(registry)
	robot.complexSensors.RegisterWithEventSystem(registry)
	robot.mechanisms.RegisterWithEventSystem(registry)
}

func (robot *Robot) BasicSensors() *BasicSensorManager {
	return robot.basicSensors
}

func (robot *Robot) ComplexSensors() *ComplexSensorManager {
	return robot.complexSensors
}

func (robot *Robot) Mechanisms() *MechanismManager {
	return robot.mechanisms
}
