package robot

import (
	"github.com/bytearena/box2d"

	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils"
)

// SimObject is implemented by every sub-object owned by a robot: wheels,
// sensors, mechanisms and mechanism parts. Body and fixture descriptions
// are pure accessors consumed once by the external registration step; the
// core never instantiates world bodies itself.
type SimObject interface {
	GetName() string
	GetBodyDescription() *box2d.B2BodyDef
	GetFixtureDescription() *box2d.B2FixtureDef
	GetBody() *box2d.B2Body
	SetBody(body *box2d.B2Body)
	GetVisual() *VisualNode
	Update(dtMs float64)
	Children() []SimObject
}

// Collision categories carried in every fixture filter.
var CollisionGroup = struct {
	Robot uint16
	Wall  uint16
}{
	Robot: 1 << 0,
	Wall:  1 << 1,
}

// forceEpsilon gates actuation: squared force lengths at or below this
// are not applied (pose sync still happens).
const forceEpsilon = 1e-3

// localForwardAxis is the push/slide axis of every sub-body, expressed in
// the body's local frame.
func localForwardAxis() box2d.B2Vec2 {
	return box2d.MakeB2Vec2(0, -1)
}

// syncVisualFromBody copies the authoritative physics pose into the visual
// transform. The 2D physics plane maps to the visual ground plane as
// (x, y) -> (x, z); the yaw sign flips because the physics plane is
// traversed with opposite handedness from the rendering convention.
func syncVisualFromBody(visual *VisualNode, body *box2d.B2Body) {
	pos := body.GetPosition()
	visual.SetPosition(visual.GetPosition().SetX(pos.X).SetZ(pos.Y))
	visual.SetYaw(-body.GetAngle())
}

// makeSlidingJointDef builds a zero-travel prismatic joint between the
// robot base and a sub-body, anchored at the sub-body's world center with
// the free axis along the sub-body's forward direction. Zero travel keeps
// the part suspended from the chassis while leaving the joint shape open
// for future tuning.
func makeSlidingJointDef(base *box2d.B2Body, child *box2d.B2Body) box2d.B2PrismaticJointDef {
	jointdef := box2d.MakeB2PrismaticJointDef()
	jointdef.Initialize(
		base,
		child,
		child.GetWorldCenter(),
		child.GetWorldVector(localForwardAxis()),
	)
	jointdef.EnableLimit = true
	jointdef.LowerTranslation = 0
	jointdef.UpperTranslation = 0
	return jointdef
}

// linkChild creates the single sliding joint for one bodied sub-object.
func linkChild(world *box2d.B2World, base *box2d.B2Body, child SimObject) box2d.B2JointInterface {
	body := child.GetBody()
	utils.Assert(body != nil, "cannot link joints: body not registered for "+child.GetName())

	jointdef := makeSlidingJointDef(base, body)
	return world.CreateJoint(&jointdef)
}
