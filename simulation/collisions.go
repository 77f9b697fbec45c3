package simulation

import (
	"github.com/bytearena/box2d"

	commontypes "github.com/Allegro-Leon-Li/SimulatorCore/common/types"
)

type collisionFilter struct { /* implements box2d.B2World.B2ContactFilterInterface */
	world *World
}

func (filter *collisionFilter) ShouldCollide(fixtureA *box2d.B2Fixture, fixtureB *box2d.B2Fixture) bool {
	descriptorA, ok := fixtureA.GetBody().GetUserData().(commontypes.PhysicalBodyDescriptor)
	if !ok {
		return false
	}

	descriptorB, ok := fixtureB.GetBody().GetUserData().(commontypes.PhysicalBodyDescriptor)
	if !ok {
		return false
	}

	// Sub-bodies of one robot are suspended from the same chassis and
	// overlap by construction; the joints, not contacts, constrain them.
	if descriptorA.RobotID != "" && descriptorA.RobotID == descriptorB.RobotID {
		return false
	}

	return true
}

func newCollisionFilter(world *World) *collisionFilter {
	return &collisionFilter{
		world: world,
	}
}

type collisionListener struct { /* implements box2d.B2World.B2ContactListenerInterface */
	world           *World
	begincollisions []box2d.B2ContactInterface
	endcollisions   []box2d.B2ContactInterface
}

func (listener *collisionListener) PopBeginCollisions() []box2d.B2ContactInterface {
	defer func() { listener.begincollisions = make([]box2d.B2ContactInterface, 0) }()
	return listener.begincollisions
}

func (listener *collisionListener) PopEndCollisions() []box2d.B2ContactInterface {
	defer func() { listener.endcollisions = make([]box2d.B2ContactInterface, 0) }()
	return listener.endcollisions
}

// Called when two fixtures begin to touch.
func (listener *collisionListener) BeginContact(contact box2d.B2ContactInterface) { // contact has to be backed by a pointer
	listener.begincollisions = append(listener.begincollisions, contact)
}

// Called when two fixtures cease to touch.
func (listener *collisionListener) EndContact(contact box2d.B2ContactInterface) { // contact has to be backed by a pointer
	listener.endcollisions = append(listener.endcollisions, contact)
}

func (listener *collisionListener) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) { // contact has to be backed by a pointer
}

func (listener *collisionListener) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) { // contact has to be backed by a pointer
}

func newCollisionListener(world *World) *collisionListener {
	return &collisionListener{
		world: world,
	}
}
