package robot

import (
	"testing"

	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils/vector"
)

func TestMechanismDeclaredSensors(t *testing.T) {
	examples := []struct {
		Name     string
		Spec     MechanismSpec
		Declared []SensorSpec
	}{
		{
			Name: "intake declares a bodied touch sensor",
			Spec: MechanismSpec{Kind: MechanismKindIntake, Channel: 3},
			Declared: []SensorSpec{
				{Kind: SensorKindTouch, Channel: 3},
			},
		},
		{
			Name: "elevator declares a virtual limit switch",
			Spec: MechanismSpec{Kind: MechanismKindElevator, Channel: 4},
			Declared: []SensorSpec{
				{Kind: SensorKindTouch, Channel: 4, Virtual: true},
			},
		},
	}

	for _, example := range examples {
		t.Run(example.Name, func(t *testing.T) {
			mechanism := NewMechanism(example.Spec, uuid.NewV4(), vector.MakeNullVector2(), true)
			assert.Equal(t, example.Declared, mechanism.DeclaredSensorSpecs())
		})
	}
}

func TestElevatorOwnsCarriageGrandchild(t *testing.T) {
	mechanism := NewMechanism(
		MechanismSpec{Kind: MechanismKindElevator, Channel: 4},
		uuid.NewV4(),
		vector.MakeNullVector2(),
		true,
	)

	children := mechanism.Children()
	assert.Len(t, children, 1)
	assert.Equal(t, "mechanism-elevator-4-carriage", children[0].GetName())
	assert.NotNil(t, children[0].GetBodyDescription())
}

func TestMechanismLinkJointsLinksGrandchildren(t *testing.T) {
	world := makeTestWorld()
	mechanism := NewMechanism(
		MechanismSpec{Kind: MechanismKindElevator, Channel: 4},
		uuid.NewV4(),
		vector.MakeNullVector2(),
		true,
	)

	registerTestBody(world, mechanism)
	for _, child := range mechanism.Children() {
		registerTestBody(world, child)
	}

	joints := mechanism.LinkJoints(world)
	assert.Len(t, joints, 1)
}

func TestIntakeHasNoGrandchildren(t *testing.T) {
	mechanism := NewMechanism(
		MechanismSpec{Kind: MechanismKindIntake, Channel: 3},
		uuid.NewV4(),
		vector.MakeNullVector2(),
		true,
	)

	assert.Empty(t, mechanism.Children())
}
