package robot

import (
	uuid "github.com/satori/go.uuid"

	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils/vector"
)

// Drivetrain owns the robot's powered wheels. Wheel channels are assigned
// in spec order, starting at 0.
type Drivetrain struct {
	wheels []*Wheel
}

func NewDrivetrain(specs []WheelSpec, robotID uuid.UUID, basePosition vector.Vector2, visualEnabled bool) *Drivetrain {
	wheels := make([]*Wheel, 0, len(specs))
	for channel, spec := range specs {
		wheels = append(wheels, NewWheel(spec, robotID, basePosition, channel, visualEnabled))
	}

	return &Drivetrain{
		wheels: wheels,
	}
}

func (drivetrain *Drivetrain) Wheels() []*Wheel {
	return drivetrain.wheels
}

func (drivetrain *Drivetrain) SetMotorPower(channel int, power float64) {
	for _, wheel := range drivetrain.wheels {
		if wheel.GetChannel() == channel {
			wheel.SetActuation(power)
			return
		}
	}
}

// Update recomputes and applies every wheel's motor force, then lets each
// wheel resynchronize its visual from its body pose.
func (drivetrain *Drivetrain) Update(dtMs float64) {
	for _, wheel := range drivetrain.wheels {
		wheel.Update(dtMs)
	}
}

// MeshHeightOffset is the ground-clearance offset: the vertical distance
// used to align base, mechanism and sensor visuals with wheel contact
// height. It is the largest wheel radius, 0 when the robot has no wheels.
func (drivetrain *Drivetrain) MeshHeightOffset() float64 {
	offset := 0.0
	for _, wheel := range drivetrain.wheels {
		if wheel.GetRadius() > offset {
			offset = wheel.GetRadius()
		}
	}

	return offset
}
