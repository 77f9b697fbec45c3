package types

import (
	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils/vector"
)

type VizMessage struct {
	Tick    int
	Objects []VizMessageObject
}

type VizMessageObject struct {
	Id          string
	Type        string
	Position    vector.Vector2
	Velocity    vector.Vector2
	Orientation float64
}
