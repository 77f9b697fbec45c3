package robot

import (
	"encoding/json"
	"os"

	bettererrors "github.com/xtuc/better-errors"

	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils/vector"
)

const (
	DefaultWheelThickness = 0.15
	DefaultWheelColor     = "#000000"
	DefaultBaseColor      = "#00aa00"
)

// Sensor kinds understood by the managers. Touch and distance sensors are
// basic; gyro and color are complex (their read value is an opaque struct).
const (
	SensorKindTouch    = "touch"
	SensorKindDistance = "distance"
	SensorKindGyro     = "gyro"
	SensorKindColor    = "color"
)

const (
	MechanismKindIntake   = "intake"
	MechanismKindElevator = "elevator"
)

type DimensionSpec struct {
	X float64 `json:"x"` // width
	Y float64 `json:"y"` // height
	Z float64 `json:"z"` // depth
}

type PositionSpec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type MeshSpec struct {
	Path  string  `json:"path"`
	Scale float64 `json:"scale"`
}

type WheelSpec struct {
	Radius    float64       `json:"radius"`
	Thickness float64       `json:"thickness"` // defaulted to DefaultWheelThickness
	Color     string        `json:"color"`     // defaulted to DefaultWheelColor
	Position  *PositionSpec `json:"position"`  // local to the robot base; defaulted to (0, 0)
}

type SensorSpec struct {
	Kind     string        `json:"kind"`
	Channel  int           `json:"channel"`
	Virtual  bool          `json:"virtual"` // purely logical sensor, no physical body
	Range    float64       `json:"range"`   // distance sensors only
	Color    string        `json:"color"`
	Position *PositionSpec `json:"position"`
}

type MechanismSpec struct {
	Kind     string        `json:"kind"`
	Channel  int           `json:"channel"`
	Color    string        `json:"color"`
	Position *PositionSpec `json:"position"`
}

type RobotSpec struct {
	Name       string          `json:"name"`
	Dimensions DimensionSpec   `json:"dimensions"`
	Position   *PositionSpec   `json:"position"`
	BaseColor  string          `json:"baseColor"`
	CustomMesh *MeshSpec       `json:"customMesh"`
	Wheels     []WheelSpec     `json:"wheels"`
	Sensors    []SensorSpec    `json:"sensors"`
	Mechanisms []MechanismSpec `json:"mechanisms"`
}

func (spec RobotSpec) InitialPosition() vector.Vector2 {
	if spec.Position == nil {
		return vector.MakeNullVector2()
	}

	return vector.MakeVector2(spec.Position.X, spec.Position.Y)
}

func (spec RobotSpec) GetBaseColor() string {
	if spec.BaseColor == "" {
		return DefaultBaseColor
	}

	return spec.BaseColor
}

func (spec WheelSpec) GetThickness() float64 {
	if spec.Thickness == 0 {
		return DefaultWheelThickness
	}

	return spec.Thickness
}

func (spec WheelSpec) GetColor() string {
	if spec.Color == "" {
		return DefaultWheelColor
	}

	return spec.Color
}

func (spec WheelSpec) LocalPosition() vector.Vector2 {
	if spec.Position == nil {
		return vector.MakeNullVector2()
	}

	return vector.MakeVector2(spec.Position.X, spec.Position.Y)
}

func (spec SensorSpec) LocalPosition() vector.Vector2 {
	if spec.Position == nil {
		return vector.MakeNullVector2()
	}

	return vector.MakeVector2(spec.Position.X, spec.Position.Y)
}

func (spec MechanismSpec) LocalPosition() vector.Vector2 {
	if spec.Position == nil {
		return vector.MakeNullVector2()
	}

	return vector.MakeVector2(spec.Position.X, spec.Position.Y)
}

func IsComplexSensorKind(kind string) bool {
	return kind == SensorKindGyro || kind == SensorKindColor
}

func LoadSpecFile(path string) (*RobotSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, bettererrors.
			New("Could not read robot spec file").
			SetContext("path", path).
			With(bettererrors.NewFromErr(err))
	}

	var spec RobotSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, bettererrors.
			New("Could not parse robot spec file").
			SetContext("path", path).
			With(bettererrors.NewFromErr(err))
	}

	return &spec, nil
}
