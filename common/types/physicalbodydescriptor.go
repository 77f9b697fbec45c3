package types

// PhysicalBodyDescriptor is set as UserData on Box2D fixtures so that
// contact callbacks outside the core can map a fixture back to its owning
// robot. It is a plain copyable value, never a reference into the robot
// object tree.
type PhysicalBodyDescriptor struct {
	Type     _physicaltype
	RobotID  string
	ObjectID string
}

type _physicaltype string

func (t _physicaltype) String() string {
	switch t {
	case PhysicalBodyDescriptorType.Base:
		return "Base"
	case PhysicalBodyDescriptorType.Wheel:
		return "Wheel"
	case PhysicalBodyDescriptorType.Sensor:
		return "Sensor"
	case PhysicalBodyDescriptorType.Mechanism:
		return "Mechanism"
	case PhysicalBodyDescriptorType.Wall:
		return "Wall"
	}

	return "UnknownType"
}

var PhysicalBodyDescriptorType = struct {
	Base      _physicaltype
	Wheel     _physicaltype
	Sensor    _physicaltype
	Mechanism _physicaltype
	Wall      _physicaltype
}{
	Base:      _physicaltype("b"),
	Wheel:     _physicaltype("w"),
	Sensor:    _physicaltype("s"),
	Mechanism: _physicaltype("m"),
	Wall:      _physicaltype("x"),
}

func MakePhysicalBodyDescriptor(type_ _physicaltype, robotid string, objectid string) PhysicalBodyDescriptor {
	return PhysicalBodyDescriptor{
		Type:     type_,
		RobotID:  robotid,
		ObjectID: objectid,
	}
}
