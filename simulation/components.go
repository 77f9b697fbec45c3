package simulation

import (
	"github.com/bytearena/box2d"

	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils/vector"
)

func (world *World) CastPhysicalBody(data interface{}) *PhysicalBody {
	return data.(*PhysicalBody)
}

func (world *World) CastRender(data interface{}) *Render {
	return data.(*Render)
}

type PhysicalBody struct {
	body *box2d.B2Body
}

func (p *PhysicalBody) GetBody() *box2d.B2Body {
	return p.body
}

func (p PhysicalBody) GetPosition() vector.Vector2 {
	v := p.body.GetPosition()
	return vector.MakeVector2(v.X, v.Y)
}

func (p PhysicalBody) GetVelocity() vector.Vector2 {
	v := p.body.GetLinearVelocity()
	return vector.MakeVector2(v.X, v.Y)
}

func (p PhysicalBody) GetOrientation() float64 {
	return p.body.GetAngle()
}

type Render struct {
	type_ string
	name  string
}

func (r Render) GetType() string {
	return r.type_
}

func (r Render) GetName() string {
	return r.name
}
