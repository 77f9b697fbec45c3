package robot

import (
	"sync"

	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils/vector"
)

// VisualNode is the renderer-agnostic visual representation of a sim
// object. The actual geometry lives in the rendering layer; the core only
// maintains the transform tree and resynchronizes it from the physics
// state every tick.
//
// Attach is for single-threaded construction; AttachDeferred may be called
// from a loader goroutine and is spliced into the tree at the start of the
// next tick (FlushPending), so the tick loop never races the loader.
type VisualNode struct {
	name        string
	color       string
	placeholder bool
	meshPath    string

	position vector.Vector3
	rotation vector.Vector3 // euler angles; Y is the yaw

	mutex    sync.Mutex
	children []*VisualNode
	pending  []*VisualNode
}

func NewVisualNode(name string, color string) *VisualNode {
	return &VisualNode{
		name:     name,
		color:    color,
		children: make([]*VisualNode, 0),
		pending:  make([]*VisualNode, 0),
	}
}

// NewPlaceholderNode builds an empty visual; the owning entity still
// participates fully in physics and the update loop.
func NewPlaceholderNode(name string) *VisualNode {
	node := NewVisualNode(name, "")
	node.placeholder = true
	return node
}

func (node *VisualNode) GetName() string {
	return node.name
}

func (node *VisualNode) GetColor() string {
	return node.color
}

func (node *VisualNode) IsPlaceholder() bool {
	return node.placeholder
}

func (node *VisualNode) GetMeshPath() string {
	return node.meshPath
}

func (node *VisualNode) GetPosition() vector.Vector3 {
	return node.position
}

func (node *VisualNode) SetPosition(position vector.Vector3) {
	node.position = position
}

// OffsetY shifts the node vertically; used to align visuals with the
// drivetrain ground clearance.
func (node *VisualNode) OffsetY(dy float64) {
	node.position = node.position.SetY(node.position.GetY() + dy)
}

func (node *VisualNode) GetRotation() vector.Vector3 {
	return node.rotation
}

func (node *VisualNode) SetRotation(rotation vector.Vector3) {
	node.rotation = rotation
}

func (node *VisualNode) GetYaw() float64 {
	return node.rotation.GetY()
}

func (node *VisualNode) SetYaw(yaw float64) {
	node.rotation = node.rotation.SetY(yaw)
}

func (node *VisualNode) Attach(child *VisualNode) {
	node.mutex.Lock()
	defer node.mutex.Unlock()
	node.children = append(node.children, child)
}

// AttachDeferred queues a child built outside the tick loop (mesh loader).
func (node *VisualNode) AttachDeferred(child *VisualNode) {
	node.mutex.Lock()
	defer node.mutex.Unlock()
	node.pending = append(node.pending, child)
}

// FlushPending splices deferred children into the live tree; called at the
// start of a tick, on the tick goroutine.
func (node *VisualNode) FlushPending() {
	node.mutex.Lock()
	if len(node.pending) > 0 {
		node.children = append(node.children, node.pending...)
		node.pending = make([]*VisualNode, 0)
	}
	children := node.children
	node.mutex.Unlock()

	for _, child := range children {
		child.FlushPending()
	}
}

func (node *VisualNode) GetChildren() []*VisualNode {
	node.mutex.Lock()
	defer node.mutex.Unlock()

	res := make([]*VisualNode, len(node.children))
	copy(res, node.children)
	return res
}
