package robot

import (
	"os"
	"path/filepath"

	"github.com/Allegro-Leon-Li/SimulatorCore/common/utils"
)

// loadMeshAsync fetches a custom mesh outside the tick loop. On success
// the mesh node is queued on the parent and spliced in at the start of the
// next tick; on failure we only log. The physics side never waits on this:
// bodies and fixtures are built from spec dimensions alone.
func loadMeshAsync(parent *VisualNode, spec MeshSpec, robotName string) {
	go func() {
		data, err := os.ReadFile(spec.Path)
		if err != nil {
			utils.DebugWith("mesh-loader", "Could not load custom mesh; keeping procedural visual", utils.Context{
				"robot": robotName,
				"path":  spec.Path,
				"error": err.Error(),
			})
			return
		}

		node := NewVisualNode("mesh:"+filepath.Base(spec.Path), "")
		node.meshPath = spec.Path

		utils.DebugWith("mesh-loader", "Custom mesh loaded", utils.Context{
			"robot": robotName,
			"path":  spec.Path,
			"bytes": len(data),
		})

		parent.AttachDeferred(node)
	}()
}
