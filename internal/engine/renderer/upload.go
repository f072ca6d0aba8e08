package renderer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/wireview/internal/engine/gpu"
	"github.com/Faultbox/wireview/internal/logger"
	"github.com/Faultbox/wireview/pkg/scene"
)

var (
	ErrMixedFaceArity      = errors.New("mesh has faces of different arity")
	ErrMeshIndexOutOfRange = errors.New("mesh index out of range")
)

// MeshHandle holds the GPU objects of one uploaded mesh.
type MeshHandle struct {
	VAO uint32
	// VBO and EBO are 0 when the mesh has no positions or no faces.
	VBO uint32
	EBO uint32
	// IndexCount is faces × fan-in.
	IndexCount int32
	FanIn      int
	Mode       gpu.Primitive
}

// MeshTable is indexed by scene mesh index.
type MeshTable []MeshHandle

// primitiveFor maps an index fan-in to a draw primitive.
func primitiveFor(fanIn int) gpu.Primitive {
	switch fanIn {
	case 1:
		return gpu.Points
	case 2:
		return gpu.Lines
	default:
		return gpu.Triangles
	}
}

// FlattenFaces concatenates the face index lists of m in face order then index
// order. It fails when a face's arity differs from the first face's.
func FlattenFaces(m *scene.Mesh) ([]uint32, error) {
	fanIn := m.IndexFanIn()
	if fanIn == 0 {
		return nil, nil
	}
	out := make([]uint32, 0, len(m.Faces)*fanIn)
	for i, f := range m.Faces {
		if len(f.Indices) != fanIn {
			return nil, fmt.Errorf("%w: face %d has %d indices, face 0 has %d",
				ErrMixedFaceArity, i, len(f.Indices), fanIn)
		}
		out = append(out, f.Indices...)
	}
	return out, nil
}

func flattenPositions(m *scene.Mesh) []float32 {
	out := make([]float32, 0, len(m.Positions)*3)
	for _, p := range m.Positions {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}

// Upload allocates one vertex array per mesh of s and fills its position and
// index buffers. Slot i of the returned table belongs to s.Meshes[i]. On error
// everything allocated so far is released.
func Upload(dev gpu.Device, s *scene.Scene, positionLoc uint32) (MeshTable, error) {
	if s == nil {
		return nil, nil
	}

	table := make(MeshTable, 0, len(s.Meshes))
	for i, m := range s.Meshes {
		h, err := uploadMesh(dev, m, positionLoc)
		if err != nil {
			table.Release(dev)
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		table = append(table, h)

		if m != nil && !m.HasPositions() {
			logger.Warn("mesh has no vertex positions", zap.Int("mesh", i))
		}
	}

	logger.Debug("meshes uploaded", zap.Int("count", len(table)))
	return table, nil
}

func uploadMesh(dev gpu.Device, m *scene.Mesh, positionLoc uint32) (MeshHandle, error) {
	var indices []uint32
	if m != nil {
		var err error
		if indices, err = FlattenFaces(m); err != nil {
			return MeshHandle{}, err
		}
	}

	h := MeshHandle{VAO: dev.GenVertexArray()}
	dev.BindVertexArray(h.VAO)

	if m != nil && m.HasPositions() {
		h.VBO = dev.GenBuffer()
		dev.BindBuffer(gpu.ArrayBuffer, h.VBO)
		dev.BufferFloats(gpu.ArrayBuffer, flattenPositions(m))
		dev.EnableVertexAttribArray(positionLoc)
		dev.VertexAttribPointer(positionLoc, 3)
	}

	if len(indices) > 0 {
		h.FanIn = m.IndexFanIn()
		h.IndexCount = int32(len(indices))
		h.Mode = primitiveFor(h.FanIn)
		h.EBO = dev.GenBuffer()
		dev.BindBuffer(gpu.ElementArrayBuffer, h.EBO)
		dev.BufferIndices(gpu.ElementArrayBuffer, indices)
	}

	// The vertex array goes first so unbinding the element buffer does not
	// detach it from the vertex array.
	dev.BindVertexArray(0)
	dev.BindBuffer(gpu.ArrayBuffer, 0)
	dev.BindBuffer(gpu.ElementArrayBuffer, 0)
	return h, nil
}

// Release deletes every GPU object in the table.
func (t MeshTable) Release(dev gpu.Device) {
	for _, h := range t {
		if h.EBO != 0 {
			dev.DeleteBuffer(h.EBO)
		}
		if h.VBO != 0 {
			dev.DeleteBuffer(h.VBO)
		}
		if h.VAO != 0 {
			dev.DeleteVertexArray(h.VAO)
		}
	}
}
