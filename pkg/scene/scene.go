// Package scene provides the read-only scene graph produced by the asset importer.
//
// A Scene is built once by the importer and never mutated afterwards. Nodes
// reference meshes by index into Scene.Meshes; renderers keep their own
// per-mesh tables aligned with that slice.
package scene

import "github.com/go-gl/mathgl/mgl32"

// PrimitiveType tags the kind of primitives stored in a mesh.
type PrimitiveType int

const (
	PrimitiveUnknown PrimitiveType = iota
	PrimitivePoint
	PrimitiveLine
	PrimitiveTriangle
	PrimitivePolygon
)

// String returns the label used by the printer.
func (p PrimitiveType) String() string {
	switch p {
	case PrimitivePoint:
		return "point"
	case PrimitiveLine:
		return "line"
	case PrimitiveTriangle:
		return "triangle"
	case PrimitivePolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// Scene is an imported asset.
type Scene struct {
	Meshes        []*Mesh
	Materials     []*Material
	Lights        []*Light
	Cameras       []*Camera
	Textures      []*Texture
	HasAnimations bool
	Root          *Node
}

// Node is one element of the scene hierarchy.
type Node struct {
	Name string
	// Transform is the node transform relative to its parent.
	Transform mgl32.Mat4
	Children  []*Node
	// Meshes holds indices into Scene.Meshes.
	Meshes []int
}

// Face is an ordered tuple of vertex indices.
type Face struct {
	Indices []uint32
}

// Mesh is a batch of geometry sharing one material and primitive type.
type Mesh struct {
	Name          string
	PrimitiveType PrimitiveType
	MaterialIndex int
	Positions     []mgl32.Vec3
	Normals       []mgl32.Vec3
	// TexCoords holds one slice per UV channel; channel components are stored
	// as Vec3 with the unused component left at zero.
	TexCoords [][]mgl32.Vec3
	Faces     []Face
}

// HasPositions reports whether the mesh carries vertex positions.
func (m *Mesh) HasPositions() bool { return len(m.Positions) > 0 }

// HasFaces reports whether the mesh carries faces.
func (m *Mesh) HasFaces() bool { return len(m.Faces) > 0 }

// HasNormals reports whether the mesh carries per-vertex normals.
func (m *Mesh) HasNormals() bool { return len(m.Normals) > 0 }

// HasTexCoords reports whether UV channel ch is present.
func (m *Mesh) HasTexCoords(ch int) bool {
	return ch >= 0 && ch < len(m.TexCoords) && len(m.TexCoords[ch]) > 0
}

// NumVertices returns the vertex count.
func (m *Mesh) NumVertices() int { return len(m.Positions) }

// NumUVChannels returns the number of non-empty UV channels.
func (m *Mesh) NumUVChannels() int {
	n := 0
	for ch := range m.TexCoords {
		if m.HasTexCoords(ch) {
			n++
		}
	}
	return n
}

// IndexFanIn returns the index count of the first face, or 0 for a mesh without faces.
// Every face of an imported mesh has this arity.
func (m *Mesh) IndexFanIn() int {
	if len(m.Faces) == 0 {
		return 0
	}
	return len(m.Faces[0].Indices)
}

// Color3 is an RGB color.
type Color3 struct {
	R, G, B float32
}

// Material holds the shading attributes listed by the printer.
type Material struct {
	Name      string
	Ambient   Color3
	Diffuse   Color3
	Specular  Color3
	Emissive  Color3
	Shininess float32

	DiffuseTextures  []string
	SpecularTextures []string
	NormalTextures   []string
}

// LightType identifies a light source kind.
type LightType int

const (
	LightUndefined LightType = iota
	LightDirectional
	LightPoint
	LightSpot
)

// String returns the label used by the printer.
func (t LightType) String() string {
	switch t {
	case LightPoint:
		return "point light"
	case LightDirectional:
		return "directional light"
	case LightSpot:
		return "spotlight"
	default:
		return "unknown"
	}
}

// Light is a light source.
type Light struct {
	Name      string
	Type      LightType
	Position  mgl32.Vec3
	Direction mgl32.Vec3

	Ambient  Color3
	Diffuse  Color3
	Specular Color3

	AttenuationConstant  float32
	AttenuationLinear    float32
	AttenuationQuadratic float32

	// Cone angles in radians, spot lights only.
	InnerCone float32
	OuterCone float32
}

// Camera is a viewpoint defined in the local space of its node.
type Camera struct {
	Name     string
	Position mgl32.Vec3
	LookAt   mgl32.Vec3
	Up       mgl32.Vec3
	Aspect   float32
	// HorizontalFOV is the full horizontal field of view in radians.
	HorizontalFOV float32
	ClipNear      float32
	ClipFar       float32
}

// Matrix returns the camera matrix: the rotation into camera space followed by
// the translation that moves Position to the origin.
func (c *Camera) Matrix() mgl32.Mat4 {
	zaxis := c.LookAt.Normalize()
	yaxis := c.Up.Normalize()
	xaxis := c.Up.Cross(c.LookAt).Normalize()

	m := mgl32.Ident4()
	m.SetRow(0, mgl32.Vec4{xaxis.X(), xaxis.Y(), xaxis.Z(), -xaxis.Dot(c.Position)})
	m.SetRow(1, mgl32.Vec4{yaxis.X(), yaxis.Y(), yaxis.Z(), -yaxis.Dot(c.Position)})
	m.SetRow(2, mgl32.Vec4{zaxis.X(), zaxis.Y(), zaxis.Z(), -zaxis.Dot(c.Position)})
	m.SetRow(3, mgl32.Vec4{0, 0, 0, 1})
	return m
}

// Texture is an embedded texture. Compressed images have Height 0 and Width
// set to the payload size in bytes.
type Texture struct {
	Width  int
	Height int
	Format string
	Data   []byte
}

// Walk visits the node tree in pre-order, children in stored order.
// depth is 0 for the root. Nil children are passed to fn so callers can report them.
func (s *Scene) Walk(fn func(n *Node, depth int)) {
	if s == nil {
		return
	}
	type entry struct {
		node  *Node
		depth int
	}
	stack := []entry{{s.Root, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		fn(e.node, e.depth)
		if e.node == nil {
			continue
		}
		for i := len(e.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, entry{e.node.Children[i], e.depth + 1})
		}
	}
}
