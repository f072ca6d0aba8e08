// Package scenetest builds small in-memory scenes for tests.
package scenetest

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/wireview/pkg/scene"
)

// Tetrahedron returns a mesh with 4 vertices and 4 triangular faces.
func Tetrahedron(name string) *scene.Mesh {
	return &scene.Mesh{
		Name:          name,
		PrimitiveType: scene.PrimitiveTriangle,
		Positions: []mgl32.Vec3{
			{0, 0.5, 0},
			{-0.5, -0.5, 0.5},
			{0.5, -0.5, 0.5},
			{0, -0.5, -0.5},
		},
		Faces: []scene.Face{
			{Indices: []uint32{0, 1, 2}},
			{Indices: []uint32{0, 2, 3}},
			{Indices: []uint32{0, 3, 1}},
			{Indices: []uint32{1, 3, 2}},
		},
	}
}

// Triangle returns a single-triangle mesh.
func Triangle(name string) *scene.Mesh {
	return &scene.Mesh{
		Name:          name,
		PrimitiveType: scene.PrimitiveTriangle,
		Positions:     []mgl32.Vec3{{0, 0.5, 0}, {-0.5, -0.5, 0}, {0.5, -0.5, 0}},
		Faces:         []scene.Face{{Indices: []uint32{0, 1, 2}}},
	}
}

// Node returns a node with an identity transform.
func Node(name string, meshes []int, children ...*scene.Node) *scene.Node {
	return &scene.Node{
		Name:      name,
		Transform: mgl32.Ident4(),
		Meshes:    meshes,
		Children:  children,
	}
}

// SingleMesh is a root with one child that references one tetrahedron.
func SingleMesh() *scene.Scene {
	return &scene.Scene{
		Meshes: []*scene.Mesh{Tetrahedron("tetra")},
		Root:   Node("root", nil, Node("child", []int{0})),
	}
}

// EmptyRoot is a scene whose root has no children and no meshes.
func EmptyRoot() *scene.Scene {
	return &scene.Scene{Root: Node("root", nil)}
}
