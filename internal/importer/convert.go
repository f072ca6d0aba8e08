package importer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/wireview/pkg/scene"
)

const (
	attrPosition = "POSITION"
	attrNormal   = "NORMAL"

	// maxUVChannels bounds the TEXCOORD_n attributes read per primitive.
	maxUVChannels = 8

	rootNodeName        = "ROOT"
	defaultMaterialName = "DefaultMaterial"
)

// converter turns one glTF document into a scene.Scene.
type converter struct {
	doc *gltf.Document
	out *scene.Scene

	// meshSpans maps a glTF mesh index to the range of scene meshes built from its primitives.
	meshSpans []meshSpan
	// embedded maps a glTF image index to its scene texture index.
	embedded map[int]int
	lights   []punctualLight
	visiting map[int]bool
}

type meshSpan struct {
	first, count int
}

// Convert builds a scene from an already parsed glTF document.
func Convert(doc *gltf.Document) (*scene.Scene, error) {
	c := &converter{
		doc:      doc,
		out:      &scene.Scene{},
		embedded: make(map[int]int),
		visiting: make(map[int]bool),
	}

	lights, err := documentLights(doc)
	if err != nil {
		return nil, err
	}
	c.lights = lights

	c.convertTextures()
	c.convertMaterials()
	if err := c.convertMeshes(); err != nil {
		return nil, err
	}
	if err := c.convertRoot(); err != nil {
		return nil, err
	}
	c.out.HasAnimations = len(doc.Animations) > 0

	return c.out, nil
}

func (c *converter) convertTextures() {
	for i, img := range c.doc.Images {
		tex, ok := c.embeddedImage(img)
		if !ok {
			continue
		}
		c.embedded[i] = len(c.out.Textures)
		c.out.Textures = append(c.out.Textures, tex)
	}
}

func (c *converter) convertMaterials() {
	for _, m := range c.doc.Materials {
		c.out.Materials = append(c.out.Materials, c.material(m))
	}
}

func (c *converter) material(m *gltf.Material) *scene.Material {
	out := &scene.Material{Name: m.Name}

	base := [4]float64{1, 1, 1, 1}
	roughness := 1.0
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			base = *pbr.BaseColorFactor
		}
		if pbr.RoughnessFactor != nil {
			roughness = *pbr.RoughnessFactor
		}
		if pbr.BaseColorTexture != nil {
			out.DiffuseTextures = c.appendTexturePath(out.DiffuseTextures, pbr.BaseColorTexture.Index)
		}
		if pbr.MetallicRoughnessTexture != nil {
			out.SpecularTextures = c.appendTexturePath(out.SpecularTextures, pbr.MetallicRoughnessTexture.Index)
		}
	}
	if m.NormalTexture != nil && m.NormalTexture.Index != nil {
		out.NormalTextures = c.appendTexturePath(out.NormalTextures, *m.NormalTexture.Index)
	}

	out.Diffuse = scene.Color3{R: float32(base[0]), G: float32(base[1]), B: float32(base[2])}
	out.Ambient = out.Diffuse
	e := m.EmissiveFactor
	out.Emissive = scene.Color3{R: float32(e[0]), G: float32(e[1]), B: float32(e[2])}
	out.Shininess = float32((1 - clamp01(roughness)) * 128)
	return out
}

// appendTexturePath resolves a texture index to a file path, or "*N" for embedded image N.
func (c *converter) appendTexturePath(paths []string, texIndex uint32) []string {
	if int(texIndex) >= len(c.doc.Textures) {
		return paths
	}
	source := c.doc.Textures[texIndex].Source
	if source == nil || int(*source) >= len(c.doc.Images) {
		return paths
	}
	src := int(*source)
	if n, ok := c.embedded[src]; ok {
		return append(paths, fmt.Sprintf("*%d", n))
	}
	return append(paths, c.doc.Images[src].URI)
}

func (c *converter) convertMeshes() error {
	defaultMaterial := -1
	materialFor := func(prim *gltf.Primitive) int {
		if prim.Material != nil && int(*prim.Material) < len(c.doc.Materials) {
			return int(*prim.Material)
		}
		if defaultMaterial < 0 {
			defaultMaterial = len(c.out.Materials)
			c.out.Materials = append(c.out.Materials, &scene.Material{
				Name:    defaultMaterialName,
				Diffuse: scene.Color3{R: 0.6, G: 0.6, B: 0.6},
			})
		}
		return defaultMaterial
	}

	c.meshSpans = make([]meshSpan, len(c.doc.Meshes))
	for mi, gm := range c.doc.Meshes {
		c.meshSpans[mi] = meshSpan{first: len(c.out.Meshes), count: len(gm.Primitives)}
		for pi, prim := range gm.Primitives {
			name := gm.Name
			if len(gm.Primitives) > 1 {
				name = fmt.Sprintf("%s-%d", gm.Name, pi)
			}
			m, err := c.primitive(prim, name)
			if err != nil {
				return fmt.Errorf("mesh %d (%q) primitive %d: %w", mi, gm.Name, pi, err)
			}
			m.MaterialIndex = materialFor(prim)
			c.out.Meshes = append(c.out.Meshes, m)
		}
	}
	return nil
}

func (c *converter) accessor(i uint32) (*gltf.Accessor, bool) {
	if int(i) >= len(c.doc.Accessors) {
		return nil, false
	}
	return c.doc.Accessors[i], true
}

func (c *converter) primitive(prim *gltf.Primitive, name string) (*scene.Mesh, error) {
	m := &scene.Mesh{Name: name}

	if acr, ok := c.attribute(prim, attrPosition); ok {
		pos, err := modeler.ReadPosition(c.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading positions: %w", err)
		}
		m.Positions = toVec3s(pos)
	}

	if acr, ok := c.attribute(prim, attrNormal); ok {
		nrm, err := modeler.ReadNormal(c.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
		if len(nrm) != len(m.Positions) {
			return nil, fmt.Errorf("%d normals for %d vertices", len(nrm), len(m.Positions))
		}
		m.Normals = toVec3s(nrm)
	}

	for ch := 0; ch < maxUVChannels; ch++ {
		attr := fmt.Sprintf("TEXCOORD_%d", ch)
		acr, ok := c.attribute(prim, attr)
		if !ok {
			break
		}
		uv, err := modeler.ReadTextureCoord(c.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", attr, err)
		}
		channel := make([]mgl32.Vec3, len(uv))
		for i, t := range uv {
			channel[i] = mgl32.Vec3{t[0], t[1], 0}
		}
		m.TexCoords = append(m.TexCoords, channel)
	}

	var indices []uint32
	if prim.Indices != nil {
		acr, ok := c.accessor(*prim.Indices)
		if !ok {
			return nil, fmt.Errorf("index accessor %d out of range", *prim.Indices)
		}
		idx, err := modeler.ReadIndices(c.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
		indices = idx
	} else {
		indices = make([]uint32, len(m.Positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	m.Faces, m.PrimitiveType = buildFaces(prim.Mode, indices)

	if m.HasPositions() {
		if err := validateFaces(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (c *converter) attribute(prim *gltf.Primitive, name string) (*gltf.Accessor, bool) {
	i, ok := prim.Attributes[name]
	if !ok {
		return nil, false
	}
	return c.accessor(i)
}

// buildFaces splits a primitive index stream into faces of uniform arity.
func buildFaces(mode gltf.PrimitiveMode, idx []uint32) ([]scene.Face, scene.PrimitiveType) {
	var faces []scene.Face
	face := func(v ...uint32) {
		faces = append(faces, scene.Face{Indices: v})
	}

	switch mode {
	case gltf.PrimitivePoints:
		for _, i := range idx {
			face(i)
		}
		return faces, scene.PrimitivePoint

	case gltf.PrimitiveLines:
		for i := 0; i+1 < len(idx); i += 2 {
			face(idx[i], idx[i+1])
		}
		return faces, scene.PrimitiveLine

	case gltf.PrimitiveLineStrip, gltf.PrimitiveLineLoop:
		for i := 0; i+1 < len(idx); i++ {
			face(idx[i], idx[i+1])
		}
		if mode == gltf.PrimitiveLineLoop && len(idx) > 2 {
			face(idx[len(idx)-1], idx[0])
		}
		return faces, scene.PrimitiveLine

	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(idx); i++ {
			// Odd triangles swap their first two vertices to keep the winding.
			if i%2 == 0 {
				face(idx[i], idx[i+1], idx[i+2])
			} else {
				face(idx[i+1], idx[i], idx[i+2])
			}
		}
		return faces, scene.PrimitiveTriangle

	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(idx); i++ {
			face(idx[0], idx[i], idx[i+1])
		}
		return faces, scene.PrimitiveTriangle

	default:
		for i := 0; i+2 < len(idx); i += 3 {
			face(idx[i], idx[i+1], idx[i+2])
		}
		return faces, scene.PrimitiveTriangle
	}
}

func validateFaces(m *scene.Mesh) error {
	n := uint32(m.NumVertices())
	for fi, f := range m.Faces {
		for _, v := range f.Indices {
			if v >= n {
				return fmt.Errorf("face %d: index %d out of range (%d vertices)", fi, v, n)
			}
		}
	}
	return nil
}

func toVec3s(in [][3]float32) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(in))
	for i, v := range in {
		out[i] = mgl32.Vec3(v)
	}
	return out
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
