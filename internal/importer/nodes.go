package importer

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"

	"github.com/Faultbox/wireview/pkg/scene"
)

// convertRoot builds the node tree of the default scene.
// A scene with a single root node keeps it as the tree root; otherwise a
// synthetic ROOT node parents all scene roots.
func (c *converter) convertRoot() error {
	roots := c.sceneRoots()
	if len(roots) == 1 {
		root, err := c.node(roots[0])
		if err != nil {
			return err
		}
		c.out.Root = root
		return nil
	}

	root := &scene.Node{Name: rootNodeName, Transform: mgl32.Ident4()}
	for _, ni := range roots {
		child, err := c.node(ni)
		if err != nil {
			return err
		}
		root.Children = append(root.Children, child)
	}
	c.out.Root = root
	return nil
}

// sceneRoots returns the root node indices of the default scene. Documents
// without scenes use every node that has no parent.
func (c *converter) sceneRoots() []int {
	if len(c.doc.Scenes) > 0 {
		si := 0
		if c.doc.Scene != nil && int(*c.doc.Scene) < len(c.doc.Scenes) {
			si = int(*c.doc.Scene)
		}
		var roots []int
		for _, n := range c.doc.Scenes[si].Nodes {
			roots = append(roots, int(n))
		}
		return roots
	}

	hasParent := make([]bool, len(c.doc.Nodes))
	for _, n := range c.doc.Nodes {
		for _, child := range n.Children {
			if int(child) < len(hasParent) {
				hasParent[child] = true
			}
		}
	}
	var roots []int
	for i, p := range hasParent {
		if !p {
			roots = append(roots, i)
		}
	}
	return roots
}

func (c *converter) node(i int) (*scene.Node, error) {
	if i < 0 || i >= len(c.doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", i)
	}
	if c.visiting[i] {
		return nil, fmt.Errorf("node %d is its own ancestor", i)
	}
	c.visiting[i] = true
	defer delete(c.visiting, i)

	gn := c.doc.Nodes[i]
	name := gn.Name
	if name == "" {
		name = fmt.Sprintf("node_%d", i)
	}
	n := &scene.Node{Name: name, Transform: nodeTransform(gn)}

	if gn.Mesh != nil {
		mi := int(*gn.Mesh)
		if mi >= len(c.meshSpans) {
			return nil, fmt.Errorf("node %d: mesh index %d out of range", i, mi)
		}
		span := c.meshSpans[mi]
		for k := 0; k < span.count; k++ {
			n.Meshes = append(n.Meshes, span.first+k)
		}
	}

	if gn.Camera != nil && int(*gn.Camera) < len(c.doc.Cameras) {
		c.out.Cameras = append(c.out.Cameras, convertCamera(c.doc.Cameras[*gn.Camera], name))
	}

	li, ok, err := nodeLight(gn)
	if err != nil {
		return nil, fmt.Errorf("node %d: %w", i, err)
	}
	if ok && li >= 0 && li < len(c.lights) {
		c.out.Lights = append(c.out.Lights, c.lights[li].toScene(name))
	}

	for _, child := range gn.Children {
		cn, err := c.node(int(child))
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, cn)
	}
	return n, nil
}

// nodeTransform returns the local transform of n: its matrix when one is
// given, otherwise translation * rotation * scale.
func nodeTransform(n *gltf.Node) mgl32.Mat4 {
	if n.Matrix != gltf.DefaultMatrix && n.Matrix != [16]float64{} {
		var m mgl32.Mat4
		for k, v := range n.Matrix {
			m[k] = float32(v)
		}
		return m
	}

	t := n.Translation
	s := n.Scale
	if s == [3]float64{} {
		s = [3]float64{1, 1, 1}
	}
	q := mgl32.QuatIdent()
	if r := n.Rotation; r != [4]float64{} {
		q = mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	}

	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(q.Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

// convertCamera places the camera at its node origin looking down -Z.
func convertCamera(gc *gltf.Camera, name string) *scene.Camera {
	cam := &scene.Camera{
		Name:   name,
		LookAt: mgl32.Vec3{0, 0, -1},
		Up:     mgl32.Vec3{0, 1, 0},
	}

	switch {
	case gc.Perspective != nil:
		p := gc.Perspective
		cam.ClipNear = float32(p.Znear)
		if p.Zfar != nil {
			cam.ClipFar = float32(*p.Zfar)
		}
		aspect := 1.0
		if p.AspectRatio != nil {
			aspect = *p.AspectRatio
		}
		cam.Aspect = float32(aspect)
		cam.HorizontalFOV = float32(2 * math.Atan(aspect*math.Tan(p.Yfov/2)))

	case gc.Orthographic != nil:
		o := gc.Orthographic
		if o.Ymag != 0 {
			cam.Aspect = float32(o.Xmag / o.Ymag)
		}
		cam.ClipNear = float32(o.Znear)
		cam.ClipFar = float32(o.Zfar)
	}
	return cam
}

// embeddedImage returns the texture for images stored inside the asset.
// Images referenced by an external file URI are not embedded.
func (c *converter) embeddedImage(img *gltf.Image) (*scene.Texture, bool) {
	if img.BufferView != nil {
		data, ok := c.bufferViewData(int(*img.BufferView))
		if !ok {
			return nil, false
		}
		return &scene.Texture{Width: len(data), Format: formatHint(img.MimeType), Data: data}, true
	}

	if !strings.HasPrefix(img.URI, "data:") {
		return nil, false
	}
	header, payload, ok := strings.Cut(img.URI, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, false
	}
	mime := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	return &scene.Texture{Width: len(data), Format: formatHint(mime), Data: data}, true
}

func (c *converter) bufferViewData(i int) ([]byte, bool) {
	if i < 0 || i >= len(c.doc.BufferViews) {
		return nil, false
	}
	bv := c.doc.BufferViews[i]
	if int(bv.Buffer) >= len(c.doc.Buffers) {
		return nil, false
	}
	data := c.doc.Buffers[bv.Buffer].Data
	start := int(bv.ByteOffset)
	end := start + int(bv.ByteLength)
	if start < 0 || end > len(data) || start > end {
		return nil, false
	}
	return data[start:end], true
}

// formatHint turns "image/png" into "png".
func formatHint(mime string) string {
	_, sub, ok := strings.Cut(mime, "/")
	if !ok {
		return mime
	}
	return sub
}
