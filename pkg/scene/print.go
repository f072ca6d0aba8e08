package scene

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// PrintMode selects how much of the scene Fprint writes.
type PrintMode int

const (
	// PrintSummary writes counts and top-level attributes only.
	PrintSummary PrintMode = iota
	// PrintDetail additionally lists every vertex, face, normal and texture coordinate.
	PrintDetail
)

// String returns the configuration name of the mode.
func (m PrintMode) String() string {
	if m == PrintDetail {
		return "detail"
	}
	return "summary"
}

// ParsePrintMode converts "summary" or "detail" to a PrintMode.
func ParsePrintMode(s string) (PrintMode, error) {
	switch strings.ToLower(s) {
	case "summary", "":
		return PrintSummary, nil
	case "detail":
		return PrintDetail, nil
	default:
		return PrintSummary, fmt.Errorf("unknown print mode %q", s)
	}
}

const indentUnit = "  "

// printer accumulates output and remembers the first write error.
type printer struct {
	w    *bufio.Writer
	mode PrintMode
	err  error
}

func (p *printer) linef(depth int, format string, args ...any) {
	if p.err != nil {
		return
	}
	if _, err := p.w.WriteString(strings.Repeat(indentUnit, depth)); err != nil {
		p.err = err
		return
	}
	if _, err := fmt.Fprintf(p.w, format, args...); err != nil {
		p.err = err
		return
	}
	if err := p.w.WriteByte('\n'); err != nil {
		p.err = err
	}
}

func (p *printer) blank() {
	p.linef(0, "")
}

func (p *printer) header(title string) {
	p.blank()
	p.linef(0, "---------- %s ----------", title)
}

// Fprint writes a human-readable dump of s to w.
// Sections are written in fixed order: node tree, meshes, materials, lights,
// cameras, embedded textures, animations.
func Fprint(w io.Writer, s *Scene, mode PrintMode) error {
	p := &printer{w: bufio.NewWriter(w), mode: mode}

	if s == nil {
		p.linef(0, "no scene loaded")
	} else {
		p.nodeTree(s)
		p.meshes(s)
		p.materials(s)
		p.lights(s)
		p.cameras(s)
		p.textures(s)
		p.animations(s)
	}

	if p.err != nil {
		return p.err
	}
	return p.w.Flush()
}

func (p *printer) vec3(depth int, name string, v mgl32.Vec3) {
	p.linef(depth, "%s %g %g %g", name, v.X(), v.Y(), v.Z())
}

func (p *printer) color(name string, c Color3) {
	p.linef(0, "%s {%g, %g, %g}", name, c.R, c.G, c.B)
}

func (p *printer) matrix(depth int, m mgl32.Mat4) {
	for row := 0; row < 4; row++ {
		r := m.Row(row)
		p.linef(depth, "%g, %g, %g, %g", r[0], r[1], r[2], r[3])
	}
}

func (p *printer) nodeTree(s *Scene) {
	p.header("Node Tree")
	if s.Root == nil {
		p.linef(0, "There is no root node in this scene")
		return
	}

	s.Walk(func(n *Node, depth int) {
		if n == nil {
			p.linef(depth, "node: <null>")
			return
		}
		line := "node: " + n.Name
		if len(n.Meshes) > 0 {
			refs := make([]string, len(n.Meshes))
			for i, idx := range n.Meshes {
				refs[i] = fmt.Sprintf("#%d", idx)
			}
			line += " (linked with mesh " + strings.Join(refs, " ") + ")"
		}
		p.linef(depth, "%s", line)
		p.linef(depth, "Transformation matrix")
		p.matrix(depth, n.Transform)
		p.blank()
	})
}

func (p *printer) meshes(s *Scene) {
	p.header("Meshes")
	p.linef(0, "Total number of meshes: %d", len(s.Meshes))
	if len(s.Meshes) == 0 {
		p.linef(0, "There is no mesh in this scene")
		return
	}
	p.blank()

	for i, m := range s.Meshes {
		p.linef(0, "Mesh #%d", i)
		if m == nil {
			p.linef(0, "mesh: <null>")
			p.blank()
			continue
		}
		p.linef(0, "Name %s", m.Name)
		p.linef(0, "This mesh has %d UV(Texture) channels.", m.NumUVChannels())
		p.linef(0, "This mesh is linked with material #%d", m.MaterialIndex)
		p.linef(0, "Primitive type %s", m.PrimitiveType)

		if m.HasPositions() {
			p.linef(0, "Number of vertex positions: %d", m.NumVertices())
			if p.mode == PrintDetail {
				for _, v := range m.Positions {
					p.linef(0, "\tvertex (%g, %g, %g)", v.X(), v.Y(), v.Z())
				}
			}
		} else {
			p.linef(0, "There is no vertex position in mesh #%d", i)
		}

		if m.HasFaces() {
			p.linef(0, "Number of faces: %d", len(m.Faces))
			if p.mode == PrintDetail {
				for j, f := range m.Faces {
					idx := make([]string, len(f.Indices))
					for k, v := range f.Indices {
						idx[k] = fmt.Sprint(v)
					}
					p.linef(0, "\tface #%d: %s", j, strings.Join(idx, ", "))
				}
			}
		} else {
			p.linef(0, "There is no face (element) in mesh #%d", i)
		}

		if m.HasNormals() {
			p.linef(0, "Number of normals: %d", len(m.Normals))
			if p.mode == PrintDetail {
				for _, n := range m.Normals {
					p.linef(0, "\tnormal (%g, %g, %g)", n.X(), n.Y(), n.Z())
				}
			}
		} else {
			p.linef(0, "There is no normal vectors in mesh #%d", i)
		}

		// Only the first UV channel is listed.
		if m.HasTexCoords(0) {
			p.linef(0, "Number of texture coordinates for UV(texture) channel 0: %d", len(m.TexCoords[0]))
			if p.mode == PrintDetail {
				for _, uv := range m.TexCoords[0] {
					p.linef(0, "\ttexture coordinates (%g, %g)", uv.X(), uv.Y())
				}
			}
		} else {
			p.linef(0, "There is no texture coordinate in mesh #%d", i)
		}
		p.blank()
	}
}

func (p *printer) textureList(label string, paths []string) {
	p.linef(0, "%s texture count %d", label, len(paths))
	for _, path := range paths {
		p.linef(0, "%s texture file: %s", label, path)
	}
}

func (p *printer) materials(s *Scene) {
	p.header("Materials")
	p.linef(0, "Total number of materials: %d", len(s.Materials))
	if len(s.Materials) == 0 {
		p.linef(0, "There is no material in this scene")
		return
	}
	p.blank()

	for i, m := range s.Materials {
		p.linef(0, "Material #%d", i)
		if m == nil {
			p.linef(0, "material: <null>")
			p.blank()
			continue
		}
		p.linef(0, "Name %s", m.Name)
		p.color("Ambient color", m.Ambient)
		p.color("Diffuse color", m.Diffuse)
		p.color("Specular color", m.Specular)
		p.linef(0, "Shininess %g", m.Shininess)
		p.color("Emissive color", m.Emissive)
		p.textureList("Diffuse", m.DiffuseTextures)
		p.textureList("Specular", m.SpecularTextures)
		p.textureList("Normal", m.NormalTextures)
		p.blank()
	}
}

func (p *printer) lights(s *Scene) {
	p.header("Lights")
	p.linef(0, "Total number of lights: %d", len(s.Lights))
	if len(s.Lights) == 0 {
		p.linef(0, "There is no light in this scene")
		return
	}
	p.blank()

	for i, l := range s.Lights {
		p.linef(0, "Light index: %d", i)
		if l == nil {
			p.linef(0, "light: <null>")
			p.blank()
			continue
		}
		p.linef(0, "Name: %s", l.Name)
		p.linef(0, "Type: %s", l.Type)

		positional := l.Type == LightPoint || l.Type == LightSpot
		if positional {
			p.vec3(0, "Position", l.Position)
		}
		if l.Type == LightDirectional || l.Type == LightSpot {
			p.vec3(0, "Direction", l.Direction)
		}

		p.linef(0, "Ambient color %g %g %g", l.Ambient.R, l.Ambient.G, l.Ambient.B)
		p.linef(0, "Diffuse color %g %g %g", l.Diffuse.R, l.Diffuse.G, l.Diffuse.B)
		p.linef(0, "Specular color %g %g %g", l.Specular.R, l.Specular.G, l.Specular.B)

		if positional {
			p.linef(0, "Constant attenuation %g", l.AttenuationConstant)
			p.linef(0, "Linear attenuation %g", l.AttenuationLinear)
			p.linef(0, "Quadratic attenuation %g", l.AttenuationQuadratic)
		}
		if l.Type == LightSpot {
			p.linef(0, "Inner cone angle %g", l.InnerCone)
			p.linef(0, "Outer cone angle %g", l.OuterCone)
		}
		p.blank()
	}
}

func (p *printer) cameras(s *Scene) {
	p.header("Cameras")
	p.linef(0, "Total number of cameras: %d", len(s.Cameras))
	if len(s.Cameras) == 0 {
		p.linef(0, "There is no camera in this scene")
		return
	}
	p.blank()

	for i, c := range s.Cameras {
		p.linef(0, "Camera index: %d", i)
		if c == nil {
			p.linef(0, "camera: <null>")
			p.blank()
			continue
		}
		p.linef(0, "Name: %s", c.Name)
		p.vec3(0, "Position", c.Position)
		p.vec3(0, "Look-at vector", c.LookAt)
		p.vec3(0, "Up vector", c.Up)
		p.linef(0, "Aspect ratio %g", c.Aspect)
		p.linef(0, "Horizontal field of view %g", c.HorizontalFOV)
		p.linef(0, "Near clip plane %g", c.ClipNear)
		p.linef(0, "Far clip plane %g", c.ClipFar)
		p.linef(0, "Camera matrix")
		p.matrix(0, c.Matrix())
		p.blank()
	}
}

func (p *printer) textures(s *Scene) {
	p.header("Embedded textures")
	p.linef(0, "Total number of embedded textures: %d", len(s.Textures))
	if len(s.Textures) == 0 {
		p.linef(0, "There is no embedded texture in this scene")
		return
	}
	p.blank()

	for i, t := range s.Textures {
		p.linef(0, "Texture #%d", i)
		if t == nil {
			p.linef(0, "texture: <null>")
			continue
		}
		p.linef(0, "Height %d", t.Height)
		p.linef(0, "Width %d", t.Width)
	}
}

func (p *printer) animations(s *Scene) {
	p.blank()
	if s.HasAnimations {
		p.linef(0, "Has animation")
	} else {
		p.linef(0, "There is no animation in this scene")
	}
}
