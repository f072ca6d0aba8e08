package importer

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"

	"github.com/Faultbox/wireview/pkg/scene"
)

const lightsExtension = "KHR_lights_punctual"

// punctualLight mirrors one entry of the KHR_lights_punctual document extension.
type punctualLight struct {
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	Color     *[3]float32 `json:"color"`
	Intensity *float32    `json:"intensity"`
	Spot      *struct {
		InnerConeAngle *float32 `json:"innerConeAngle"`
		OuterConeAngle *float32 `json:"outerConeAngle"`
	} `json:"spot"`
}

// toScene converts the light as placed at the origin of the node named name,
// pointing down -Z.
func (p punctualLight) toScene(name string) *scene.Light {
	color := [3]float32{1, 1, 1}
	if p.Color != nil {
		color = *p.Color
	}
	intensity := float32(1)
	if p.Intensity != nil {
		intensity = *p.Intensity
	}
	lit := scene.Color3{R: color[0] * intensity, G: color[1] * intensity, B: color[2] * intensity}

	l := &scene.Light{
		Name:      name,
		Direction: mgl32.Vec3{0, 0, -1},
		Diffuse:   lit,
		Specular:  lit,
	}

	switch p.Type {
	case "directional":
		l.Type = scene.LightDirectional
	case "point":
		l.Type = scene.LightPoint
	case "spot":
		l.Type = scene.LightSpot
		l.InnerCone = 0
		l.OuterCone = mgl32.DegToRad(45)
		if p.Spot != nil {
			if p.Spot.InnerConeAngle != nil {
				l.InnerCone = *p.Spot.InnerConeAngle
			}
			if p.Spot.OuterConeAngle != nil {
				l.OuterCone = *p.Spot.OuterConeAngle
			}
		}
	}

	// Physically based lights fall off with the inverse square of the distance.
	if l.Type == scene.LightPoint || l.Type == scene.LightSpot {
		l.AttenuationQuadratic = 1
	}
	return l
}

// decodeExtension decodes the raw payload of extension name into v.
// It reports false when the extension is absent.
func decodeExtension(ext map[string]any, name string, v any) (bool, error) {
	raw, ok := ext[name]
	if !ok || raw == nil {
		return false, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return true, nil
}

func documentLights(doc *gltf.Document) ([]punctualLight, error) {
	var payload struct {
		Lights []punctualLight `json:"lights"`
	}
	if _, err := decodeExtension(doc.Extensions, lightsExtension, &payload); err != nil {
		return nil, err
	}
	return payload.Lights, nil
}

func nodeLight(n *gltf.Node) (int, bool, error) {
	var payload struct {
		Light *int `json:"light"`
	}
	ok, err := decodeExtension(n.Extensions, lightsExtension, &payload)
	if err != nil || !ok || payload.Light == nil {
		return 0, false, err
	}
	return *payload.Light, true, nil
}
