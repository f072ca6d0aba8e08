package renderer

import (
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/wireview/internal/engine/gpu"
	"github.com/Faultbox/wireview/internal/engine/gpu/gputest"
	"github.com/Faultbox/wireview/internal/logger"
	"github.com/Faultbox/wireview/pkg/scene"
	"github.com/Faultbox/wireview/pkg/scene/scenetest"
)

func newRenderer(t *testing.T, s *scene.Scene) (*Renderer, *gputest.Recorder) {
	t.Helper()
	dev := gputest.New()
	r, err := New(dev, DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := r.SetScene(s); err != nil {
		t.Fatalf("SetScene() error = %v", err)
	}
	dev.Reset()
	return r, dev
}

func TestNewSetsPipelineState(t *testing.T) {
	dev := gputest.New()
	r, err := New(dev, DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !dev.Wireframe || !dev.DepthTest {
		t.Errorf("wireframe = %v, depth test = %v", dev.Wireframe, dev.DepthTest)
	}
	if dev.ClearColor != (gpu.Color{1, 1, 1, 1}) {
		t.Errorf("clear color = %v, want white", dev.ClearColor)
	}
	if dev.ViewportWH != [2]int32{800, 600} {
		t.Errorf("viewport = %v", dev.ViewportWH)
	}
	if r.program.ID == 0 {
		t.Error("program not built")
	}
}

func TestNewShaderFailure(t *testing.T) {
	dev := gputest.New()
	dev.FailLink = true
	if _, err := New(dev, DefaultConfig()); err == nil {
		t.Fatal("New() should fail when the program does not link")
	}
}

func TestUploadSingleMesh(t *testing.T) {
	dev := gputest.New()
	s := scenetest.SingleMesh()

	table, err := Upload(dev, s, 0)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if len(table) != 1 {
		t.Fatalf("table length = %d, want 1", len(table))
	}
	h := table[0]
	if len(dev.VertexArrays) != 1 || dev.VertexArrays[h.VAO] == nil {
		t.Fatalf("expected one vertex array, got %v", dev.VertexArrays)
	}
	if got := len(dev.Floats[h.VBO]); got != 12 {
		t.Errorf("position floats = %d, want 12", got)
	}
	want := []uint32{0, 1, 2, 0, 2, 3, 0, 3, 1, 1, 3, 2}
	if got := dev.Indices[h.EBO]; !reflect.DeepEqual(got, want) {
		t.Errorf("indices = %v, want %v", got, want)
	}
	if h.IndexCount != 12 || h.FanIn != 3 || h.Mode != gpu.Triangles {
		t.Errorf("handle = %+v", h)
	}

	vao := dev.VertexArrays[h.VAO]
	if vao.ElementBuffer != h.EBO {
		t.Errorf("vertex array element buffer = %d, want %d", vao.ElementBuffer, h.EBO)
	}
	if vao.Attribs[0] != h.VBO || vao.Components[0] != 3 || !vao.Enabled[0] {
		t.Errorf("position attribute not bound: %+v", vao)
	}

	array, element := dev.BoundBuffers()
	if dev.BoundVertexArray() != 0 || array != 0 || element != 0 {
		t.Error("upload left objects bound")
	}
}

func TestUploadTableAlignment(t *testing.T) {
	dev := gputest.New()
	s := &scene.Scene{
		Meshes: []*scene.Mesh{
			scenetest.Tetrahedron("a"),
			scenetest.Triangle("b"),
			{Name: "empty"},
			scenetest.Tetrahedron("c"),
		},
		Root: scenetest.Node("root", []int{0, 1, 2, 3}),
	}

	table, err := Upload(dev, s, 0)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if len(table) != len(s.Meshes) {
		t.Fatalf("table length = %d, want %d", len(table), len(s.Meshes))
	}
	seen := make(map[uint32]bool)
	for i, h := range table {
		if h.VAO == 0 || dev.VertexArrays[h.VAO] == nil {
			t.Errorf("slot %d has no live vertex array", i)
		}
		if seen[h.VAO] {
			t.Errorf("slot %d reuses vertex array %d", i, h.VAO)
		}
		seen[h.VAO] = true

		m := s.Meshes[i]
		if want := int32(len(m.Faces) * m.IndexFanIn()); h.IndexCount != want {
			t.Errorf("slot %d index count = %d, want %d", i, h.IndexCount, want)
		}
	}
}

func TestUploadMissingPositions(t *testing.T) {
	dev := gputest.New()
	m := scenetest.Tetrahedron("nopos")
	m.Positions = nil
	s := &scene.Scene{
		Meshes: []*scene.Mesh{m},
		Root:   scenetest.Node("root", []int{0}),
	}

	table, err := Upload(dev, s, 0)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	h := table[0]
	if h.VAO == 0 || h.VBO != 0 {
		t.Errorf("handle = %+v, want vertex array without position buffer", h)
	}
	if len(dev.Indices[h.EBO]) != 12 {
		t.Errorf("index buffer length = %d, want 12", len(dev.Indices[h.EBO]))
	}
}

func TestUploadMixedArity(t *testing.T) {
	dev := gputest.New()
	m := scenetest.Tetrahedron("mixed")
	m.Faces[2].Indices = []uint32{0, 3}
	s := &scene.Scene{
		Meshes: []*scene.Mesh{scenetest.Triangle("ok"), m},
		Root:   scenetest.Node("root", []int{0, 1}),
	}

	_, err := Upload(dev, s, 0)
	if !errors.Is(err, ErrMixedFaceArity) {
		t.Fatalf("Upload() error = %v, want ErrMixedFaceArity", err)
	}
	// The first mesh's objects are released.
	if len(dev.CallsWithPrefix("DeleteVertexArray")) != 1 {
		t.Errorf("calls = %v", dev.Calls)
	}
}

func TestFlattenFaces(t *testing.T) {
	tests := []struct {
		name  string
		faces []scene.Face
		want  []uint32
	}{
		{"none", nil, nil},
		{"points", []scene.Face{{Indices: []uint32{4}}, {Indices: []uint32{2}}}, []uint32{4, 2}},
		{"lines", []scene.Face{{Indices: []uint32{0, 1}}, {Indices: []uint32{1, 2}}}, []uint32{0, 1, 1, 2}},
		{"quads", []scene.Face{{Indices: []uint32{0, 1, 2, 3}}}, []uint32{0, 1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FlattenFaces(&scene.Mesh{Faces: tt.faces})
			if err != nil {
				t.Fatalf("FlattenFaces() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FlattenFaces() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrimitiveFor(t *testing.T) {
	if primitiveFor(1) != gpu.Points || primitiveFor(2) != gpu.Lines || primitiveFor(3) != gpu.Triangles {
		t.Error("unexpected primitive mapping")
	}
}

func TestFrameEmptyRoot(t *testing.T) {
	r, dev := newRenderer(t, scenetest.EmptyRoot())

	if n := r.Frame(); n != 0 {
		t.Errorf("Frame() draws = %d, want 0", n)
	}
	if len(dev.Draws) != 0 {
		t.Errorf("recorded draws = %v", dev.Draws)
	}
	if dev.Clears != 1 {
		t.Errorf("clears = %d, want 1", dev.Clears)
	}
}

func TestFrameNilScene(t *testing.T) {
	r, dev := newRenderer(t, nil)

	if n := r.Frame(); n != 0 {
		t.Errorf("Frame() draws = %d, want 0", n)
	}
	if dev.Clears != 1 || dev.UsedProgram != r.program.ID {
		t.Error("frame should still clear and activate the program")
	}
}

func TestFrameSingleMesh(t *testing.T) {
	r, dev := newRenderer(t, scenetest.SingleMesh())

	for frame := 0; frame < 2; frame++ {
		dev.Reset()
		r.Frame()
		if len(dev.Draws) != 1 {
			t.Fatalf("frame %d: draws = %d, want 1", frame, len(dev.Draws))
		}
		d := dev.Draws[0]
		if d.Count != 12 || d.Offset != 0 || d.Mode != gpu.Triangles || d.VAO != r.table[0].VAO {
			t.Errorf("frame %d: draw = %+v", frame, d)
		}
	}
}

func TestFrameSharedMesh(t *testing.T) {
	s := &scene.Scene{
		Meshes: []*scene.Mesh{scenetest.Tetrahedron("shared")},
		Root: scenetest.Node("root", nil,
			scenetest.Node("left", []int{0}),
			scenetest.Node("right", []int{0}),
		),
	}
	r, dev := newRenderer(t, s)
	r.Frame()

	if len(dev.Draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(dev.Draws))
	}
	if dev.Draws[0].VAO != dev.Draws[1].VAO || dev.Draws[0].VAO != r.table[0].VAO {
		t.Errorf("draws = %+v", dev.Draws)
	}
}

func TestFrameMultiMeshNodeOrder(t *testing.T) {
	s := &scene.Scene{
		Meshes: []*scene.Mesh{
			scenetest.Tetrahedron("m0"),
			scenetest.Triangle("m1"),
			scenetest.Tetrahedron("m2"),
		},
		Root: scenetest.Node("root", nil, scenetest.Node("node", []int{2, 0, 1})),
	}
	r, dev := newRenderer(t, s)
	r.Frame()

	want := []uint32{r.table[2].VAO, r.table[0].VAO, r.table[1].VAO}
	var got []uint32
	for _, d := range dev.Draws {
		got = append(got, d.VAO)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("draw order = %v, want %v", got, want)
	}
	if dev.Draws[2].Count != 3 {
		t.Errorf("triangle draw count = %d, want 3", dev.Draws[2].Count)
	}
}

func TestFrameMissingPositionsStillDraws(t *testing.T) {
	m := scenetest.Tetrahedron("nopos")
	m.Positions = nil
	s := &scene.Scene{
		Meshes: []*scene.Mesh{m},
		Root:   scenetest.Node("root", []int{0}),
	}
	r, dev := newRenderer(t, s)
	r.Frame()

	if len(dev.Draws) != 1 || dev.Draws[0].Count != 12 {
		t.Errorf("draws = %+v, want one draw of 12 indices", dev.Draws)
	}
}

func TestFrameTraversalCoverage(t *testing.T) {
	s := &scene.Scene{
		Meshes: []*scene.Mesh{
			scenetest.Triangle("a"),
			scenetest.Triangle("b"),
			scenetest.Tetrahedron("c"),
		},
		Root: scenetest.Node("root", []int{1},
			scenetest.Node("n1", []int{0, 2},
				scenetest.Node("n1a", []int{1}),
			),
			scenetest.Node("n2", nil,
				scenetest.Node("n2a", []int{2, 2}),
			),
			scenetest.Node("n3", []int{0}),
		),
	}
	r, dev := newRenderer(t, s)
	n := r.Frame()

	// Reference pre-order recursion.
	var want []uint32
	total := 0
	var visit func(*scene.Node)
	visit = func(node *scene.Node) {
		for _, idx := range node.Meshes {
			want = append(want, r.table[idx].VAO)
			total++
		}
		for _, c := range node.Children {
			visit(c)
		}
	}
	visit(s.Root)

	var got []uint32
	for _, d := range dev.Draws {
		got = append(got, d.VAO)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("draw sequence = %v, want %v", got, want)
	}
	if n != total || len(dev.Draws) != total {
		t.Errorf("draw count = %d (recorded %d), want %d", n, len(dev.Draws), total)
	}
}

func TestFrameNullNodeAndBadIndex(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.Use(zap.New(core))
	defer logger.Use(zap.NewNop())

	s := &scene.Scene{
		Meshes: []*scene.Mesh{scenetest.Triangle("a")},
		Root: scenetest.Node("root", []int{0, 7},
			nil,
			scenetest.Node("after", []int{0}),
		),
	}
	r, dev := newRenderer(t, s)
	if n := r.Frame(); n != 2 {
		t.Errorf("Frame() draws = %d, want 2", n)
	}
	if len(dev.Draws) != 2 {
		t.Errorf("recorded draws = %d, want 2", len(dev.Draws))
	}
	if logs.FilterMessage("null node in scene graph, skipping subtree").Len() != 1 {
		t.Error("null node not reported")
	}
	if logs.FilterMessage("skipping mesh reference").Len() != 1 {
		t.Error("out of range mesh index not reported")
	}
}

func TestFrameLineMesh(t *testing.T) {
	lines := &scene.Mesh{
		Name:          "edges",
		PrimitiveType: scene.PrimitiveLine,
		Positions:     scenetest.Triangle("").Positions,
		Faces:         []scene.Face{{Indices: []uint32{0, 1}}, {Indices: []uint32{1, 2}}},
	}
	r, dev := newRenderer(t, &scene.Scene{
		Meshes: []*scene.Mesh{lines},
		Root:   scenetest.Node("root", []int{0}),
	})
	r.Frame()

	if len(dev.Draws) != 1 || dev.Draws[0].Mode != gpu.Lines || dev.Draws[0].Count != 4 {
		t.Errorf("draws = %+v", dev.Draws)
	}
}

func TestSetSceneReleasesPrevious(t *testing.T) {
	r, dev := newRenderer(t, scenetest.SingleMesh())
	old := r.Table()[0]

	if err := r.SetScene(scenetest.EmptyRoot()); err != nil {
		t.Fatalf("SetScene() error = %v", err)
	}
	if !dev.Deleted[old.VAO] || !dev.Deleted[old.VBO] || !dev.Deleted[old.EBO] {
		t.Error("previous mesh objects not deleted")
	}
	if len(r.Table()) != 0 {
		t.Errorf("table = %v, want empty", r.Table())
	}
}

func TestResizeAndClose(t *testing.T) {
	r, dev := newRenderer(t, scenetest.SingleMesh())

	r.Resize(1024, 768)
	if dev.ViewportWH != [2]int32{1024, 768} {
		t.Errorf("viewport = %v", dev.ViewportWH)
	}
	if w, h := r.Size(); w != 1024 || h != 768 {
		t.Errorf("Size() = %d, %d", w, h)
	}

	program := r.program.ID
	vao := r.table[0].VAO
	r.Close()
	if !dev.Deleted[program] || !dev.Deleted[vao] {
		t.Error("Close() did not release GPU objects")
	}
	if r.Frame() != 0 {
		t.Error("closed renderer should draw nothing")
	}
}

func TestCheckErrorsEachFrame(t *testing.T) {
	dev := gputest.New()
	cfg := DefaultConfig()
	cfg.CheckErrorsEachFrame = true
	r, err := New(dev, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	dev.PendingErrors = []uint32{0x0502}
	r.Frame()
	if len(dev.PendingErrors) != 0 {
		t.Error("frame errors not drained")
	}
}
