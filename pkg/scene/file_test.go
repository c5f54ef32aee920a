package scene

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    render.Color
		wantErr bool
	}{
		{"30,30,40", render.RGB(30, 30, 40), false},
		{" 255, 0 ,7 ", render.RGB(255, 0, 7), false},
		{"256,0,0", render.Color{}, true},
		{"1,2", render.Color{}, true},
		{"a,b,c", render.Color{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseColor(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidColor) {
					t.Errorf("err = %v, want ErrInvalidColor", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("got %v, %v; want %v", got, err, tc.want)
			}
		})
	}
}

func TestParseDefaults(t *testing.T) {
	f, err := Parse([]byte(`
[[object]]
shape = "cube"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s, err := f.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if s.Settings.Width != 160 || s.Settings.Height != 90 {
		t.Errorf("size = %dx%d", s.Settings.Width, s.Settings.Height)
	}
	if s.Settings.Background != render.RGB(30, 30, 40) {
		t.Errorf("background = %v", s.Settings.Background)
	}
	if !s.Settings.Clip || !s.Settings.BackfaceCulling || s.Settings.Wireframe {
		t.Errorf("flags = %+v", s.Settings)
	}
	if s.Camera.Position() != math3d.V3(0, 0, 5) {
		t.Errorf("camera at %v", s.Camera.Position())
	}
	if math.Abs(s.Camera.FOV()-math.Pi/3) > 1e-12 {
		t.Errorf("fov = %v", s.Camera.FOV())
	}
	if vp := s.Camera.Viewport(); vp.X != 1 || math.Abs(vp.Y-90.0/160) > 1e-12 {
		t.Errorf("viewport = %v", vp)
	}
	if s.Arena.Len() != 1 {
		t.Errorf("%d objects", s.Arena.Len())
	}
}

func TestParseFull(t *testing.T) {
	f, err := Parse([]byte(`
[camera]
position = [0, 0, 10]
look_at = [0, 0, 0]
fov = 90
near = 0.5
far = 50
viewport = [2, 1]

[render]
width = 64
height = 32
background = "1,2,3"
light_dir = [0, 0, -2]
ambient = 0.25
wireframe = true
no_clip = true
disable_backface_culling = true

[[object]]
name = "base"
shape = "cube"
position = [1, 2, 3]
rotation = [0, 90, 0]
scale = [2, 2, 2]
color = "255,0,0"
spin = [0, 180, 0]

[[object]]
name = "top"
shape = "triangle"
parent = "base"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s, err := f.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	st := s.Settings
	if st.Width != 64 || st.Height != 32 || st.Background != render.RGB(1, 2, 3) {
		t.Errorf("settings = %+v", st)
	}
	if st.LightDir != math3d.V3(0, 0, -1) || st.Ambient != 0.25 {
		t.Errorf("lighting = %v, %v", st.LightDir, st.Ambient)
	}
	if !st.Wireframe || st.Clip || st.BackfaceCulling {
		t.Errorf("flags = %+v", st)
	}
	if !s.Camera.Forward().ApproxEqual(math3d.V3(0, 0, -1), 1e-12) {
		t.Errorf("camera forward = %v", s.Camera.Forward())
	}
	if s.Camera.Near() != 0.5 || s.Camera.Far() != 50 || s.Camera.Viewport() != math3d.V2(2, 1) {
		t.Errorf("camera = near %v far %v viewport %v", s.Camera.Near(), s.Camera.Far(), s.Camera.Viewport())
	}

	base, ok := s.Arena.Find("base")
	if !ok {
		t.Fatal("base not found")
	}
	top, _ := s.Arena.Find("top")
	o, _ := s.Arena.Get(base)
	if o.Position() != math3d.V3(1, 2, 3) || math.Abs(o.Radius()-2*math.Sqrt(3)) > 1e-9 {
		t.Errorf("base at %v radius %v", o.Position(), o.Radius())
	}
	if got := o.Mesh().Triangles[0].Color(); got != render.ColorRed {
		t.Errorf("base color = %v", got)
	}
	if spin := s.Spins[base]; math.Abs(spin.Y-math.Pi) > 1e-12 {
		t.Errorf("spin = %v", spin)
	}
	if _, ok := s.Spins[top]; ok {
		t.Error("top should not spin")
	}
	if to, _ := s.Arena.Get(top); to.Parent() != base {
		t.Errorf("top parent = %d, want %d", to.Parent(), base)
	}

	r := render.NewRasterizer(s.Camera, render.NewFramebuffer(1, 1))
	st.Apply(r)
	if fb := r.Framebuffer(); fb.Width != 64 || fb.Height != 32 {
		t.Errorf("Apply left framebuffer at %dx%d", fb.Width, fb.Height)
	}
	if !r.DisableBackfaceCulling || r.Ambient != 0.25 {
		t.Error("Apply did not copy the settings")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		target error
	}{
		{"unknown shape", "[[object]]\nshape = \"torus\"\n", ErrUnknownShape},
		{"unknown parent", "[[object]]\nshape = \"cube\"\nparent = \"nobody\"\n", ErrUnknownParent},
		{"bad color", "[[object]]\nshape = \"cube\"\ncolor = \"red\"\n", ErrInvalidColor},
		{"bad fov", "[camera]\nfov = 180\n", render.ErrInvalidFOV},
		{"bad clip planes", "[camera]\nnear = 5\nfar = 1\n", render.ErrInvalidClipPlanes},
		{"bad size", "[render]\nwidth = -4\n", render.ErrInvalidSize},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Parse([]byte(tc.src))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if _, err := f.Build(); !errors.Is(err, tc.target) {
				t.Errorf("err = %v, want %v", err, tc.target)
			}
		})
	}
}

func TestParseRejectsBadTOML(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", "[camera\nfov = 1"},
		{"unknown key", "[camera]\nzoom = 3\n"},
		{"wrong type", "[render]\nwidth = \"wide\"\n"},
		{"short vector", "[camera]\nposition = [1, 2]\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Parse([]byte(tc.src))
			if err == nil {
				_, err = f.Build()
			}
			if err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestDefaultSceneBuilds(t *testing.T) {
	f, err := Parse([]byte(DefaultScene))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s, err := f.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.Arena.Len() != 3 {
		t.Errorf("%d objects, want 3", s.Arena.Len())
	}

	r := render.NewRasterizer(s.Camera, render.NewFramebuffer(1, 1))
	s.Settings.Apply(r)
	r.Render(s.Arena.Renderables())
	if r.Stats.PixelsWritten == 0 {
		t.Error("default scene drew nothing")
	}
}

func TestLoadFileWithModel(t *testing.T) {
	dir := t.TempDir()

	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Primitives: []*gltf.Primitive{{
		Attributes: gltf.PrimitiveAttributes{gltf.POSITION: pos},
	}}})
	if err := gltf.SaveBinary(doc, filepath.Join(dir, "tri.glb")); err != nil {
		t.Fatal(err)
	}

	src := "[[object]]\nname = \"m\"\nshape = \"model\"\npath = \"tri.glb\"\nfit = 3\ncolor = \"0,255,0\"\n"
	path := filepath.Join(dir, "scene.toml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	s, err := f.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	h, _ := s.Arena.Find("m")
	o, _ := s.Arena.Get(h)
	if o.Mesh().TriangleCount() != 1 {
		t.Fatalf("%d triangles", o.Mesh().TriangleCount())
	}
	// Without a material the object color is used.
	if c := o.Mesh().Triangles[0].Color(); c != render.ColorGreen {
		t.Errorf("color = %v", c)
	}
	if want := 1.5 * math.Sqrt2; math.Abs(o.Radius()-want) > 1e-9 {
		t.Errorf("radius = %v, want %v", o.Radius(), want)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not exist", err)
	}
}
