package scene

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/taigrr/softrast/pkg/logging"
	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/models"
	"github.com/taigrr/softrast/pkg/render"
)

// File is a decoded TOML scene description:
//
//	[camera]
//	position = [0, 1, 6]
//	look_at = [0, 0, 0]
//	fov = 60
//
//	[render]
//	width = 160
//	height = 90
//	background = "30,30,40"
//
//	[[object]]
//	name = "box"
//	shape = "cube"
//	position = [0, 0, 0]
//	rotation = [0, 30, 0]
//	color = "200,80,60"
//
// Missing values take the defaults documented on each field.
type File struct {
	Camera  CameraConfig   `toml:"camera"`
	Render  RenderConfig   `toml:"render"`
	Objects []ObjectConfig `toml:"object"`

	dir string // resolves relative model paths
}

// CameraConfig describes the viewpoint.
type CameraConfig struct {
	Position []float64 `toml:"position"` // default [0, 0, 5]
	Rotation []float64 `toml:"rotation"` // Euler degrees, ignored when LookAt is set
	LookAt   []float64 `toml:"look_at"`
	FOV      float64   `toml:"fov"`      // horizontal, degrees; default 60
	Near     float64   `toml:"near"`     // default 0.1
	Far      float64   `toml:"far"`      // default 100
	Viewport []float64 `toml:"viewport"` // default [1, height/width]
}

// RenderConfig describes the frame.
type RenderConfig struct {
	Width                  int       `toml:"width"`      // default 160
	Height                 int       `toml:"height"`     // default 90
	Background             string    `toml:"background"` // "R,G,B", default "30,30,40"
	LightDir               []float64 `toml:"light_dir"`  // default [-1, -1, -1]
	Ambient                *float64  `toml:"ambient"`    // default 0.5
	Wireframe              bool      `toml:"wireframe"`
	NoClip                 bool      `toml:"no_clip"` // wireframe only
	DisableBackfaceCulling bool      `toml:"disable_backface_culling"`
}

// ObjectConfig describes one object.
type ObjectConfig struct {
	Name     string    `toml:"name"`
	Shape    string    `toml:"shape"` // cube, triangle, quad or model
	Path     string    `toml:"path"`  // glTF/GLB file for shape = "model"
	Fit      float64   `toml:"fit"`   // model size; default 2
	Position []float64 `toml:"position"`
	Rotation []float64 `toml:"rotation"` // Euler degrees
	Scale    []float64 `toml:"scale"`    // default [1, 1, 1]
	Color    string    `toml:"color"`    // "R,G,B", default "200,200,200"
	Parent   string    `toml:"parent"`   // name of an earlier or later object
	Spin     []float64 `toml:"spin"`     // Euler degrees per second
}

// Settings are the rasterizer options of a scene.
type Settings struct {
	Width, Height   int
	Background      render.Color
	LightDir        math3d.Vec3
	Ambient         float64
	Wireframe       bool
	Clip            bool
	BackfaceCulling bool
}

// Apply configures r with the settings, resizing its buffers.
func (s Settings) Apply(r *render.Rasterizer) {
	r.Resize(s.Width, s.Height)
	r.Background = s.Background
	r.LightDir = s.LightDir
	r.Ambient = s.Ambient
	r.DisableBackfaceCulling = !s.BackfaceCulling
}

// Scene is a built scene file.
type Scene struct {
	Arena    *Arena
	Camera   *render.Camera
	Settings Settings
	Spins    map[Handle]math3d.Vec3 // Euler radians per second
}

const (
	defaultFOV      = 60
	defaultNear     = 0.1
	defaultFar      = 100
	defaultWidth    = 160
	defaultHeight   = 90
	defaultFit      = 2
	defaultBG       = "30,30,40"
	defaultObjColor = "200,200,200"
)

// DefaultScene is shown when no scene file is given.
const DefaultScene = `
[camera]
position = [0, 2, 7]
look_at = [0, 0, 0]

[[object]]
name = "cube"
shape = "cube"
rotation = [0, 30, 0]
color = "220,90,60"
spin = [0, 40, 0]

[[object]]
name = "triangle"
shape = "triangle"
parent = "cube"
position = [2.5, 0, 0]
scale = [1.5, 1.5, 1.5]
color = "80,170,230"

[[object]]
name = "floor"
shape = "quad"
position = [0, -1.5, 0]
rotation = [-90, 0, 0]
scale = [8, 8, 1]
color = "90,120,90"
`

// LoadFile reads and decodes a scene file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// Parse decodes a scene description. Unknown keys are errors.
func Parse(data []byte) (*File, error) {
	var f File
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("parse scene at line %d, column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return &f, nil
}

// Build creates the arena, camera and settings the file describes.
func (f *File) Build() (*Scene, error) {
	settings, err := f.settings()
	if err != nil {
		return nil, err
	}
	camera, err := f.Camera.Build(settings.Width, settings.Height)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	s := &Scene{
		Arena:    NewArena(),
		Camera:   camera,
		Settings: settings,
		Spins:    make(map[Handle]math3d.Vec3),
	}
	handles := make([]Handle, len(f.Objects))
	for i, oc := range f.Objects {
		h, spin, err := f.addObject(s.Arena, oc)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, oc.Name, err)
		}
		handles[i] = h
		if spin != (math3d.Vec3{}) {
			s.Spins[h] = spin
		}
	}
	for i, oc := range f.Objects {
		if oc.Parent == "" {
			continue
		}
		parent, ok := s.Arena.Find(oc.Parent)
		if !ok {
			return nil, fmt.Errorf("object %d (%s): %w: %q", i, oc.Name, ErrUnknownParent, oc.Parent)
		}
		if err := s.Arena.SetParent(handles[i], parent); err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, oc.Name, err)
		}
	}
	logging.LogDebug("built scene: %d objects", s.Arena.Len())
	return s, nil
}

func (f *File) settings() (Settings, error) {
	rc := f.Render
	s := Settings{
		Width:           orDefault(rc.Width, defaultWidth),
		Height:          orDefault(rc.Height, defaultHeight),
		Ambient:         render.DefaultAmbient,
		Wireframe:       rc.Wireframe,
		Clip:            !rc.NoClip,
		BackfaceCulling: !rc.DisableBackfaceCulling,
	}
	if s.Width <= 0 || s.Height <= 0 {
		return Settings{}, fmt.Errorf("%w: %dx%d", render.ErrInvalidSize, s.Width, s.Height)
	}
	if rc.Ambient != nil {
		s.Ambient = math3d.Clamp(*rc.Ambient, 0, 1)
	}

	var err error
	if s.Background, err = ParseColor(orDefault(rc.Background, defaultBG)); err != nil {
		return Settings{}, fmt.Errorf("background: %w", err)
	}
	light, err := vec3("light_dir", rc.LightDir, math3d.V3(-1, -1, -1))
	if err != nil {
		return Settings{}, err
	}
	if s.LightDir = light.Normalize(); s.LightDir.LenSq() == 0 {
		s.LightDir = render.DefaultLightDir
	}
	return s, nil
}

// Build creates a camera for a width x height frame.
func (c CameraConfig) Build(width, height int) (*render.Camera, error) {
	pos, err := vec3("position", c.Position, math3d.V3(0, 0, 5))
	if err != nil {
		return nil, err
	}
	euler, err := vec3("rotation", c.Rotation, math3d.Zero3())
	if err != nil {
		return nil, err
	}
	viewport := math3d.V2(1, float64(height)/float64(max(width, 1)))
	if len(c.Viewport) > 0 {
		if len(c.Viewport) != 2 {
			return nil, fmt.Errorf("viewport: want 2 values, got %d", len(c.Viewport))
		}
		viewport = math3d.V2(c.Viewport[0], c.Viewport[1])
	}

	camera, err := render.NewCamera(
		pos,
		math3d.QuatEulerDegrees(euler.X, euler.Y, euler.Z),
		orDefault(c.FOV, defaultFOV)*math.Pi/180,
		orDefault(c.Near, defaultNear),
		orDefault(c.Far, defaultFar),
		viewport,
	)
	if err != nil {
		return nil, err
	}
	if len(c.LookAt) > 0 {
		target, err := vec3("look_at", c.LookAt, math3d.Zero3())
		if err != nil {
			return nil, err
		}
		camera.LookAt(target)
	}
	return camera, nil
}

func (f *File) addObject(a *Arena, oc ObjectConfig) (Handle, math3d.Vec3, error) {
	color, err := ParseColor(orDefault(oc.Color, defaultObjColor))
	if err != nil {
		return NoHandle, math3d.Vec3{}, err
	}
	mesh, err := f.mesh(oc, color)
	if err != nil {
		return NoHandle, math3d.Vec3{}, err
	}

	pos, err := vec3("position", oc.Position, math3d.Zero3())
	if err != nil {
		return NoHandle, math3d.Vec3{}, err
	}
	euler, err := vec3("rotation", oc.Rotation, math3d.Zero3())
	if err != nil {
		return NoHandle, math3d.Vec3{}, err
	}
	scale, err := vec3("scale", oc.Scale, math3d.One3())
	if err != nil {
		return NoHandle, math3d.Vec3{}, err
	}
	spin, err := vec3("spin", oc.Spin, math3d.Zero3())
	if err != nil {
		return NoHandle, math3d.Vec3{}, err
	}

	h := a.Add(mesh, Transform{
		Position: pos,
		Rotation: math3d.QuatEulerDegrees(euler.X, euler.Y, euler.Z),
		Scale:    scale,
	})
	a.objects[h].Name = oc.Name
	return h, spin.Scale(math.Pi / 180), nil
}

func (f *File) mesh(oc ObjectConfig, color render.Color) (*render.Mesh, error) {
	switch strings.ToLower(oc.Shape) {
	case "cube":
		return models.Cube(color), nil
	case "triangle":
		return models.SingleTriangle(color), nil
	case "quad":
		return models.Quad(color), nil
	case "model":
		path := oc.Path
		if !filepath.IsAbs(path) && f.dir != "" {
			path = filepath.Join(f.dir, path)
		}
		loader := models.NewGLTFLoader()
		loader.Fit = orDefault(oc.Fit, defaultFit)
		m, err := loader.Load(path)
		if err != nil {
			return nil, err
		}
		logging.LogInfo("loaded %s: %d vertices, %d triangles", m.Name, m.VertexCount(), m.TriangleCount())
		return m.ToRenderMesh(color), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownShape, oc.Shape)
}

// vec3 reads an optional 3-component value.
func vec3(name string, v []float64, def math3d.Vec3) (math3d.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return math3d.V3(v[0], v[1], v[2]), nil
	}
	return math3d.Vec3{}, fmt.Errorf("%s: want 3 values, got %d", name, len(v))
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
