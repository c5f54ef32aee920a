package main

import (
	"fmt"

	"github.com/taigrr/softrast/pkg/logging"
	"github.com/taigrr/softrast/pkg/render"
	"github.com/taigrr/softrast/pkg/scene"
)

// renderPNG draws one frame of the scene and saves it.
func renderPNG(opts Options) error {
	s, err := loadScene(opts)
	if err != nil {
		return err
	}

	fb := renderFrame(s, render.NewRasterizer(s.Camera, render.NewFramebuffer(s.Settings.Width, s.Settings.Height)))
	if err := fb.SavePNG(opts.PNGPath); err != nil {
		return fmt.Errorf("save frame: %w", err)
	}
	logging.LogInfo("wrote %s (%dx%d)", opts.PNGPath, fb.Width, fb.Height)
	return nil
}

// renderFrame applies the scene settings to r and draws one frame.
func renderFrame(s *scene.Scene, r *render.Rasterizer) *render.Framebuffer {
	s.Settings.Apply(r)
	objects := s.Arena.Renderables()

	var fb *render.Framebuffer
	if s.Settings.Wireframe {
		fb = r.RenderWireframe(objects, s.Settings.Clip)
	} else {
		fb = r.Render(objects)
	}

	st := r.Stats
	logging.LogDebug("frame: %d objects (%d culled, %d clipped), %d triangles, %d pixels",
		st.ObjectsTested, st.ObjectsCulled, st.ObjectsClipped, st.TrianglesDrawn, st.PixelsWritten)
	return fb
}
