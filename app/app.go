// Package app orchestrates the per-frame render sequence: acquire a
// presentable texture, refresh the camera uniform, record the draw, submit
// and present. One frame is in flight at a time.
package app

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/cubeview/core"
	"github.com/gekko3d/cubeview/gpu"
	"github.com/gekko3d/cubeview/shaders"
)

var clearColor = wgpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}

type Config struct {
	Sensitivity float32 // radians per mouse count
	Debug       bool    // show the FPS overlay
}

type App struct {
	Window *glfw.Window
	Gpu    *gpu.Context
	Camera *core.Camera

	pipeline      *wgpu.RenderPipeline
	vertexBuffer  *wgpu.Buffer
	indexBuffer   *wgpu.Buffer
	indexCount    uint32
	uniformBuffer *wgpu.Buffer
	uniformGroup  *wgpu.BindGroup

	overlay *overlay

	cfg Config
	log core.Logger

	frameCount     int
	fps            float64
	fpsTime        float64
	lastRenderTime float64
}

func New(window *glfw.Window, cfg Config, log core.Logger) *App {
	if cfg.Sensitivity == 0 {
		cfg.Sensitivity = 0.01
	}
	return &App{
		Window: window,
		Camera: core.NewCamera(),
		cfg:    cfg,
		log:    log,
	}
}

// Init brings up the GPU context, the draw pipeline and all static buffers.
// Any error is fatal for the process; the message names the failed stage.
func (a *App) Init() error {
	width, height := a.Window.GetFramebufferSize()

	ctx, err := gpu.New(a.Window, width, height, a.log)
	if err != nil {
		return err
	}
	a.Gpu = ctx
	a.Camera.ApplyResize(width, height)

	a.pipeline, err = gpu.NewRenderPipeline(ctx, "Cube Pipeline", shaders.CubeWGSL, core.Vertex{})
	if err != nil {
		return err
	}

	a.vertexBuffer, a.indexBuffer, err = gpu.NewMeshBuffers(ctx, core.CubeVertices(), core.CubeIndices())
	if err != nil {
		return err
	}
	a.indexCount = uint32(len(core.CubeIndices()))

	vp := a.Camera.ViewProjection()
	a.uniformBuffer, err = gpu.NewUniformBuffer(ctx, "Uniform Buffer", wgpu.ToBytes(vp[:]))
	if err != nil {
		return err
	}
	a.uniformGroup, err = gpu.NewUniformBindGroup(ctx, a.pipeline, a.uniformBuffer)
	if err != nil {
		return err
	}

	if a.cfg.Debug {
		a.overlay, err = newOverlay(ctx)
		if err != nil {
			return err
		}
	}

	a.lastRenderTime = glfw.GetTime()
	return nil
}

// Resize fans the new size out to the surface and the camera. The two
// reactions are independent; both must happen, neither feeds the other.
func (a *App) Resize(width, height int) {
	a.Gpu.Reconfigure(width, height)
	a.Camera.ApplyResize(width, height)
}

// PointerDelta feeds raw mouse motion into the camera.
func (a *App) PointerDelta(dx, dy float64) {
	a.Camera.ApplyPointerDelta(float32(dx), float32(dy), a.cfg.Sensitivity)
}

// Render runs one frame. An acquire failure that survived the retry policy
// skips the frame and keeps the loop alive; the next resize or redraw may
// self-heal.
func (a *App) Render() {
	frame, err := a.Gpu.AcquireFrame()
	if err != nil {
		a.log.Errorf("acquire frame: %v (skipping frame)", err)
		return
	}
	defer frame.Release()

	view, err := frame.CreateView(nil)
	if err != nil {
		a.log.Errorf("create frame view: %v (skipping frame)", err)
		return
	}
	defer view.Release()

	vp := a.Camera.ViewProjection()
	if err := a.Gpu.Queue().WriteBuffer(a.uniformBuffer, 0, wgpu.ToBytes(vp[:])); err != nil {
		a.log.Errorf("write uniforms: %v (skipping frame)", err)
		return
	}

	if a.overlay != nil {
		w, h := a.Gpu.Size()
		items := []core.TextItem{{
			Text:     fmt.Sprintf("FPS: %.1f", a.fps),
			Position: [2]float32{10, 10},
			Scale:    2.0,
			Color:    [4]float32{1, 1, 0, 1},
		}}
		if err := a.overlay.update(a.Gpu, items, int(w), int(h)); err != nil {
			a.log.Warnf("overlay update: %v", err)
		}
	}

	encoder, err := a.Gpu.Device().CreateCommandEncoder(nil)
	if err != nil {
		a.log.Errorf("create command encoder: %v (skipping frame)", err)
		return
	}
	defer encoder.Release()

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: clearColor,
			},
		},
	})
	defer renderPass.Release()

	renderPass.SetPipeline(a.pipeline)
	renderPass.SetBindGroup(0, a.uniformGroup, nil)
	renderPass.SetVertexBuffer(0, a.vertexBuffer, 0, wgpu.WholeSize)
	renderPass.SetIndexBuffer(a.indexBuffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	renderPass.DrawIndexed(a.indexCount, 1, 0, 0, 0)

	if a.overlay != nil {
		a.overlay.draw(renderPass)
	}

	if err := renderPass.End(); err != nil {
		a.log.Errorf("end render pass: %v (skipping frame)", err)
		return
	}

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		a.log.Errorf("finish encoder: %v (skipping frame)", err)
		return
	}
	defer cmdBuffer.Release()

	a.Gpu.Queue().Submit(cmdBuffer)
	a.Gpu.Present()

	a.updateFPS()
}

func (a *App) updateFPS() {
	now := glfw.GetTime()
	if a.lastRenderTime > 0 {
		a.frameCount++
		a.fpsTime += now - a.lastRenderTime
		if a.fpsTime >= 1.0 {
			a.fps = float64(a.frameCount) / a.fpsTime
			a.frameCount = 0
			a.fpsTime = 0
		}
	}
	a.lastRenderTime = now
}

func (a *App) Release() {
	if a.overlay != nil {
		a.overlay.release()
	}
	if a.uniformGroup != nil {
		a.uniformGroup.Release()
	}
	if a.uniformBuffer != nil {
		a.uniformBuffer.Release()
	}
	if a.indexBuffer != nil {
		a.indexBuffer.Release()
	}
	if a.vertexBuffer != nil {
		a.vertexBuffer.Release()
	}
	if a.pipeline != nil {
		a.pipeline.Release()
	}
	if a.Gpu != nil {
		a.Gpu.Release()
	}
}
