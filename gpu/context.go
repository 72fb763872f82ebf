package gpu

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Logger is the subset of the application logger this package needs.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
}

// Context owns every GPU handle: surface, adapter, device, queue and the
// surface configuration. There is exactly one Context per process and it is
// only touched from the main thread.
type Context struct {
	surface *wgpu.Surface
	adapter *wgpu.Adapter
	device  *wgpu.Device
	queue   *wgpu.Queue
	config  wgpu.SurfaceConfiguration

	log Logger
}

// New wires the window into a configured presentable surface. Any failure
// here is unrecoverable for the process; the returned error names the stage
// that failed.
func New(win *glfw.Window, width, height int, log Logger) (*Context, error) {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(win))

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("adapter selection: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return nil, fmt.Errorf("device creation: %w", err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	config := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, &config)

	log.Infof("GPU context ready: format=%v size=%dx%d", config.Format, width, height)

	return &Context{
		surface: surface,
		adapter: adapter,
		device:  device,
		queue:   queue,
		config:  config,
		log:     log,
	}, nil
}

func (c *Context) Device() *wgpu.Device              { return c.device }
func (c *Context) Queue() *wgpu.Queue                { return c.queue }
func (c *Context) SurfaceFormat() wgpu.TextureFormat { return c.config.Format }
func (c *Context) Size() (width, height uint32)      { return c.config.Width, c.config.Height }

// Reconfigure reapplies the surface configuration at the new size. Zero-area
// sizes (minimized window) are ignored, and repeating the current size is a
// no-op.
func (c *Context) Reconfigure(width, height int) {
	if !applyResize(&c.config, width, height) {
		return
	}
	c.surface.Configure(c.adapter, c.device, &c.config)
	c.log.Debugf("surface reconfigured to %dx%d", c.config.Width, c.config.Height)
}

// applyResize updates the stored surface configuration for a new drawable
// size and reports whether the surface must be reconfigured. Zero-area sizes
// and repeats of the current size change nothing.
func applyResize(config *wgpu.SurfaceConfiguration, width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	w, h := uint32(width), uint32(height)
	if config.Width == w && config.Height == h {
		return false
	}
	config.Width = w
	config.Height = h
	return true
}

// AcquireFrame returns the next presentable texture. A stale surface
// (lost, outdated or timed out) is reconfigured and retried exactly once;
// any further failure is the caller's to handle.
func (c *Context) AcquireFrame() (*wgpu.Texture, error) {
	return acquireWithRecovery(c.surface.GetCurrentTexture, func() {
		c.log.Warnf("surface stale, reconfiguring (%dx%d)", c.config.Width, c.config.Height)
		c.surface.Configure(c.adapter, c.device, &c.config)
	})
}

func (c *Context) Present() {
	c.surface.Present()
}

func (c *Context) Release() {
	c.queue.Release()
	c.device.Release()
	c.adapter.Release()
	c.surface.Release()
}

// acquireWithRecovery implements the reconfigure-and-retry-once policy
// around a surface acquire call.
func acquireWithRecovery(acquire func() (*wgpu.Texture, error), reconfigure func()) (*wgpu.Texture, error) {
	tex, err := acquire()
	if err == nil {
		return tex, nil
	}
	if !isSurfaceStale(err) {
		return nil, err
	}
	reconfigure()
	return acquire()
}

// isSurfaceStale reports whether the acquire error is the recoverable kind.
// The binding folds the surface status into the error text.
func isSurfaceStale(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "lost") ||
		strings.Contains(msg, "outdated") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "timed out")
}
