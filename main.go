package main

import (
	"flag"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/cubeview/app"
	"github.com/gekko3d/cubeview/core"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	width := flag.Int("width", 1280, "window width")
	height := flag.Int("height", 720, "window height")
	title := flag.String("title", "Cube Viewer", "window title")
	sensitivity := flag.Float64("sensitivity", 0.01, "mouse look sensitivity, radians per count")
	debug := flag.Bool("debug", false, "enable debug logging and the FPS overlay")
	flag.Parse()

	logger := core.NewDefaultLogger("cubeview", *debug)

	if err := glfw.Init(); err != nil {
		logger.Errorf("glfw init: %v", err)
		os.Exit(1)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Important: tell GLFW we don't want OpenGL
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err := glfw.CreateWindow(*width, *height, *title, nil, nil)
	if err != nil {
		logger.Errorf("create window: %v", err)
		os.Exit(1)
	}
	defer window.Destroy()

	application := app.New(window, app.Config{
		Sensitivity: float32(*sensitivity),
		Debug:       *debug,
	}, logger)
	if err := application.Init(); err != nil {
		logger.Errorf("init: %v", err)
		os.Exit(1)
	}
	defer application.Release()

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})

	// Mouse look: feed cursor deltas to the camera while the cursor is
	// captured. The first sample after capturing only seeds the last
	// position, otherwise the view would jump.
	var lastX, lastY float64
	var haveLast bool
	captured := false

	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if !captured {
			haveLast = false
			return
		}
		if haveLast {
			application.PointerDelta(xpos-lastX, ypos-lastY)
		}
		lastX, lastY = xpos, ypos
		haveLast = true
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyTab && action == glfw.Press {
			captured = !captured
			haveLast = false
			if captured {
				w.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			} else {
				w.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
			}
		}
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	logger.Infof("entering render loop (Tab captures the mouse, Escape quits)")

	// Continuous redraw; FIFO presentation bounds this to display refresh.
	for !window.ShouldClose() {
		glfw.PollEvents()
		application.Render()
	}
}
