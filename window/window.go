// Package window opens the SDL2 window the pipeline presents to.
package window

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/extensions/khr_surface"
	khr_surface_driver "github.com/vkngwrapper/extensions/khr_surface/driver"
	"github.com/vkngwrapper/vulkan-bootstrap/bootstrap"
	"github.com/vkngwrapper/vulkan-bootstrap/vkng"
)

// Window must be created and used from the main OS thread.
type Window struct {
	window *sdl.Window
	closed bool
}

func Open(title string, width, height int32) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, errors.Wrap(err, "init sdl video")
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, width, height, sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN)
	if err != nil {
		sdl.Quit()
		return nil, errors.Wrapf(err, "create window %q", title)
	}

	return &Window{window: window}, nil
}

func (w *Window) Handle() *sdl.Window { return w.window }

// ProcAddr is the vkGetInstanceProcAddr SDL loaded for this process.
func (w *Window) ProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

func (w *Window) RequiredInstanceExtensions() []string {
	return w.window.VulkanGetInstanceExtensions()
}

func (w *Window) FramebufferSize() (width, height uint32) {
	drawableWidth, drawableHeight := w.window.VulkanGetDrawableSize()
	return uint32(drawableWidth), uint32(drawableHeight)
}

func (w *Window) CreateSurface(instance bootstrap.Instance) (bootstrap.Surface, error) {
	vkInstance, ok := instance.(*vkng.Instance)
	if !ok {
		return nil, errors.Newf("instance %T was not created by vkng", instance)
	}

	handle := vkInstance.Handle().Handle()

	// SDL wants the VkInstance as a pointer-kinded value and hands back a
	// pointer to the new VkSurfaceKHR.
	surfacePtr, err := w.window.VulkanCreateSurface(*(**byte)(unsafe.Pointer(&handle)))
	if err != nil {
		return nil, errors.Wrap(err, "create sdl vulkan surface")
	}

	surface, _, err := khr_surface.CreateSurface(*(*unsafe.Pointer)(surfacePtr), vkInstance.Handle(), khr_surface_driver.CreateDriverFromCore(vkInstance.Handle().Driver()))
	if err != nil {
		return nil, err
	}

	return vkng.WrapSurface(surface), nil
}

// PollEvents drains the event queue, recording a close request.
func (w *Window) PollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.closed = true
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_CLOSE {
				w.closed = true
			}
		}
	}
}

func (w *Window) ShouldClose() bool { return w.closed }

func (w *Window) Destroy() {
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
	}
	sdl.Quit()
}
