package bootstrap

import (
	"github.com/sirupsen/logrus"
)

type SurfaceHandle struct {
	surface Surface
	obj     *Object
	objects *Objects
}

func (h *SurfaceHandle) Surface() Surface { return h.surface }

func (h *SurfaceHandle) Object() *Object { return h.obj }

func (h *SurfaceHandle) Destroy() error {
	return h.objects.Release(h.obj)
}

// SurfaceBinder turns a native window into a presentable surface. There is no
// fallback surface: a failed bind ends initialization.
type SurfaceBinder struct {
	Objects *Objects
	Log     logrus.FieldLogger
}

func (b *SurfaceBinder) Bind(instance *InstanceHandle, window Window) (*SurfaceHandle, error) {
	if err := requireLive("bind window surface", instance.obj); err != nil {
		return nil, err
	}

	surface, err := window.CreateSurface(instance.instance)
	if err != nil {
		return nil, fail(ErrSurfaceCreationFailed, err, "bind window surface")
	}
	if surface == nil {
		return nil, fail(ErrSurfaceCreationFailed, nil, "bind window surface: window returned no surface")
	}

	obj, err := b.Objects.Track(KindSurface, "", surface.Destroy, instance.obj)
	if err != nil {
		surface.Destroy()
		return nil, err
	}

	loggerOr(b.Log).Debug("surface bound")
	return &SurfaceHandle{surface: surface, obj: obj, objects: b.Objects}, nil
}
