package bootstrap

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

type Kind string

const (
	KindInstance     Kind = "instance"
	KindDiagnostics  Kind = "diagnostics messenger"
	KindSurface      Kind = "surface"
	KindDevice       Kind = "device"
	KindSwapchain    Kind = "swapchain"
	KindImageView    Kind = "image view"
	KindShaderModule Kind = "shader module"
)

// Object is one owning node of the object graph. Its dependencies were created
// before it and may only be released after it.
type Object struct {
	kind       Kind
	name       string
	deps       []*Object
	dependents int
	release    func()
	released   bool
}

func (o *Object) Kind() Kind { return o.kind }

func (o *Object) Name() string { return o.name }

func (o *Object) Released() bool { return o == nil || o.released }

// Objects tracks every owning handle in creation order.
type Objects struct {
	created []*Object
	log     logrus.FieldLogger
}

func NewObjects(log logrus.FieldLogger) *Objects {
	return &Objects{log: loggerOr(log)}
}

func loggerOr(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logrus.StandardLogger()
	}
	return log
}

func (t *Objects) Track(kind Kind, name string, release func(), deps ...*Object) (*Object, error) {
	for _, dep := range deps {
		if dep.Released() {
			return nil, errors.Wrapf(ErrReleased, "track %s: dependency %s", describe(&Object{kind: kind, name: name}), describe(dep))
		}
	}

	obj := &Object{
		kind:    kind,
		name:    name,
		deps:    deps,
		release: release,
	}
	for _, dep := range deps {
		dep.dependents++
	}
	t.created = append(t.created, obj)
	return obj, nil
}

func (t *Objects) Release(obj *Object) error {
	if obj.Released() {
		return errors.Wrapf(ErrReleased, "release %s", describe(obj))
	}
	if obj.dependents > 0 {
		return errors.Wrapf(ErrDependencyInUse, "release %s: %d dependents alive", describe(obj), obj.dependents)
	}

	if obj.release != nil {
		obj.release()
	}
	obj.released = true
	for _, dep := range obj.deps {
		dep.dependents--
	}

	t.log.WithField("object", describe(obj)).Debug("released")
	return nil
}

// ReleaseAll walks creation order backwards so dependents always go first.
func (t *Objects) ReleaseAll() {
	for i := len(t.created) - 1; i >= 0; i-- {
		obj := t.created[i]
		if obj.released {
			continue
		}
		if err := t.Release(obj); err != nil {
			t.log.WithError(err).Error("teardown")
		}
	}
	t.created = t.created[:0]
}

func (t *Objects) Live() []*Object {
	var live []*Object
	for _, obj := range t.created {
		if !obj.released {
			live = append(live, obj)
		}
	}
	return live
}

// requireLive fails with ErrReleased on the first released object so no driver
// call is made against a destroyed handle.
func requireLive(op string, objs ...*Object) error {
	for _, obj := range objs {
		if obj.Released() {
			return errors.Wrapf(ErrReleased, "%s: %s", op, describe(obj))
		}
	}
	return nil
}

func describe(obj *Object) string {
	if obj == nil {
		return "<nil>"
	}
	if obj.name == "" {
		return string(obj.kind)
	}
	return string(obj.kind) + " " + obj.name
}
