package bootstrap

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Every pipeline failure is fatal; the sentinels below classify them and can
// be tested with errors.Is.
var (
	ErrUnsupportedCapability   = errors.New("unsupported capability")
	ErrInstanceCreationFailed  = errors.New("instance creation failed")
	ErrSurfaceCreationFailed   = errors.New("surface creation failed")
	ErrNoSuitableDevice        = errors.New("no suitable device")
	ErrNoGraphicsPresentQueue  = errors.New("no graphics and present queue family")
	ErrDeviceCreationFailed    = errors.New("device creation failed")
	ErrSwapchainCreationFailed = errors.New("swapchain creation failed")
	ErrShaderLoadFailed        = errors.New("shader load failed")

	ErrDependencyInUse = errors.New("object still has live dependents")
	ErrReleased        = errors.New("object already released")
)

const (
	CapabilityLayer             = "layer"
	CapabilityInstanceExtension = "instance extension"
	CapabilityDeviceExtension   = "device extension"
	CapabilityFeature           = "device feature"
)

// UnsupportedCapabilityError names the first requested capability the host lacks.
type UnsupportedCapabilityError struct {
	Kind string
	Name string
}

func (e *UnsupportedCapabilityError) Error() string {
	return fmt.Sprintf("required %s not supported: %s", e.Kind, e.Name)
}

func unsupported(kind, name string) error {
	return errors.Mark(errors.WithStack(&UnsupportedCapabilityError{Kind: kind, Name: name}), ErrUnsupportedCapability)
}

func fail(kind error, cause error, format string, args ...interface{}) error {
	if cause == nil {
		return errors.Mark(errors.Newf(format, args...), kind)
	}
	return errors.Mark(errors.Wrapf(cause, format, args...), kind)
}
