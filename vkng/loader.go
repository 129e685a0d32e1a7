// Package vkng drives the bootstrap pipeline with vkngwrapper.
package vkng

import (
	"sort"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/vulkan-bootstrap/bootstrap"
)

// instanceCreateEnumeratePortability is VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR.
const instanceCreateEnumeratePortability core1_0.InstanceCreateFlags = 0x00000001

type Loader struct {
	loader core.Loader
}

func NewLoader(loader core.Loader) *Loader {
	return &Loader{loader: loader}
}

// NewLoaderFromProcAddr builds a loader from a vkGetInstanceProcAddr pointer,
// such as the one SDL hands out.
func NewLoaderFromProcAddr(procAddr unsafe.Pointer) (*Loader, error) {
	loader, err := core.CreateLoaderFromProcAddr(procAddr)
	if err != nil {
		return nil, errors.Wrap(err, "create vulkan loader")
	}
	return NewLoader(loader), nil
}

func (l *Loader) Handle() core.Loader { return l.loader }

func (l *Loader) AvailableLayers() ([]string, error) {
	layers, _, err := l.loader.AvailableLayers()
	if err != nil {
		return nil, err
	}
	return names(layers), nil
}

func (l *Loader) AvailableExtensions() ([]string, error) {
	extensions, _, err := l.loader.AvailableExtensions()
	if err != nil {
		return nil, err
	}
	return names(extensions), nil
}

func (l *Loader) CreateInstance(info bootstrap.InstanceCreateInfo) (bootstrap.Instance, error) {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:       info.ApplicationName,
		ApplicationVersion:    common.Version(info.ApplicationVersion),
		EngineName:            info.EngineName,
		EngineVersion:         common.Version(info.EngineVersion),
		APIVersion:            common.APIVersion(info.APIVersion),
		EnabledLayerNames:     info.EnabledLayerNames,
		EnabledExtensionNames: info.EnabledExtensionNames,
	}

	if info.EnumeratePortability {
		instanceOptions.Flags |= instanceCreateEnumeratePortability
	}

	if info.Diagnostics != nil {
		instanceOptions.Next = debugMessengerOptions(*info.Diagnostics)
	}

	instance, _, err := l.loader.CreateInstance(nil, instanceOptions)
	if err != nil {
		return nil, err
	}
	return &Instance{instance: instance}, nil
}

func names[T any](m map[string]T) []string {
	list := make([]string, 0, len(m))
	for name := range m {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}
