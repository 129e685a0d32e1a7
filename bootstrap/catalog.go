package bootstrap

import (
	"sort"

	"github.com/cockroachdb/errors"
)

type NameSet map[string]struct{}

func NewNameSet(names ...string) NameSet {
	set := make(NameSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Missing returns the first of names, in order, that is not in the set.
func (s NameSet) Missing(names []string) (string, bool) {
	for _, name := range names {
		if !s.Has(name) {
			return name, true
		}
	}
	return "", false
}

func (s NameSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalog answers read-only questions about what the host and its devices support.
type Catalog struct {
	loader Loader
}

func NewCatalog(loader Loader) *Catalog {
	return &Catalog{loader: loader}
}

func (c *Catalog) Layers() (NameSet, error) {
	layers, err := c.loader.AvailableLayers()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate instance layers")
	}
	return NewNameSet(layers...), nil
}

func (c *Catalog) InstanceExtensions() (NameSet, error) {
	extensions, err := c.loader.AvailableExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate instance extensions")
	}
	return NewNameSet(extensions...), nil
}

func (c *Catalog) DeviceExtensions(device PhysicalDevice) (NameSet, error) {
	extensions, err := device.Extensions()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate device extensions")
	}
	return NewNameSet(extensions...), nil
}

func (c *Catalog) DeviceFeatures(device PhysicalDevice) (FeatureSet, error) {
	features, err := device.Features()
	if err != nil {
		return nil, errors.Wrap(err, "query device features")
	}
	return features, nil
}

func (c *Catalog) SurfaceSupport(device PhysicalDevice, surface Surface) (SurfaceSupport, error) {
	var support SurfaceSupport
	var err error

	support.Capabilities, err = surface.Capabilities(device)
	if err != nil {
		return support, errors.Wrap(err, "query surface capabilities")
	}

	support.Formats, err = surface.Formats(device)
	if err != nil {
		return support, errors.Wrap(err, "query surface formats")
	}

	support.PresentModes, err = surface.PresentModes(device)
	if err != nil {
		return support, errors.Wrap(err, "query surface present modes")
	}
	return support, nil
}
