package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/vulkan-bootstrap/bootstrap"
)

// Surface remembers the last capabilities and formats it reported so a
// swapchain can be created from exactly those driver values.
type Surface struct {
	surface khr_surface.Surface

	capabilities *khr_surface.Capabilities
	formats      []khr_surface.Format
}

func WrapSurface(surface khr_surface.Surface) *Surface {
	return &Surface{surface: surface}
}

func (s *Surface) Handle() khr_surface.Surface { return s.surface }

func (s *Surface) SupportsPresent(device bootstrap.PhysicalDevice, family bootstrap.QueueFamilyIndex) (bool, error) {
	physicalDevice, err := physical(device)
	if err != nil {
		return false, err
	}

	supported, _, err := s.surface.PhysicalDeviceSurfaceSupport(physicalDevice, int(family))
	return supported, err
}

func (s *Surface) Capabilities(device bootstrap.PhysicalDevice) (bootstrap.SurfaceCapabilities, error) {
	physicalDevice, err := physical(device)
	if err != nil {
		return bootstrap.SurfaceCapabilities{}, err
	}

	capabilities, _, err := s.surface.PhysicalDeviceSurfaceCapabilities(physicalDevice)
	if err != nil {
		return bootstrap.SurfaceCapabilities{}, err
	}
	s.capabilities = capabilities

	return bootstrap.SurfaceCapabilities{
		MinImageCount:       uint32(capabilities.MinImageCount),
		MaxImageCount:       uint32(capabilities.MaxImageCount),
		CurrentExtent:       extent(capabilities.CurrentExtent),
		MinImageExtent:      extent(capabilities.MinImageExtent),
		MaxImageExtent:      extent(capabilities.MaxImageExtent),
		MaxImageArrayLayers: uint32(capabilities.MaxImageArrayLayers),
		SupportedTransforms: bootstrap.SurfaceTransformFlags(capabilities.SupportedTransforms),
		CurrentTransform:    bootstrap.SurfaceTransformFlags(capabilities.CurrentTransform),
	}, nil
}

func (s *Surface) Formats(device bootstrap.PhysicalDevice) ([]bootstrap.SurfaceFormat, error) {
	physicalDevice, err := physical(device)
	if err != nil {
		return nil, err
	}

	formats, _, err := s.surface.PhysicalDeviceSurfaceFormats(physicalDevice)
	if err != nil {
		return nil, err
	}
	s.formats = formats

	surfaceFormats := make([]bootstrap.SurfaceFormat, 0, len(formats))
	for _, format := range formats {
		surfaceFormats = append(surfaceFormats, bootstrap.SurfaceFormat{
			Format:     bootstrap.Format(format.Format),
			ColorSpace: bootstrap.ColorSpace(format.ColorSpace),
		})
	}
	return surfaceFormats, nil
}

func (s *Surface) PresentModes(device bootstrap.PhysicalDevice) ([]bootstrap.PresentMode, error) {
	physicalDevice, err := physical(device)
	if err != nil {
		return nil, err
	}

	presentModes, _, err := s.surface.PhysicalDeviceSurfacePresentModes(physicalDevice)
	if err != nil {
		return nil, err
	}

	modes := make([]bootstrap.PresentMode, 0, len(presentModes))
	for _, mode := range presentModes {
		modes = append(modes, bootstrap.PresentMode(mode))
	}
	return modes, nil
}

func (s *Surface) Destroy() {
	s.surface.Destroy(nil)
}

// reportedFormat finds the driver's own value for a format this surface reported.
func (s *Surface) reportedFormat(format bootstrap.Format, colorSpace bootstrap.ColorSpace) (khr_surface.Format, error) {
	for _, candidate := range s.formats {
		if bootstrap.Format(candidate.Format) == format && bootstrap.ColorSpace(candidate.ColorSpace) == colorSpace {
			return candidate, nil
		}
	}
	return khr_surface.Format{}, errors.Newf("format %d with color space %d was not reported by the surface", format, colorSpace)
}

func physical(device bootstrap.PhysicalDevice) (core1_0.PhysicalDevice, error) {
	physicalDevice, ok := device.(*PhysicalDevice)
	if !ok {
		return nil, errors.Newf("physical device %T was not enumerated by vkng", device)
	}
	return physicalDevice.device, nil
}

// vkngwrapper reports the "decided by the swapchain" extent as -1.
func extent(e core1_0.Extent2D) bootstrap.Extent2D {
	if e.Width < 0 || e.Height < 0 {
		return bootstrap.Extent2D{Width: bootstrap.UndefinedExtent, Height: bootstrap.UndefinedExtent}
	}
	return bootstrap.Extent2D{Width: uint32(e.Width), Height: uint32(e.Height)}
}
