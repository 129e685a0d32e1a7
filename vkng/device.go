package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"
	"github.com/vkngwrapper/vulkan-bootstrap/bootstrap"
)

type Device struct {
	device             core1_0.Device
	swapchainExtension khr_swapchain.Extension
}

func (d *Device) Handle() core1_0.Device { return d.device }

func (d *Device) Queue(family bootstrap.QueueFamilyIndex, index uint32) bootstrap.Queue {
	return d.device.GetQueue(int(family), int(index))
}

func (d *Device) CreateSwapchain(info bootstrap.SwapchainCreateInfo) (bootstrap.Swapchain, error) {
	surface, ok := info.Surface.(*Surface)
	if !ok {
		return nil, errors.Newf("surface %T was not created by vkng", info.Surface)
	}
	if surface.capabilities == nil {
		return nil, errors.New("surface capabilities were never queried")
	}
	if bootstrap.SurfaceTransformFlags(surface.capabilities.CurrentTransform) != info.PreTransform {
		return nil, errors.Newf("pre-transform %#x is not the surface's current transform", info.PreTransform)
	}
	if info.CompositeAlpha != bootstrap.CompositeAlphaOpaque {
		return nil, errors.Newf("composite alpha %#x is not supported", info.CompositeAlpha)
	}

	surfaceFormat, err := surface.reportedFormat(info.ImageFormat, info.ImageColorSpace)
	if err != nil {
		return nil, err
	}

	sharingMode := core1_0.SharingModeExclusive
	if info.ImageSharingMode == bootstrap.SharingModeConcurrent {
		sharingMode = core1_0.SharingModeConcurrent
	}

	createInfo := khr_swapchain.SwapchainCreateInfo{
		Surface: surface.surface,

		MinImageCount:    int(info.MinImageCount),
		ImageFormat:      surfaceFormat.Format,
		ImageColorSpace:  surfaceFormat.ColorSpace,
		ImageExtent:      core1_0.Extent2D{Width: int(info.ImageExtent.Width), Height: int(info.ImageExtent.Height)},
		ImageArrayLayers: int(info.ImageArrayLayers),
		ImageUsage:       core1_0.ImageUsageFlags(info.ImageUsage),

		ImageSharingMode: sharingMode,

		PreTransform:   surface.capabilities.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    khr_surface.PresentMode(info.PresentMode),
		Clipped:        info.Clipped,
	}
	if old, ok := info.OldSwapchain.(*Swapchain); ok {
		createInfo.OldSwapchain = old.swapchain
	}

	if d.swapchainExtension == nil {
		d.swapchainExtension = khr_swapchain.CreateExtensionFromDevice(d.device)
	}

	swapchain, _, err := d.swapchainExtension.CreateSwapchain(d.device, nil, createInfo)
	if err != nil {
		return nil, err
	}
	return &Swapchain{swapchain: swapchain}, nil
}

func (d *Device) CreateImageView(info bootstrap.ImageViewCreateInfo) (bootstrap.ImageView, error) {
	image, ok := info.Image.(core1_0.Image)
	if !ok {
		return nil, errors.Newf("image %T is not a vulkan image", info.Image)
	}
	if info.ViewType != bootstrap.ImageViewType2D {
		return nil, errors.Newf("image view type %d is not supported", info.ViewType)
	}

	imageView, _, err := d.device.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    image,
		ViewType: core1_0.ImageViewType2D,
		Format:   core1_0.Format(info.Format),
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     core1_0.ImageAspectFlags(info.SubresourceRange.AspectMask),
			BaseMipLevel:   int(info.SubresourceRange.BaseMipLevel),
			LevelCount:     int(info.SubresourceRange.LevelCount),
			BaseArrayLayer: int(info.SubresourceRange.BaseArrayLayer),
			LayerCount:     int(info.SubresourceRange.LayerCount),
		},
	})
	if err != nil {
		return nil, err
	}
	return &ImageView{view: imageView}, nil
}

func (d *Device) CreateShaderModule(code []uint32) (bootstrap.ShaderModule, error) {
	module, _, err := d.device.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: code,
	})
	if err != nil {
		return nil, err
	}
	return &ShaderModule{module: module}, nil
}

func (d *Device) Destroy() {
	d.device.Destroy(nil)
}

type Swapchain struct {
	swapchain khr_swapchain.Swapchain
}

func (s *Swapchain) Handle() khr_swapchain.Swapchain { return s.swapchain }

func (s *Swapchain) Images() ([]bootstrap.Image, error) {
	images, _, err := s.swapchain.SwapchainImages()
	if err != nil {
		return nil, err
	}

	list := make([]bootstrap.Image, 0, len(images))
	for _, image := range images {
		list = append(list, image)
	}
	return list, nil
}

func (s *Swapchain) Destroy() {
	s.swapchain.Destroy(nil)
}

type ImageView struct {
	view core1_0.ImageView
}

func (v *ImageView) Handle() core1_0.ImageView { return v.view }

func (v *ImageView) Destroy() {
	v.view.Destroy(nil)
}

type ShaderModule struct {
	module core1_0.ShaderModule
}

func (m *ShaderModule) Handle() core1_0.ShaderModule { return m.module }

func (m *ShaderModule) Destroy() {
	m.module.Destroy(nil)
}
