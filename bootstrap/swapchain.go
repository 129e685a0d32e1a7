package bootstrap

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// SwapImage is an image owned by the swapchain. Index is its position in the
// swapchain's image list.
type SwapImage struct {
	Index     int
	Image     Image
	swapchain *Object
}

func (i SwapImage) Valid() bool { return !i.swapchain.Released() }

type ImageViewHandle struct {
	view    ImageView
	image   SwapImage
	obj     *Object
	objects *Objects
}

func (h *ImageViewHandle) View() ImageView { return h.view }

// Image is the swapchain image this view was created for.
func (h *ImageViewHandle) Image() SwapImage { return h.image }

func (h *ImageViewHandle) Object() *Object { return h.obj }

func (h *ImageViewHandle) Destroy() error {
	return h.objects.Release(h.obj)
}

type SwapchainHandle struct {
	swapchain   Swapchain
	images      []SwapImage
	views       []*ImageViewHandle
	format      SurfaceFormat
	extent      Extent2D
	presentMode PresentMode
	requested   uint32
	obj         *Object
	objects     *Objects
}

func (h *SwapchainHandle) Swapchain() Swapchain { return h.swapchain }

func (h *SwapchainHandle) Object() *Object { return h.obj }

func (h *SwapchainHandle) Images() []SwapImage { return h.images }

// Views has one entry per image; Views()[i] always views Images()[i].
func (h *SwapchainHandle) Views() []*ImageViewHandle { return h.views }

func (h *SwapchainHandle) ImageCount() int { return len(h.images) }

func (h *SwapchainHandle) RequestedImageCount() uint32 { return h.requested }

func (h *SwapchainHandle) Format() SurfaceFormat { return h.format }

func (h *SwapchainHandle) Extent() Extent2D { return h.extent }

func (h *SwapchainHandle) PresentMode() PresentMode { return h.presentMode }

// Destroy releases the image views and then the swapchain.
func (h *SwapchainHandle) Destroy() error {
	for i := len(h.views) - 1; i >= 0; i-- {
		if h.views[i].obj.Released() {
			continue
		}
		if err := h.views[i].Destroy(); err != nil {
			return err
		}
	}
	return h.objects.Release(h.obj)
}

// ChooseExtent uses the surface's current extent unless the surface leaves the
// choice to the swapchain, in which case the framebuffer size is clamped into
// the supported range.
func ChooseExtent(capabilities SurfaceCapabilities, framebufferWidth, framebufferHeight uint32) Extent2D {
	if capabilities.CurrentExtent.Width != UndefinedExtent {
		return capabilities.CurrentExtent
	}

	return Extent2D{
		Width:  clamp(framebufferWidth, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: clamp(framebufferHeight, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

func clamp(value, low, high uint32) uint32 {
	if value < low {
		value = low
	}
	if value > high {
		value = high
	}
	return value
}

// ChooseSurfaceFormat prefers 8-bit BGRA with the sRGB non-linear color space so
// the hardware converts between linear and encoded values.
func ChooseSurfaceFormat(availableFormats []SurfaceFormat) (SurfaceFormat, bool) {
	if len(availableFormats) == 0 {
		return SurfaceFormat{}, false
	}

	for _, format := range availableFormats {
		if format.Format == FormatB8G8R8A8SRGB && format.ColorSpace == ColorSpaceSRGBNonlinear {
			return format, true
		}
	}

	return availableFormats[0], true
}

// ChoosePresentMode prefers mailbox. FIFO is required of every conformant
// driver and is not looked up.
func ChoosePresentMode(availablePresentModes []PresentMode) PresentMode {
	for _, presentMode := range availablePresentModes {
		if presentMode == PresentModeMailbox {
			return presentMode
		}
	}

	return PresentModeFIFO
}

// ChooseImageCount asks for at least preferred images, limited by a nonzero maximum.
func ChooseImageCount(capabilities SurfaceCapabilities, preferred uint32) uint32 {
	imageCount := preferred
	if capabilities.MinImageCount > imageCount {
		imageCount = capabilities.MinImageCount
	}
	if capabilities.MaxImageCount > 0 && capabilities.MaxImageCount < imageCount {
		imageCount = capabilities.MaxImageCount
	}
	return imageCount
}

// FramebufferSizer reports the drawable size of the window in pixels.
type FramebufferSizer interface {
	FramebufferSize() (width, height uint32)
}

type SwapchainBuilder struct {
	Catalog             *Catalog
	Window              FramebufferSizer
	PreferredImageCount uint32

	Objects *Objects
	Log     logrus.FieldLogger
}

func (b *SwapchainBuilder) Build(physicalDevice *PhysicalDeviceRef, device *LogicalDeviceHandle, surface *SurfaceHandle, previous *SwapchainHandle) (*SwapchainHandle, error) {
	log := loggerOr(b.Log)

	if err := requireLive("create swapchain", physicalDevice.instance, device.obj, surface.obj); err != nil {
		return nil, err
	}

	support, err := b.Catalog.SurfaceSupport(physicalDevice.device, surface.surface)
	if err != nil {
		return nil, fail(ErrSwapchainCreationFailed, err, "query swapchain support")
	}

	surfaceFormat, ok := ChooseSurfaceFormat(support.Formats)
	if !ok {
		return nil, fail(ErrSwapchainCreationFailed, nil, "surface reports no formats")
	}
	presentMode := ChoosePresentMode(support.PresentModes)

	var width, height uint32
	if support.Capabilities.CurrentExtent.Width == UndefinedExtent {
		width, height = b.Window.FramebufferSize()
	}
	extent := ChooseExtent(support.Capabilities, width, height)

	preferred := b.PreferredImageCount
	if preferred == 0 {
		preferred = DefaultImageCount
	}
	imageCount := ChooseImageCount(support.Capabilities, preferred)

	info := SwapchainCreateInfo{
		Surface: surface.surface,

		MinImageCount:    imageCount,
		ImageFormat:      surfaceFormat.Format,
		ImageColorSpace:  surfaceFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       ImageUsageColorAttachment,

		// Graphics and present share one queue family.
		ImageSharingMode: SharingModeExclusive,

		PreTransform:   support.Capabilities.CurrentTransform,
		CompositeAlpha: CompositeAlphaOpaque,
		PresentMode:    presentMode,
		Clipped:        true,
	}
	if previous != nil && !previous.obj.Released() {
		info.OldSwapchain = previous.swapchain
	}

	swapchain, err := device.device.CreateSwapchain(info)
	if err != nil {
		return nil, fail(ErrSwapchainCreationFailed, err, "create swapchain")
	}

	obj, err := b.Objects.Track(KindSwapchain, "", swapchain.Destroy, device.obj, surface.obj)
	if err != nil {
		swapchain.Destroy()
		return nil, err
	}

	handle := &SwapchainHandle{
		swapchain:   swapchain,
		format:      surfaceFormat,
		extent:      extent,
		presentMode: presentMode,
		requested:   imageCount,
		obj:         obj,
		objects:     b.Objects,
	}

	err = b.createImageViews(device, handle)
	if err != nil {
		if destroyErr := handle.Destroy(); destroyErr != nil {
			log.WithError(destroyErr).Error("release partial swapchain")
		}
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"images":      len(handle.images),
		"extent":      extent.String(),
		"format":      surfaceFormat.Format,
		"presentMode": presentMode.String(),
	}).Info("swapchain created")
	log.Debug("swapchain report\n" + SwapchainReport(handle, support))

	return handle, nil
}

func (b *SwapchainBuilder) createImageViews(device *LogicalDeviceHandle, handle *SwapchainHandle) error {
	images, err := handle.swapchain.Images()
	if err != nil {
		return fail(ErrSwapchainCreationFailed, err, "get swapchain images")
	}

	for index, image := range images {
		swapImage := SwapImage{Index: index, Image: image, swapchain: handle.obj}
		handle.images = append(handle.images, swapImage)

		view, err := device.device.CreateImageView(ImageViewCreateInfo{
			Image:    image,
			ViewType: ImageViewType2D,
			Format:   handle.format.Format,
			SubresourceRange: ImageSubresourceRange{
				AspectMask:     ImageAspectColor,
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		})
		if err != nil {
			handle.images = handle.images[:index]
			return fail(ErrSwapchainCreationFailed, err, "create image view %d of %d", index, len(images))
		}

		obj, err := b.Objects.Track(KindImageView, fmt.Sprintf("#%d", index), view.Destroy, handle.obj)
		if err != nil {
			view.Destroy()
			handle.images = handle.images[:index]
			return err
		}

		handle.views = append(handle.views, &ImageViewHandle{
			view:    view,
			image:   swapImage,
			obj:     obj,
			objects: b.Objects,
		})
	}

	return nil
}
