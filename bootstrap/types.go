package bootstrap

import (
	"fmt"

	"github.com/google/uuid"
)

// APIVersion uses the packed Vulkan version encoding (major << 22 | minor << 12 | patch).
type APIVersion uint32

func MakeAPIVersion(major, minor, patch uint32) APIVersion {
	return APIVersion(major<<22 | minor<<12 | patch)
}

var (
	Vulkan1_1 = MakeAPIVersion(1, 1, 0)
	Vulkan1_2 = MakeAPIVersion(1, 2, 0)
	Vulkan1_3 = MakeAPIVersion(1, 3, 0)
)

func (v APIVersion) Major() uint32 { return uint32(v>>22) & 0x7f }
func (v APIVersion) Minor() uint32 { return uint32(v>>12) & 0x3ff }
func (v APIVersion) Patch() uint32 { return uint32(v) & 0xfff }

func (v APIVersion) IsAtLeast(other APIVersion) bool {
	if v.Major() != other.Major() {
		return v.Major() > other.Major()
	}
	if v.Minor() != other.Minor() {
		return v.Minor() > other.Minor()
	}
	return v.Patch() >= other.Patch()
}

func (v APIVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

type Format int32

const (
	FormatB8G8R8A8UNorm Format = 44
	FormatB8G8R8A8SRGB  Format = 50
)

type ColorSpace int32

const (
	ColorSpaceSRGBNonlinear         ColorSpace = 0
	ColorSpaceExtendedSRGBLinearEXT ColorSpace = 1000104002
)

type PresentMode int32

const (
	PresentModeImmediate   PresentMode = 0
	PresentModeMailbox     PresentMode = 1
	PresentModeFIFO        PresentMode = 2
	PresentModeFIFORelaxed PresentMode = 3
)

var presentModeNames = map[PresentMode]string{
	PresentModeImmediate:   "Immediate",
	PresentModeMailbox:     "Mailbox",
	PresentModeFIFO:        "FIFO",
	PresentModeFIFORelaxed: "FIFO Relaxed",
}

func (m PresentMode) String() string {
	if name, ok := presentModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("PresentMode(%d)", int32(m))
}

type QueueFlags uint32

const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
)

type SurfaceTransformFlags uint32

const SurfaceTransformIdentity SurfaceTransformFlags = 1

type CompositeAlphaFlags uint32

const CompositeAlphaOpaque CompositeAlphaFlags = 1

type ImageUsageFlags uint32

const ImageUsageColorAttachment ImageUsageFlags = 0x10

type SharingMode int32

const (
	SharingModeExclusive  SharingMode = 0
	SharingModeConcurrent SharingMode = 1
)

type ImageViewType int32

const ImageViewType2D ImageViewType = 1

type ImageAspectFlags uint32

const ImageAspectColor ImageAspectFlags = 1

// UndefinedExtent marks a surface whose size is decided by the swapchain.
const UndefinedExtent uint32 = 0xFFFFFFFF

type Extent2D struct {
	Width  uint32
	Height uint32
}

func (e Extent2D) Undefined() bool {
	return e.Width == UndefinedExtent && e.Height == UndefinedExtent
}

func (e Extent2D) String() string {
	return fmt.Sprintf("%dx%d", e.Width, e.Height)
}

type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

type SurfaceCapabilities struct {
	MinImageCount uint32
	// MaxImageCount of zero means there is no upper bound.
	MaxImageCount uint32

	CurrentExtent  Extent2D
	MinImageExtent Extent2D
	MaxImageExtent Extent2D

	MaxImageArrayLayers uint32
	SupportedTransforms SurfaceTransformFlags
	CurrentTransform    SurfaceTransformFlags
}

// SurfaceSupport is everything a swapchain build needs to know about a surface on one device.
type SurfaceSupport struct {
	Capabilities SurfaceCapabilities
	Formats      []SurfaceFormat
	PresentModes []PresentMode
}

type QueueFamilyIndex uint32

// QueueFamilyIgnored is the "not found" queue family.
const QueueFamilyIgnored = ^QueueFamilyIndex(0)

type QueueFamily struct {
	Index QueueFamilyIndex
	Flags QueueFlags
}

type DeviceProperties struct {
	Name              string
	APIVersion        APIVersion
	PipelineCacheUUID uuid.UUID
}

type Feature string

const (
	FeatureDynamicRendering     Feature = "dynamicRendering"
	FeatureExtendedDynamicState Feature = "extendedDynamicState"
	FeatureSamplerAnisotropy    Feature = "samplerAnisotropy"
)

// FeatureSet reports which features a device can enable.
type FeatureSet map[Feature]bool

type ShaderStage uint32

const (
	StageVertex   ShaderStage = 0x01
	StageFragment ShaderStage = 0x10
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "Vertex"
	case StageFragment:
		return "Fragment"
	}
	return fmt.Sprintf("ShaderStage(%#x)", uint32(s))
}
