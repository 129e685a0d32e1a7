package bootstrap

// The interfaces below are the boundary between the bootstrap pipeline and a
// concrete graphics driver. Package vkng implements them over vkngwrapper; the
// tests implement them with a recording fake.

type Loader interface {
	AvailableLayers() ([]string, error)
	AvailableExtensions() ([]string, error)
	CreateInstance(info InstanceCreateInfo) (Instance, error)
}

type InstanceCreateInfo struct {
	ApplicationName    string
	ApplicationVersion APIVersion
	EngineName         string
	EngineVersion      APIVersion
	APIVersion         APIVersion

	EnabledLayerNames     []string
	EnabledExtensionNames []string

	EnumeratePortability bool

	// Diagnostics, when set, is chained into instance creation so messages
	// emitted while the instance itself is created or destroyed are reported.
	Diagnostics *DebugMessengerCreateInfo
}

type Instance interface {
	EnumeratePhysicalDevices() ([]PhysicalDevice, error)
	CreateDebugMessenger(info DebugMessengerCreateInfo) (DebugMessenger, error)
	Destroy()
}

type DebugMessenger interface {
	Destroy()
}

type PhysicalDevice interface {
	Properties() (DeviceProperties, error)
	QueueFamilies() []QueueFamily
	Extensions() ([]string, error)
	Features() (FeatureSet, error)
	CreateDevice(info DeviceCreateInfo) (Device, error)
}

type QueueCreateInfo struct {
	FamilyIndex QueueFamilyIndex
	Priorities  []float32
}

type DeviceCreateInfo struct {
	QueueCreateInfos      []QueueCreateInfo
	EnabledExtensionNames []string
	EnabledFeatures       []Feature
}

type Surface interface {
	SupportsPresent(device PhysicalDevice, family QueueFamilyIndex) (bool, error)
	Capabilities(device PhysicalDevice) (SurfaceCapabilities, error)
	Formats(device PhysicalDevice) ([]SurfaceFormat, error)
	PresentModes(device PhysicalDevice) ([]PresentMode, error)
	Destroy()
}

type Device interface {
	Queue(family QueueFamilyIndex, index uint32) Queue
	CreateSwapchain(info SwapchainCreateInfo) (Swapchain, error)
	CreateImageView(info ImageViewCreateInfo) (ImageView, error)
	CreateShaderModule(code []uint32) (ShaderModule, error)
	Destroy()
}

// Queue and Image are driver objects the application never destroys itself.
type Queue interface{}
type Image interface{}

type SwapchainCreateInfo struct {
	Surface Surface

	MinImageCount    uint32
	ImageFormat      Format
	ImageColorSpace  ColorSpace
	ImageExtent      Extent2D
	ImageArrayLayers uint32
	ImageUsage       ImageUsageFlags
	ImageSharingMode SharingMode

	PreTransform   SurfaceTransformFlags
	CompositeAlpha CompositeAlphaFlags
	PresentMode    PresentMode
	Clipped        bool

	OldSwapchain Swapchain
}

type Swapchain interface {
	Images() ([]Image, error)
	Destroy()
}

type ImageSubresourceRange struct {
	AspectMask     ImageAspectFlags
	BaseMipLevel   uint32
	LevelCount     uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

type ImageViewCreateInfo struct {
	Image            Image
	ViewType         ImageViewType
	Format           Format
	SubresourceRange ImageSubresourceRange
}

type ImageView interface {
	Destroy()
}

type ShaderModule interface {
	Destroy()
}

// Window is the part of the windowing layer the pipeline consumes.
type Window interface {
	RequiredInstanceExtensions() []string
	FramebufferSize() (width, height uint32)
	CreateSurface(instance Instance) (Surface, error)
}
