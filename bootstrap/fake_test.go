package bootstrap

import (
	"fmt"
	"io/ioutil"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// recorder collects every create and destroy call made against the fake driver.
type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...interface{}) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) reset() {
	r.events = nil
}

type fakeHandle struct {
	rec  *recorder
	name string
}

func (h *fakeHandle) Destroy() { h.rec.add("destroy %s", h.name) }

type fakeLoader struct {
	rec        *recorder
	layers     []string
	extensions []string
	devices    []*fakePhysicalDevice
	createErr  error

	created  bool
	lastInfo InstanceCreateInfo
	instance *fakeInstance
}

func (l *fakeLoader) AvailableLayers() ([]string, error) { return l.layers, nil }

func (l *fakeLoader) AvailableExtensions() ([]string, error) { return l.extensions, nil }

func (l *fakeLoader) CreateInstance(info InstanceCreateInfo) (Instance, error) {
	l.lastInfo = info
	if l.createErr != nil {
		return nil, l.createErr
	}
	l.created = true
	l.rec.add("create instance")
	l.instance = &fakeInstance{loader: l}
	return l.instance, nil
}

type fakeInstance struct {
	loader        *fakeLoader
	enumerateErr  error
	messengerInfo *DebugMessengerCreateInfo
}

func (i *fakeInstance) EnumeratePhysicalDevices() ([]PhysicalDevice, error) {
	if i.enumerateErr != nil {
		return nil, i.enumerateErr
	}
	devices := make([]PhysicalDevice, 0, len(i.loader.devices))
	for _, device := range i.loader.devices {
		devices = append(devices, device)
	}
	return devices, nil
}

func (i *fakeInstance) CreateDebugMessenger(info DebugMessengerCreateInfo) (DebugMessenger, error) {
	i.messengerInfo = &info
	i.loader.rec.add("create diagnostics")
	return &fakeHandle{rec: i.loader.rec, name: "diagnostics"}, nil
}

func (i *fakeInstance) Destroy() { i.loader.rec.add("destroy instance") }

type fakePhysicalDevice struct {
	rec           *recorder
	properties    DeviceProperties
	propertiesErr error
	families      []QueueFamily
	present       map[QueueFamilyIndex]bool
	extensions    []string
	features      FeatureSet
	createErr     error

	createInfo *DeviceCreateInfo
	device     *fakeDevice
}

func (d *fakePhysicalDevice) Properties() (DeviceProperties, error) {
	return d.properties, d.propertiesErr
}

func (d *fakePhysicalDevice) QueueFamilies() []QueueFamily { return d.families }

func (d *fakePhysicalDevice) Extensions() ([]string, error) { return d.extensions, nil }

func (d *fakePhysicalDevice) Features() (FeatureSet, error) { return d.features, nil }

func (d *fakePhysicalDevice) CreateDevice(info DeviceCreateInfo) (Device, error) {
	d.createInfo = &info
	if d.createErr != nil {
		return nil, d.createErr
	}
	d.rec.add("create device")
	if d.device == nil {
		d.device = &fakeDevice{viewFailAt: -1}
	}
	d.device.rec = d.rec
	return d.device, nil
}

type fakeSurface struct {
	rec          *recorder
	capabilities SurfaceCapabilities
	formats      []SurfaceFormat
	presentModes []PresentMode
	queries      int
}

func (s *fakeSurface) SupportsPresent(device PhysicalDevice, family QueueFamilyIndex) (bool, error) {
	return device.(*fakePhysicalDevice).present[family], nil
}

func (s *fakeSurface) Capabilities(device PhysicalDevice) (SurfaceCapabilities, error) {
	s.queries++
	return s.capabilities, nil
}

func (s *fakeSurface) Formats(device PhysicalDevice) ([]SurfaceFormat, error) {
	return s.formats, nil
}

func (s *fakeSurface) PresentModes(device PhysicalDevice) ([]PresentMode, error) {
	return s.presentModes, nil
}

func (s *fakeSurface) Destroy() { s.rec.add("destroy surface") }

type fakeQueue struct {
	family QueueFamilyIndex
	index  uint32
}

type fakeDevice struct {
	rec *recorder

	swapchainErr  error
	swapchainInfo *SwapchainCreateInfo
	// imageCount overrides the number of images the swapchain hands out.
	imageCount int
	viewFailAt int
	views      int
	viewInfos  []ImageViewCreateInfo

	shaderErr  error
	shaderCode []uint32
}

func (d *fakeDevice) Queue(family QueueFamilyIndex, index uint32) Queue {
	return fakeQueue{family: family, index: index}
}

func (d *fakeDevice) CreateSwapchain(info SwapchainCreateInfo) (Swapchain, error) {
	d.swapchainInfo = &info
	if d.swapchainErr != nil {
		return nil, d.swapchainErr
	}
	d.rec.add("create swapchain")

	count := int(info.MinImageCount)
	if d.imageCount > 0 {
		count = d.imageCount
	}
	return &fakeSwapchain{rec: d.rec, images: count}, nil
}

func (d *fakeDevice) CreateImageView(info ImageViewCreateInfo) (ImageView, error) {
	if d.views == d.viewFailAt {
		return nil, errors.New("out of device memory")
	}
	index := d.views
	d.views++
	d.viewInfos = append(d.viewInfos, info)
	d.rec.add("create image view %d", index)
	return &fakeHandle{rec: d.rec, name: fmt.Sprintf("image view %d", index)}, nil
}

func (d *fakeDevice) CreateShaderModule(code []uint32) (ShaderModule, error) {
	if d.shaderErr != nil {
		return nil, d.shaderErr
	}
	d.shaderCode = code
	d.rec.add("create shader module")
	return &fakeHandle{rec: d.rec, name: "shader module"}, nil
}

func (d *fakeDevice) Destroy() { d.rec.add("destroy device") }

type fakeSwapchain struct {
	rec    *recorder
	images int
}

func (s *fakeSwapchain) Images() ([]Image, error) {
	images := make([]Image, s.images)
	for i := range images {
		images[i] = i
	}
	return images, nil
}

func (s *fakeSwapchain) Destroy() { s.rec.add("destroy swapchain") }

type fakeWindow struct {
	rec        *recorder
	extensions []string
	width      uint32
	height     uint32
	sizeCalls  int
	surface    *fakeSurface
	surfaceErr error
}

func (w *fakeWindow) RequiredInstanceExtensions() []string { return w.extensions }

func (w *fakeWindow) FramebufferSize() (uint32, uint32) {
	w.sizeCalls++
	return w.width, w.height
}

func (w *fakeWindow) CreateSurface(instance Instance) (Surface, error) {
	if w.surfaceErr != nil {
		return nil, w.surfaceErr
	}
	if w.surface == nil {
		return nil, nil
	}
	w.rec.add("create surface")
	return w.surface, nil
}

type fakeBlobs map[string][]byte

func (b fakeBlobs) Find(name string) ([]byte, error) {
	blob, ok := b[name]
	if !ok {
		return nil, errors.Newf("%s not found", name)
	}
	return blob, nil
}

// fakeHost is a machine with one capable GPU and a window that can present.
type fakeHost struct {
	rec     *recorder
	loader  *fakeLoader
	device  *fakePhysicalDevice
	surface *fakeSurface
	window  *fakeWindow
	blobs   fakeBlobs
}

func newFakeHost() *fakeHost {
	rec := &recorder{}

	device := newFakeDevice(rec, "gpu0")
	surface := &fakeSurface{
		rec: rec,
		capabilities: SurfaceCapabilities{
			MinImageCount:       2,
			MaxImageCount:       8,
			CurrentExtent:       Extent2D{Width: 800, Height: 600},
			MinImageExtent:      Extent2D{Width: 1, Height: 1},
			MaxImageExtent:      Extent2D{Width: 4096, Height: 4096},
			MaxImageArrayLayers: 1,
			SupportedTransforms: SurfaceTransformIdentity,
			CurrentTransform:    SurfaceTransformIdentity,
		},
		formats: []SurfaceFormat{
			{Format: FormatB8G8R8A8UNorm, ColorSpace: ColorSpaceSRGBNonlinear},
			{Format: FormatB8G8R8A8SRGB, ColorSpace: ColorSpaceSRGBNonlinear},
		},
		presentModes: []PresentMode{PresentModeFIFO, PresentModeMailbox},
	}

	return &fakeHost{
		rec: rec,
		loader: &fakeLoader{
			rec:        rec,
			layers:     []string{ValidationLayer},
			extensions: []string{"VK_KHR_surface", "VK_KHR_xcb_surface", DebugUtilsExtension},
			devices:    []*fakePhysicalDevice{device},
		},
		device:  device,
		surface: surface,
		window: &fakeWindow{
			rec:        rec,
			extensions: []string{"VK_KHR_surface", "VK_KHR_xcb_surface"},
			width:      1024,
			height:     768,
			surface:    surface,
		},
		blobs: fakeBlobs{DefaultShaderName: {0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00}},
	}
}

func newFakeDevice(rec *recorder, name string) *fakePhysicalDevice {
	return &fakePhysicalDevice{
		rec:        rec,
		properties: DeviceProperties{Name: name, APIVersion: Vulkan1_3},
		families:   []QueueFamily{{Index: 0, Flags: QueueGraphics | QueueCompute | QueueTransfer}},
		present:    map[QueueFamilyIndex]bool{0: true},
		extensions: []string{SwapchainExtension, DynamicRenderingExtension, ExtendedDynamicStateExtension},
		features: FeatureSet{
			FeatureDynamicRendering:     true,
			FeatureExtendedDynamicState: true,
		},
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.EnableDiagnostics = true
	return cfg
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = ioutil.Discard
	log.SetLevel(logrus.DebugLevel)
	return log
}

// stages drives the individual components the way Bootstrap does, stopping
// after the logical device.
type stages struct {
	host    *fakeHost
	objects *Objects
	catalog *Catalog

	instance *InstanceHandle
	surface  *SurfaceHandle
	physical *PhysicalDeviceRef
	device   *LogicalDeviceHandle
	queue    *QueueHandle
}

func acquireDevice(host *fakeHost) (*stages, error) {
	log := quietLogger()
	s := &stages{host: host, objects: NewObjects(log), catalog: NewCatalog(host.loader)}

	var err error
	builder := &InstanceBuilder{
		Catalog:          s.catalog,
		Loader:           host.loader,
		WindowExtensions: host.window.extensions,
		ValidationLayers: []string{ValidationLayer},
		APIVersion:       Vulkan1_3,
		Objects:          s.objects,
		Log:              log,
	}
	s.instance, err = builder.Build("test", MakeAPIVersion(1, 0, 0), false)
	if err != nil {
		return nil, err
	}

	s.surface, err = (&SurfaceBinder{Objects: s.objects, Log: log}).Bind(s.instance, host.window)
	if err != nil {
		return nil, err
	}

	selector := &DeviceSelector{Catalog: s.catalog, MinAPIVersion: Vulkan1_3, Log: log}
	s.physical, err = selector.Select(s.instance, []string{SwapchainExtension}, nil)
	if err != nil {
		return nil, err
	}

	factory := &LogicalDeviceFactory{Objects: s.objects, Log: log}
	s.device, s.queue, err = factory.Create(s.physical, s.surface, []string{SwapchainExtension}, nil)
	if err != nil {
		return nil, err
	}
	return s, nil
}
