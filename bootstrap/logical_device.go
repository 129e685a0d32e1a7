package bootstrap

import (
	"github.com/sirupsen/logrus"
)

type LogicalDeviceHandle struct {
	device     Device
	family     QueueFamilyIndex
	extensions []string
	features   []Feature
	obj        *Object
	objects    *Objects
}

func (h *LogicalDeviceHandle) Device() Device { return h.device }

func (h *LogicalDeviceHandle) Object() *Object { return h.obj }

func (h *LogicalDeviceHandle) QueueFamily() QueueFamilyIndex { return h.family }

func (h *LogicalDeviceHandle) EnabledExtensions() []string { return h.extensions }

func (h *LogicalDeviceHandle) EnabledFeatures() []Feature { return h.features }

func (h *LogicalDeviceHandle) Destroy() error {
	return h.objects.Release(h.obj)
}

// QueueHandle is a view onto a queue owned by a logical device.
type QueueHandle struct {
	queue  Queue
	family QueueFamilyIndex
	index  uint32
	device *Object
}

func (q *QueueHandle) Queue() Queue { return q.queue }

func (q *QueueHandle) Family() QueueFamilyIndex { return q.family }

func (q *QueueHandle) Index() uint32 { return q.index }

func (q *QueueHandle) Valid() bool { return !q.device.Released() }

// FindGraphicsPresentFamily returns the first queue family that can both run
// graphics work and present to the surface, or QueueFamilyIgnored.
func FindGraphicsPresentFamily(device PhysicalDevice, surface Surface) (QueueFamilyIndex, error) {
	for _, family := range device.QueueFamilies() {
		if family.Flags&QueueGraphics == 0 {
			continue
		}

		supported, err := surface.SupportsPresent(device, family.Index)
		if err != nil {
			return QueueFamilyIgnored, err
		}
		if supported {
			return family.Index, nil
		}
	}

	return QueueFamilyIgnored, nil
}

type LogicalDeviceFactory struct {
	QueuePriority float32

	Objects *Objects
	Log     logrus.FieldLogger
}

func (f *LogicalDeviceFactory) Create(physicalDevice *PhysicalDeviceRef, surface *SurfaceHandle, requiredExtensions []string, requiredFeatures []Feature) (*LogicalDeviceHandle, *QueueHandle, error) {
	if err := requireLive("create logical device", physicalDevice.instance, surface.obj); err != nil {
		return nil, nil, err
	}

	family, err := FindGraphicsPresentFamily(physicalDevice.device, surface.surface)
	if err != nil {
		return nil, nil, fail(ErrNoGraphicsPresentQueue, err, "query queue families")
	}
	if family == QueueFamilyIgnored {
		return nil, nil, fail(ErrNoGraphicsPresentQueue, nil, "device %s has no queue family with graphics and present support", physicalDevice.properties.Name)
	}

	priority := f.QueuePriority
	if priority <= 0 || priority > 1 {
		priority = DefaultQueuePriority
	}

	extensions := append([]string{}, requiredExtensions...)

	// Makes this compatible with vulkan portability, necessary to run on mobile & mac
	if physicalDevice.extensions.Has(PortabilitySubsetExtension) {
		extensions = append(extensions, PortabilitySubsetExtension)
	}

	device, err := physicalDevice.device.CreateDevice(DeviceCreateInfo{
		QueueCreateInfos: []QueueCreateInfo{
			{
				FamilyIndex: family,
				Priorities:  []float32{priority},
			},
		},
		EnabledExtensionNames: extensions,
		EnabledFeatures:       requiredFeatures,
	})
	if err != nil {
		return nil, nil, fail(ErrDeviceCreationFailed, err, "create logical device on %s", physicalDevice.properties.Name)
	}

	// The surface is only needed for the queue family query; device lifetime
	// is tied to the instance alone.
	obj, err := f.Objects.Track(KindDevice, physicalDevice.properties.Name, device.Destroy, physicalDevice.instance)
	if err != nil {
		device.Destroy()
		return nil, nil, err
	}

	handle := &LogicalDeviceHandle{
		device:     device,
		family:     family,
		extensions: extensions,
		features:   requiredFeatures,
		obj:        obj,
		objects:    f.Objects,
	}
	queue := &QueueHandle{
		queue:  device.Queue(family, 0),
		family: family,
		index:  0,
		device: obj,
	}

	loggerOr(f.Log).WithFields(logrus.Fields{
		"family":     family,
		"extensions": extensions,
		"features":   requiredFeatures,
	}).Info("logical device created")
	return handle, queue, nil
}
