package bootstrap

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// PhysicalDeviceRef is a chosen GPU. It owns nothing; it is valid only while the
// instance it was enumerated from is alive.
type PhysicalDeviceRef struct {
	device     PhysicalDevice
	index      int
	properties DeviceProperties
	extensions NameSet
	features   FeatureSet
	instance   *Object
}

func (r *PhysicalDeviceRef) Device() PhysicalDevice { return r.device }

func (r *PhysicalDeviceRef) Index() int { return r.index }

func (r *PhysicalDeviceRef) Properties() DeviceProperties { return r.properties }

func (r *PhysicalDeviceRef) Extensions() NameSet { return r.extensions }

func (r *PhysicalDeviceRef) Features() FeatureSet { return r.features }

func (r *PhysicalDeviceRef) Valid() bool { return !r.instance.Released() }

// Candidate records why a device was accepted or rejected during selection.
type Candidate struct {
	Index      int
	Properties DeviceProperties
	// Reason is empty for the device that satisfied every requirement.
	Reason string
}

func (c Candidate) Suitable() bool { return c.Reason == "" }

type DeviceSelector struct {
	Catalog       *Catalog
	MinAPIVersion APIVersion

	Log logrus.FieldLogger
}

// Select returns the first enumerated device that satisfies every requirement.
// Devices are not scored; discrete and integrated GPUs are treated alike.
func (s *DeviceSelector) Select(instance *InstanceHandle, requiredExtensions []string, requiredFeatures []Feature) (*PhysicalDeviceRef, error) {
	log := loggerOr(s.Log)

	if err := requireLive("select physical device", instance.obj); err != nil {
		return nil, err
	}

	devices, err := instance.instance.EnumeratePhysicalDevices()
	if err != nil {
		return nil, fail(ErrNoSuitableDevice, err, "enumerate physical devices")
	}

	var candidates []Candidate
	var chosen *PhysicalDeviceRef
	for index, device := range devices {
		ref, reason := s.evaluate(index, device, requiredExtensions, requiredFeatures)
		candidates = append(candidates, Candidate{Index: index, Properties: ref.properties, Reason: reason})
		if reason != "" {
			log.WithFields(logrus.Fields{"device": index, "reason": reason}).Debug("device rejected")
			continue
		}

		ref.instance = instance.obj
		chosen = ref
		break
	}

	log.Debug("device report\n" + DeviceReport(candidates))

	if chosen == nil {
		return nil, fail(ErrNoSuitableDevice, nil, "none of %d physical devices satisfies the requirements", len(devices))
	}

	log.WithFields(logrus.Fields{
		"device": chosen.properties.Name,
		"index":  chosen.index,
		"api":    chosen.properties.APIVersion.String(),
	}).Info("physical device selected")
	return chosen, nil
}

func (s *DeviceSelector) evaluate(index int, device PhysicalDevice, requiredExtensions []string, requiredFeatures []Feature) (*PhysicalDeviceRef, string) {
	ref := &PhysicalDeviceRef{device: device, index: index}

	properties, err := device.Properties()
	if err != nil {
		return ref, fmt.Sprintf("properties unavailable: %v", err)
	}
	ref.properties = properties

	if !properties.APIVersion.IsAtLeast(s.MinAPIVersion) {
		return ref, fmt.Sprintf("api version %s below %s", properties.APIVersion, s.MinAPIVersion)
	}

	if !hasGraphicsFamily(device.QueueFamilies()) {
		return ref, "no graphics queue family"
	}

	ref.extensions, err = s.Catalog.DeviceExtensions(device)
	if err != nil {
		return ref, err.Error()
	}
	if missing, ok := ref.extensions.Missing(requiredExtensions); ok {
		return ref, fmt.Sprintf("missing %s %s", CapabilityDeviceExtension, missing)
	}

	ref.features, err = s.Catalog.DeviceFeatures(device)
	if err != nil {
		return ref, err.Error()
	}
	for _, feature := range requiredFeatures {
		if !ref.features[feature] {
			return ref, fmt.Sprintf("missing %s %s", CapabilityFeature, feature)
		}
	}

	return ref, ""
}

func hasGraphicsFamily(families []QueueFamily) bool {
	for _, family := range families {
		if family.Flags&QueueGraphics != 0 {
			return true
		}
	}
	return false
}
