package vkng

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/core/core1_1"
	"github.com/vkngwrapper/vulkan-bootstrap/bootstrap"
)

type PhysicalDevice struct {
	device core1_0.PhysicalDevice
	index  int
}

func (d *PhysicalDevice) Handle() core1_0.PhysicalDevice { return d.device }

func (d *PhysicalDevice) Properties() (bootstrap.DeviceProperties, error) {
	properties, err := d.device.Properties()
	if err != nil {
		return bootstrap.DeviceProperties{}, err
	}

	return bootstrap.DeviceProperties{
		Name:              fmt.Sprintf("gpu%d", d.index),
		APIVersion:        bootstrap.APIVersion(properties.APIVersion),
		PipelineCacheUUID: properties.PipelineCacheUUID,
	}, nil
}

func (d *PhysicalDevice) QueueFamilies() []bootstrap.QueueFamily {
	queueFamilies := d.device.QueueFamilyProperties()

	families := make([]bootstrap.QueueFamily, 0, len(queueFamilies))
	for queueFamilyIdx, queueFamily := range queueFamilies {
		families = append(families, bootstrap.QueueFamily{
			Index: bootstrap.QueueFamilyIndex(queueFamilyIdx),
			Flags: bootstrap.QueueFlags(queueFamily.QueueFlags),
		})
	}
	return families
}

func (d *PhysicalDevice) Extensions() ([]string, error) {
	extensions, _, err := d.device.EnumerateDeviceExtensionProperties()
	if err != nil {
		return nil, err
	}
	return names(extensions), nil
}

func (d *PhysicalDevice) Features() (bootstrap.FeatureSet, error) {
	extensionNames, err := d.Extensions()
	if err != nil {
		return nil, err
	}
	extensions := bootstrap.NewNameSet(extensionNames...)
	version := bootstrap.APIVersion(d.device.DeviceAPIVersion())

	var queried map[bootstrap.Feature]bool
	toggles := queryableFeatures(extensions, version)
	if scoped := core1_1.PromoteInstanceScopedPhysicalDevice(d.device); scoped != nil && len(toggles) > 0 {
		out := &core1_1.PhysicalDeviceFeatures2{
			NextOutData: common.NextOutData{Next: chainOutData(toggles)},
		}
		if err := scoped.Features2(out); err != nil {
			return nil, errors.Wrap(err, "query extension features")
		}

		queried = map[bootstrap.Feature]bool{}
		for _, toggle := range toggles {
			queried[toggle.Feature] = toggle.Enabled
		}
	}

	return featureSet(d.device.Features(), extensions, version, queried), nil
}

func (d *PhysicalDevice) CreateDevice(info bootstrap.DeviceCreateInfo) (bootstrap.Device, error) {
	version := bootstrap.APIVersion(d.device.DeviceAPIVersion())
	enabledFeatures, extensionNames, toggles, err := enableFeatures(info.EnabledFeatures, info.EnabledExtensionNames, version)
	if err != nil {
		return nil, err
	}

	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	for _, queue := range info.QueueCreateInfos {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: int(queue.FamilyIndex),
			QueuePriorities:  queue.Priorities,
		})
	}

	device, _, err := d.device.CreateDevice(nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueFamilyOptions,
		EnabledFeatures:       enabledFeatures,
		EnabledExtensionNames: extensionNames,
		NextOptions:           common.NextOptions{Next: chainOptions(toggles)},
	})
	if err != nil {
		return nil, err
	}
	return &Device{device: device}, nil
}

// featureSet reads every boolean flag of the core feature struct by its Vulkan
// name (SamplerAnisotropy becomes samplerAnisotropy). Extension features use the
// queried flag when the device could be asked, otherwise the device version or
// the advertised extension.
func featureSet(features interface{}, extensions bootstrap.NameSet, version bootstrap.APIVersion, queried map[bootstrap.Feature]bool) bootstrap.FeatureSet {
	set := bootstrap.FeatureSet{}

	value := reflect.Indirect(reflect.ValueOf(features))
	if value.Kind() == reflect.Struct {
		structType := value.Type()
		for i := 0; i < structType.NumField(); i++ {
			field := value.Field(i)
			if field.Kind() != reflect.Bool {
				continue
			}
			set[featureName(structType.Field(i).Name)] = field.Bool()
		}
	}

	for feature, info := range extensionFeatures {
		if enabled, ok := queried[feature]; ok {
			set[feature] = enabled
			continue
		}
		set[feature] = version.IsAtLeast(info.Promoted) || extensions.Has(info.Extension)
	}
	return set
}

// enableFeatures splits the requested features into core flags and chained
// feature structs. A device older than the promoting version gets the
// feature's extension added.
func enableFeatures(features []bootstrap.Feature, extensionNames []string, version bootstrap.APIVersion) (*core1_0.PhysicalDeviceFeatures, []string, []*featureToggle, error) {
	enabled := &core1_0.PhysicalDeviceFeatures{}
	value := reflect.ValueOf(enabled).Elem()
	extensions := append([]string{}, extensionNames...)
	present := bootstrap.NewNameSet(extensions...)

	var toggles []*featureToggle
	for _, feature := range features {
		if info, ok := extensionFeatures[feature]; ok {
			promoted := version.IsAtLeast(info.Promoted)
			if !promoted && !present.Has(info.Extension) {
				extensions = append(extensions, info.Extension)
				present[info.Extension] = struct{}{}
			}
			if present.Has(info.Extension) || info.CoreStruct {
				toggles = append(toggles, &featureToggle{Feature: feature, StructureType: info.StructureType, Enabled: true})
			}
			continue
		}

		field := value.FieldByName(fieldName(feature))
		if !field.IsValid() || field.Kind() != reflect.Bool || !field.CanSet() {
			return nil, nil, nil, errors.Newf("feature %s has no core feature flag", feature)
		}
		field.SetBool(true)
	}

	return enabled, extensions, toggles, nil
}

func featureName(field string) bootstrap.Feature {
	r, size := utf8.DecodeRuneInString(field)
	return bootstrap.Feature(string(unicode.ToLower(r)) + field[size:])
}

func fieldName(feature bootstrap.Feature) string {
	r, size := utf8.DecodeRuneInString(string(feature))
	return string(unicode.ToUpper(r)) + string(feature)[size:]
}
