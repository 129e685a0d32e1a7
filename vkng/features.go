package vkng

import (
	"sort"
	"unsafe"

	"github.com/CannibalVox/cgoparam"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/vulkan-bootstrap/bootstrap"
)

// extensionFeature is a feature that lives outside VkPhysicalDeviceFeatures.
// It came from a device extension and is core (and required) from Promoted on.
type extensionFeature struct {
	Extension string
	Promoted  bootstrap.APIVersion
	// CoreStruct is set when the feature struct stays valid on a promoted
	// device without the extension enabled.
	CoreStruct    bool
	StructureType uint32
}

var extensionFeatures = map[bootstrap.Feature]extensionFeature{
	bootstrap.FeatureDynamicRendering: {
		Extension:     bootstrap.DynamicRenderingExtension,
		Promoted:      bootstrap.Vulkan1_3,
		CoreStruct:    true,
		StructureType: 1000044003, // VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_DYNAMIC_RENDERING_FEATURES
	},
	bootstrap.FeatureExtendedDynamicState: {
		Extension:     bootstrap.ExtendedDynamicStateExtension,
		Promoted:      bootstrap.Vulkan1_3,
		StructureType: 1000267000, // VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_EXTENDED_DYNAMIC_STATE_FEATURES_EXT
	},
}

// featureToggleData matches the C layout shared by the single-flag feature
// structs: sType, pNext, one VkBool32.
type featureToggleData struct {
	sType   uint32
	pNext   unsafe.Pointer
	enabled uint32
}

// featureToggle is chained into VkPhysicalDeviceFeatures2 to query a flag and
// into VkDeviceCreateInfo to enable it.
type featureToggle struct {
	Feature       bootstrap.Feature
	StructureType uint32
	Enabled       bool

	common.NextOptions
	common.NextOutData
}

func (t *featureToggle) populate(allocator *cgoparam.Allocator, preallocatedPointer unsafe.Pointer, next unsafe.Pointer) *featureToggleData {
	if preallocatedPointer == nil {
		preallocatedPointer = allocator.Malloc(int(unsafe.Sizeof(featureToggleData{})))
	}

	data := (*featureToggleData)(preallocatedPointer)
	data.sType = t.StructureType
	data.pNext = next
	data.enabled = 0
	return data
}

func (t *featureToggle) PopulateCPointer(allocator *cgoparam.Allocator, preallocatedPointer unsafe.Pointer, next unsafe.Pointer) (unsafe.Pointer, error) {
	data := t.populate(allocator, preallocatedPointer, next)
	if t.Enabled {
		data.enabled = 1
	}
	return unsafe.Pointer(data), nil
}

func (t *featureToggle) PopulateHeader(allocator *cgoparam.Allocator, preallocatedPointer unsafe.Pointer, next unsafe.Pointer) (unsafe.Pointer, error) {
	return unsafe.Pointer(t.populate(allocator, preallocatedPointer, next)), nil
}

func (t *featureToggle) PopulateOutData(cDataPointer unsafe.Pointer, helpers ...any) (next unsafe.Pointer, err error) {
	data := (*featureToggleData)(cDataPointer)
	t.Enabled = data.enabled != 0
	return data.pNext, nil
}

// queryableFeatures lists the toggles a device may be asked about: the
// extension is advertised, or the struct is part of the core version.
func queryableFeatures(extensions bootstrap.NameSet, deviceVersion bootstrap.APIVersion) []*featureToggle {
	var toggles []*featureToggle
	for feature, info := range extensionFeatures {
		if extensions.Has(info.Extension) || (info.CoreStruct && deviceVersion.IsAtLeast(info.Promoted)) {
			toggles = append(toggles, &featureToggle{Feature: feature, StructureType: info.StructureType})
		}
	}
	sort.Slice(toggles, func(i, j int) bool { return toggles[i].Feature < toggles[j].Feature })
	return toggles
}

func chainOptions(toggles []*featureToggle) common.Options {
	var next common.Options
	for i := len(toggles) - 1; i >= 0; i-- {
		toggles[i].NextOptions = common.NextOptions{Next: next}
		next = toggles[i]
	}
	return next
}

func chainOutData(toggles []*featureToggle) common.OutData {
	var next common.OutData
	for i := len(toggles) - 1; i >= 0; i-- {
		toggles[i].NextOutData = common.NextOutData{Next: next}
		next = toggles[i]
	}
	return next
}
