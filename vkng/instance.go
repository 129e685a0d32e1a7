package vkng

import (
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/vulkan-bootstrap/bootstrap"
)

type Instance struct {
	instance core1_0.Instance
}

func (i *Instance) Handle() core1_0.Instance { return i.instance }

func (i *Instance) EnumeratePhysicalDevices() ([]bootstrap.PhysicalDevice, error) {
	physicalDevices, _, err := i.instance.EnumeratePhysicalDevices()
	if err != nil {
		return nil, err
	}

	devices := make([]bootstrap.PhysicalDevice, 0, len(physicalDevices))
	for index, device := range physicalDevices {
		devices = append(devices, &PhysicalDevice{device: device, index: index})
	}
	return devices, nil
}

func (i *Instance) CreateDebugMessenger(info bootstrap.DebugMessengerCreateInfo) (bootstrap.DebugMessenger, error) {
	debugLoader := ext_debug_utils.CreateExtensionFromInstance(i.instance)
	messenger, _, err := debugLoader.CreateDebugUtilsMessenger(i.instance, nil, debugMessengerOptions(info))
	if err != nil {
		return nil, err
	}
	return &DebugMessenger{messenger: messenger}, nil
}

func (i *Instance) Destroy() {
	i.instance.Destroy(nil)
}

type DebugMessenger struct {
	messenger ext_debug_utils.Messenger
}

func (m *DebugMessenger) Destroy() {
	m.messenger.Destroy(nil)
}

// Severity and type bits share their values with the Vulkan flag bits, so the
// conversions below are plain casts.
func debugMessengerOptions(info bootstrap.DebugMessengerCreateInfo) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	callback := info.Callback

	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.MessageSeverities(info.Severities),
		MessageType:     ext_debug_utils.MessageTypes(info.Types),
		UserCallback: func(msgType ext_debug_utils.MessageTypes, severity ext_debug_utils.MessageSeverities, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			if callback == nil {
				return false
			}

			msg := bootstrap.DebugMessage{
				Severity: bootstrap.DebugSeverity(severity),
				Types:    bootstrap.DebugMessageType(msgType),
			}
			if data != nil {
				msg.Text = data.Message
			}
			return callback(msg)
		},
	}
}
