package bootstrap

const (
	ValidationLayer                         = "VK_LAYER_KHRONOS_validation"
	DebugUtilsExtension                     = "VK_EXT_debug_utils"
	PortabilityEnumerationExtension         = "VK_KHR_portability_enumeration"
	PortabilitySubsetExtension              = "VK_KHR_portability_subset"
	SwapchainExtension                      = "VK_KHR_swapchain"
	DynamicRenderingExtension               = "VK_KHR_dynamic_rendering"
	ExtendedDynamicStateExtension           = "VK_EXT_extended_dynamic_state"
	DefaultShaderName                       = "shader.spv"
	DefaultQueuePriority            float32 = 0.5
	DefaultImageCount               uint32  = 3
)

// Config is every knob the pipeline reads. Diagnostics are an explicit value
// here; the build mode only decides the default.
type Config struct {
	ApplicationName    string
	ApplicationVersion APIVersion
	EngineName         string
	EngineVersion      APIVersion
	APIVersion         APIVersion

	EnableDiagnostics bool
	// DiagnosticSeverities filters which driver messages are surfaced to the log.
	DiagnosticSeverities DebugSeverity

	MinDeviceAPIVersion APIVersion
	DeviceExtensions    []string
	DeviceFeatures      []Feature

	QueuePriority       float32
	PreferredImageCount uint32

	ShaderName string
}

func DefaultConfig() Config {
	return Config{
		ApplicationName:    "Hello Triangle",
		ApplicationVersion: MakeAPIVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      MakeAPIVersion(1, 0, 0),
		APIVersion:         Vulkan1_3,

		EnableDiagnostics:    debugBuild,
		DiagnosticSeverities: SeverityWarning | SeverityError,

		MinDeviceAPIVersion: Vulkan1_3,
		DeviceExtensions:    []string{SwapchainExtension},
		DeviceFeatures:      []Feature{FeatureDynamicRendering, FeatureExtendedDynamicState},

		QueuePriority:       DefaultQueuePriority,
		PreferredImageCount: DefaultImageCount,

		ShaderName: DefaultShaderName,
	}
}

func DebugBuild() bool {
	return debugBuild
}
