package bootstrap

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

type InstanceHandle struct {
	instance    Instance
	obj         *Object
	objects     *Objects
	layers      []string
	extensions  []string
	diagnostics bool
}

func (h *InstanceHandle) Instance() Instance { return h.instance }

func (h *InstanceHandle) Object() *Object { return h.obj }

func (h *InstanceHandle) Layers() []string { return h.layers }

func (h *InstanceHandle) Extensions() []string { return h.extensions }

func (h *InstanceHandle) DiagnosticsEnabled() bool { return h.diagnostics }

func (h *InstanceHandle) Destroy() error {
	return h.objects.Release(h.obj)
}

// InstanceBuilder validates the requested layers and extensions against the
// catalog and creates the root of the object graph.
type InstanceBuilder struct {
	Catalog *Catalog
	Loader  Loader

	WindowExtensions []string
	ValidationLayers []string

	EngineName    string
	EngineVersion APIVersion
	APIVersion    APIVersion

	// Sink, when set, is chained into instance creation if diagnostics are wanted.
	Sink *DiagnosticsSink

	Objects *Objects
	Log     logrus.FieldLogger
}

func (b *InstanceBuilder) Build(appName string, appVersion APIVersion, wantDiagnostics bool) (*InstanceHandle, error) {
	info := InstanceCreateInfo{
		ApplicationName:    appName,
		ApplicationVersion: appVersion,
		EngineName:         b.EngineName,
		EngineVersion:      b.EngineVersion,
		APIVersion:         b.APIVersion,
	}

	// Add layers
	if wantDiagnostics {
		layers, err := b.Catalog.Layers()
		if err != nil {
			return nil, fail(ErrInstanceCreationFailed, err, "build instance")
		}

		if missing, ok := layers.Missing(b.ValidationLayers); ok {
			return nil, errors.WithHint(unsupported(CapabilityLayer, missing), "install the LunarG Vulkan SDK")
		}
		info.EnabledLayerNames = append(info.EnabledLayerNames, b.ValidationLayers...)
	}

	// Add extensions
	extensions, err := b.Catalog.InstanceExtensions()
	if err != nil {
		return nil, fail(ErrInstanceCreationFailed, err, "build instance")
	}

	required := append([]string{}, b.WindowExtensions...)
	if wantDiagnostics {
		required = append(required, DebugUtilsExtension)
	}
	if missing, ok := extensions.Missing(required); ok {
		return nil, unsupported(CapabilityInstanceExtension, missing)
	}
	info.EnabledExtensionNames = required

	if extensions.Has(PortabilityEnumerationExtension) {
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, PortabilityEnumerationExtension)
		info.EnumeratePortability = true
	}

	if wantDiagnostics && b.Sink != nil {
		diagnostics := b.Sink.CreateInfo()
		info.Diagnostics = &diagnostics
	}

	instance, err := b.Loader.CreateInstance(info)
	if err != nil {
		return nil, fail(ErrInstanceCreationFailed, err, "create instance for %s", appName)
	}

	obj, err := b.Objects.Track(KindInstance, appName, instance.Destroy)
	if err != nil {
		instance.Destroy()
		return nil, err
	}

	loggerOr(b.Log).WithFields(logrus.Fields{
		"api":        info.APIVersion.String(),
		"layers":     info.EnabledLayerNames,
		"extensions": info.EnabledExtensionNames,
	}).Info("instance created")

	return &InstanceHandle{
		instance:    instance,
		obj:         obj,
		objects:     b.Objects,
		layers:      info.EnabledLayerNames,
		extensions:  info.EnabledExtensionNames,
		diagnostics: wantDiagnostics,
	}, nil
}
