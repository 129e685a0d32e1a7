package bootstrap

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
)

// Context holds every object the pipeline acquired, ready for pipeline assembly.
type Context struct {
	RunID   uuid.UUID
	Config  Config
	Objects *Objects

	Instance       *InstanceHandle
	Diagnostics    *DiagnosticsHandle
	Surface        *SurfaceHandle
	PhysicalDevice *PhysicalDeviceRef
	Device         *LogicalDeviceHandle
	Queue          *QueueHandle
	Swapchain      *SwapchainHandle
	Shader         *ShaderModuleHandle
	Stages         []ShaderStageDescriptor
}

// Destroy releases everything in reverse creation order.
func (c *Context) Destroy() {
	c.Objects.ReleaseAll()
}

type stage struct {
	name string
	run  func() error
}

// Bootstrap runs every acquisition stage in dependency order. When a stage fails
// everything acquired so far is released before the error is returned.
func Bootstrap(loader Loader, window Window, shaders BlobSource, cfg Config, log logrus.FieldLogger) (*Context, error) {
	runID := uuid.New()
	log = loggerOr(log).WithField("run", runID.String())

	objects := NewObjects(log)
	catalog := NewCatalog(loader)
	sink := NewDiagnosticsSink(objects, cfg.DiagnosticSeverities, log.WithField("stage", "diagnostics"))

	c := &Context{RunID: runID, Config: cfg, Objects: objects}

	stages := []stage{
		{"instance", func() (err error) {
			builder := &InstanceBuilder{
				Catalog:          catalog,
				Loader:           loader,
				WindowExtensions: window.RequiredInstanceExtensions(),
				ValidationLayers: []string{ValidationLayer},
				EngineName:       cfg.EngineName,
				EngineVersion:    cfg.EngineVersion,
				APIVersion:       cfg.APIVersion,
				Sink:             sink,
				Objects:          objects,
				Log:              log.WithField("stage", "instance"),
			}
			c.Instance, err = builder.Build(cfg.ApplicationName, cfg.ApplicationVersion, cfg.EnableDiagnostics)
			return err
		}},
		{"diagnostics", func() (err error) {
			if !cfg.EnableDiagnostics {
				return nil
			}
			c.Diagnostics, err = sink.Attach(c.Instance)
			return err
		}},
		{"surface", func() (err error) {
			binder := &SurfaceBinder{Objects: objects, Log: log.WithField("stage", "surface")}
			c.Surface, err = binder.Bind(c.Instance, window)
			return err
		}},
		{"physical device", func() (err error) {
			selector := &DeviceSelector{
				Catalog:       catalog,
				MinAPIVersion: cfg.MinDeviceAPIVersion,
				Log:           log.WithField("stage", "physical device"),
			}
			c.PhysicalDevice, err = selector.Select(c.Instance, cfg.DeviceExtensions, cfg.DeviceFeatures)
			return err
		}},
		{"logical device", func() (err error) {
			factory := &LogicalDeviceFactory{
				QueuePriority: cfg.QueuePriority,
				Objects:       objects,
				Log:           log.WithField("stage", "logical device"),
			}
			c.Device, c.Queue, err = factory.Create(c.PhysicalDevice, c.Surface, cfg.DeviceExtensions, cfg.DeviceFeatures)
			return err
		}},
		{"swapchain", func() (err error) {
			builder := &SwapchainBuilder{
				Catalog:             catalog,
				Window:              window,
				PreferredImageCount: cfg.PreferredImageCount,
				Objects:             objects,
				Log:                 log.WithField("stage", "swapchain"),
			}
			c.Swapchain, err = builder.Build(c.PhysicalDevice, c.Device, c.Surface, nil)
			return err
		}},
		{"shader stages", func() (err error) {
			shaderLoader := &ShaderStageLoader{
				Source:  shaders,
				Objects: objects,
				Log:     log.WithField("stage", "shader stages"),
			}
			c.Shader, err = shaderLoader.Load(c.Device, cfg.ShaderName)
			if err != nil {
				return err
			}
			c.Stages = c.Shader.Stages()
			return nil
		}},
	}

	total := hrtime.Now()
	for _, s := range stages {
		start := hrtime.Now()
		err := s.run()
		if err != nil {
			objects.ReleaseAll()
			return nil, errors.Wrapf(err, "bootstrap %s", s.name)
		}
		log.WithFields(logrus.Fields{
			"stage":   s.name,
			"elapsed": hrtime.Since(start).String(),
		}).Debug("stage complete")
	}

	log.WithField("elapsed", hrtime.Since(total).String()).Info("bootstrap complete")
	return c, nil
}
