package main

import (
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/vulkan-bootstrap/assets"
	"github.com/vkngwrapper/vulkan-bootstrap/bootstrap"
	"github.com/vkngwrapper/vulkan-bootstrap/config"
	"github.com/vkngwrapper/vulkan-bootstrap/vkng"
	"github.com/vkngwrapper/vulkan-bootstrap/window"
)

func init() {
	// SDL must be driven from the main thread.
	runtime.LockOSThread()
}

type Application struct {
	settings config.Settings
	log      *logrus.Logger

	window  *window.Window
	context *bootstrap.Context
}

func (app *Application) Run() error {
	err := app.initWindow()
	if err != nil {
		return err
	}
	defer app.cleanup()

	err = app.initVulkan()
	if err != nil {
		return err
	}

	return app.mainLoop()
}

func (app *Application) initWindow() error {
	var err error
	app.window, err = window.Open(app.settings.Bootstrap.ApplicationName, app.settings.Width, app.settings.Height)
	return err
}

func (app *Application) initVulkan() error {
	loader, err := vkng.NewLoaderFromProcAddr(app.window.ProcAddr())
	if err != nil {
		return err
	}

	shaders := &assets.Compressed{Source: assets.NewDir(app.settings.ShaderDir)}

	app.context, err = bootstrap.Bootstrap(loader, app.window, shaders, app.settings.Bootstrap, app.log)
	return err
}

func (app *Application) mainLoop() error {
	for !app.window.ShouldClose() {
		app.window.PollEvents()
		sdl.Delay(16)
	}
	return nil
}

func (app *Application) cleanup() {
	if app.context != nil {
		app.context.Destroy()
		app.context = nil
	}

	if app.window != nil {
		app.window.Destroy()
		app.window = nil
	}
}

func main() {
	log := logrus.New()
	log.Out = os.Stderr

	settings, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
	log.SetLevel(settings.LogLevel)

	app := &Application{settings: settings, log: log}

	err = app.Run()
	if err != nil {
		for _, hint := range errors.GetAllHints(err) {
			log.Info(hint)
		}
		log.Fatalf("%+v\n", err)
	}
}
