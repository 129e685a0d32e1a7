package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gobuffalo/envy"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/vulkan-bootstrap/bootstrap"
)

var keys = []string{
	KeyAppName, KeyDiagnostics, KeyLogLevel, KeyShaderDir, KeyShader,
	KeyWidth, KeyHeight, KeyImageCount, KeyDeviceExtensions,
}

// withEnv clears every key, applies values and reloads envy's view of the environment.
func withEnv(t *testing.T, values map[string]string) {
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	for key, value := range values {
		t.Setenv(key, value)
	}
	envy.Reload()
	t.Cleanup(envy.Reload)
}

func TestDefaults(t *testing.T) {
	withEnv(t, nil)

	settings, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(settings.Bootstrap, bootstrap.DefaultConfig()) {
		t.Errorf("expected defaults, got %+v", settings.Bootstrap)
	}
	if settings.Width != DefaultWidth || settings.Height != DefaultHeight || settings.ShaderDir != DefaultShaderDir {
		t.Errorf("unexpected window settings %+v", settings)
	}
}

func TestFromEnv(t *testing.T) {
	withEnv(t, map[string]string{
		KeyAppName:          "Triangle",
		KeyDiagnostics:      "false",
		KeyLogLevel:         "warn",
		KeyShaderDir:        "/opt/shaders",
		KeyShader:           "triangle.spv.lz4",
		KeyWidth:            "1280",
		KeyHeight:           "720",
		KeyImageCount:       "2",
		KeyDeviceExtensions: "VK_KHR_swapchain, VK_EXT_memory_budget,,",
	})

	settings, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}

	cfg := settings.Bootstrap
	if cfg.ApplicationName != "Triangle" || cfg.EnableDiagnostics || cfg.ShaderName != "triangle.spv.lz4" || cfg.PreferredImageCount != 2 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.DeviceExtensions, []string{bootstrap.SwapchainExtension, "VK_EXT_memory_budget"}) {
		t.Errorf("unexpected device extensions %v", cfg.DeviceExtensions)
	}
	if settings.LogLevel != logrus.WarnLevel || settings.Width != 1280 || settings.Height != 720 || settings.ShaderDir != "/opt/shaders" {
		t.Errorf("unexpected settings %+v", settings)
	}
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		KeyDiagnostics: "sometimes",
		KeyLogLevel:    "loud",
		KeyWidth:       "-4",
		KeyHeight:      "tall",
		KeyImageCount:  "0",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			withEnv(t, map[string]string{key: value})

			if _, err := FromEnv(); err == nil {
				t.Errorf("%s=%q accepted", key, value)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	withEnv(t, nil)

	dir, err := ioutil.TempDir("", "config")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	envFile := filepath.Join(dir, ".env")
	if err := ioutil.WriteFile(envFile, []byte(KeyAppName+"=From File\n"+KeyWidth+"=640\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv(KeyAppName)
		os.Unsetenv(KeyWidth)
	})

	settings, err := Load(envFile)
	if err != nil {
		t.Fatal(err)
	}
	if settings.Bootstrap.ApplicationName != "From File" || settings.Width != 640 {
		t.Errorf("env file not applied: %+v", settings)
	}
}

func TestLoadWithoutEnvFile(t *testing.T) {
	withEnv(t, nil)

	if _, err := Load(filepath.Join(os.TempDir(), "does-not-exist.env")); err != nil {
		t.Errorf("missing env file rejected: %v", err)
	}
}

func TestLoadDefaultEnvFileFromWorkingDirectory(t *testing.T) {
	withEnv(t, nil)

	dir, err := ioutil.TempDir("", "config")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	if err := ioutil.WriteFile(filepath.Join(dir, DefaultEnvFile), []byte(KeyHeight+"=480\n"), 0644); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Chdir(wd)
		os.Unsetenv(KeyHeight)
	})

	settings, err := Load(DefaultEnvFile)
	if err != nil {
		t.Fatal(err)
	}
	if settings.Height != 480 {
		t.Errorf("default env file not applied: %+v", settings)
	}
}
