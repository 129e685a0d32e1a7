// Package config reads the bootstrap settings from the environment and an
// optional .env file.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/vulkan-bootstrap/bootstrap"
)

const (
	KeyAppName          = "VKBOOT_APP_NAME"
	KeyDiagnostics      = "VKBOOT_DIAGNOSTICS"
	KeyLogLevel         = "VKBOOT_LOG_LEVEL"
	KeyShaderDir        = "VKBOOT_SHADER_DIR"
	KeyShader           = "VKBOOT_SHADER"
	KeyWidth            = "VKBOOT_WIDTH"
	KeyHeight           = "VKBOOT_HEIGHT"
	KeyImageCount       = "VKBOOT_IMAGE_COUNT"
	KeyDeviceExtensions = "VKBOOT_DEVICE_EXTENSIONS"
)

const (
	DefaultEnvFile         = ".env"
	DefaultShaderDir       = "shaders"
	DefaultWidth     int32 = 800
	DefaultHeight    int32 = 600
)

type Settings struct {
	Bootstrap bootstrap.Config

	Width     int32
	Height    int32
	LogLevel  logrus.Level
	ShaderDir string
}

// Load applies envFile (when it exists) over the process environment and
// reads the settings. A missing envFile is not an error.
func Load(envFile string) (Settings, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Overload(envFile); err != nil {
				return Settings{}, errors.Wrapf(err, "load %s", envFile)
			}
		}
	}
	envy.Reload()
	return FromEnv()
}

// FromEnv reads the settings from envy's view of the environment.
func FromEnv() (Settings, error) {
	settings := Settings{
		Bootstrap: bootstrap.DefaultConfig(),
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		LogLevel:  logrus.InfoLevel,
		ShaderDir: envy.Get(KeyShaderDir, DefaultShaderDir),
	}
	if bootstrap.DebugBuild() {
		settings.LogLevel = logrus.DebugLevel
	}

	cfg := &settings.Bootstrap
	cfg.ApplicationName = envy.Get(KeyAppName, cfg.ApplicationName)
	cfg.ShaderName = envy.Get(KeyShader, cfg.ShaderName)

	var err error
	if value := envy.Get(KeyDiagnostics, ""); value != "" {
		cfg.EnableDiagnostics, err = strconv.ParseBool(value)
		if err != nil {
			return settings, errors.Wrapf(err, "parse %s", KeyDiagnostics)
		}
	}

	if value := envy.Get(KeyLogLevel, ""); value != "" {
		settings.LogLevel, err = logrus.ParseLevel(value)
		if err != nil {
			return settings, errors.Wrapf(err, "parse %s", KeyLogLevel)
		}
	}

	if settings.Width, err = int32Value(KeyWidth, settings.Width); err != nil {
		return settings, err
	}
	if settings.Height, err = int32Value(KeyHeight, settings.Height); err != nil {
		return settings, err
	}

	if value := envy.Get(KeyImageCount, ""); value != "" {
		count, err := strconv.ParseUint(value, 10, 32)
		if err != nil || count == 0 {
			return settings, errors.Newf("parse %s: %q is not a positive image count", KeyImageCount, value)
		}
		cfg.PreferredImageCount = uint32(count)
	}

	cfg.DeviceExtensions = appendUnique(cfg.DeviceExtensions, splitList(envy.Get(KeyDeviceExtensions, ""))...)
	return settings, nil
}

func int32Value(key string, fallback int32) (int32, error) {
	value := envy.Get(key, "")
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseInt(value, 10, 32)
	if err != nil || parsed <= 0 {
		return fallback, errors.Newf("parse %s: %q is not a positive size", key, value)
	}
	return int32(parsed), nil
}

func splitList(value string) []string {
	var list []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			list = append(list, item)
		}
	}
	return list
}

func appendUnique(list []string, items ...string) []string {
	seen := bootstrap.NewNameSet(list...)
	for _, item := range items {
		if seen.Has(item) {
			continue
		}
		seen[item] = struct{}{}
		list = append(list, item)
	}
	return list
}
