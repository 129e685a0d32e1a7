//go:build !release

package bootstrap

const debugBuild = true
