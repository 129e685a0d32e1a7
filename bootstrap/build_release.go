//go:build release

package bootstrap

const debugBuild = false
