//go:build rhidebug

package diagnostics

const debugBuild = true
