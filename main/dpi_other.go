//go:build !windows

package main

// DPI awareness is a Windows-only concern; other platforms handle
// scaling in the compositor.
func enableDPIAwareness() {}
