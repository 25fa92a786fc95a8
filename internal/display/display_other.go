// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

//go:build !windows

package display

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// GLFW must only be called from the main thread.
	runtime.LockOSThread()
}

// Primary returns the width and height of the primary display's current
// video mode.
func Primary() (width, height int, err error) {
	if err := glfw.Init(); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer glfw.Terminate()

	mon := glfw.GetPrimaryMonitor()
	if mon == nil {
		return 0, 0, fmt.Errorf("%w: no monitor connected", ErrUnavailable)
	}
	mode := mon.GetVideoMode()
	if mode == nil {
		return 0, 0, fmt.Errorf("%w: no video mode for %s", ErrUnavailable, mon.GetName())
	}
	return mode.Width, mode.Height, nil
}
