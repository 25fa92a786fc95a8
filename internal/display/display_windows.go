// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

//go:build windows

package display

import (
	"fmt"

	"golang.org/x/sys/windows"
)

var procGetSystemMetrics = windows.NewLazySystemDLL("user32.dll").NewProc("GetSystemMetrics")

const (
	smCxScreen = 0
	smCyScreen = 1
)

// Primary returns the width and height of the primary display in pixels.
func Primary() (width, height int, err error) {
	if err := procGetSystemMetrics.Find(); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	w, _, _ := procGetSystemMetrics.Call(smCxScreen)
	h, _, _ := procGetSystemMetrics.Call(smCyScreen)
	if w == 0 || h == 0 {
		return 0, 0, fmt.Errorf("%w: GetSystemMetrics returned %dx%d", ErrUnavailable, w, h)
	}
	return int(w), int(h), nil
}
