// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

// Package display queries the size of the primary display.
package display

import "errors"

// ErrUnavailable is returned when the platform offers no way to query the
// display or the query failed.
var ErrUnavailable = errors.New("display size unavailable")
