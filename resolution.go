// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package cruisepatch

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// BaseHeight is the height the game ships with at its 1280x960 default.
// The HUD offset stored in the executable is derived from it.
const BaseHeight = 600

var (
	// ErrMalformedResolution is returned for anything that is not WIDTHxHEIGHT
	// with two positive integers.
	ErrMalformedResolution = errors.New("malformed resolution")
	// ErrNoDisplay is returned when no resolution was given and the display
	// size could not be queried.
	ErrNoDisplay = errors.New("could not detect screen resolution")
)

// Resolution is a screen size in pixels.
type Resolution struct {
	Width  int
	Height int
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// LE returns the width and height as 4-byte little-endian values.
func (r Resolution) LE() (width, height []byte) {
	return le32(uint32(r.Width)), le32(uint32(r.Height))
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

var resolutionRe = regexp.MustCompile(`^(\d+)x(\d+)$`)

// ParseResolution parses a "WIDTHxHEIGHT" string.
func ParseResolution(s string) (Resolution, error) {
	m := resolutionRe.FindStringSubmatch(s)
	if m == nil {
		return Resolution{}, fmt.Errorf("%w: %q, want WIDTHxHEIGHT", ErrMalformedResolution, s)
	}
	w, err := strconv.ParseInt(m[1], 10, 32)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: width %q: %v", ErrMalformedResolution, m[1], err)
	}
	h, err := strconv.ParseInt(m[2], 10, 32)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: height %q: %v", ErrMalformedResolution, m[2], err)
	}
	if w == 0 || h == 0 {
		return Resolution{}, fmt.Errorf("%w: %q has a zero dimension", ErrMalformedResolution, s)
	}
	return Resolution{Width: int(w), Height: int(h)}, nil
}

// 4:3 sizes the engine renders at 640x480 internally, and the tested size
// used in their place.
var letterboxSnaps = map[Resolution]Resolution{
	{960, 720}:   {1024, 768},
	{1067, 800}:  {1024, 768},
	{1200, 900}:  {1024, 768},
	{2880, 2160}: {1920, 1440},
}

// Letterbox returns the 4:3 resolution closest to a screen of the given height.
func Letterbox(height int) Resolution {
	r := Resolution{
		Width:  int(math.Round(4 * float64(height) / 3)),
		Height: height,
	}
	if snap, ok := letterboxSnaps[r]; ok {
		return snap
	}
	return r
}

// HUDOffset returns the HUD placement value for the given in-game height.
func HUDOffset(height int) (uint32, error) {
	if height < BaseHeight {
		return 0, fmt.Errorf("height %d is below the minimum of %d", height, BaseHeight)
	}
	return uint32(height - BaseHeight), nil
}

var testedResolutions = []Resolution{
	{1024, 768},
	{1280, 720},
	{1280, 800},
	{1280, 960},
	{1360, 768},
	{1366, 768},
	{1440, 1080},
	{1600, 900},
	{1920, 1080},
	{1920, 1440},
	{2560, 1440},
	{3840, 2160},
}

// Tested reports whether r is known to work with the game.
func Tested(r Resolution) bool {
	for _, t := range testedResolutions {
		if t == r {
			return true
		}
	}
	return false
}

// resolve picks the resolution to patch in. Menu resolutions are always
// letterboxed.
func (p *Patcher) resolve(opts Options, letterbox, menu bool) (Resolution, error) {
	var (
		r   Resolution
		err error
	)
	if opts.Resolution != "" {
		p.log().Info("Using custom resolution")
		if r, err = ParseResolution(opts.Resolution); err != nil {
			return Resolution{}, err
		}
	} else {
		if p.Detect == nil {
			return Resolution{}, ErrNoDisplay
		}
		if r, err = p.Detect(); err != nil {
			p.log().WithError(err).Warn("Could not detect the screen size, pass the resolution as WIDTHxHEIGHT")
			return Resolution{}, fmt.Errorf("%w: %v", ErrNoDisplay, err)
		}
		if r.Width <= 0 || r.Height <= 0 {
			return Resolution{}, fmt.Errorf("%w: display reported %v", ErrNoDisplay, r)
		}
	}

	if letterbox || menu {
		r = Letterbox(r.Height)
	}

	if menu {
		p.log().Infof("Changing menu resolution to %v", r)
	} else {
		p.log().Infof("Changing resolution to %v", r)
		if opts.WideMenu {
			p.log().Infof("Changing menu resolution to %v", r)
			p.log().Warn("Menu will likely get cropped!")
		}
	}

	if r.Height == 2160 {
		p.log().Warn("While the game can be displayed in 4K resolution, it will also crash a few times, probably due to engine limitation.\n" +
			"Can't really promise a stable gameplay, but worth a try.\n" +
			"If the game still doesn't launch in 4K after a few tries, or if 4K just doesn't work,\n" +
			"feel free to restore backup and patch again, setting resolution to 2560x1440 or lower.")
	}
	if !Tested(r) {
		p.log().Warnf("%v resolution was not tested, it might or might not work.", r)
	}
	return r, nil
}
