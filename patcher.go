// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package cruisepatch

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultTarget is the executable patched when no path is given.
const DefaultTarget = "CruiseShipTycoon.exe"

// Options selects what a Patch run does.
type Options struct {
	// Path of the executable.
	Path string
	// Resolution as WIDTHxHEIGHT. Empty uses the size of the primary display.
	Resolution string
	// WideMenu uses the in-game resolution for the menu too instead of
	// the closest 4:3 resolution.
	WideMenu bool
	// Letterbox uses the closest 4:3 resolution in game as well.
	Letterbox bool
}

// Patcher applies and reverts the resolution patch.
type Patcher struct {
	Log logrus.FieldLogger
	// Detect returns the size of the primary display.
	Detect func() (Resolution, error)
}

// Report describes a successful Patch.
type Report struct {
	Version   Version
	CRC       uint32
	Game      Resolution
	Menu      Resolution
	HUDOffset uint32
	Hits      []Hit
}

func (p *Patcher) log() logrus.FieldLogger {
	if p.Log == nil {
		l := logrus.New()
		l.Out = io.Discard
		p.Log = l
	}
	return p.Log
}

// warnMissing only warns; the caller fails later with the actual error.
func (p *Patcher) warnMissing(path string) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		p.log().WithField("path", path).Warn("File is not found!")
	}
}

// Patch verifies the executable at opts.Path, backs it up and rewrites its
// resolution and HUD constants. Nothing is written unless the checksum is a
// known one and every pattern is present.
func (p *Patcher) Patch(opts Options) (*Report, error) {
	log := p.log().WithField("path", opts.Path)

	p.warnMissing(opts.Path)

	v, sum, err := Verify(opts.Path)
	if err != nil {
		return nil, err
	}
	log = log.WithFields(logrus.Fields{"version": v, "crc": sum})
	log.Debug("Recognized executable")
	if v == V1001 {
		log.Info("FYI: this is not the latest version of the game. " +
			"This patch works as is, but if you wish, look for Patch 3 of the game and patch again after updating.")
	}

	game, err := p.resolve(opts, opts.Letterbox, false)
	if err != nil {
		return nil, err
	}
	menu := game
	if !opts.WideMenu {
		if menu, err = p.resolve(opts, true, true); err != nil {
			return nil, err
		}
	}
	hud, err := HUDOffset(game.Height)
	if err != nil {
		return nil, err
	}
	rs, err := rules(v, game, menu, hud)
	if err != nil {
		return nil, err
	}

	log.Info("Making a backup")
	if err := Backup(opts.Path); err != nil {
		return nil, err
	}

	log.Info("Patching the game")
	info, err := os.Stat(opts.Path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("could not read '%v': %w", opts.Path, err)
	}
	patched, hits, err := Apply(content, rs)
	if err != nil {
		return nil, err
	}
	for _, h := range hits {
		log.WithFields(logrus.Fields{"rule": h.Rule, "count": h.Count}).Debug("Replaced")
	}
	if err := os.WriteFile(opts.Path, patched, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("could not write '%v': %w", opts.Path, err)
	}

	log.Info("File has been patched successfully")
	log.Info("Don't forget to set game resolution to 1280x960 in options!")
	return &Report{
		Version:   v,
		CRC:       sum,
		Game:      game,
		Menu:      menu,
		HUDOffset: hud,
		Hits:      hits,
	}, nil
}
