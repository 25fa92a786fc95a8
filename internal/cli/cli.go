// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

// Package cli runs the cruisepatch command.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/totallygamerjet/cruisepatch"
	"github.com/totallygamerjet/cruisepatch/internal/config"
)

const help = `
This is a patch that replaces the default 1280x960 (4:3) resolution with a widescreen one,
and fixes the game's HUD to accommodate the new resolution.
Run it in the root of the game to set the resolution to your screen's resolution.
Menu resolution and in-game resolution can have different values, so the menu
resolution is in 4:3 aspect ratio to avoid parts of the menu being cropped.

usage: %s [path/to/CruiseShipTycoon.exe] [WIDTHxHEIGHT] [flags]

  path/to/the/game.exe  path to the game's exe (not needed when run in the game folder)
  WIDTHxHEIGHT          custom resolution instead of the screen's resolution
%s
Settings can also be kept in %s (keys: path, resolution, wide_menu, letterbox,
log_level, log_file_path) or in %s_* environment variables.
`

// App is one invocation of the command.
type App struct {
	// Name shown in the usage line.
	Name string
	// Out receives the help text and, unless a log file is configured, the log.
	Out io.Writer
	// IniPath of the optional config file; empty skips it.
	IniPath string
	// Detect returns the size of the primary display.
	Detect func() (cruisepatch.Resolution, error)
}

// Run executes the command for args, which exclude the program name.
func (a *App) Run(args []string) error {
	cfg, err := config.Load(args, a.IniPath)
	if err != nil {
		return err
	}
	// Restore takes precedence over help.
	if cfg.Help && !cfg.Restore {
		fmt.Fprintf(a.Out, help, a.Name, config.NewFlagSet(a.Name).FlagUsages(), config.IniFile, config.EnvPrefix)
		return nil
	}

	log, closeLog, err := newLogger(cfg, a.Out)
	if err != nil {
		return err
	}
	defer closeLog()

	p := &cruisepatch.Patcher{Log: log, Detect: a.Detect}
	if cfg.Restore {
		err := p.Restore(cfg.Path)
		if errors.Is(err, cruisepatch.ErrNoBackup) {
			log.WithField("path", cruisepatch.BackupPath(cfg.Path)).Info("No backup is found")
			return nil
		}
		return err
	}
	_, err = p.Patch(cfg.Options())
	return err
}

func newLogger(cfg config.Config, stdout io.Writer) (*logrus.Logger, func(), error) {
	out := stdout
	closeLog := func() {}
	if cfg.LogFilePath != "" {
		f, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open log file '%v': %w", cfg.LogFilePath, err)
		}
		out = f
		closeLog = func() { f.Close() }
	}

	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		closeLog()
		return nil, nil, fmt.Errorf("could not parse log level: %w", err)
	}
	return &logrus.Logger{
		Out: out,
		Formatter: &logrus.TextFormatter{
			DisableTimestamp: true,
			DisableSorting:   true,
		},
		Hooks: make(logrus.LevelHooks),
		Level: lvl,
	}, closeLog, nil
}
