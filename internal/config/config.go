// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

// Package config builds the command configuration from the command line,
// the environment and an optional cruisepatch.ini in the working directory.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/ini.v1"

	"github.com/totallygamerjet/cruisepatch"
)

// IniFile is read from the working directory when present.
const IniFile = "cruisepatch.ini"

// EnvPrefix prefixes environment overrides, e.g. CRUISEPATCH_RESOLUTION.
const EnvPrefix = "CRUISEPATCH"

// Config is everything the command needs for one run. It is built once by
// Load and passed by value.
type Config struct {
	// Path to the game executable.
	Path string `mapstructure:"path"`
	// Explicit WIDTHxHEIGHT, empty to use the display size.
	Resolution string `mapstructure:"resolution"`
	// Use the in-game resolution for the menu as well.
	WideMenu bool `mapstructure:"wide_menu"`
	// Use the closest 4:3 resolution in game.
	Letterbox bool `mapstructure:"letterbox"`
	// Restore the backup instead of patching.
	Restore bool `mapstructure:"restore"`
	// Print the help text.
	Help bool `mapstructure:"help"`
	// Minimum level of a log required to be written. Options: debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`
	// File to which logs will be written. Blank will write to stdout.
	LogFilePath string `mapstructure:"log_file_path"`
}

// Options returns the patch options held by c.
func (c Config) Options() cruisepatch.Options {
	return cruisepatch.Options{
		Path:       c.Path,
		Resolution: c.Resolution,
		WideMenu:   c.WideMenu,
		Letterbox:  c.Letterbox,
	}
}

// Keys that may come from the ini file or the environment.
var fileKeys = []string{"path", "resolution", "wide_menu", "letterbox", "log_level", "log_file_path"}

var resolutionToken = regexp.MustCompile(`^\d+x\d+`)

// NewFlagSet returns the flags understood by the command. Unknown flags are
// ignored rather than rejected.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.BoolP("restore", "r", false, "if a backup is present, restore it and delete the game settings")
	fs.BoolP("wide_menu", "w", false, "widescreen menu too, parts of the menu can get cropped")
	fs.BoolP("letterbox", "l", false, "use the 4:3 resolution closest to the given one")
	fs.BoolP("help", "h", false, "print this help message")
	return fs
}

// Load builds a Config from args, which must not include the program name.
// iniPath may be empty to skip the ini file.
func Load(args []string, iniPath string) (Config, error) {
	v := viper.New()
	v.SetDefault("path", cruisepatch.DefaultTarget)
	v.SetDefault("log_level", "info")

	if iniPath != "" {
		values, err := readIni(iniPath)
		if err != nil {
			return Config{}, err
		}
		if len(values) > 0 {
			if err := v.MergeConfigMap(values); err != nil {
				return Config{}, fmt.Errorf("could not merge '%v': %w", iniPath, err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	for _, key := range fileKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	fs := NewFlagSet("cruisepatch")
	path, res, flags := classify(fs, args)
	if err := fs.Parse(flags); err != nil {
		return Config{}, fmt.Errorf("could not parse arguments: %w", err)
	}
	for _, name := range []string{"wide_menu", "letterbox"} {
		if err := v.BindPFlag(name, fs.Lookup(name)); err != nil {
			return Config{}, err
		}
	}

	if path != "" {
		v.Set("path", path)
	}
	if res != "" {
		v.Set("resolution", res)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not read configuration: %w", err)
	}
	// Only ever taken from the command line.
	cfg.Restore, _ = fs.GetBool("restore")
	cfg.Help, _ = fs.GetBool("help")
	return cfg, nil
}

// classify sorts every token on its own into the target path, the
// resolution and the flags fs knows. Anything else is dropped, so an unknown
// flag can never swallow the token after it.
func classify(fs *pflag.FlagSet, args []string) (path, res string, flags []string) {
	for _, arg := range args {
		switch {
		case strings.HasSuffix(strings.ToLower(arg), ".exe"):
			path = arg
		case resolutionToken.MatchString(arg):
			res = arg
		case knownFlag(fs, arg):
			flags = append(flags, arg)
		}
	}
	return path, res, flags
}

func knownFlag(fs *pflag.FlagSet, arg string) bool {
	switch {
	case strings.HasPrefix(arg, "--") && len(arg) > 2:
		name := strings.SplitN(arg[2:], "=", 2)[0]
		return fs.Lookup(name) != nil
	case strings.HasPrefix(arg, "-") && len(arg) > 1:
		for _, c := range arg[1:] {
			if c > 0x7f || fs.ShorthandLookup(string(c)) == nil {
				return false
			}
		}
		return true
	}
	return false
}

// readIni returns the default section of the ini file at path. A missing
// file is not an error.
func readIni(path string) (map[string]interface{}, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("could not load '%v': %w", path, err)
	}
	sec := f.Section("")
	values := map[string]interface{}{}
	for _, key := range fileKeys {
		if sec.HasKey(key) {
			values[key] = sec.Key(key).String()
		}
	}
	return values, nil
}
