// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package main

import (
	"fmt"
	"os"

	"github.com/totallygamerjet/cruisepatch"
	"github.com/totallygamerjet/cruisepatch/internal/cli"
	"github.com/totallygamerjet/cruisepatch/internal/config"
	"github.com/totallygamerjet/cruisepatch/internal/display"
)

func main() {
	app := &cli.App{
		Name:    os.Args[0],
		Out:     os.Stdout,
		IniPath: config.IniFile,
		Detect:  detect,
	}
	if err := app.Run(os.Args[1:]); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func detect() (cruisepatch.Resolution, error) {
	w, h, err := display.Primary()
	if err != nil {
		return cruisepatch.Resolution{}, err
	}
	return cruisepatch.Resolution{Width: w, Height: h}, nil
}
