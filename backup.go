// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package cruisepatch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SettingsFile is written by the game next to its executable. It remembers
// the chosen resolution, so it has to go when the executable is restored.
const SettingsFile = "settings.dat"

// ErrNoBackup is returned by Restore when there is nothing to restore from.
var ErrNoBackup = errors.New("no backup is found")

// BackupPath returns where the backup of target is kept.
func BackupPath(target string) string {
	return target + ".bak"
}

// SettingsPath returns the game settings file that belongs to target.
func SettingsPath(target string) string {
	return filepath.Join(filepath.Dir(target), SettingsFile)
}

// Backup copies target to BackupPath(target), replacing any older backup.
func Backup(target string) error {
	if err := copyFile(target, BackupPath(target)); err != nil {
		return fmt.Errorf("could not create a backup: %w", err)
	}
	return nil
}

// Restore puts the backup of target back in place and removes the game
// settings file so the game does not start at a resolution it no longer has.
func (p *Patcher) Restore(target string) error {
	p.warnMissing(target)

	backup := BackupPath(target)
	if _, err := os.Stat(backup); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoBackup
		}
		return err
	}

	settings := SettingsPath(target)
	if _, err := os.Stat(settings); err == nil {
		p.log().WithField("path", settings).Info("Resetting settings")
		if err := os.Remove(settings); err != nil {
			return fmt.Errorf("could not remove '%v': %w", settings, err)
		}
	}

	p.log().WithField("path", backup).Info("Restoring backup")
	if err := copyFile(backup, target); err != nil {
		return fmt.Errorf("could not restore backup: %w", err)
	}
	return nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}
