// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

// Package cruisepatch patches CruiseShipTycoon.exe to run at widescreen
// resolutions. It replaces the hard-coded 1280x960 in-game resolution, the
// 800x600 menu resolution and the HUD offset tied to the in-game height.
//
// The executable is identified by its CRC-32 before any byte is touched and a
// backup is kept next to it so the original can always be restored.
package cruisepatch

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// Version is a known build of the game executable.
type Version int

const (
	VersionUnknown Version = iota
	V1001                  // v1.0.0.1
	V1001Patch3            // v1.0.0.1 + Patch 3
)

// Known CRC-32 values of the unmodified executables.
const (
	CRCV1001       uint32 = 1142252342
	CRCV1001Patch3 uint32 = 3759243516
)

func (v Version) String() string {
	switch v {
	case V1001:
		return "v1.0.0.1"
	case V1001Patch3:
		return "v1.0.0.1 + Patch 3"
	default:
		return "unknown"
	}
}

// Identify maps a checksum to the version it belongs to.
func Identify(sum uint32) Version {
	switch sum {
	case CRCV1001:
		return V1001
	case CRCV1001Patch3:
		return V1001Patch3
	}
	return VersionUnknown
}

// ErrUnknownVersion is matched by every UnknownVersionError.
var ErrUnknownVersion = errors.New("unrecognized executable")

// UnknownVersionError reports a checksum that is not in the known table.
type UnknownVersionError struct {
	Sum uint32
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("wrong file, didn't recognize CRC: %d", e.Sum)
}

func (e *UnknownVersionError) Is(target error) bool {
	return target == ErrUnknownVersion
}

const chunkSize = 1024

// Checksum computes the IEEE CRC-32 of everything read from r.
func Checksum(r io.Reader) (uint32, error) {
	var (
		crc uint32
		buf = make([]byte, chunkSize)
	)
	for {
		n, err := r.Read(buf)
		crc = crc32.Update(crc, crc32.IEEETable, buf[:n])
		if err == io.EOF {
			return crc, nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// ChecksumFile computes the checksum of the file at path.
func ChecksumFile(path string) (uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("could not open '%v': %w", path, err)
	}
	defer f.Close()
	sum, err := Checksum(f)
	if err != nil {
		return 0, fmt.Errorf("could not read '%v': %w", path, err)
	}
	return sum, nil
}

// Verify checksums the file at path and returns its version, or an
// *UnknownVersionError when the checksum is not a known one.
func Verify(path string) (Version, uint32, error) {
	sum, err := ChecksumFile(path)
	if err != nil {
		return VersionUnknown, 0, err
	}
	v := Identify(sum)
	if v == VersionUnknown {
		return v, sum, &UnknownVersionError{Sum: sum}
	}
	return v, sum, nil
}
