// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package cruisepatch

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"
)

// forgeCRC appends four bytes to data so that the CRC-32 of the result is sum.
func forgeCRC(data []byte, sum uint32) []byte {
	var inv [256]byte
	for i, v := range crc32.IEEETable {
		inv[v>>24] = byte(i)
	}
	reg := ^sum
	for i := 0; i < 4; i++ {
		idx := inv[reg>>24]
		reg = (reg^crc32.IEEETable[idx])<<8 | uint32(idx)
	}
	reg ^= ^crc32.ChecksumIEEE(data)
	out := append(bytes.Clone(data), 0, 0, 0, 0)
	binary.LittleEndian.PutUint32(out[len(data):], reg)
	return out
}

// region is where a rule's search bytes sit in a fixture.
type region struct {
	rule   string
	offset int
	size   int
}

const filler = 0xCC // int3 padding, never part of a pattern

// fakeExe builds an executable image that carries each pattern of v once,
// separated by padding, and checksums to the CRC of v.
func fakeExe(t testing.TB, v Version) ([]byte, []region) {
	t.Helper()
	rules, err := Rules(v, Resolution{1280, 960}, Resolution{800, 600})
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	buf := append([]byte("MZ"), bytes.Repeat([]byte{filler}, 254)...)
	var regions []region
	for _, r := range rules {
		regions = append(regions, region{rule: r.Name, offset: len(buf), size: len(r.Search)})
		buf = append(buf, r.Search...)
		buf = append(buf, bytes.Repeat([]byte{filler}, 1000)...)
	}
	sum := CRCV1001
	if v == V1001Patch3 {
		sum = CRCV1001Patch3
	}
	return forgeCRC(buf, sum), regions
}

// writeExe writes data to a fresh temp dir and returns the executable path.
func writeExe(t testing.TB, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultTarget)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
