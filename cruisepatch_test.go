// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2025 TotallyGamerJet

package cruisepatch

import (
	"bytes"
	"errors"
	"hash/crc32"
	"strings"
	"testing"
	"testing/iotest"
)

func TestChecksum(t *testing.T) {
	long := bytes.Repeat([]byte("cruise ship tycoon "), 200)
	tests := []struct {
		name string
		data []byte
		want uint32
	}{
		{"empty", nil, 0},
		{"check value", []byte("123456789"), 0xCBF43926},
		{"spans chunks", long, crc32.ChecksumIEEE(long)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Checksum(bytes.NewReader(tt.data))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Checksum() = %d, want %d", got, tt.want)
			}
			got, err = Checksum(iotest.OneByteReader(bytes.NewReader(tt.data)))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Checksum() one byte at a time = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestChecksum_ReadError(t *testing.T) {
	boom := errors.New("boom")
	if _, err := Checksum(iotest.ErrReader(boom)); !errors.Is(err, boom) {
		t.Errorf("Checksum() error = %v, want %v", err, boom)
	}
}

func TestVerify_KnownFixtures(t *testing.T) {
	for _, v := range []Version{V1001, V1001Patch3} {
		t.Run(v.String(), func(t *testing.T) {
			data, _ := fakeExe(t, v)
			got, sum, err := Verify(writeExe(t, data))
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if got != v {
				t.Errorf("Verify() version = %v, want %v", got, v)
			}
			if want := crc32.ChecksumIEEE(data); sum != want {
				t.Errorf("Verify() crc = %d, want %d", sum, want)
			}
		})
	}
}

func TestVerify_Unknown(t *testing.T) {
	path := writeExe(t, []byte("MZ not the game"))
	v, sum, err := Verify(path)
	if !errors.Is(err, ErrUnknownVersion) {
		t.Fatalf("Verify() error = %v, want ErrUnknownVersion", err)
	}
	if v != VersionUnknown {
		t.Errorf("Verify() version = %v, want unknown", v)
	}
	var uerr *UnknownVersionError
	if !errors.As(err, &uerr) || uerr.Sum != sum {
		t.Errorf("Verify() error does not carry crc %d: %v", sum, err)
	}
	if !strings.Contains(err.Error(), "didn't recognize CRC") {
		t.Errorf("unexpected message %q", err)
	}
}

func TestIdentify(t *testing.T) {
	tests := map[uint32]Version{
		1142252342: V1001,
		3759243516: V1001Patch3,
		0:          VersionUnknown,
		1142252343: VersionUnknown,
	}
	for sum, want := range tests {
		if got := Identify(sum); got != want {
			t.Errorf("Identify(%d) = %v, want %v", sum, got, want)
		}
	}
}
