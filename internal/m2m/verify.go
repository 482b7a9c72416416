// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package m2m

import (
	"fmt"
)

// DataLength is the number of words moved by the transfer.
const DataLength = 10

// Words is a buffer of 32-bit words.
type Words []uint32

// SourceData returns the transfer source contents.
func SourceData() Words {
	src := make(Words, DataLength)

	for i := range src {
		src[i] = uint32(i)
	}

	return src
}

// Mismatch describes the first differing destination element.
type Mismatch struct {
	Index int
	Want  uint32
	Got   uint32
	// Missing is set when the destination ends before Index
	Missing bool
}

func (m *Mismatch) Error() string {
	if m.Missing {
		return fmt.Sprintf("index %d: want %#x, missing", m.Index, m.Want)
	}

	return fmt.Sprintf("index %d: want %#x, got %#x", m.Index, m.Want, m.Got)
}

// Verify compares dst against src element by element and returns the
// first mismatch, if any. Extra destination words are ignored.
func Verify(src Words, dst Words) *Mismatch {
	for i, want := range src {
		if i >= len(dst) {
			return &Mismatch{Index: i, Want: want, Missing: true}
		}

		if got := dst[i]; got != want {
			return &Mismatch{Index: i, Want: want, Got: got}
		}
	}

	return nil
}
