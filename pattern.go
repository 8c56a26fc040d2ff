// This file is part of Unchain project, available at https://github.com/qrdl/unchain
// Copyright (c) 2026 Ilya Caramishev. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at https://www.apache.org/licenses/LICENSE-2.0
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package unchain

import (
	"bytes"
	"errors"
)

var ErrEmptyPattern = errors.New("pattern must not be empty")

/*
Pattern is a compiled Boyer-Moore-Horspool search pattern. It is built once per signature
and can be used for any number of searches, it is never modified after [NewPattern] returns.
*/
type Pattern struct {
	needle []byte
	// distance from the last byte of needle to the last occurrence of byte value,
	// or len(needle) if the value doesn't occur in needle at all
	table [256]int
}

// NewPattern compiles the signature. The signature is copied, so caller is free to reuse it.
func NewPattern(signature []byte) (*Pattern, error) {
	if len(signature) == 0 {
		return nil, ErrEmptyPattern
	}

	p := &Pattern{needle: bytes.Clone(signature)}
	n := len(p.needle)
	for i := range p.table {
		p.table[i] = n
	}
	for i, b := range p.needle {
		p.table[b] = n - i - 1
	}

	return p, nil
}

// Len returns the length of the signature in bytes.
func (p *Pattern) Len() int {
	return len(p.needle)
}

// Bytes returns a copy of the signature.
func (p *Pattern) Bytes() []byte {
	return bytes.Clone(p.needle)
}

/*
Search looks for the first occurrence of the pattern within first <limit> bytes of <buf> and
returns its offset, or -1 if there is no match. <limit> larger than buffer length is treated
as buffer length.

Search aligns the last byte of the pattern with the cursor and looks up the skip distance for
the buffer byte under the cursor. Non-zero distance means no window ending before cursor+distance
can match, so cursor jumps forward. Zero distance means the byte equals the last byte of the pattern,
so the whole window gets compared, and on mismatch the cursor moves by one.
*/
func (p *Pattern) Search(buf []byte, limit int) int {
	if limit > len(buf) {
		limit = len(buf)
	}

	n := len(p.needle)
	for pos := n - 1; pos < limit; {
		shift := p.table[buf[pos]]
		if shift > 0 {
			pos += shift
			continue
		}
		start := pos - n + 1
		if bytes.Equal(buf[start:pos+1], p.needle) {
			return start
		}
		pos++
	}

	return -1
}

// Index is a shortcut for Search over the whole buffer.
func (p *Pattern) Index(buf []byte) int {
	return p.Search(buf, len(buf))
}

// Next returns the offset of the first match that starts at or after <from>, or -1 if there
// are no more matches. The returned offset is relative to the start of <buf>.
func (p *Pattern) Next(buf []byte, from int) int {
	if from < 0 {
		from = 0
	}
	if from >= len(buf) {
		return -1
	}
	idx := p.Search(buf[from:], len(buf)-from)
	if idx < 0 {
		return -1
	}
	return from + idx
}
