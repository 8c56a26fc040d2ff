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
	"fmt"
)

// Values for [Patch.Count] and [Patch.Offset]. Once and Unlimited bound the number of
// patched matches, DefaultOffset makes the payload overwrite the signature tail.
const (
	Once          = 1  // patch only the first match
	Unlimited     = -1 // patch every match
	DefaultOffset = -1 // payload replaces the tail of matched signature
)

var (
	ErrPayloadEmpty      = errors.New("payload must not be empty")
	ErrPayloadTooLong    = errors.New("payload is longer than signature")
	ErrPayloadOutOfRange = errors.New("payload doesn't fit into signature at given offset")
	ErrInvalidCount      = errors.New("invalid count: must be a positive number or Unlimited")
)

/*
Patch describes what to look for and what to write. Signature is the byte sequence that
identifies the code to patch, Payload is written at Offset bytes from the start of each
match. Offset [DefaultOffset] means len(Signature) - len(Payload), i.e. the payload replaces
the tail of the match.

Count limits the number of matches to patch: [Once] (also used when Count is zero),
any positive number, or [Unlimited] to patch every occurrence.
*/
type Patch struct {
	Name      string
	Signature []byte
	Payload   []byte
	Offset    int
	Count     int
}

// Validate checks that payload fits into signature and count is sane.
func (p *Patch) Validate() error {
	if len(p.Signature) == 0 {
		return ErrEmptyPattern
	}
	if len(p.Payload) == 0 {
		return ErrPayloadEmpty
	}
	if len(p.Payload) > len(p.Signature) {
		return ErrPayloadTooLong
	}
	if off := p.offset(); off < 0 || off+len(p.Payload) > len(p.Signature) {
		return fmt.Errorf("%w: offset %d, payload %d, signature %d",
			ErrPayloadOutOfRange, p.Offset, len(p.Payload), len(p.Signature))
	}
	if p.Count < Unlimited {
		return fmt.Errorf("%w: %d", ErrInvalidCount, p.Count)
	}
	return nil
}

func (p *Patch) offset() int {
	if p.Offset == DefaultOffset {
		return len(p.Signature) - len(p.Payload)
	}
	return p.Offset
}

func (p *Patch) count() int {
	if p.Count == 0 {
		return Once
	}
	return p.Count
}

/*
Apply searches <buf> for the signature and overwrites every match, up to the Count, with the
payload. Buffer is modified in place, search resumes after the end of the patched match.
The only error Apply returns is a validation error, not finding the signature is reported
as [NotFound] outcome.
*/
func (p *Patch) Apply(buf []byte) (*Report, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	pattern, err := NewPattern(p.Signature)
	if err != nil {
		return nil, err
	}

	report := &Report{Patch: p.Name}
	off, remaining := p.offset(), p.count()
	for pos := 0; remaining != 0 && pos+pattern.Len() <= len(buf); remaining-- {
		match := pattern.Next(buf, pos)
		if match < 0 {
			break
		}
		target := buf[match+off : match+off+len(p.Payload)]
		report.Hits = append(report.Hits, Hit{
			Offset:   match,
			Original: target[0],
			Previous: bytes.Clone(target),
		})
		copy(target, p.Payload)
		pos = match + pattern.Len()
	}

	return report, nil
}

// Hit is a single applied patch.
type Hit struct {
	Offset   int    // offset of the match, not of the payload
	Original byte   // byte at the payload position before patching
	Previous []byte // bytes replaced by the payload
}

// String returns the audit line with match offset and the byte it replaced.
func (h Hit) String() string {
	return fmt.Sprintf("found at file offset 0x%X [0x%02X], patching", h.Offset, h.Original)
}

// Outcome tells whether [Patch.Apply] has found and patched anything.
type Outcome int

const (
	NotFound Outcome = iota
	Patched
)

func (o Outcome) String() string {
	switch o {
	case NotFound:
		return "not found"
	case Patched:
		return "patched"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Report is the result of [Patch.Apply].
type Report struct {
	Patch string
	Hits  []Hit
}

// Outcome is [Patched] if there is at least one hit, [NotFound] otherwise.
func (r *Report) Outcome() Outcome {
	if len(r.Hits) == 0 {
		return NotFound
	}
	return Patched
}
