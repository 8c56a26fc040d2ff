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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyPattern(t *testing.T) {
	p, err := NewPattern(nil)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrEmptyPattern)
}

func TestSearchTable(t *testing.T) {
	p, err := NewPattern([]byte("abcab"))
	require.NoError(t, err)

	assert.Equal(t, 0, p.table['b'])
	assert.Equal(t, 1, p.table['a'])
	assert.Equal(t, 2, p.table['c'])
	assert.Equal(t, 5, p.table['z'])
	assert.Equal(t, 5, p.table[0])
}

func TestPatternIsCopied(t *testing.T) {
	sig := []byte{1, 2, 3}
	p, err := NewPattern(sig)
	require.NoError(t, err)

	sig[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, p.Bytes())
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, 0, p.Index([]byte{0, 1, 2, 3}[1:]))
}

type searchCase struct {
	name     string
	pattern  string
	buf      string
	limit    int
	expected int
}

func TestSearch(t *testing.T) {
	cases := []searchCase{
		{"match at start", "abc", "abcxxxx", -1, 0},
		{"match at end", "abc", "xxxxabc", -1, 4},
		{"match in the middle", "abc", "xxabcxx", -1, 2},
		{"exact buffer", "abc", "abc", -1, 0},
		{"no match", "abc", "xxxxxxx", -1, -1},
		{"empty buffer", "abc", "", -1, -1},
		{"buffer shorter than pattern", "abc", "ab", -1, -1},
		{"single byte pattern", "x", "aaaxaax", -1, 3},
		{"first of several", "ab", "xabyabzab", -1, 1},
		{"overlapping", "aaa", "aaaaa", -1, 0},
		{"repeated bytes", "aab", "aaaaaab", -1, 4},
		{"last byte repeats in pattern", "abab", "abaabab", -1, 3},
		{"partial match before real one", "abcd", "abcabcd", -1, 3},
		{"match cut by limit", "abc", "xxxxabc", 6, -1},
		{"match fits limit", "abc", "xxxxabc", 7, 4},
		{"limit beyond buffer", "abc", "xxabc", 100, 2},
		{"zero limit", "abc", "abc", 0, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := NewPattern([]byte(c.pattern))
			require.NoError(t, err)
			limit := c.limit
			if limit < 0 {
				limit = len(c.buf)
			}
			assert.Equal(t, c.expected, p.Search([]byte(c.buf), limit))
		})
	}
}

func TestSearchDoesNotReadBeyondLimit(t *testing.T) {
	p, err := NewPattern([]byte{0xAA, 0xBB})
	require.NoError(t, err)

	// full buffer has the match, but only if the byte past limit is taken into account
	buf := []byte{0x00, 0x00, 0xAA, 0xBB}
	assert.Equal(t, -1, p.Search(buf, 3))
	assert.Equal(t, 2, p.Search(buf, 4))
}

func TestNext(t *testing.T) {
	p, err := NewPattern([]byte("ab"))
	require.NoError(t, err)
	buf := []byte("abxxabyab")

	var found []int
	for pos := p.Next(buf, 0); pos >= 0; pos = p.Next(buf, pos+p.Len()) {
		found = append(found, pos)
	}
	assert.Equal(t, []int{0, 4, 7}, found)

	assert.Equal(t, 0, p.Next(buf, -5))
	assert.Equal(t, -1, p.Next(buf, len(buf)))
	assert.Equal(t, -1, p.Next(buf, 8))
}

// Search must agree with bytes.Index on any input, small alphabet produces lots of
// partial and overlapping matches.
func TestSearchAgainstIndex(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		alphabet := 2 + rnd.Intn(3)
		pattern := randomBytes(rnd, 1+rnd.Intn(6), alphabet)
		buf := randomBytes(rnd, rnd.Intn(64), alphabet)

		p, err := NewPattern(pattern)
		require.NoError(t, err)
		if !assert.Equal(t, bytes.Index(buf, pattern), p.Index(buf), "pattern %v, buffer %v", pattern, buf) {
			return
		}
	}
}

func TestSearchMultipleAgainstIndex(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		pattern := randomBytes(rnd, 1+rnd.Intn(4), 2)
		buf := randomBytes(rnd, rnd.Intn(128), 2)

		p, err := NewPattern(pattern)
		require.NoError(t, err)

		var expected, actual []int
		for off := 0; ; {
			idx := bytes.Index(buf[off:], pattern)
			if idx < 0 {
				break
			}
			expected = append(expected, off+idx)
			off += idx + 1
		}
		for pos := p.Next(buf, 0); pos >= 0; pos = p.Next(buf, pos+1) {
			actual = append(actual, pos)
		}
		if !assert.Equal(t, expected, actual, "pattern %v, buffer %v", pattern, buf) {
			return
		}
	}
}

func TestSearchDoesNotAllocate(t *testing.T) {
	p, err := NewPattern(TaskGated.Signature)
	require.NoError(t, err)
	buf := make([]byte, 1<<16)

	allocs := testing.AllocsPerRun(10, func() {
		p.Index(buf)
	})
	assert.Zero(t, allocs)
}

func randomBytes(rnd *rand.Rand, n, alphabet int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + rnd.Intn(alphabet))
	}
	return b
}

func BenchmarkSearch(b *testing.B) {
	p, err := NewPattern(TaskGated.Signature)
	if err != nil {
		b.Fatal(err)
	}
	buf := make([]byte, 1<<20)
	rnd := rand.New(rand.NewSource(1))
	rnd.Read(buf)
	copy(buf[len(buf)-p.Len():], TaskGated.Signature)

	b.SetBytes(int64(len(buf)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if p.Index(buf) < 0 {
			b.Fatal("not found")
		}
	}
}
