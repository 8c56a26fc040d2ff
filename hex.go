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
	"encoding/hex"
	"fmt"
	"strings"
)

// ParseHex decodes hex string, allowing whitespace, commas and `0x` prefixes between bytes,
// so "0F84BD01", "0f 84 bd 01" and "0x0F, 0x84, 0xBD, 0x01" are all the same.
func ParseHex(s string) ([]byte, error) {
	var sb strings.Builder
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	}) {
		field = strings.TrimPrefix(strings.TrimPrefix(field, "0x"), "0X")
		sb.WriteString(field)
	}

	b, err := hex.DecodeString(sb.String())
	if err != nil {
		return nil, fmt.Errorf("parsing hex %q: %w", s, err)
	}
	return b, nil
}

// FormatHex renders bytes as space-separated upper-case pairs.
func FormatHex(b []byte) string {
	return strings.ToUpper(strings.TrimSpace(fmt.Sprintf("% x", b)))
}
