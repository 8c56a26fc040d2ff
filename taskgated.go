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

// TaskGated turns the `jz` guarding the code signature check of macOS taskgated
// into unconditional `jmp` to the same target.
var TaskGated = Patch{
	Name: "taskgated",
	Signature: []byte{
		0x44, 0x88, 0xF2, 0x80, 0xE2, 0x01, 0x88, 0x95, 0xE0, 0xFE, 0xFF, 0xFF, 0x8A, 0x8D, 0xF3, 0xFE,
		0xFF, 0xFF, 0x80, 0xE1, 0x01, 0x88, 0x8D, 0xF3, 0xFE, 0xFF, 0xFF, 0x8A, 0x9D, 0xF4, 0xFE, 0xFF,
		0xFF, 0x88, 0xD8, 0x24, 0x01, 0x0F, 0xB6, 0xC9, 0x89, 0x0C, 0x24, 0x0F, 0xB6, 0xCA, 0x44, 0x0F,
		0xB6, 0xC0, 0x44, 0x88, 0xE8, 0x24, 0x01, 0x44, 0x0F, 0xB6, 0xC8, 0x48, 0x8D, 0x3D, 0xD0, 0x6F,
		0x00, 0x00, 0x48, 0x8D, 0x35, 0x7A, 0x70, 0x00, 0x00, 0x44, 0x8B, 0xBD, 0xD4, 0xFE, 0xFF, 0xFF,
		0x44, 0x89, 0xFA, 0x30, 0xC0, 0xE8, 0xAA, 0x4F, 0x00, 0x00, 0x45, 0x08, 0xF5, 0x41, 0xF6, 0xC5,
		0x01, 0x74, 0x11, 0x44, 0x89, 0xFF, 0xBE, 0x03, 0x00, 0x00, 0x00, 0x31, 0xD2, 0x31, 0xC9, 0xE8,
		0xCD, 0x52, 0x00, 0x00, 0x44, 0x08, 0xF3, 0xF6, 0xC3, 0x01, 0x0F, 0x84, 0xBD, 0x01,
		//                                       jz rel32 ^^^^^^^^^^^^^^^^^^^^^^^^^^
	},
	// jmp rel32, one byte shorter than jz so displacement is one more
	Payload: []byte{0xE9, 0xBE, 0x01, 0x00},
	Offset:  DefaultOffset,
	Count:   Once,
}
