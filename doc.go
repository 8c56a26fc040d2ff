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

/*
Package unchain patches executables in place by locating a byte signature and overwriting part of it.

It is meant for narrow, one-shot binary patches like turning a conditional jump into unconditional
one, and it knows nothing about executable formats or instruction boundaries, only about literal bytes.

# The concept

Signature is searched with Boyer-Moore-Horspool algorithm, see [Pattern]. For every match found (only
the first one by default), the payload is written into the matched region at fixed offset, normally
replacing the tail of the signature, see [Patch]. Target file is memory-mapped, so the change goes
directly to the file, and there is no backup and no rollback.

Once patched, the signature no longer matches, so applying the same patch again finds nothing.
It is not an error, it is the [NotFound] outcome.

Typical use:

	report, err := unchain.PatchFile("/usr/libexec/taskgated", &unchain.TaskGated)
	var relErr *unchain.ReleaseError
	if errors.As(err, &relErr) {
	    log.Printf("patched but cannot sync: %v", relErr)
	} else if err != nil {
	    log.Fatal(err)
	}
	for _, hit := range report.Hits {
	    fmt.Println(hit)
	}

Patch can be built from data rather than code, [ParseHex] accepts most common hex notations:

	sig, _ := unchain.ParseHex("F6 C3 01 0F 84 BD 01")
	payload, _ := unchain.ParseHex("E9 BE 01 00")
	p := unchain.Patch{Signature: sig, Payload: payload, Offset: unchain.DefaultOffset, Count: unchain.Unlimited}

# Platforms supported

Memory mapping is OS-specific, supported OSes are Linux, macOS, Windows and BSDs.
On other platforms [Map] fails with [errors.ErrUnsupported] for any non-empty file.
*/
package unchain
