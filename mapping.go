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
	"errors"
	"fmt"
	"math"
	"os"
)

var (
	ErrTooLarge   = errors.New("file is too large to be mapped on this system")
	ErrNotRegular = errors.New("not a regular file")
)

/*
MappedFile is a writable shared memory mapping of the whole file, so changes to [MappedFile.Bytes]
go directly to the file. Mapping is exclusively owned by the caller, there is no locking.
It must be closed with [MappedFile.Close] to flush changes to the storage.
*/
type MappedFile struct {
	path   string
	file   *os.File
	data   []byte
	view   mapping // OS-specific
	closed bool
}

// Map opens the file for reading and writing and maps its content into memory.
// All errors are [*os.PathError] with the name of failed operation, and nothing gets modified.
func Map(path string) (*MappedFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		f.Close()
		return nil, &os.PathError{Op: "map", Path: path, Err: ErrNotRegular}
	}
	if uint64(fi.Size()) > math.MaxInt {
		f.Close()
		return nil, &os.PathError{Op: "map", Path: path, Err: ErrTooLarge}
	}

	m := &MappedFile{path: path, file: f}
	if fi.Size() == 0 {
		// zero-length mappings are not allowed, and there is nothing to patch anyway
		return m, nil
	}
	if err := m.mmap(int(fi.Size())); err != nil {
		f.Close()
		return nil, err
	}

	return m, nil
}

// Bytes returns the mapped content. It must not be used after Close.
func (m *MappedFile) Bytes() []byte {
	return m.data
}

// Path returns the path the file was mapped from.
func (m *MappedFile) Path() string {
	return m.path
}

// Size returns the number of mapped bytes, zero after Close.
func (m *MappedFile) Size() int {
	return len(m.data)
}

/*
Close flushes the mapping, unmaps it, syncs and closes the file. It tries all the steps even
if some fail, and returns all failures joined. Repeated calls do nothing.
*/
func (m *MappedFile) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true

	err := m.unmap() // call OS-specific function
	m.data = nil
	if e := m.file.Sync(); e != nil {
		err = errors.Join(err, e)
	}
	if e := m.file.Close(); e != nil {
		err = errors.Join(err, e)
	}
	return err
}

/*
ReleaseError is returned by [PatchFile] when the patch is applied to the mapping but
flushing or closing the file failed afterwards. The patch may or may not have reached the storage.
*/
type ReleaseError struct {
	Path string
	Err  error
}

func (e *ReleaseError) Error() string {
	return fmt.Sprintf("releasing %s: %v", e.Path, e.Err)
}

func (e *ReleaseError) Unwrap() error {
	return e.Err
}

// Errors returns every failed release step separately.
func (e *ReleaseError) Errors() []error {
	if joined, ok := e.Err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{e.Err}
}

/*
PatchFile maps the file, applies the patch and closes the file. If patch definition is invalid
or the file cannot be mapped, it returns nil report and the file is untouched. If the file was
processed but closing it failed, it returns the report together with [*ReleaseError].
*/
func PatchFile(path string, p *Patch) (*Report, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	m, err := Map(path)
	if err != nil {
		return nil, err
	}

	report, err := p.Apply(m.Bytes())
	if err != nil {
		m.Close()
		return nil, err
	}

	if err := m.Close(); err != nil {
		return report, &ReleaseError{Path: path, Err: err}
	}
	return report, nil
}
