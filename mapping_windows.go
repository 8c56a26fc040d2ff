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
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

type mapping struct {
	handle windows.Handle
	addr   uintptr
}

func (m *MappedFile) mmap(size int) error {
	h, err := windows.CreateFileMapping(
		windows.Handle(m.file.Fd()),
		nil,
		windows.PAGE_READWRITE,
		uint32(uint64(size)>>32),
		uint32(size),
		nil)
	if err != nil {
		return &os.PathError{Op: "CreateFileMapping", Path: m.path, Err: err}
	}

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_WRITE, 0, 0, uintptr(size))
	if err != nil {
		windows.CloseHandle(h)
		return &os.PathError{Op: "MapViewOfFile", Path: m.path, Err: err}
	}

	m.view = mapping{handle: h, addr: addr}
	m.data = unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	return nil
}

func (m *MappedFile) unmap() error {
	if m.view.addr == 0 {
		return nil
	}

	var err error
	if e := windows.FlushViewOfFile(m.view.addr, uintptr(len(m.data))); e != nil {
		err = &os.PathError{Op: "FlushViewOfFile", Path: m.path, Err: e}
	}
	if e := windows.UnmapViewOfFile(m.view.addr); e != nil {
		err = errors.Join(err, &os.PathError{Op: "UnmapViewOfFile", Path: m.path, Err: e})
	}
	if e := windows.CloseHandle(m.view.handle); e != nil {
		err = errors.Join(err, &os.PathError{Op: "CloseHandle", Path: m.path, Err: e})
	}
	m.view = mapping{}
	return err
}
