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

//go:build unix

package unchain

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

type mapping struct{}

func (m *MappedFile) mmap(size int) error {
	data, err := unix.Mmap(int(m.file.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return &os.PathError{Op: "mmap", Path: m.path, Err: err}
	}
	m.data = data
	return nil
}

func (m *MappedFile) unmap() error {
	if m.data == nil {
		return nil
	}

	var err error
	if e := unix.Msync(m.data, unix.MS_SYNC); e != nil {
		err = &os.PathError{Op: "msync", Path: m.path, Err: e}
	}
	if e := unix.Munmap(m.data); e != nil {
		err = errors.Join(err, &os.PathError{Op: "munmap", Path: m.path, Err: e})
	}
	return err
}
