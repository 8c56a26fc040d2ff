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

// Command task-unchain patches macOS taskgated (or any other file, given a different
// signature) in place, turning the conditional jump found by signature into unconditional one.
//
//	task-unchain [options] <path to taskgated>
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/qrdl/unchain"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const cmdName = "task-unchain"

const (
	exitOK = iota
	exitFailure
	exitUsage
)

// replaced in tests
var patchFile = unchain.PatchFile

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := newFlagSet(stderr)
	flags.Usage = func() { usage(stderr, flags) }
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "%v\n", err)
		usage(stderr, flags)
		return exitUsage
	}
	if flags.NArg() != 1 {
		usage(stderr, flags)
		return exitUsage
	}
	path := flags.Arg(0)

	log := newLogger(stderr)
	cfg, err := loadConfig(flags)
	if err != nil {
		log.Error(err)
		return exitFailure
	}
	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("log_level", cfg.LogLevel).Error(err)
		return exitFailure
	}
	log.SetLevel(lvl)

	if cfg.File != "" {
		log.WithField("config", cfg.File).Debug("configuration loaded")
	}
	log.WithFields(logrus.Fields{
		"patch":     cfg.Patch.Name,
		"signature": unchain.FormatHex(cfg.Patch.Signature),
		"payload":   unchain.FormatHex(cfg.Patch.Payload),
	}).Debug("searching")

	if cfg.DryRun {
		return dryRun(log, stdout, path, &cfg.Patch)
	}

	report, err := patchFile(path, &cfg.Patch)
	var relErr *unchain.ReleaseError
	switch {
	case errors.As(err, &relErr):
		// patch is in the mapping already, so the run is still a success
		for _, e := range relErr.Errors() {
			withPath(log, e).Warn("cannot release the target")
		}
	case err != nil:
		withPath(log, err).Error("cannot patch the target")
		return exitFailure
	}

	printReport(log, stdout, path, report, "patching")
	return exitOK
}

func usage(stderr io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintf(stderr, "Usage: %s [options] <path to taskgated>\n", cmdName)
	flags.PrintDefaults()
}

func dryRun(log *logrus.Logger, stdout io.Writer, path string, p *unchain.Patch) int {
	buf, err := os.ReadFile(path)
	if err != nil {
		withPath(log, err).Error("cannot read the target")
		return exitFailure
	}
	report, err := p.Apply(buf)
	if err != nil {
		log.Error(err)
		return exitFailure
	}
	printReport(log, stdout, path, report, "dry run")
	log.WithField("path", path).Info("dry run, nothing was written")
	return exitOK
}

func printReport(log *logrus.Logger, stdout io.Writer, path string, report *unchain.Report, verb string) {
	if report.Outcome() == unchain.NotFound {
		log.WithField("path", path).Info("signature not found, nothing to patch")
		return
	}
	for _, hit := range report.Hits {
		fmt.Fprintf(stdout, "found at file offset 0x%X [0x%02X], %s\n", hit.Offset, hit.Original, verb)
		log.WithFields(logrus.Fields{
			"offset":   hit.Offset,
			"previous": unchain.FormatHex(hit.Previous),
		}).Debug("match")
	}
}

// withPath adds failed operation and path as separate fields if err carries them
func withPath(log *logrus.Logger, err error) *logrus.Entry {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return log.WithFields(logrus.Fields{"op": pathErr.Op, "path": pathErr.Path, "error": pathErr.Err})
	}
	return log.WithError(err)
}
