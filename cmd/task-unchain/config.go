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

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/qrdl/unchain"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Filesystem locations that will be checked for unchain.yaml when --config is not given.
var defaultSearchPaths = []string{
	".",
	"$HOME/.config/unchain",
	"/usr/local/etc/unchain",
}

type config struct {
	File     string // config file used, if any
	LogLevel string
	DryRun   bool
	Patch    unchain.Patch
}

func newFlagSet(stderr io.Writer) *pflag.FlagSet {
	flags := pflag.NewFlagSet(cmdName, pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.SortFlags = false

	flags.String("config", "", "yaml file with patch definition")
	flags.String("name", "", "patch name used in logs")
	flags.String("signature", "", "hex signature to look for")
	flags.String("payload", "", "hex bytes to write into the match")
	flags.Int("offset", unchain.DefaultOffset, "where to write payload within the match, -1 replaces the tail")
	flags.Int("count", unchain.Once, "max number of matches to patch, -1 patches all")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("dry-run", false, "search and report, but don't modify the file")
	return flags
}

/*
loadConfig merges, in order of increasing priority, built-in taskgated patch, config file,
UNCHAIN_* environment variables and command line flags.
Hex values in yaml should be quoted, otherwise yaml may take them as numbers.
*/
func loadConfig(flags *pflag.FlagSet) (*config, error) {
	v := viper.New()

	v.SetDefault("name", unchain.TaskGated.Name)
	v.SetDefault("signature", unchain.FormatHex(unchain.TaskGated.Signature))
	v.SetDefault("payload", unchain.FormatHex(unchain.TaskGated.Payload))
	v.SetDefault("offset", unchain.TaskGated.Offset)
	v.SetDefault("count", unchain.TaskGated.Count)
	v.SetDefault("log_level", "info")
	v.SetDefault("dry_run", false)

	v.SetEnvPrefix("unchain")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, flag := range map[string]string{
		"name":      "name",
		"signature": "signature",
		"payload":   "payload",
		"offset":    "offset",
		"count":     "count",
		"log_level": "log-level",
		"dry_run":   "dry-run",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("binding flag %s: %w", flag, err)
		}
	}

	if file, _ := flags.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to load config file %s: %w", file, err)
		}
	} else {
		v.SetConfigName("unchain")
		v.SetConfigType("yaml")
		for _, path := range defaultSearchPaths {
			v.AddConfigPath(path)
		}
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	}

	sig, err := unchain.ParseHex(v.GetString("signature"))
	if err != nil {
		return nil, fmt.Errorf("signature: %w", err)
	}
	payload, err := unchain.ParseHex(v.GetString("payload"))
	if err != nil {
		return nil, fmt.Errorf("payload: %w", err)
	}

	// viper's GetInt takes garbage as 0, which is a valid offset
	offset, err := cast.ToIntE(v.Get("offset"))
	if err != nil {
		return nil, fmt.Errorf("offset: %w", err)
	}
	count, err := cast.ToIntE(v.Get("count"))
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	cfg := &config{
		File:     v.ConfigFileUsed(),
		LogLevel: v.GetString("log_level"),
		DryRun:   v.GetBool("dry_run"),
		Patch: unchain.Patch{
			Name:      v.GetString("name"),
			Signature: sig,
			Payload:   payload,
			Offset:    offset,
			Count:     count,
		},
	}
	if err := cfg.Patch.Validate(); err != nil {
		return nil, fmt.Errorf("invalid patch %q: %w", cfg.Patch.Name, err)
	}
	return cfg, nil
}
