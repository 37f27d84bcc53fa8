// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"

	"code.hybscloud.com/hdlc"
)

const defaultConfigName = ".hdlcframe.toml"

// hdlcframe config file key mapping.
type fileConfig struct {
	Preset       string `toml:"preset"`
	Delimiter    uint8  `toml:"delimiter"`
	Escape       uint8  `toml:"escape"`
	DelimiterSub uint8  `toml:"delimiter_sub"`
	EscapeSub    uint8  `toml:"escape_sub"`
	LogLevel     string `toml:"log_level"`
	ChunkSize    int    `toml:"chunk_size"`
}

type config struct {
	CharSet   hdlc.CharSet
	LogLevel  zerolog.Level
	ChunkSize int
}

func defaultConfig() config {
	return config{
		CharSet:   hdlc.DefaultCharSet,
		LogLevel:  zerolog.InfoLevel,
		ChunkSize: 4096,
	}
}

func defaultConfigPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, defaultConfigName), nil
}

// loadConfig overlays the TOML file at path on the defaults. An empty path
// selects the default location, which may be absent.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if explicit {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return config{}, fmt.Errorf("load config: %w", err)
		}
		path = expanded
	} else {
		p, err := defaultConfigPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return config{}, fmt.Errorf("load config: %w", err)
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load config %s: unknown keys %v", path, undecoded)
	}

	// The preset goes first so single bytes can refine it.
	if meta.IsDefined("preset") {
		if err := applyPreset(&cfg.CharSet, raw.Preset); err != nil {
			return config{}, fmt.Errorf("load config: %w", err)
		}
	}
	if meta.IsDefined("delimiter") {
		cfg.CharSet.Delimiter = raw.Delimiter
	}
	if meta.IsDefined("escape") {
		cfg.CharSet.Escape = raw.Escape
	}
	if meta.IsDefined("delimiter_sub") {
		cfg.CharSet.DelimiterSub = raw.DelimiterSub
	}
	if meta.IsDefined("escape_sub") {
		cfg.CharSet.EscapeSub = raw.EscapeSub
	}
	if meta.IsDefined("log_level") {
		lvl, ok := parseLevel(raw.LogLevel)
		if !ok {
			return config{}, fmt.Errorf("load config: invalid log_level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}
	if meta.IsDefined("chunk_size") {
		if raw.ChunkSize <= 0 {
			return config{}, fmt.Errorf("load config: chunk_size must be positive, got %d", raw.ChunkSize)
		}
		cfg.ChunkSize = raw.ChunkSize
	}
	return cfg, nil
}
