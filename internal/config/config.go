/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// Export preferences (format, scale, filename, overwrite) are NOT kept here; they live in
// prefs.json inside the data directory and are owned by the prefs package.

type GeneralConfig struct {
	Language string `yaml:"language"` // empty means "ask the OS"
	DataDir  string `yaml:"data_dir"` // empty means the OS default, see DataDir
}

type RenderConfig struct {
	Quality     int  `yaml:"quality"` // JPEG quality 1..100
	EmbedImages bool `yaml:"embed_images"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Render        RenderConfig  `yaml:"render"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Language: "", DataDir: ""},
		Render:        RenderConfig{Quality: 100, EmbedImages: true},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvConfigFile  = "GRN_CONFIG"
	EnvLanguage    = "GRN_LANG"
	EnvDataDir     = "GRN_DATA_DIR"
	EnvQuality     = "GRN_RENDER_QUALITY"
	EnvEmbedImages = "GRN_EMBED_IMAGES"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "GRN_LOG_LEVEL"
	EnvLogFormat = "GRN_LOG_FORMAT"
	EnvLogSource = "GRN_LOG_SOURCE"
	EnvLogFile   = "GRN_LOG_FILE"
)

const appDirName = "gorendition"

// baseDir resolves the per-user application directory for the current OS.
func baseDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoRendition")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoRendition")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, appDirName)
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", appDirName)
		}
	}
	if base == "" || base == appDirName {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the per-user config file path. GRN_CONFIG points it elsewhere.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	base, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.yaml"), nil
}

// DataDir returns the directory holding per-installation data such as prefs.json
// and crash reports. The configured value wins over the OS default.
func (c AppConfig) DataDir() (string, error) {
	if d := strings.TrimSpace(c.General.DataDir); d != "" {
		return d, nil
	}
	base, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "data"), nil
}

// Load reads user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if strings.TrimSpace(src.General.Language) != "" {
		dst.General.Language = strings.TrimSpace(src.General.Language)
	}
	if strings.TrimSpace(src.General.DataDir) != "" {
		dst.General.DataDir = strings.TrimSpace(src.General.DataDir)
	}
	if src.Render.Quality != 0 {
		dst.Render.Quality = clampQuality(src.Render.Quality)
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Render.EmbedImages = src.Render.EmbedImages
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvLanguage)); v != "" {
		cfg.General.Language = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		cfg.General.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvQuality)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Render.Quality = clampQuality(n)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvEmbedImages)); v != "" {
		cfg.Render.EmbedImages = parseBool(v)
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func clampQuality(q int) int {
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

// Setting is one resolved configuration value. Source names the overriding
// env var, or "file" when the value comes from the config file or defaults.
type Setting struct {
	Key    string
	Value  string
	Source string
}

// Describe lists the user-editable keys of cfg and where each value comes from.
func Describe(cfg AppConfig) []Setting {
	rows := []Setting{
		{Key: "general.language", Value: cfg.General.Language},
		{Key: "general.data_dir", Value: cfg.General.DataDir},
		{Key: "render.quality", Value: strconv.Itoa(cfg.Render.Quality)},
		{Key: "render.embed_images", Value: strconv.FormatBool(cfg.Render.EmbedImages)},
		{Key: "logging.level", Value: cfg.Logging.Level},
		{Key: "logging.format", Value: cfg.Logging.Format},
		{Key: "logging.source", Value: strconv.FormatBool(cfg.Logging.Source)},
		{Key: "logging.file", Value: cfg.Logging.File},
	}
	for i := range rows {
		rows[i].Source = "file"
		if env, ok := EnvOverrideFor(rows[i].Key); ok {
			rows[i].Source = env
		}
	}
	return rows
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	var env string
	switch key {
	case "general.language":
		env = EnvLanguage
	case "general.data_dir":
		env = EnvDataDir
	case "render.quality":
		env = EnvQuality
	case "render.embed_images":
		env = EnvEmbedImages
	case "logging.level":
		env = EnvLogLevel
	case "logging.format":
		env = EnvLogFormat
	case "logging.source":
		env = EnvLogSource
	case "logging.file":
		env = EnvLogFile
	default:
		return "", false
	}
	if os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}
