// Package config handles i3dtool configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/i3d-tools/pkg/encoding"
)

// FileName is the config file name looked up in the working directory and ConfigDir.
const FileName = "i3dtool.yaml"

// Config holds all tool settings.
type Config struct {
	Conversion ConversionConfig `yaml:"conversion"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Text       TextConfig       `yaml:"text"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ConversionConfig holds settings for to3ds and toi3d.
type ConversionConfig struct {
	UVChannel     int32 `yaml:"uv_channel"`     // preferred FACE_MAP_CHANNEL id
	BakeTransform bool  `yaml:"bake_transform"` // apply 0x4160 to vertices and drop it
	CompactUVs    bool  `yaml:"compact_uvs"`    // deduplicate uvs when writing channels
	AddSmoothing  bool  `yaml:"add_smoothing"`  // group 1 for meshes without smoothing
}

// AnalysisConfig holds settings for analyze and info.
type AnalysisConfig struct {
	Format   string `yaml:"format"`    // text or yaml
	MaxDepth int    `yaml:"max_depth"` // 0 = unlimited
}

// TextConfig holds string decoding settings.
type TextConfig struct {
	Charset string `yaml:"charset"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Conversion: ConversionConfig{
			UVChannel: 1,
		},
		Analysis: AnalysisConfig{
			Format: "text",
		},
		Text: TextConfig{
			Charset: encoding.DefaultCharset,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks values that cannot be checked by the YAML decoder.
func (c *Config) Validate() error {
	switch c.Analysis.Format {
	case "text", "yaml":
	default:
		return fmt.Errorf("analysis.format: unknown format %q", c.Analysis.Format)
	}
	if c.Analysis.MaxDepth < 0 {
		return fmt.Errorf("analysis.max_depth: %d is negative", c.Analysis.MaxDepth)
	}
	if _, err := encoding.LookupCharset(c.Text.Charset); err != nil {
		return fmt.Errorf("text.charset: %w", err)
	}
	return nil
}
