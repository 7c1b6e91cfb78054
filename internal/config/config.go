// Package config handles objsplit configuration loading and management.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Faultbox/objsplit/internal/logger"
	"github.com/Faultbox/objsplit/pkg/wavefront"
)

// Config holds all objsplit settings.
type Config struct {
	Split    SplitConfig   `yaml:"split"`
	Textures TextureConfig `yaml:"textures"`
	Logging  LoggingConfig `yaml:"logging"`
}

// SplitConfig holds settings for splitting meshes by material.
type SplitConfig struct {
	OutputDir       string `yaml:"output_dir"`       // Empty writes next to the input
	OrphanFaces     string `yaml:"orphan_faces"`     // drop, error or default
	DefaultMaterial string `yaml:"default_material"` // Group name for orphan faces with "default"
	Workers         int    `yaml:"workers"`          // 0 = one per CPU
}

// TextureConfig holds settings for the texture preparation step.
type TextureConfig struct {
	Scale        int      `yaml:"scale"`
	FlipVertical bool     `yaml:"flip_vertical"`
	Extensions   []string `yaml:"extensions"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Split: SplitConfig{
			OutputDir:       "",
			OrphanFaces:     wavefront.OrphanDrop.String(),
			DefaultMaterial: wavefront.DefaultMaterialName,
			Workers:         0,
		},
		Textures: TextureConfig{
			Scale:        10,
			FlipVertical: true,
			Extensions:   []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".tif", ".tiff"},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ParseOptions returns the wavefront parser options described by the config.
func (c SplitConfig) ParseOptions() (wavefront.Options, error) {
	policy, err := wavefront.ParseOrphanPolicy(c.OrphanFaces)
	if err != nil {
		return wavefront.Options{}, err
	}
	return wavefront.Options{Orphans: policy, DefaultMaterial: c.DefaultMaterial}, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := c.Split.ParseOptions(); err != nil {
		return fmt.Errorf("split.orphan_faces: %w", err)
	}
	if c.Split.Workers < 0 {
		return fmt.Errorf("split.workers: must not be negative, got %d", c.Split.Workers)
	}
	if strings.ContainsAny(c.Split.DefaultMaterial, `/\`) {
		return fmt.Errorf("split.default_material: %q must not contain path separators", c.Split.DefaultMaterial)
	}
	if c.Textures.Scale < 1 {
		return fmt.Errorf("textures.scale: must be at least 1, got %d", c.Textures.Scale)
	}
	for _, ext := range c.Textures.Extensions {
		if !strings.HasPrefix(ext, ".") || filepath.Ext(ext) != ext {
			return fmt.Errorf("textures.extensions: %q is not a file extension", ext)
		}
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}
