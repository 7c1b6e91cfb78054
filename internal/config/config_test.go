package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/objsplit/pkg/wavefront"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Split.OutputDir != "" {
		t.Errorf("expected empty output dir, got %s", cfg.Split.OutputDir)
	}
	if cfg.Split.OrphanFaces != "drop" {
		t.Errorf("expected orphan_faces 'drop', got %s", cfg.Split.OrphanFaces)
	}
	if cfg.Split.DefaultMaterial != "default" {
		t.Errorf("expected default material 'default', got %s", cfg.Split.DefaultMaterial)
	}
	if cfg.Split.Workers != 0 {
		t.Errorf("expected 0 workers, got %d", cfg.Split.Workers)
	}

	if cfg.Textures.Scale != 10 {
		t.Errorf("expected texture scale 10, got %d", cfg.Textures.Scale)
	}
	if !cfg.Textures.FlipVertical {
		t.Error("expected flip_vertical to be true by default")
	}
	if len(cfg.Textures.Extensions) == 0 {
		t.Error("expected default texture extensions")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "objsplit.yaml")

	yamlContent := `
split:
  output_dir: "out"
  orphan_faces: "default"
  default_material: "untextured"
  workers: 4

textures:
  scale: 4
  flip_vertical: false
  extensions: [".png"]

logging:
  level: "debug"
  log_file: "objsplit.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Split.OutputDir != "out" {
		t.Errorf("expected output dir 'out', got %s", cfg.Split.OutputDir)
	}
	if cfg.Split.OrphanFaces != "default" {
		t.Errorf("expected orphan_faces 'default', got %s", cfg.Split.OrphanFaces)
	}
	if cfg.Split.DefaultMaterial != "untextured" {
		t.Errorf("expected default material 'untextured', got %s", cfg.Split.DefaultMaterial)
	}
	if cfg.Split.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Split.Workers)
	}

	if cfg.Textures.Scale != 4 {
		t.Errorf("expected scale 4, got %d", cfg.Textures.Scale)
	}
	if cfg.Textures.FlipVertical {
		t.Error("expected flip_vertical to be false")
	}
	if len(cfg.Textures.Extensions) != 1 || cfg.Textures.Extensions[0] != ".png" {
		t.Errorf("unexpected extensions %v", cfg.Textures.Extensions)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "objsplit.log" {
		t.Errorf("expected log file 'objsplit.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	tests := map[string]string{
		"syntax":      "split:\n  workers: not a number\n  invalid syntax here\n",
		"unknown key": "split:\n  output_directory: out\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(tmpDir, strings.ReplaceAll(name, " ", "_")+".yaml")
			if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg := Default()
			if err := loadFromFile(cfg, configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty config should load: %v", err)
	}
	if cfg.Textures.Scale != 10 {
		t.Errorf("defaults should survive an empty file, got scale %d", cfg.Textures.Scale)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/objsplit.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("split:\n  workers: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name      string
		overrides Overrides
		verify    func(*testing.T, *Config)
	}{
		{
			name:      "debug",
			overrides: Overrides{Debug: true},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name:      "log file",
			overrides: Overrides{LogFile: "run.log"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.LogFile != "run.log" {
					t.Errorf("expected log file run.log, got %s", cfg.Logging.LogFile)
				}
			},
		},
		{
			name:      "output dir and orphans",
			overrides: Overrides{OutputDir: "split", OrphanFaces: "error"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Split.OutputDir != "split" {
					t.Errorf("expected output dir split, got %s", cfg.Split.OutputDir)
				}
				if cfg.Split.OrphanFaces != "error" {
					t.Errorf("expected orphan_faces error, got %s", cfg.Split.OrphanFaces)
				}
			},
		},
		{
			name:      "workers",
			overrides: Overrides{Workers: 8},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Split.Workers != 8 {
					t.Errorf("expected 8 workers, got %d", cfg.Split.Workers)
				}
			},
		},
		{
			name:      "texture scale and flip",
			overrides: Overrides{Scale: 2, NoFlip: true},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Textures.Scale != 2 {
					t.Errorf("expected scale 2, got %d", cfg.Textures.Scale)
				}
				if cfg.Textures.FlipVertical {
					t.Error("expected flip to be disabled")
				}
			},
		},
		{
			name:      "zero values",
			overrides: Overrides{},
			verify: func(t *testing.T, cfg *Config) {
				def := Default()
				if cfg.Split != def.Split || cfg.Logging != def.Logging || cfg.Textures.Scale != def.Textures.Scale {
					t.Errorf("empty overrides changed the config: %+v", cfg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.overrides.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "objsplit.yaml")

	yamlContent := `
split:
  output_dir: "from-file"
  workers: 2
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath, Overrides{OutputDir: "from-flag"})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Split.OutputDir != "from-flag" {
		t.Errorf("expected output dir from flag, got %s", cfg.Split.OutputDir)
	}
	if cfg.Split.Workers != 2 {
		t.Errorf("expected workers 2 from file, got %d", cfg.Split.Workers)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), Overrides{}); err == nil {
		t.Error("expected error for an explicit missing config file")
	}

	if _, err := Load("", Overrides{OrphanFaces: "keep"}); err == nil {
		t.Error("expected error for unknown orphan policy")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"orphans", func(c *Config) { c.Split.OrphanFaces = "ignore" }},
		{"workers", func(c *Config) { c.Split.Workers = -1 }},
		{"default material", func(c *Config) { c.Split.DefaultMaterial = "a/b" }},
		{"scale", func(c *Config) { c.Textures.Scale = 0 }},
		{"extension", func(c *Config) { c.Textures.Extensions = []string{"png"} }},
		{"level", func(c *Config) { c.Logging.Level = "trace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParseOptions(t *testing.T) {
	cfg := Default()
	cfg.Split.OrphanFaces = "default"
	cfg.Split.DefaultMaterial = "untextured"

	opts, err := cfg.Split.ParseOptions()
	if err != nil {
		t.Fatalf("ParseOptions failed: %v", err)
	}
	if opts.Orphans != wavefront.OrphanDefault || opts.DefaultMaterial != "untextured" {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "objsplit.yaml")

	cfg := Default()
	cfg.Split.Workers = 3
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := Load(path, Overrides{})
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Split.Workers != 3 {
		t.Errorf("expected workers 3, got %d", loaded.Split.Workers)
	}
}

func TestSave(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("APPDATA", t.TempDir())

	path, err := Default().Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("saved config not found at %s: %v", path, err)
	}
}
