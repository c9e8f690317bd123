package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const noCscriptTomlMessage = "no cscript.toml found\nplease specify the source file explicitly, e.g.:\n  cscriptc build path/to/unit.csc"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Package packageConfig `toml:"package"`
	Build   buildConfig   `toml:"build"`
}

type packageConfig struct {
	Name string `toml:"name"`
}

type buildConfig struct {
	Main string `toml:"main"`
	Out  string `toml:"out"`
}

// findCscriptToml ищет cscript.toml начиная с startDir и поднимаясь вверх.
func findCscriptToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "cscript.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findCscriptToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return projectConfig{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if !meta.IsDefined("build") {
		return projectConfig{}, fmt.Errorf("%s: missing [build]", path)
	}
	if !meta.IsDefined("build", "main") || strings.TrimSpace(cfg.Build.Main) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [build].main", path)
	}
	return cfg, nil
}

// resolveManifestTarget возвращает путь к главному файлу и имя артефакта.
func resolveManifestTarget(manifest *projectManifest) (string, string, error) {
	if manifest == nil {
		return "", "", fmt.Errorf("missing project manifest")
	}
	mainRel := strings.TrimSpace(manifest.Config.Build.Main)
	mainPath := filepath.Join(manifest.Root, filepath.FromSlash(mainRel))
	info, err := os.Stat(mainPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", "", fmt.Errorf("%s: [build].main path does not exist: %s", manifest.Path, mainPath)
		}
		return "", "", fmt.Errorf("%s: failed to stat [build].main: %w", manifest.Path, err)
	}
	if info.IsDir() {
		return "", "", fmt.Errorf("%s: [build].main must be a .csc file, not a directory", manifest.Path)
	}
	if filepath.Ext(mainPath) != ".csc" {
		return "", "", fmt.Errorf("%s: [build].main must be a .csc file", manifest.Path)
	}

	out := strings.TrimSpace(manifest.Config.Build.Out)
	if out == "" {
		out = manifest.Config.Package.Name
	}
	return mainPath, filepath.Join(manifest.Root, filepath.FromSlash(out)), nil
}
