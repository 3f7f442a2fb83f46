// Package config implements project-root detection and the build
// configuration surface of §4.3/§4.9: a JSON config file
// (cnext.config.json or .cnext.json), and hand-rolled parsing of
// PlatformIO's platformio.ini for its lib_extra_dirs search-path
// contribution. Project-root marker detection is grounded directly on
// inspector/repository.Detector.findProjectRoot in the teacher,
// generalized from Go-ecosystem markers to this dialect's own project
// markers plus the embedded-toolchain markers PlatformIO and Arduino use.
package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/viant/afs"
)

// markers are searched for, in order, walking up from a starting
// directory, mirroring the teacher's Detector.markers search (§4.3/§9).
var markers = []string{
	"cnext.config.json",
	".cnext.json",
	"platformio.ini",
	"library.properties", // Arduino library marker
	".git",
}

// Project describes a detected project root and the build configuration
// found there (§4.9).
type Project struct {
	RootPath string
	Config   *Config
}

// Config is the decoded cnext.config.json / .cnext.json shape (§4.9).
type Config struct {
	OutDir       string   `json:"outDir"`
	HeaderOutDir string   `json:"headerOutDir"`
	IncludeDirs  []string `json:"includeDirs"`
	Target       string   `json:"target"`
}

// DetectProjectRoot walks up from startPath looking for one of markers,
// matching the teacher's findProjectRoot loop exactly in shape (§4.3).
func DetectProjectRoot(startPath string) (string, bool) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", false
	}
	dir := absPath
	if fi, err := os.Stat(absPath); err == nil && !fi.IsDir() {
		dir = filepath.Dir(absPath)
	}
	for {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadConfig reads cnext.config.json or .cnext.json from root, via the
// afs filesystem abstraction the teacher uses for config-adjacent reads
// (inspector/repository.extractGoModuleName's afs.New().DownloadWithURL
// pattern), falling back to os.ReadFile the same way the teacher does
// when afs has no provider registered for a local path.
func LoadConfig(root string) (*Config, error) {
	fs := afs.New()
	for _, name := range []string{"cnext.config.json", ".cnext.json"} {
		path := filepath.Join(root, name)
		data, err := fs.DownloadWithURL(context.Background(), path)
		if err != nil || len(data) == 0 {
			data, err = os.ReadFile(path)
			if err != nil {
				continue
			}
		}
		cfg := &Config{}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return &Config{}, nil
}
