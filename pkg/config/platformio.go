package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// PlatformIOEnv is one [env:name] section's fields relevant to include
// resolution (§4.3).
type PlatformIOEnv struct {
	Name          string
	LibExtraDirs  []string
	LibDeps       []string
}

// ParsePlatformIOIni hand-parses platformio.ini the same way the
// teacher's detector.go hand-parses .git/config with a bufio.Scanner and
// string prefix checks, rather than pulling in a general-purpose INI
// library: platformio.ini's grammar actually used here (section headers,
// key = value, comma-separated lists) is small enough that the teacher's
// own idiom for ad hoc config-line parsing covers it directly.
func ParsePlatformIOIni(path string) ([]PlatformIOEnv, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var envs []PlatformIOEnv
	var cur *PlatformIOEnv
	var continuationKey string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") || strings.HasPrefix(trimmed, "#") {
			continuationKey = ""
			continue
		}
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			section := strings.Trim(trimmed, "[]")
			if strings.HasPrefix(section, "env:") || section == "env" {
				envs = append(envs, PlatformIOEnv{Name: strings.TrimPrefix(section, "env:")})
				cur = &envs[len(envs)-1]
			} else {
				cur = nil
			}
			continuationKey = ""
			continue
		}
		if cur == nil {
			continue
		}
		// Continuation line: indented, no "=" — appends to the previous
		// key's comma/newline-separated list (platformio.ini's multi-line
		// list syntax).
		if (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && !strings.Contains(trimmed, "=") {
			appendEnvList(cur, continuationKey, trimmed)
			continue
		}
		key, value, ok := splitIniKV(trimmed)
		if !ok {
			continue
		}
		continuationKey = key
		appendEnvList(cur, key, value)
	}
	return envs, scanner.Err()
}

func splitIniKV(line string) (key, value string, ok bool) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}

func appendEnvList(env *PlatformIOEnv, key, value string) {
	if env == nil || value == "" {
		return
	}
	items := splitIniList(value)
	switch key {
	case "lib_extra_dirs":
		env.LibExtraDirs = append(env.LibExtraDirs, items...)
	case "lib_deps":
		env.LibDeps = append(env.LibDeps, items...)
	}
}

func splitIniList(value string) []string {
	if i := strings.Index(value, ";"); i >= 0 {
		value = value[:i] // inline comment
	}
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == ',' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"'`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ResolveLibExtraDirs converts an env's lib_extra_dirs entries (which may
// be relative to the project root) into absolute search-path directories
// for the Include Resolver (§4.3).
func ResolveLibExtraDirs(root string, env PlatformIOEnv) []string {
	out := make([]string, 0, len(env.LibExtraDirs))
	for _, d := range env.LibExtraDirs {
		if filepath.IsAbs(d) {
			out = append(out, d)
		} else {
			out = append(out, filepath.Join(root, d))
		}
	}
	return out
}
