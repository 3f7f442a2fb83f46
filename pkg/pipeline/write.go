package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/viant/afs"
)

// manifestName is the per-output-tree record of every file the Pipeline
// has ever written there, read back by the `clean` command so a later,
// separate process invocation knows what to remove (SPEC_FULL.md's
// supplemented clean-command feature; §6.6).
const manifestName = ".cnext-manifest.json"

// Manifest is the persisted record of generated files for one output
// tree (§6.6's `clean` sweep).
type Manifest struct {
	Files []string `json:"files"`
}

// WriteAll writes every FileResult's .c/.cpp and .h text to disk via afs
// (the teacher's own file-IO abstraction, used here for the write side
// the way detector.go/document.go use it for the read side), creating
// parent directories as needed, then persists a manifest per output root
// so a later `clean` run can find everything it wrote.
func (p *Pipeline) WriteAll(results []FileResult) error {
	ctx := context.Background()
	fs := afs.New()

	manifests := map[string]*Manifest{}
	record := func(root, path string) {
		m, ok := manifests[root]
		if !ok {
			m = &Manifest{}
			manifests[root] = m
		}
		m.Files = append(m.Files, path)
	}

	for _, r := range results {
		if err := writeFile(ctx, fs, r.CPath, r.CText); err != nil {
			return err
		}
		record(p.opts.OutDir, r.CPath)

		if r.HPath != "" {
			headerOutDir := p.opts.HeaderOutDir
			if headerOutDir == "" {
				headerOutDir = p.opts.OutDir
			}
			if err := writeFile(ctx, fs, r.HPath, r.HText); err != nil {
				return err
			}
			record(headerOutDir, r.HPath)
		}
	}

	for root, m := range manifests {
		if err := writeManifest(ctx, fs, root, m); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(ctx context.Context, fs afs.Service, path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := fs.Upload(ctx, path, 0o644, bytes.NewReader([]byte(text))); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func writeManifest(ctx context.Context, fs afs.Service, root string, m *Manifest) error {
	existing, err := readManifest(ctx, fs, root)
	if err == nil {
		m.Files = mergeManifestFiles(existing.Files, m.Files)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(root, manifestName)
	return writeFile(ctx, fs, path, string(data))
}

func readManifest(ctx context.Context, fs afs.Service, root string) (*Manifest, error) {
	path := filepath.Join(root, manifestName)
	data, err := fs.DownloadWithURL(ctx, path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func mergeManifestFiles(existing, fresh []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range fresh {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	for _, f := range existing {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// Clean removes every file recorded in root's manifest, along with the
// manifest itself (§6.6).
func Clean(root string) error {
	ctx := context.Background()
	fs := afs.New()

	m, err := readManifest(ctx, fs, root)
	if err != nil {
		return fmt.Errorf("reading manifest for %s: %w", root, err)
	}
	for _, f := range m.Files {
		if err := fs.Delete(ctx, f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", f, err)
		}
	}
	return fs.Delete(ctx, filepath.Join(root, manifestName))
}
