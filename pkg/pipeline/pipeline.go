// Package pipeline implements Pipeline/Project orchestration (§4.8):
// discovering input files, topologically ordering them leaves-first over
// the include graph, resetting the Transpiler State, running the Symbol
// Collector across every file before any emission, then walking the
// topological order to emit `.c`/`.cpp` and `.h` text with directory
// structure mirrored under independent output roots, rewriting the
// self-include and each `.cnx` include to its generated header along the
// way. The
// per-file write loop (MkdirAll + write, skip the header write when a
// file has no public surface) is grounded directly on
// inspector/coder.Coder.StoreProject; the run-scoped orchestration step
// grouping mirrors Coder.LoadProject/StoreProject's detect-then-store
// shape.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/codegen"
	"github.com/jlaustill/cnext/pkg/discovery"
	"github.com/jlaustill/cnext/pkg/includes"
	"github.com/jlaustill/cnext/pkg/parser"
	"github.com/jlaustill/cnext/pkg/pathresolve"
	"github.com/jlaustill/cnext/pkg/symbols"
	"github.com/jlaustill/cnext/pkg/targets"
	"github.com/jlaustill/cnext/pkg/token"
	"github.com/sirupsen/logrus"
)

// Options configures one Pipeline run (§4.8, §4.9).
type Options struct {
	InputDirs    []string
	OutDir       string
	HeaderOutDir string // falls back to OutDir when empty (§4.8 step 6)
	Log          *logrus.Logger
}

// Pipeline runs the full discover -> order -> collect -> emit sequence
// over a set of input directories, reusing one *symbols.State across
// files within a run and Reset-ing it between independent runs (§5).
type Pipeline struct {
	opts       Options
	state      *symbols.State
	log        *logrus.Logger
	lastHashes map[string]uint64
}

// New creates a Pipeline. A nil Options.Log gets a standard logrus
// logger at Info level, matching the ambient logging the rest of the
// module uses.
func New(opts Options) *Pipeline {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pipeline{opts: opts, state: symbols.NewState(), log: log}
}

// FileResult is one emitted translation unit's output text (§4.8).
type FileResult struct {
	SourceAbsPath   string
	CPath           string
	HPath           string
	CText           string
	HText           string
	SignatureHashes map[string]uint64
}

// Run executes one full pipeline pass: discovery, topological ordering,
// state reset, project-wide collection, then per-file generation in
// topological order (§4.8). It does not write files; call WriteAll with
// the result to do that, keeping the pure-compute/impure-write split the
// module uses elsewhere (§9 design note on effects).
func (p *Pipeline) Run() ([]FileResult, error) {
	p.state.Reset()
	p.log.Info("pipeline run starting")

	var discovered []discovery.File
	for _, dir := range p.opts.InputDirs {
		files, err := discovery.Discover(dir)
		if err != nil {
			return nil, fmt.Errorf("discovering %s: %w", dir, err)
		}
		discovered = append(discovered, files...)
	}
	p.log.WithField("count", len(discovered)).Info("discovered source files")

	readFunc := func(absPath string) (*ast.File, error) { return p.parseFile(absPath) }
	order, err := topologicalOrder(discovered, readFunc)
	if err != nil {
		return nil, err
	}

	parsed := map[string]*ast.File{}
	for _, absPath := range order {
		f, err := p.parseFile(absPath)
		if err != nil {
			return nil, err
		}
		parsed[absPath] = f
		collector := p.state.AddFile(absPath, f)
		if errs := collector.Errors(); len(errs) > 0 {
			return nil, fmt.Errorf("collecting symbols in %s: %v", absPath, errs[0])
		}
	}

	// Cross-scope bare access (§4.5, §7) and unqualified enum member use
	// (§4.5, §7 E0424) can only be checked once every file's scopes and
	// enums are known project-wide, so these run as their own pass after
	// collection and before any per-file emission.
	for _, absPath := range order {
		if errs := codegen.ValidateCrossScopeAccess(parsed[absPath], p.state.Project); len(errs) > 0 {
			return nil, fmt.Errorf("validating %s: %v", absPath, errs[0])
		}
		if errs := codegen.ValidateUnqualifiedEnum(parsed[absPath], p.state.Project); len(errs) > 0 {
			return nil, fmt.Errorf("validating %s: %v", absPath, errs[0])
		}
		if errs := codegen.ValidateConstructorConstArgs(parsed[absPath], p.state.Project); len(errs) > 0 {
			return nil, fmt.Errorf("validating %s: %v", absPath, errs[0])
		}
	}

	resolver := pathresolve.NewResolver(p.opts.InputDirs)
	headerOutDir := p.opts.HeaderOutDir
	if headerOutDir == "" {
		headerOutDir = p.opts.OutDir
	}

	var results []FileResult
	for _, absPath := range order {
		f := parsed[absPath]
		if errs := codegen.Validate(f); len(errs) > 0 {
			return nil, fmt.Errorf("validating %s: %v", absPath, errs[0])
		}

		gen := codegen.NewGenerator()
		for _, dir := range f.Directives {
			if dir.Kind != token.DirPragmaTarget {
				continue
			}
			if capability, ok := targets.Lookup(dir.Name); ok {
				gen.Target = capability
			} else {
				p.log.WithField("target", dir.Name).Warn("unknown #pragma target")
			}
		}
		genResult, errs := gen.Generate(f, p.state.Project, p.state.Facts)
		if len(errs) > 0 {
			return nil, fmt.Errorf("generating %s: %v", absPath, errs[0])
		}

		headerSynth := codegen.NewHeaderSynthesizer(gen)
		rel := resolver.RelativePath(absPath)
		guard := headerGuardName(rel)
		headerText := headerSynth.Synthesize(f, guard, p.state.Project, p.state.Facts)
		hasPublic := strings.Contains(headerText, ";") // a signature or extern decl line was emitted

		cPath := resolver.OutputPath(absPath, p.opts.OutDir, ".c")
		hPath := resolver.OutputPath(absPath, headerOutDir, ".h")

		sourceIncludes := p.rewriteSourceIncludes(f, absPath, resolver, headerOutDir)
		cText := p.renderTranslationUnit(genResult, sourceIncludes, hPath, cPath, hasPublic)

		fr := FileResult{SourceAbsPath: absPath, CPath: cPath, CText: cText, SignatureHashes: genResult.SignatureHashes}
		if hasPublic {
			fr.HPath = hPath
			fr.HText = headerText
		}
		results = append(results, fr)
	}

	p.warnChangedSignatures(results)
	p.log.WithField("count", len(results)).Info("pipeline run complete")
	return results, nil
}

// warnChangedSignatures logs a Warn for every public function whose
// signature hash differs from the previous Run call on this Pipeline
// value, a cheap O(1)-per-function alternative to diffing generated
// text across runs (§8.1). The very first Run has nothing to compare
// against, so it only seeds p.lastHashes.
func (p *Pipeline) warnChangedSignatures(results []FileResult) {
	current := map[string]uint64{}
	for _, r := range results {
		for key, hash := range r.SignatureHashes {
			current[key] = hash
		}
	}
	if p.lastHashes != nil {
		for key, hash := range current {
			if prev, ok := p.lastHashes[key]; ok && prev != hash {
				p.log.WithField("function", key).Warn("function signature changed since last run")
			}
		}
	}
	p.lastHashes = current
}

// DumpSymbols renders the project-wide Symbol Store accumulated by the
// most recent Run as YAML, for the `--dump-symbols` debug surface.
func (p *Pipeline) DumpSymbols() ([]byte, error) {
	return p.state.Project.Dump()
}

func (p *Pipeline) parseFile(absPath string) (*ast.File, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", absPath, err)
	}
	f, errs := parser.Parse(absPath, string(data))
	if len(errs) > 0 {
		return nil, fmt.Errorf("parsing %s: %v", absPath, errs[0])
	}
	return f, nil
}

// rewriteSourceIncludes turns each of f's own `#include` directives into
// the corresponding generated-header include line (§4.8 step 7): a
// `.cnx` target resolves to its companion `.h` under headerOutDir; a
// non-`.cnx` system include (e.g. `<stdint.h>`) passes through
// unchanged; an unresolvable `.cnx` include falls back to swapping its
// extension to `.h` rather than dropping it silently.
func (p *Pipeline) rewriteSourceIncludes(f *ast.File, absPath string, resolver *pathresolve.Resolver, headerOutDir string) []string {
	var lines []string
	resolverFor := includes.NewResolver(absPath, nil)
	for _, inc := range f.Includes {
		if filepath.Ext(inc.Path) != discovery.SourceExt {
			lines = append(lines, fmt.Sprintf("#include %s", rawIncludeText(inc)))
			continue
		}
		var hPath string
		if target, ok := resolverFor.Resolve(inc.Path, inc.System); ok {
			hPath = resolver.OutputPath(target, headerOutDir, ".h")
		} else {
			hPath = strings.TrimSuffix(inc.Path, discovery.SourceExt) + ".h"
		}
		lines = append(lines, fmt.Sprintf("#include \"%s\"", filepath.ToSlash(filepath.Base(hPath))))
	}
	return lines
}

func rawIncludeText(inc ast.IncludeDirective) string {
	if inc.System {
		return "<" + inc.Path + ">"
	}
	return "\"" + inc.Path + "\""
}

// renderTranslationUnit assembles the final .c/.cpp text: the
// self-include of the companion header, the rewritten source includes
// (§4.8 step 7), any helper prologue and include effects folded in, then
// the generated body.
func (p *Pipeline) renderTranslationUnit(result *codegen.Result, sourceIncludes []string, hPath, cPath string, hasHeader bool) string {
	var b strings.Builder
	if hasHeader {
		selfRel := relativeInclude(cPath, hPath)
		fmt.Fprintf(&b, "#include \"%s\"\n", selfRel)
	}
	for _, line := range sourceIncludes {
		b.WriteString(line)
		b.WriteString("\n")
	}
	for _, eff := range result.Effects {
		if eff.Kind == codegen.EffectInclude {
			fmt.Fprintf(&b, "#include %s\n", eff.Name)
		}
	}
	b.WriteString("\n")
	for _, eff := range result.Effects {
		if eff.Kind == codegen.EffectHelper {
			if body, ok := codegen.RenderHelper(eff.Name); ok {
				b.WriteString(body)
				b.WriteString("\n")
			}
		}
	}
	b.WriteString(result.Body)
	return b.String()
}

// relativeInclude computes the #include path from a .c file to its
// companion .h file, used for the self-include rewrite (§4.8 step 7).
func relativeInclude(fromCPath, toHPath string) string {
	rel, err := filepath.Rel(filepath.Dir(fromCPath), toHPath)
	if err != nil {
		return filepath.Base(toHPath)
	}
	return filepath.ToSlash(rel)
}

func headerGuardName(relPath string) string {
	clean := strings.TrimSuffix(relPath, filepath.Ext(relPath))
	clean = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, clean)
	return strings.ToUpper(clean) + "_H"
}
