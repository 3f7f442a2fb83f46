// Package codegen implements the Code Generator and Header Synthesizer
// of §4.5/§4.6: lowering a parsed, symbol-collected file to C source and
// header text. Generation is a pure function from parse tree to
// (text, effects) per §9's design note — "a generator that both emits
// text and decides what helpers/includes are needed should separate the
// two: walk once, collect a list of effects, and let the caller fold
// them in" — so a body walk never depends on whether some other part of
// the same walk already registered a helper. The (text, effects) split
// generalizes the teacher's Emitter.Emit(file) ([]byte, error) shape in
// inspector/graph/emitter.go, adding the effects list the teacher's
// single-pass Go-source emitter never needed.
package codegen

// EffectKind discriminates an Effect (§4.5).
type EffectKind int

const (
	// EffectHelper requests that a named runtime helper (e.g. a
	// cnx_clamp_add_u32 overflow helper) be emitted once, not per call
	// site, into the translation unit's helper prologue.
	EffectHelper EffectKind = iota
	// EffectInclude requests that a system or local include line be added
	// to the generated .c/.cpp file.
	EffectInclude
	// EffectCallbackField records that a callback typedef was referenced
	// as a struct field type and must be emitted before that struct.
	EffectCallbackField
)

// Effect is one deferred consequence of walking a parse subtree. The
// Pipeline (or, for a single file, the Generator itself) folds the
// collected effects into the final output after the walk completes.
type Effect struct {
	Kind EffectKind
	Name string // helper name, include path, or callback typedef name
}

// effectSet dedups effects by (Kind, Name) while preserving first-seen
// order, matching the indexed-lookup-map-beside-slice idiom used
// throughout this module.
type effectSet struct {
	list []Effect
	seen map[EffectKind]map[string]bool
}

func newEffectSet() *effectSet {
	return &effectSet{seen: map[EffectKind]map[string]bool{}}
}

func (s *effectSet) add(kind EffectKind, name string) {
	if s.seen[kind] == nil {
		s.seen[kind] = map[string]bool{}
	}
	if s.seen[kind][name] {
		return
	}
	s.seen[kind][name] = true
	s.list = append(s.list, Effect{Kind: kind, Name: name})
}

func (s *effectSet) merge(other []Effect) {
	for _, e := range other {
		s.add(e.Kind, e.Name)
	}
}
