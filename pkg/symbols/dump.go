package symbols

import "gopkg.in/yaml.v3"

// Dump is a YAML-serializable snapshot of a Store's name tables, for the
// `--dump-symbols` debug surface (SPEC_FULL.md's supplemented features).
// It mirrors analyzer/linage's habit of tagging a small, flat summary
// struct for serialization rather than marshaling the live graph nodes
// (whose Decl pointers carry *ast.File trees unsuited to YAML output).
type Dump struct {
	Scopes    []string       `yaml:"scopes,omitempty"`
	Structs   []string       `yaml:"structs,omitempty"`
	Enums     []string       `yaml:"enums,omitempty"`
	Bitmaps   []string       `yaml:"bitmaps,omitempty"`
	Registers []string       `yaml:"registers,omitempty"`
	Callbacks []CallbackDump `yaml:"callbacks,omitempty"`
	Functions []string       `yaml:"functions,omitempty"`
	Variables []string       `yaml:"variables,omitempty"`
}

// CallbackDump records a callback typedef's name and whether it was ever
// referenced, since unreferenced callbacks are silently dropped at
// header-emission time and that is worth surfacing in a debug dump.
type CallbackDump struct {
	Name       string `yaml:"name"`
	Referenced bool   `yaml:"referenced"`
}

// Dump renders the Store's name tables as YAML. Structs, enums, bitmaps,
// registers, functions and variables are listed in declaration order;
// scopes and callbacks come from map iteration, so their order is not
// fixed.
func (s *Store) Dump() ([]byte, error) {
	d := Dump{}
	for name := range s.Scopes {
		d.Scopes = append(d.Scopes, name)
	}
	for _, name := range s.Order() {
		switch {
		case s.Structs[name] != nil:
			d.Structs = append(d.Structs, name)
		case s.Enums[name] != nil:
			d.Enums = append(d.Enums, name)
		case s.Bitmaps[name] != nil:
			d.Bitmaps = append(d.Bitmaps, name)
		case s.Registers[name] != nil:
			d.Registers = append(d.Registers, name)
		case s.Functions[name] != nil:
			d.Functions = append(d.Functions, name)
		case s.Variables[name] != nil:
			d.Variables = append(d.Variables, name)
		}
	}
	for name, cb := range s.Callbacks {
		d.Callbacks = append(d.Callbacks, CallbackDump{Name: name, Referenced: cb.Referenced})
	}
	return yaml.Marshal(d)
}
