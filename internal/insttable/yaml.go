package insttable

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/emacstheviking/mercury/internal/inst"
)

// LoadYAML builds an inst table (on top of the builtin definitions) from a
// YAML document of named inst definitions. Mode-analysis fixtures and the
// engine's own tests use this to state recursive descriptor graphs
// declaratively.
//
// Schema, one entry per name under "insts":
//
//	insts:
//	  list_skel:
//	    kind: bound
//	    uniq: shared
//	    functors:
//	      - cons: nil/0
//	      - cons: cons/2
//	        args:
//	          - { kind: ground, uniq: shared }
//	          - { kind: defined, name: list_skel }
//
// Kinds: free, any, bound, ground, not_reached, abstract, defined. The
// uniq field defaults to shared. Recursion is expressed with defined
// references, which stay unresolved in the table. A ground entry may carry
// a pred block describing a higher-order calling convention (see predSpec).
func LoadYAML(data []byte) (*InstTable, error) {
	var file struct {
		Insts map[string]*instSpec `yaml:"insts"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("inst table YAML parse error: %w", err)
	}

	table := NewBuiltinTable()

	// Deterministic definition order, so duplicate-name errors are stable.
	names := make([]string, 0, len(file.Insts))
	for name := range file.Insts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		i, err := file.Insts[name].build()
		if err != nil {
			return nil, fmt.Errorf("inst %q: %w", name, err)
		}
		if err := table.Define(name, i); err != nil {
			return nil, err
		}
	}
	return table, nil
}

type instSpec struct {
	Kind     string         `yaml:"kind"`
	Type     string         `yaml:"type"`     // free
	Uniq     string         `yaml:"uniq"`     // any, bound, ground
	Functors []*functorSpec `yaml:"functors"` // bound
	Name     string         `yaml:"name"`     // abstract, defined
	Args     []*instSpec    `yaml:"args"`     // abstract
	Pred     *predSpec      `yaml:"pred"`     // ground, for higher-order values
}

type functorSpec struct {
	Cons string      `yaml:"cons"`
	Args []*instSpec `yaml:"args"`
}

// predSpec is the calling convention of a higher-order ground inst:
//
//	pred:
//	  func: false
//	  detism: semidet
//	  modes:
//	    - initial: { kind: free }
//	      final: { kind: ground }
type predSpec struct {
	Func   bool        `yaml:"func"`
	Detism string      `yaml:"detism"`
	Modes  []*modeSpec `yaml:"modes"`
}

type modeSpec struct {
	Initial *instSpec `yaml:"initial"`
	Final   *instSpec `yaml:"final"`
}

func (s *instSpec) build() (inst.Inst, error) {
	if s == nil {
		return nil, fmt.Errorf("empty inst spec")
	}
	switch s.Kind {
	case "free":
		return inst.Free{TypeName: s.Type}, nil
	case "any":
		u, err := parseUniq(s.Uniq)
		if err != nil {
			return nil, err
		}
		return inst.Any{Uniq: u}, nil
	case "bound":
		u, err := parseUniq(s.Uniq)
		if err != nil {
			return nil, err
		}
		functors, err := buildFunctors(s.Functors)
		if err != nil {
			return nil, err
		}
		return inst.Bound{Uniq: u, Functors: functors}, nil
	case "ground":
		u, err := parseUniq(s.Uniq)
		if err != nil {
			return nil, err
		}
		pred, err := s.Pred.build()
		if err != nil {
			return nil, err
		}
		return inst.Ground{Uniq: u, Pred: pred}, nil
	case "not_reached":
		return inst.NotReached{}, nil
	case "abstract":
		if s.Name == "" {
			return nil, fmt.Errorf("abstract inst needs a name")
		}
		args := make([]inst.Inst, len(s.Args))
		for n, a := range s.Args {
			built, err := a.build()
			if err != nil {
				return nil, err
			}
			args[n] = built
		}
		return inst.AbstractInst{Name: s.Name, Args: args}, nil
	case "defined":
		if s.Name == "" {
			return nil, fmt.Errorf("defined inst reference needs a name")
		}
		return inst.DefinedInst{Name: s.Name}, nil
	case "":
		return nil, fmt.Errorf("missing kind")
	default:
		return nil, fmt.Errorf("unknown inst kind %q", s.Kind)
	}
}

func (s *predSpec) build() (*inst.PredInstInfo, error) {
	if s == nil {
		return nil, nil
	}
	detism, err := parseDetism(s.Detism)
	if err != nil {
		return nil, err
	}
	modes := make([]inst.ArgMode, len(s.Modes))
	for n, ms := range s.Modes {
		if ms == nil || ms.Initial == nil || ms.Final == nil {
			return nil, fmt.Errorf("argument mode needs both initial and final insts")
		}
		initial, err := ms.Initial.build()
		if err != nil {
			return nil, err
		}
		final, err := ms.Final.build()
		if err != nil {
			return nil, err
		}
		modes[n] = inst.ArgMode{Initial: initial, Final: final}
	}
	return &inst.PredInstInfo{IsFunction: s.Func, ArgModes: modes, Detism: detism}, nil
}

func parseDetism(s string) (inst.Determinism, error) {
	switch s {
	case "", "det":
		return inst.DetismDet, nil
	case "semidet":
		return inst.DetismSemidet, nil
	case "multi":
		return inst.DetismMulti, nil
	case "nondet":
		return inst.DetismNondet, nil
	case "cc_multi":
		return inst.DetismCCMulti, nil
	case "cc_nondet":
		return inst.DetismCCNondet, nil
	case "erroneous":
		return inst.DetismErroneous, nil
	case "failure":
		return inst.DetismFailure, nil
	default:
		return inst.DetismDet, fmt.Errorf("unknown determinism %q", s)
	}
}

// buildFunctors sorts the functor list by constructor id and rejects
// duplicates: a loaded Bound inst must already satisfy the invariant the
// sorted-merge matcher relies on.
func buildFunctors(specs []*functorSpec) ([]inst.BoundFunctor, error) {
	functors := make([]inst.BoundFunctor, len(specs))
	for n, fs := range specs {
		if fs == nil {
			return nil, fmt.Errorf("empty functor spec")
		}
		cons, err := parseConsID(fs.Cons)
		if err != nil {
			return nil, err
		}
		if len(fs.Args) != cons.Arity {
			return nil, fmt.Errorf("constructor %s given %d args", cons, len(fs.Args))
		}
		args := make([]inst.Inst, len(fs.Args))
		for m, a := range fs.Args {
			built, err := a.build()
			if err != nil {
				return nil, err
			}
			args[m] = built
		}
		functors[n] = inst.BoundFunctor{ConsID: cons, ArgInsts: args}
	}
	sort.Slice(functors, func(i, j int) bool {
		return functors[i].ConsID.Compare(functors[j].ConsID) < 0
	})
	for n := 1; n < len(functors); n++ {
		if functors[n].ConsID.Compare(functors[n-1].ConsID) == 0 {
			return nil, fmt.Errorf("duplicate constructor %s", functors[n].ConsID)
		}
	}
	return functors, nil
}

func parseConsID(s string) (inst.ConsID, error) {
	idx := strings.LastIndex(s, "/")
	if idx <= 0 {
		return inst.ConsID{}, fmt.Errorf("constructor %q is not name/arity", s)
	}
	arity, err := strconv.Atoi(s[idx+1:])
	if err != nil || arity < 0 {
		return inst.ConsID{}, fmt.Errorf("constructor %q has a bad arity", s)
	}
	return inst.ConsID{Name: s[:idx], Arity: arity}, nil
}

func parseUniq(s string) (inst.Uniqueness, error) {
	switch s {
	case "", "shared":
		return inst.Shared, nil
	case "unique":
		return inst.Unique, nil
	case "mostly_unique":
		return inst.MostlyUnique, nil
	case "mostly_clobbered":
		return inst.MostlyClobbered, nil
	case "clobbered":
		return inst.Clobbered, nil
	default:
		return inst.Shared, fmt.Errorf("unknown uniqueness %q", s)
	}
}
