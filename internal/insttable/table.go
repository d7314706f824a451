// Package insttable owns the instantiation tables the matching engine
// resolves indirections through: named inst definitions and the alias key
// table used for destructive-update tracking. The engine (instmatch) only
// ever reads these via the inst.Tables interface; all writes happen here,
// between checking passes.
package insttable

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/emacstheviking/mercury/internal/config"
	"github.com/emacstheviking/mercury/internal/inst"
)

// InstTable maps defined-inst names to their definitions. Recursive and
// mutually recursive definitions are expressed by DefinedInst references
// inside the bodies; nothing is resolved eagerly.
type InstTable struct {
	defs map[string]inst.Inst
}

func NewInstTable() *InstTable {
	return &InstTable{defs: make(map[string]inst.Inst)}
}

// NewBuiltinTable returns an inst table preloaded with the definitions
// every module gets for free.
func NewBuiltinTable() *InstTable {
	t := NewInstTable()
	t.defs[config.GroundInstName] = inst.Ground{Uniq: inst.Shared}
	t.defs[config.FreeInstName] = inst.Free{}
	t.defs[config.DeadInstName] = inst.Ground{Uniq: inst.Clobbered}
	return t
}

// Define registers a named inst. Redefining a name is an error: inst
// declarations are module-global and earlier passes deduplicate imports.
func (t *InstTable) Define(name string, i inst.Inst) error {
	if _, ok := t.defs[name]; ok {
		return fmt.Errorf("inst %q is already defined", name)
	}
	t.defs[name] = i
	return nil
}

func (t *InstTable) LookupInstName(name string) (inst.Inst, bool) {
	i, ok := t.defs[name]
	return i, ok
}

// AliasTable tracks the current inst behind each alias key. Mode analysis
// mints a key per potentially-destructively-updated value and rewrites the
// entry as the value's inst evolves; during any single matching call the
// table is frozen.
type AliasTable struct {
	entries map[inst.AliasKey]inst.Inst
}

func NewAliasTable() *AliasTable {
	return &AliasTable{entries: make(map[inst.AliasKey]inst.Inst)}
}

// NewKey mints a fresh opaque key bound to i. Keys carry no structure;
// uniqueness comes from the generator, not from the inst they point at.
func (t *AliasTable) NewKey(i inst.Inst) inst.AliasKey {
	key := inst.AliasKey(uuid.NewString())
	t.entries[key] = i
	return key
}

// Update rebinds an existing key. Rebinding an unknown key is an error:
// it means mode analysis lost track of a value it was supposed to own.
func (t *AliasTable) Update(key inst.AliasKey, i inst.Inst) error {
	if _, ok := t.entries[key]; !ok {
		return fmt.Errorf("alias key %s is not in the table", key)
	}
	t.entries[key] = i
	return nil
}

func (t *AliasTable) LookupAliasKey(key inst.AliasKey) (inst.Inst, bool) {
	i, ok := t.entries[key]
	return i, ok
}

// Tables bundles the two tables into the read-only view the engine takes.
type Tables struct {
	Insts   *InstTable
	Aliases *AliasTable
}

func NewTables() *Tables {
	return &Tables{Insts: NewBuiltinTable(), Aliases: NewAliasTable()}
}

func (t *Tables) LookupInstName(name string) (inst.Inst, bool) {
	return t.Insts.LookupInstName(name)
}

func (t *Tables) LookupAliasKey(key inst.AliasKey) (inst.Inst, bool) {
	return t.Aliases.LookupAliasKey(key)
}

var _ inst.Tables = (*Tables)(nil)
