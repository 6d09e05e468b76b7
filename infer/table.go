package infer

import (
	"fmt"
	"log/slog"

	"github.com/typefirst/goalsolve/internal/log"
	"github.com/typefirst/goalsolve/ir"
	"github.com/typefirst/goalsolve/solve"
)

var logger = log.DefaultLogger.With("section", "infer")

// varKey identifies one inference variable of any sort.
type varKey struct {
	kind ir.CanonicalVarKind
	id   uint64
}

func (k varKey) String() string {
	return fmt.Sprintf("?%s%d", k.kind, k.id)
}

// event is one entry of the table's journal. The journal serves two masters:
// snapshots roll it back, and the canonicalization codec reads a suffix of it
// to see what one goal's evaluation touched.
type event interface{ isEvent() }

type evNewVar struct {
	key      varKey
	universe ir.UniverseIndex
}

type evBind struct {
	key varKey
	old ir.Term // nil when the variable was unbound
}

type evOutlives struct {
	constraint solve.RegionConstraint
}

type evOpaque struct {
	assignment solve.OpaqueTypeAssignment
}

func (evNewVar) isEvent()   {}
func (evBind) isEvent()     {}
func (evOutlives) isEvent() {}
func (evOpaque) isEvent()   {}

// Table is the inference-variable store backing the reference delegate:
// variables, their bindings, and the fact stores the solver feeds. One table
// per top-level query; the solver borrows it exclusively.
type Table struct {
	logger *slog.Logger

	nextType   ir.TypeVarID
	nextRegion ir.RegionVarID
	nextConst  ir.ConstVarID
	universe   ir.UniverseIndex

	bindings  map[varKey]ir.Term
	universes map[varKey]ir.UniverseIndex

	outlives []solve.RegionConstraint
	opaques  []solve.OpaqueTypeAssignment

	journal []event
}

func NewTable() *Table {
	return &Table{
		logger:    logger,
		bindings:  make(map[varKey]ir.Term),
		universes: make(map[varKey]ir.UniverseIndex),
	}
}

func (t *Table) journalLen() int {
	return len(t.journal)
}

func (t *Table) FreshTypeVar() ir.Type {
	v := &ir.InferType{ID: t.nextType}
	t.nextType++
	t.recordNewVar(varKey{kind: ir.CanonicalTypeVar, id: uint64(v.ID)})
	return v
}

func (t *Table) FreshRegionVar() ir.Region {
	v := &ir.InferRegion{ID: t.nextRegion}
	t.nextRegion++
	t.recordNewVar(varKey{kind: ir.CanonicalRegionVar, id: uint64(v.ID)})
	return v
}

func (t *Table) FreshConstVar() ir.Const {
	v := &ir.InferConst{ID: t.nextConst}
	t.nextConst++
	t.recordNewVar(varKey{kind: ir.CanonicalConstVar, id: uint64(v.ID)})
	return v
}

// EnterUniverse bumps the universe fresh variables are created in, for
// placeholders introduced under a binder.
func (t *Table) EnterUniverse() ir.UniverseIndex {
	t.universe++
	return t.universe
}

func (t *Table) recordNewVar(key varKey) {
	t.universes[key] = t.universe
	t.journal = append(t.journal, evNewVar{key: key, universe: t.universe})
}

func (t *Table) bind(key varKey, term ir.Term) {
	old := t.bindings[key]
	t.journal = append(t.journal, evBind{key: key, old: old})
	t.bindings[key] = term
	t.logger.Debug("bound variable", "var", key.String(), "to", term.String())
}

func (t *Table) binding(key varKey) (ir.Term, bool) {
	term, ok := t.bindings[key]
	return term, ok
}

// RegisterTypeOutlives records that ty outlives r. Never refutes locally;
// the region graph is checked for consistency elsewhere.
func (t *Table) RegisterTypeOutlives(ty ir.Type, r ir.Region) {
	c := solve.RegionConstraint{Term: ty, Region: r}
	t.outlives = append(t.outlives, c)
	t.journal = append(t.journal, evOutlives{constraint: c})
}

func (t *Table) RegisterRegionOutlives(a, b ir.Region) {
	c := solve.RegionConstraint{Term: a, Region: b}
	t.outlives = append(t.outlives, c)
	t.journal = append(t.journal, evOutlives{constraint: c})
}

// DefineOpaque commits a concrete identity for an opaque type.
func (t *Table) DefineOpaque(def ir.DefID, args []ir.Term, concrete ir.Type) {
	a := solve.OpaqueTypeAssignment{Def: def, Args: args, Concrete: concrete}
	t.opaques = append(t.opaques, a)
	t.journal = append(t.journal, evOpaque{assignment: a})
}

// Resolve substitutes current bindings through the term, recursively.
// The result may still contain unresolved inference variables.
func (t *Table) Resolve(term ir.Term) ir.Term {
	switch x := term.(type) {
	case *ir.InferType:
		if b, ok := t.binding(varKey{kind: ir.CanonicalTypeVar, id: uint64(x.ID)}); ok {
			return t.Resolve(b)
		}
		return x
	case *ir.InferRegion:
		if b, ok := t.binding(varKey{kind: ir.CanonicalRegionVar, id: uint64(x.ID)}); ok {
			return t.Resolve(b)
		}
		return x
	case *ir.InferConst:
		if b, ok := t.binding(varKey{kind: ir.CanonicalConstVar, id: uint64(x.ID)}); ok {
			return t.Resolve(b)
		}
		return x
	case *ir.AppliedType:
		return &ir.AppliedType{Def: x.Def, Args: t.resolveAll(x.Args)}
	case *ir.AliasType:
		return &ir.AliasType{Def: x.Def, Args: t.resolveAll(x.Args), Opaque: x.Opaque}
	case *ir.RefType:
		return &ir.RefType{
			Region: t.Resolve(x.Region).(ir.Region),
			Elem:   t.Resolve(x.Elem).(ir.Type),
		}
	case *ir.ValueConst:
		return &ir.ValueConst{Ty: t.Resolve(x.Ty).(ir.Type), Repr: x.Repr}
	case *ir.UnevaluatedConst:
		return &ir.UnevaluatedConst{Def: x.Def, Expr: x.Expr, Args: t.resolveAll(x.Args)}
	default:
		return term
	}
}

func (t *Table) resolveAll(terms []ir.Term) []ir.Term {
	out := make([]ir.Term, len(terms))
	for i, term := range terms {
		out[i] = t.Resolve(term)
	}
	return out
}

// Snapshot marks the current journal position so a probe can be undone.
type Snapshot struct {
	journalLen int
}

func (t *Table) Snapshot() Snapshot {
	return Snapshot{journalLen: len(t.journal)}
}

// Rollback undoes every event recorded after the snapshot, newest first.
// Variable IDs are not reused; a rolled-back variable simply stays dead.
func (t *Table) Rollback(s Snapshot) {
	for i := len(t.journal) - 1; i >= s.journalLen; i-- {
		switch e := t.journal[i].(type) {
		case evNewVar:
			delete(t.universes, e.key)
			delete(t.bindings, e.key)
		case evBind:
			if e.old == nil {
				delete(t.bindings, e.key)
			} else {
				t.bindings[e.key] = e.old
			}
		case evOutlives:
			t.outlives = t.outlives[:len(t.outlives)-1]
		case evOpaque:
			t.opaques = t.opaques[:len(t.opaques)-1]
		}
	}
	t.journal = t.journal[:s.journalLen]
}
