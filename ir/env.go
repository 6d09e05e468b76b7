package ir

import (
	"fmt"
	"iter"

	"github.com/benbjohnson/immutable"
)

// Clause is a single assumption visible inside an environment.
type Clause interface {
	fmt.Stringer
	Hash() uint64
	isClause()
}

var (
	_ Clause = (*OutlivesClause)(nil)
	_ Clause = (*TraitClause)(nil)
	_ Clause = (*ConstParamTypeClause)(nil)
)

// OutlivesClause assumes Term outlives Region.
type OutlivesClause struct {
	Term   Term
	Region Region
}

func (c *OutlivesClause) isClause()      {}
func (c *OutlivesClause) String() string { return fmt.Sprintf("%s: %s", c.Term, c.Region) }
func (c *OutlivesClause) Hash() uint64   { return c.Term.Hash()*167 ^ c.Region.Hash() }

// TraitClause assumes Self implements Trait.
type TraitClause struct {
	Trait DefID
	Self  Type
}

func (c *TraitClause) isClause()      {}
func (c *TraitClause) String() string { return fmt.Sprintf("%s: %s", c.Self, c.Trait) }
func (c *TraitClause) Hash() uint64   { return hashString(string(c.Trait))*173 ^ c.Self.Hash() }

// ConstParamTypeClause records the environment type of a const placeholder.
type ConstParamTypeClause struct {
	Name string
	Ty   Type
}

func (c *ConstParamTypeClause) isClause()      {}
func (c *ConstParamTypeClause) String() string { return fmt.Sprintf("const %s: %s", c.Name, c.Ty) }
func (c *ConstParamTypeClause) Hash() uint64   { return hashString(c.Name)*179 ^ c.Ty.Hash() }

// Env is the set of in-scope assumptions a goal is proved under. The solver
// only ever reads it; extending it yields a new value, so environments can be
// shared freely between nested goals.
type Env struct {
	clauses *immutable.List[Clause]
	hash    uint64
}

var emptyEnv = &Env{clauses: immutable.NewList[Clause](), hash: 14695981039346656037}

func EmptyEnv() *Env {
	return emptyEnv
}

// With returns a new environment extended by the given clauses.
func (e *Env) With(clauses ...Clause) *Env {
	list := e.clauses
	h := e.hash
	for _, c := range clauses {
		list = list.Append(c)
		h = 31*h ^ c.Hash()
	}
	return &Env{clauses: list, hash: h}
}

func (e *Env) Len() int {
	return e.clauses.Len()
}

func (e *Env) Hash() uint64 {
	return e.hash
}

func (e *Env) Clauses() iter.Seq[Clause] {
	return func(yield func(Clause) bool) {
		itr := e.clauses.Iterator()
		for !itr.Done() {
			_, clause := itr.Next()
			if !yield(clause) {
				return
			}
		}
	}
}

// ConstTypeOf looks up the recorded environment type of a const placeholder.
func (e *Env) ConstTypeOf(name string) (Type, bool) {
	for clause := range e.Clauses() {
		if c, ok := clause.(*ConstParamTypeClause); ok && c.Name == name {
			return c.Ty, true
		}
	}
	return nil, false
}
