package ir

import (
	"fmt"
	"strings"
)

var (
	_ Const = (*UnevaluatedConst)(nil)
	_ Const = (*InferConst)(nil)
	_ Const = (*BoundConst)(nil)
	_ Const = (*ParamConst)(nil)
	_ Const = (*PlaceholderConst)(nil)
	_ Const = (*ValueConst)(nil)
	_ Const = (*ExprConst)(nil)
	_ Const = (*ErrorConst)(nil)
)

// UnevaluatedConst is a reference to a constant definition that has not been
// reduced to a value yet. Expr optionally carries the definition's body as a
// Go expression for the evaluator.
type UnevaluatedConst struct {
	Def  DefID
	Expr string
	Args []Term
}

func (c *UnevaluatedConst) isConst() {}
func (c *UnevaluatedConst) String() string {
	if len(c.Args) == 0 {
		return "const " + string(c.Def)
	}
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("const %s[%s]", c.Def, strings.Join(args, ", "))
}
func (c *UnevaluatedConst) Hash() uint64 {
	return hashTerms(hashString(string(c.Def))*71, c.Args)
}

// InferConst is a not-yet-resolved const inference variable.
type InferConst struct {
	ID ConstVarID
}

func (c *InferConst) isConst()       {}
func (c *InferConst) String() string { return fmt.Sprintf("?c%d", c.ID) }
func (c *InferConst) Hash() uint64   { return 0x589965cc75374cc3 ^ uint64(c.ID)*31 }

// BoundConst is the de Bruijn form of a canonical const variable.
type BoundConst struct {
	Index int
}

func (c *BoundConst) isConst()       {}
func (c *BoundConst) String() string { return fmt.Sprintf("^c%d", c.Index) }
func (c *BoundConst) Hash() uint64   { return 0x1b873593cc9e2d51 ^ uint64(c.Index)*37 }

// ParamConst is a const generic parameter. Canonicalization replaces these
// with placeholders, so the solver must never see one.
type ParamConst struct {
	Name string
}

func (c *ParamConst) isConst()       {}
func (c *ParamConst) String() string { return string(c.Name) }
func (c *ParamConst) Hash() uint64   { return hashString(c.Name) * 73 }

// PlaceholderConst is a rigid skolem for a universally quantified const
// parameter. Its type is recorded in the environment, not on the term.
type PlaceholderConst struct {
	Universe UniverseIndex
	Name     string
}

func (c *PlaceholderConst) isConst()       {}
func (c *PlaceholderConst) String() string { return "!" + c.Name }
func (c *PlaceholderConst) Hash() uint64 {
	return hashString(c.Name)*79 ^ uint64(c.Universe)
}

// ValueConst is a fully evaluated constant together with its intrinsic type.
type ValueConst struct {
	Ty   Type
	Repr string
}

func (c *ValueConst) isConst()       {}
func (c *ValueConst) String() string { return fmt.Sprintf("%s: %s", c.Repr, c.Ty) }
func (c *ValueConst) Hash() uint64   { return hashString(c.Repr)*83 ^ c.Ty.Hash() }

// ExprConst is a symbolic const-generic expression. Not supported by this
// solver; its appearance after canonicalization is an internal error.
type ExprConst struct {
	Op       string
	Operands []Const
}

func (c *ExprConst) isConst() {}
func (c *ExprConst) String() string {
	parts := make([]string, len(c.Operands))
	for i, o := range c.Operands {
		parts[i] = o.String()
	}
	return fmt.Sprintf("(%s %s)", c.Op, strings.Join(parts, " "))
}
func (c *ExprConst) Hash() uint64 {
	h := hashString(c.Op) * 89
	for _, o := range c.Operands {
		h = 31*h ^ o.Hash()
	}
	return h
}

// ErrorConst stands in for a constant that already failed checking.
type ErrorConst struct{}

func (c *ErrorConst) isConst()       {}
func (c *ErrorConst) String() string { return "{const error}" }
func (c *ErrorConst) Hash() uint64   { return 0xff51afd7ed558ccf }
