package infer

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"github.com/typefirst/goalsolve/ir"
)

// ConstEvaluator reduces expression-bodied constants to values by
// interpreting their body as a Go expression.
type ConstEvaluator struct {
	interp *interp.Interpreter
}

func NewConstEvaluator() *ConstEvaluator {
	i := interp.New(interp.Options{})
	_ = i.Use(stdlib.Symbols)
	return &ConstEvaluator{interp: i}
}

// Eval evaluates the constant's expression body. It fails when the constant
// has no body or the body does not reduce to a supported value kind.
func (e *ConstEvaluator) Eval(uv *ir.UnevaluatedConst) (ir.Const, error) {
	if uv.Expr == "" {
		return nil, errors.Errorf("const %s has no expression body", uv.Def)
	}
	v, err := e.interp.Eval(uv.Expr)
	if err != nil {
		return nil, errors.Wrapf(err, "evaluating const %s", uv.Def)
	}

	var ty ir.DefID
	switch v.Kind().String() {
	case "int", "int8", "int16", "int32", "int64":
		ty = "isize"
	case "uint", "uint8", "uint16", "uint32", "uint64":
		ty = "usize"
	case "bool":
		ty = "bool"
	case "string":
		ty = "str"
	case "float32", "float64":
		ty = "f64"
	default:
		return nil, errors.Errorf("const %s evaluated to unsupported kind %s", uv.Def, v.Kind())
	}
	return &ir.ValueConst{
		Ty:   &ir.AppliedType{Def: ty},
		Repr: fmt.Sprint(v.Interface()),
	}, nil
}
