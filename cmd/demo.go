package cmd

import (
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/typefirst/goalsolve/infer"
	"github.com/typefirst/goalsolve/internal/log"
	"github.com/typefirst/goalsolve/ir"
	"github.com/typefirst/goalsolve/solve"
)

var DemoCmd = &cobra.Command{
	Use:          "demo",
	Short:        "Evaluate a set of built-in goals and print each outcome",
	RunE:         runDemo,
	SilenceUsage: true,
}

var traceFlag bool

func init() {
	DemoCmd.Flags().BoolVar(&traceFlag, "trace", false, "print the proof tree for each goal")
}

func runDemo(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.LevelWarn)

	registry := infer.NewRegistry()
	registry.RegisterTrait("Display", true)
	registry.RegisterTrait("Iterator", false)
	registry.RegisterImpl("Display", &ir.AppliedType{Def: "i32"})
	registry.RegisterImpl("Display", &ir.AppliedType{Def: "str"})
	registry.RegisterAlias("Output", &ir.AppliedType{Def: "i32"})
	registry.RegisterConst("MAX", &ir.AppliedType{Def: "isize"})

	delegate := infer.NewDelegate(registry)
	codec := infer.NewCodec(delegate.Table)
	assembler := infer.NewImplAssembler(delegate, codec)

	env := ir.EmptyEnv()
	intTy := &ir.AppliedType{Def: "i32"}
	goals := []ir.Goal{
		ir.NewGoal(env, &ir.TypeOutlivesPredicate{Ty: intTy, Region: ir.StaticRegion{}}),
		ir.NewGoal(env, &ir.SubtypePredicate{A: &ir.AppliedType{Def: infer.DefNever}, B: intTy}),
		ir.NewGoal(env, &ir.ObjectSafePredicate{Trait: "Display"}),
		ir.NewGoal(env, &ir.ObjectSafePredicate{Trait: "Iterator"}),
		ir.NewGoal(env, &ir.TraitPredicate{Trait: "Display", Self: intTy}),
		ir.NewGoal(env, &ir.TraitPredicate{Trait: "Display", Self: delegate.FreshTypeVar()}),
		ir.NewGoal(env, &ir.WellFormedPredicate{Term: &ir.RefType{Region: ir.StaticRegion{}, Elem: intTy}}),
		ir.NewGoal(env, &ir.ConstEvaluatablePredicate{Const: &ir.UnevaluatedConst{Def: "MAX", Expr: "1 << 8"}}),
		ir.NewGoal(env, &ir.ProjectionPredicate{Alias: &ir.AliasType{Def: "Output"}, Term: intTy}),
	}

	for _, goal := range goals {
		recorder := solve.NewRecorder()
		ec := solve.NewEvalCtx(delegate, registry, codec,
			solve.WithAssembler(assembler), solve.WithRecorder(recorder))
		resp, err := ec.Evaluate(goal)
		switch {
		case errors.Is(err, solve.ErrNoSolution):
			fmt.Printf("%-40s => no solution\n", goal)
		case err != nil:
			return err
		default:
			fmt.Printf("%-40s => %s\n", goal, resp.Value.Certainty)
		}
		if traceFlag {
			fmt.Print(recorder.Render())
		}
	}
	return nil
}
