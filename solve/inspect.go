package solve

import (
	"fmt"
	"strings"

	"github.com/typefirst/goalsolve/ir"
	"github.com/typefirst/goalsolve/util"
)

// ProofNode is one evaluated goal in a recorded proof tree.
type ProofNode struct {
	Source   ir.GoalSource
	Goal     ir.Goal
	Result   string
	Children []*ProofNode
}

// Recorder captures the goal tree as it is evaluated, for debugging and for
// trace dumps. A nil recorder costs nothing. Not safe for concurrent use,
// like the evaluation it observes.
type Recorder struct {
	roots []*ProofNode
	open  util.Stack[*ProofNode]
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) enter(source ir.GoalSource, goal ir.Goal) {
	if r == nil {
		return
	}
	node := &ProofNode{Source: source, Goal: goal}
	if parent, ok := r.open.Peek(); ok {
		parent.Children = append(parent.Children, node)
	} else {
		r.roots = append(r.roots, node)
	}
	r.open.Push(node)
}

func (r *Recorder) exit(resp CanonicalResponse, err error) {
	if r == nil {
		return
	}
	node, ok := r.open.Pop()
	if !ok {
		return
	}
	if err != nil {
		node.Result = err.Error()
		return
	}
	node.Result = resp.Value.Certainty.String()
}

// Roots returns the recorded top-level goals.
func (r *Recorder) Roots() []*ProofNode {
	if r == nil {
		return nil
	}
	return r.roots
}

// Render writes the proof tree as an indented listing.
func (r *Recorder) Render() string {
	var sb strings.Builder
	for _, root := range r.Roots() {
		renderNode(&sb, root, 0)
	}
	return sb.String()
}

func renderNode(sb *strings.Builder, node *ProofNode, depth int) {
	fmt.Fprintf(sb, "%s%s (%s) => %s\n", strings.Repeat("  ", depth), node.Goal, node.Source, node.Result)
	for _, child := range node.Children {
		renderNode(sb, child, depth+1)
	}
}
