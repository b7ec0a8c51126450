// Package refs implements static dependency extraction for expressions.
//
// Extraction is a pure tree walk: it visits every AST node kind, collects
// every sigil reference it finds (including inside call arguments, member
// chains, ternary branches, template-literal holes and arrow-function
// bodies), and never evaluates anything.
//
// Extraction is total: a malformed expression yields an empty reference set,
// never an error, so dependency discovery cannot block a caller over one bad
// expression.
package refs

import (
	"fmt"
	"sort"

	"github.com/coursekit/exprdsl/pkg/parser"
	"github.com/coursekit/exprdsl/pkg/types"
)

// ExtractReferences parses source and returns the deduplicated list of sigil
// references the expression reads, in first-seen order. A parse failure
// yields an empty list.
func ExtractReferences(source string) []types.Reference {
	expr := parser.TryParse(source)
	if expr == nil {
		return nil
	}
	return ExtractFromNode(expr.AST())
}

// ExtractFromNode walks an already-parsed AST and returns its deduplicated
// references in first-seen order.
func ExtractFromNode(root types.Node) []types.Reference {
	var out []types.Reference
	seen := map[string]struct{}{}
	collect(root, seen, &out)
	return out
}

// collect visits every node variant exhaustively. Adding a grammar
// production requires adding a case here and in the evaluator; an unknown
// variant panics so the omission cannot pass silently.
func collect(node types.Node, seen map[string]struct{}, out *[]types.Reference) {
	switch n := node.(type) {
	case *types.SigilRef:
		ref := types.Reference{Sigil: n.Sigil, ID: n.ID, Fields: n.Fields}
		key := ref.Key()
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			*out = append(*out, ref)
		}
	case *types.BinaryOp:
		collect(n.Left, seen, out)
		collect(n.Right, seen, out)
	case *types.UnaryOp:
		collect(n.Arg, seen, out)
	case *types.Ternary:
		collect(n.Cond, seen, out)
		collect(n.Then, seen, out)
		collect(n.Else, seen, out)
	case *types.Call:
		collect(n.Callee, seen, out)
		for _, arg := range n.Args {
			collect(arg, seen, out)
		}
	case *types.MemberAccess:
		collect(n.Object, seen, out)
	case *types.ArrowFunction:
		collect(n.Body, seen, out)
	case *types.TemplateLiteral:
		for _, part := range n.Parts {
			if hole, ok := part.(types.TemplateExpr); ok {
				collect(hole.Expr, seen, out)
			}
		}
	case *types.ObjectLiteral:
		for _, v := range n.Values {
			collect(v, seen, out)
		}
	case *types.NumberLit, *types.StringLit, *types.BooleanLit, *types.Identifier:
		// Leaves without external references.
	default:
		panic(fmt.Sprintf("refs: unhandled AST node %T", node))
	}
}

// ToStructuredRefs partitions a flat reference list into the three-bucket
// References shape, merging field paths per component-state key.
func ToStructuredRefs(flat []types.Reference) types.References {
	var out types.References
	stateIndex := map[string]int{}
	stateFields := map[string]map[string]struct{}{}
	content := map[string]struct{}{}
	globals := map[string]struct{}{}

	for _, r := range flat {
		switch r.Sigil {
		case types.SigilComponentState:
			idx, ok := stateIndex[r.ID]
			if !ok {
				idx = len(out.ComponentState)
				stateIndex[r.ID] = idx
				stateFields[r.ID] = map[string]struct{}{}
				out.ComponentState = append(out.ComponentState, types.ComponentStateRef{Key: r.ID})
			}
			for _, f := range r.Fields {
				if _, dup := stateFields[r.ID][f]; !dup {
					stateFields[r.ID][f] = struct{}{}
					out.ComponentState[idx].Fields = append(out.ComponentState[idx].Fields, f)
				}
			}
		case types.SigilOLXContent:
			if _, ok := content[r.ID]; !ok {
				content[r.ID] = struct{}{}
				out.OLXContent = append(out.OLXContent, types.ContentRef{ID: r.ID})
			}
		case types.SigilGlobalVar:
			if _, ok := globals[r.ID]; !ok {
				globals[r.ID] = struct{}{}
				out.GlobalVars = append(out.GlobalVars, types.GlobalRef{Name: r.ID})
			}
		}
	}
	// Field sets are sorted so the output matches types.Merge byte for byte;
	// order within a set is not semantically meaningful.
	for i := range out.ComponentState {
		sort.Strings(out.ComponentState[i].Fields)
	}
	return out
}

// ExtractStructuredRefs parses source and returns its partitioned dependency
// set. Total: a parse failure yields the zero References.
func ExtractStructuredRefs(source string) types.References {
	return ToStructuredRefs(ExtractReferences(source))
}

// MergeReferences unions any number of References values. See [types.Merge].
func MergeReferences(refs ...types.References) types.References {
	return types.Merge(refs...)
}
