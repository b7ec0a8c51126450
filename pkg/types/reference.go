package types

import (
	"sort"
	"strings"
)

// Reference identifies one piece of external state an expression reads.
type Reference struct {
	Sigil  Sigil
	ID     string
	Fields []string
}

// Key returns the deduplication key for the reference. Two references are
// equal iff sigil, id and the joined field path are equal.
func (r Reference) Key() string {
	var b strings.Builder
	b.WriteString(r.Sigil.String())
	b.WriteString(r.ID)
	for _, f := range r.Fields {
		b.WriteByte('.')
		b.WriteString(f)
	}
	return b.String()
}

// ComponentStateRef is one @-namespace dependency: a component key and the
// set of fields accessed on it. Fields is sorted and duplicate-free; empty
// means the whole value is read.
type ComponentStateRef struct {
	Key    string
	Fields []string
}

// ContentRef is one #-namespace dependency.
type ContentRef struct {
	ID string
}

// GlobalRef is one $-namespace dependency.
type GlobalRef struct {
	Name string
}

// References is the partitioned dependency set of one or more expressions:
// one bucket per sigil namespace. Within ComponentState, multiple field paths
// accessed on the same key are unioned into a single entry.
type References struct {
	ComponentState []ComponentStateRef
	OLXContent     []ContentRef
	GlobalVars     []GlobalRef
}

// IsEmpty reports whether no dependencies are recorded.
func (r References) IsEmpty() bool {
	return len(r.ComponentState) == 0 && len(r.OLXContent) == 0 && len(r.GlobalVars) == 0
}

// Merge unions any number of References values into one. Component-state
// field sets are unioned per key; content ids and global names are unioned as
// sets. Merging with the zero References is an identity operation, and the
// operation is associative and commutative on the resulting sets.
func Merge(refs ...References) References {
	stateFields := map[string]map[string]struct{}{}
	var stateOrder []string
	content := map[string]struct{}{}
	var contentOrder []string
	globals := map[string]struct{}{}
	var globalOrder []string

	for _, r := range refs {
		for _, cs := range r.ComponentState {
			set, ok := stateFields[cs.Key]
			if !ok {
				set = map[string]struct{}{}
				stateFields[cs.Key] = set
				stateOrder = append(stateOrder, cs.Key)
			}
			for _, f := range cs.Fields {
				set[f] = struct{}{}
			}
		}
		for _, c := range r.OLXContent {
			if _, ok := content[c.ID]; !ok {
				content[c.ID] = struct{}{}
				contentOrder = append(contentOrder, c.ID)
			}
		}
		for _, g := range r.GlobalVars {
			if _, ok := globals[g.Name]; !ok {
				globals[g.Name] = struct{}{}
				globalOrder = append(globalOrder, g.Name)
			}
		}
	}

	var out References
	for _, key := range stateOrder {
		var fields []string
		if len(stateFields[key]) > 0 {
			fields = make([]string, 0, len(stateFields[key]))
			for f := range stateFields[key] {
				fields = append(fields, f)
			}
			sort.Strings(fields)
		}
		out.ComponentState = append(out.ComponentState, ComponentStateRef{Key: key, Fields: fields})
	}
	for _, id := range contentOrder {
		out.OLXContent = append(out.OLXContent, ContentRef{ID: id})
	}
	for _, name := range globalOrder {
		out.GlobalVars = append(out.GlobalVars, GlobalRef{Name: name})
	}
	return out
}
