package types

// Context is the resolved-value bundle an evaluation run requires: one map
// per sigil namespace, from id to an already-resolved value of any shape.
//
// The caller (typically a reactive store) builds a Context from the
// References the extractor reported; the evaluator never fetches values
// itself and never mutates the Context. A nil Context behaves as three empty
// namespaces, so every lookup resolves to the absence value (nil).
type Context struct {
	ComponentState map[string]any
	OLXContent     map[string]any
	GlobalVars     map[string]any
}

// Lookup resolves an id in the namespace selected by the sigil. A missing id
// (or a nil Context) yields nil: missing state must evaluate to an absent
// value so that conditions fail closed.
func (c *Context) Lookup(s Sigil, id string) any {
	if c == nil {
		return nil
	}
	switch s {
	case SigilComponentState:
		return c.ComponentState[id]
	case SigilOLXContent:
		return c.OLXContent[id]
	case SigilGlobalVar:
		return c.GlobalVars[id]
	default:
		return nil
	}
}
