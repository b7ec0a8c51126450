package types

import "encoding/json"

// JSON marshalling for AST nodes, used by tooling (e.g. the exprdsl CLI) to
// dump parse trees. Each node serializes with a "type" discriminator so the
// output is unambiguous without Go type information.

// MarshalJSON implements json.Marshaler for SigilRef.
func (n *SigilRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string   `json:"type"`
		Sigil  string   `json:"sigil"`
		ID     string   `json:"id"`
		Fields []string `json:"fields,omitempty"`
	}{"SigilRef", n.Sigil.String(), n.ID, n.Fields})
}

// MarshalJSON implements json.Marshaler for BinaryOp.
func (n *BinaryOp) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Op    string `json:"op"`
		Left  Node   `json:"left"`
		Right Node   `json:"right"`
	}{"BinaryOp", n.Op, n.Left, n.Right})
}

// MarshalJSON implements json.Marshaler for UnaryOp.
func (n *UnaryOp) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Op   string `json:"op"`
		Arg  Node   `json:"argument"`
	}{"UnaryOp", n.Op, n.Arg})
}

// MarshalJSON implements json.Marshaler for Ternary.
func (n *Ternary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Cond Node   `json:"condition"`
		Then Node   `json:"then"`
		Else Node   `json:"else"`
	}{"Ternary", n.Cond, n.Then, n.Else})
}

// MarshalJSON implements json.Marshaler for Call.
func (n *Call) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Callee Node   `json:"callee"`
		Args   []Node `json:"arguments"`
	}{"Call", n.Callee, n.Args})
}

// MarshalJSON implements json.Marshaler for MemberAccess.
func (n *MemberAccess) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		Object   Node   `json:"object"`
		Property string `json:"property"`
	}{"MemberAccess", n.Object, n.Property})
}

// MarshalJSON implements json.Marshaler for ArrowFunction.
func (n *ArrowFunction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Param string `json:"param"`
		Body  Node   `json:"body"`
	}{"ArrowFunction", n.Param, n.Body})
}

// MarshalJSON implements json.Marshaler for NumberLit.
func (n *NumberLit) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string  `json:"type"`
		Value float64 `json:"value"`
	}{"Number", n.Value})
}

// MarshalJSON implements json.Marshaler for StringLit.
func (n *StringLit) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{"String", n.Value})
}

// MarshalJSON implements json.Marshaler for BooleanLit.
func (n *BooleanLit) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value bool   `json:"value"`
	}{"Boolean", n.Value})
}

// MarshalJSON implements json.Marshaler for Identifier.
func (n *Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}{"Identifier", n.Name})
}

// MarshalJSON implements json.Marshaler for TemplateLiteral.
func (n *TemplateLiteral) MarshalJSON() ([]byte, error) {
	parts := make([]any, 0, len(n.Parts))
	for _, p := range n.Parts {
		switch part := p.(type) {
		case TemplateText:
			parts = append(parts, struct {
				Type string `json:"type"`
				Text string `json:"text"`
			}{"TemplateText", part.Text})
		case TemplateExpr:
			parts = append(parts, struct {
				Type string `json:"type"`
				Expr Node   `json:"expression"`
			}{"TemplateExpr", part.Expr})
		}
	}
	return json.Marshal(struct {
		Type  string `json:"type"`
		Parts []any  `json:"parts"`
	}{"TemplateLiteral", parts})
}

// MarshalJSON implements json.Marshaler for ObjectLiteral.
func (n *ObjectLiteral) MarshalJSON() ([]byte, error) {
	props := make([]any, 0, len(n.Keys))
	for i, k := range n.Keys {
		props = append(props, struct {
			Key   string `json:"key"`
			Value Node   `json:"value"`
		}{k, n.Values[i]})
	}
	return json.Marshal(struct {
		Type       string `json:"type"`
		Properties []any  `json:"properties"`
	}{"ObjectLiteral", props})
}
