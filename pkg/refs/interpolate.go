package refs

import (
	"regexp"

	"github.com/coursekit/exprdsl/pkg/types"
)

// interpolationPattern matches {{ expression }} spans in free prose. The
// inner text may not contain a closing brace, so spans never overlap and the
// first match wins at each position.
var interpolationPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Interpolation is one {{ expression }} span found in prose: the inner
// expression text (whitespace-trimmed by the parser, not here) and the byte
// offsets of the full span including the braces.
type Interpolation struct {
	Expression string
	Start      int
	End        int
}

// ExtractInterpolations scans arbitrary prose for {{ expression }} spans and
// returns them in left-to-right order.
func ExtractInterpolations(text string) []Interpolation {
	matches := interpolationPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]Interpolation, 0, len(matches))
	for _, m := range matches {
		out = append(out, Interpolation{
			Expression: text[m[2]:m[3]],
			Start:      m[0],
			End:        m[1],
		})
	}
	return out
}

// ExtractInterpolationRefs runs structured reference extraction on every
// interpolation span in the text and merges the results. Spans that fail to
// parse contribute nothing.
func ExtractInterpolationRefs(text string) types.References {
	spans := ExtractInterpolations(text)
	if len(spans) == 0 {
		return types.References{}
	}
	merged := make([]types.References, 0, len(spans))
	for _, span := range spans {
		merged = append(merged, ExtractStructuredRefs(span.Expression))
	}
	return types.Merge(merged...)
}
