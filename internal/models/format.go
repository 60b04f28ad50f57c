package models

import "strings"

// FormatParams renders a parameter list without the surrounding parentheses.
// Markers are rendered by markerFormat and trailing comments are kept; a nil
// markerFormat drops both.
func FormatParams(params []Parameter, markerFormat func(Attribute) string) string {
	var b strings.Builder
	closed := false // the previous parameter already wrote its comma
	for i, p := range params {
		if i > 0 && !closed {
			b.WriteString(", ")
		}
		closed = false

		if markerFormat != nil {
			for _, m := range p.Markers {
				b.WriteString(markerFormat(m))
				b.WriteByte(' ')
			}
		}
		if p.Name != "" {
			b.WriteString(p.Name)
			b.WriteByte(' ')
		}
		b.WriteString(p.Type)

		if markerFormat == nil {
			continue
		}
		for _, c := range p.Trailing {
			// a line comment ends the line, so the comma has to come first
			if strings.HasPrefix(c, "//") {
				if !closed {
					b.WriteByte(',')
					closed = true
				}
				b.WriteString(" " + c + "\n")
				continue
			}
			b.WriteString(" " + c)
		}
	}
	return b.String()
}

// FormatResults renders a result list the way it appears after a signature:
// empty, a bare type, or a parenthesised list. markerFormat is passed on to
// FormatParams.
func FormatResults(results []Parameter, markerFormat func(Attribute) string) string {
	switch {
	case len(results) == 0:
		return ""
	case len(results) == 1 && results[0].Name == "" && (markerFormat == nil || !hasComments(results[0])):
		return results[0].Type
	default:
		return "(" + FormatParams(results, markerFormat) + ")"
	}
}

func hasComments(p Parameter) bool {
	return len(p.Markers) > 0 || len(p.Trailing) > 0
}
