// Package stylesheet implements the selector -> style-properties rule
// table that pkg/lower merges into per-component styles at resolve
// time.
package stylesheet

import "github.com/kryonlabs/kryon-core/pkg/ir"

// Rule is one `style <selector> { ... }` block lowered to a typed record.
type Rule struct {
	Selector string
	Style    ir.StyleRecord
}

// Stylesheet maps selector -> style-properties, matched by exact CSS-class
// equality in this core.
type Stylesheet struct {
	rules map[string]ir.StyleRecord
	order []string
}

// AddRule registers the rule for selector; a repeated selector is merged
// onto its prior declaration rather than replacing it (later declarations win per
// field, matching StyleRecord.Merge's "explicitly-set fields overlay"
// semantics).
func (s *Stylesheet) AddRule(selector string, style ir.StyleRecord) {
	if s.rules == nil {
		s.rules = make(map[string]ir.StyleRecord)
	}
	if existing, ok := s.rules[selector]; ok {
		s.rules[selector] = existing.Merge(style)
		return
	}
	s.rules[selector] = style
	s.order = append(s.order, selector)
}

// Lookup returns the style record registered for selector.
func (s *Stylesheet) Lookup(selector string) (ir.StyleRecord, bool) {
	r, ok := s.rules[selector]
	return r, ok
}

// Rules returns every rule in declaration order.
func (s *Stylesheet) Rules() []Rule {
	out := make([]Rule, 0, len(s.order))
	for _, sel := range s.order {
		out = append(out, Rule{Selector: sel, Style: s.rules[sel]})
	}
	return out
}

// Resolve merges every class on a component (exact string equality per
// class, e.g. ".card" or ".card.highlighted" split on whitespace) into
// base, in class-list order, so later classes' explicitly-set fields win.
func (s *Stylesheet) Resolve(classList string, base ir.StyleRecord) ir.StyleRecord {
	out := base
	start := 0
	for i := 0; i <= len(classList); i++ {
		if i == len(classList) || classList[i] == ' ' {
			if i > start {
				cls := "." + classList[start:i]
				if rule, ok := s.rules[cls]; ok {
					out = out.Merge(rule)
				}
			}
			start = i + 1
		}
	}
	return out
}
