package stylesheet

import (
	"testing"

	"github.com/kryonlabs/kryon-core/pkg/ir"
)

func TestResolve_MergesMultipleClassesInOrder(t *testing.T) {
	var s Stylesheet
	s.AddRule(".card", ir.StyleRecord{Set: ir.SetBackground, Background: ir.Color{R: 10}})
	s.AddRule(".highlighted", ir.StyleRecord{Set: ir.SetColor, Foreground: ir.Color{R: 20}})

	resolved := s.Resolve("card highlighted", ir.StyleRecord{})
	if resolved.Background.R != 10 {
		t.Fatalf("expected background from .card to apply, got %+v", resolved.Background)
	}
	if resolved.Foreground.R != 20 {
		t.Fatalf("expected foreground from .highlighted to apply, got %+v", resolved.Foreground)
	}
}

func TestAddRule_MergesRepeatedSelector(t *testing.T) {
	var s Stylesheet
	s.AddRule(".card", ir.StyleRecord{Set: ir.SetBackground, Background: ir.Color{R: 1}})
	s.AddRule(".card", ir.StyleRecord{Set: ir.SetColor, Foreground: ir.Color{R: 2}})

	rule, ok := s.Lookup(".card")
	if !ok {
		t.Fatalf("expected .card to be registered")
	}
	if rule.Background.R != 1 || rule.Foreground.R != 2 {
		t.Fatalf("expected merged rule to carry both fields, got %+v", rule)
	}
}
