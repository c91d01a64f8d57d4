package kir

import "github.com/kryonlabs/kryon-core/pkg/stylesheet"

func writeStylesheet(w *writer, s *stylesheet.Stylesheet) {
	if s == nil {
		w.u32(0)
		return
	}
	rules := s.Rules()
	w.u32(uint32(len(rules)))
	for _, rule := range rules {
		w.str(rule.Selector)
		style := rule.Style
		writeStyle(w, &style)
	}
}

func readStylesheet(r *reader) (*stylesheet.Stylesheet, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	s := &stylesheet.Stylesheet{}
	for i := uint32(0); i < n; i++ {
		selector, err := r.str()
		if err != nil {
			return nil, err
		}
		style, err := readStyle(r)
		if err != nil {
			return nil, err
		}
		if style == nil {
			continue
		}
		s.AddRule(selector, *style)
	}
	return s, nil
}
