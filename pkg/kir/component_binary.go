package kir

import "github.com/kryonlabs/kryon-core/pkg/ir"

// writeComponent recursively encodes one IR component: identity, text,
// style, layout, events, custom data, reference, scope, visibility,
// for-each definition, property bindings and children, in that fixed
// order. Events carry the (kind, handler-name) pair only; the legacy
// four-field inline-event tuple is never populated, so it is not
// encoded.
func writeComponent(w *writer, c *ir.Component) {
	w.bool(c != nil)
	if c == nil {
		return
	}
	w.i32(int32(c.ID))
	w.u32(uint32(c.Kind))
	w.str(c.Tag)
	w.str(c.Class)
	w.str(c.Text)
	w.str(c.TextExpr)
	writeStyle(w, c.Style)
	writeLayout(w, c.Layout)

	w.u32(uint32(len(c.Events)))
	for _, e := range c.Events {
		w.str(e.Kind)
		w.str(e.Handler)
	}

	w.u32(uint32(len(c.CustomData)))
	for k, v := range c.CustomData {
		w.str(k)
		w.str(v)
	}

	w.bool(c.Ref != nil)
	if c.Ref != nil {
		w.str(c.Ref.Name)
		w.str(c.Ref.PropsJSON)
	}

	w.str(c.Scope)

	w.bool(c.Visible != nil)
	if c.Visible != nil {
		w.str(c.Visible.Expr)
		w.bool(c.Visible.VisibleWhen)
	}

	writeForEach(w, c.ForEach)

	w.u32(uint32(len(c.Bindings)))
	for _, b := range c.Bindings {
		w.str(b.Property)
		w.str(b.SourceExpr)
		w.str(b.Fallback)
		w.str(b.Kind)
	}

	w.u32(uint32(len(c.Children)))
	for _, child := range c.Children {
		writeComponent(w, child)
	}
}

func readComponent(r *reader) (*ir.Component, error) {
	present, err := r.boolv()
	if err != nil || !present {
		return nil, err
	}
	c := &ir.Component{}
	id, err := r.i32()
	if err != nil {
		return nil, err
	}
	c.ID = int(id)
	kind, err := r.u32()
	if err != nil {
		return nil, err
	}
	c.Kind = ir.Kind(kind)
	if c.Tag, err = r.str(); err != nil {
		return nil, err
	}
	if c.Class, err = r.str(); err != nil {
		return nil, err
	}
	if c.Text, err = r.str(); err != nil {
		return nil, err
	}
	if c.TextExpr, err = r.str(); err != nil {
		return nil, err
	}
	if c.Style, err = readStyle(r); err != nil {
		return nil, err
	}
	if c.Layout, err = readLayout(r); err != nil {
		return nil, err
	}

	evCount, err := r.u32()
	if err != nil {
		return nil, err
	}
	c.Events = make([]ir.Event, 0, evCount)
	for i := uint32(0); i < evCount; i++ {
		kind, err := r.str()
		if err != nil {
			return nil, err
		}
		handler, err := r.str()
		if err != nil {
			return nil, err
		}
		c.Events = append(c.Events, ir.Event{Kind: kind, Handler: handler})
	}

	cdCount, err := r.u32()
	if err != nil {
		return nil, err
	}
	if cdCount > 0 {
		c.CustomData = make(map[string]string, cdCount)
		for i := uint32(0); i < cdCount; i++ {
			k, err := r.str()
			if err != nil {
				return nil, err
			}
			v, err := r.str()
			if err != nil {
				return nil, err
			}
			c.CustomData[k] = v
		}
	}

	hasRef, err := r.boolv()
	if err != nil {
		return nil, err
	}
	if hasRef {
		ref := &ir.ComponentRef{}
		if ref.Name, err = r.str(); err != nil {
			return nil, err
		}
		if ref.PropsJSON, err = r.str(); err != nil {
			return nil, err
		}
		c.Ref = ref
	}

	if c.Scope, err = r.str(); err != nil {
		return nil, err
	}

	hasVisible, err := r.boolv()
	if err != nil {
		return nil, err
	}
	if hasVisible {
		v := &ir.VisibleCondition{}
		if v.Expr, err = r.str(); err != nil {
			return nil, err
		}
		if v.VisibleWhen, err = r.boolv(); err != nil {
			return nil, err
		}
		c.Visible = v
	}

	if c.ForEach, err = readForEach(r); err != nil {
		return nil, err
	}

	bindCount, err := r.u32()
	if err != nil {
		return nil, err
	}
	c.Bindings = make([]ir.PropertyBinding, 0, bindCount)
	for i := uint32(0); i < bindCount; i++ {
		var b ir.PropertyBinding
		if b.Property, err = r.str(); err != nil {
			return nil, err
		}
		if b.SourceExpr, err = r.str(); err != nil {
			return nil, err
		}
		if b.Fallback, err = r.str(); err != nil {
			return nil, err
		}
		if b.Kind, err = r.str(); err != nil {
			return nil, err
		}
		c.Bindings = append(c.Bindings, b)
	}

	childCount, err := r.u32()
	if err != nil {
		return nil, err
	}
	c.Children = make([]*ir.Component, 0, childCount)
	for i := uint32(0); i < childCount; i++ {
		child, err := readComponent(r)
		if err != nil {
			return nil, err
		}
		c.Children = append(c.Children, child)
	}

	return c, nil
}

func writeForEach(w *writer, f *ir.ForEachDef) {
	w.bool(f != nil)
	if f == nil {
		return
	}
	w.str(f.ItemName)
	w.str(f.IndexName)
	w.bool(f.Implicit)
	w.str(f.DataSource)
	writeComponent(w, f.Template)
	w.u32(uint32(len(f.Bindings)))
	for _, b := range f.Bindings {
		w.str(b.Property)
		w.str(b.Expr)
		w.bool(b.Reactive)
	}
}

func readForEach(r *reader) (*ir.ForEachDef, error) {
	present, err := r.boolv()
	if err != nil || !present {
		return nil, err
	}
	f := &ir.ForEachDef{}
	if f.ItemName, err = r.str(); err != nil {
		return nil, err
	}
	if f.IndexName, err = r.str(); err != nil {
		return nil, err
	}
	if f.Implicit, err = r.boolv(); err != nil {
		return nil, err
	}
	if f.DataSource, err = r.str(); err != nil {
		return nil, err
	}
	if f.Template, err = readComponent(r); err != nil {
		return nil, err
	}
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	f.Bindings = make([]ir.ForEachBinding, 0, n)
	for i := uint32(0); i < n; i++ {
		var b ir.ForEachBinding
		if b.Property, err = r.str(); err != nil {
			return nil, err
		}
		if b.Expr, err = r.str(); err != nil {
			return nil, err
		}
		if b.Reactive, err = r.boolv(); err != nil {
			return nil, err
		}
		f.Bindings = append(f.Bindings, b)
	}
	return f, nil
}
