package kir

import "github.com/kryonlabs/kryon-core/pkg/ir"

func writeDimension(w *writer, d ir.Dimension) {
	w.u8(uint8(d.Kind))
	w.f64(d.Value)
}

func readDimension(r *reader) (ir.Dimension, error) {
	k, err := r.u8()
	if err != nil {
		return ir.Dimension{}, err
	}
	v, err := r.f64()
	if err != nil {
		return ir.Dimension{}, err
	}
	return ir.Dimension{Kind: ir.DimensionKind(k), Value: v}, nil
}

func writeColor(w *writer, c ir.Color) {
	w.u8(c.R)
	w.u8(c.G)
	w.u8(c.B)
	w.u8(c.A)
}

func readColor(r *reader) (ir.Color, error) {
	vals := [4]uint8{}
	for i := range vals {
		v, err := r.u8()
		if err != nil {
			return ir.Color{}, err
		}
		vals[i] = v
	}
	return ir.Color{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}, nil
}

func writeRect(w *writer, r ir.Rect) {
	writeDimension(w, r.Top)
	writeDimension(w, r.Right)
	writeDimension(w, r.Bottom)
	writeDimension(w, r.Left)
}

func readRect(rd *reader) (ir.Rect, error) {
	var out ir.Rect
	var err error
	if out.Top, err = readDimension(rd); err != nil {
		return out, err
	}
	if out.Right, err = readDimension(rd); err != nil {
		return out, err
	}
	if out.Bottom, err = readDimension(rd); err != nil {
		return out, err
	}
	if out.Left, err = readDimension(rd); err != nil {
		return out, err
	}
	return out, nil
}

func writeStyle(w *writer, s *ir.StyleRecord) {
	w.bool(s != nil)
	if s == nil {
		return
	}
	w.u64(uint64(s.Set))
	writeColor(w, s.Background)
	writeColor(w, s.Foreground)
	writeColor(w, s.BorderColor)
	writeDimension(w, s.BorderWidth)
	writeDimension(w, s.BorderRadius)
	w.str(s.FontFamily)
	writeDimension(w, s.FontSize)
	w.str(s.FontWeight)
	w.u32(uint32(s.FontFlags))
	writeRect(w, s.Padding)
	writeRect(w, s.Margin)
	w.u8(uint8(s.Position))
	writeDimension(w, s.X)
	writeDimension(w, s.Y)
	w.bool(s.Visible)
	w.f64(s.Opacity)
	w.i32(int32(s.ZOrder))
}

func readStyle(r *reader) (*ir.StyleRecord, error) {
	present, err := r.boolv()
	if err != nil || !present {
		return nil, err
	}
	s := &ir.StyleRecord{}
	setv, err := r.u64()
	if err != nil {
		return nil, err
	}
	s.Set = ir.StyleSetFlags(setv)
	if s.Background, err = readColor(r); err != nil {
		return nil, err
	}
	if s.Foreground, err = readColor(r); err != nil {
		return nil, err
	}
	if s.BorderColor, err = readColor(r); err != nil {
		return nil, err
	}
	if s.BorderWidth, err = readDimension(r); err != nil {
		return nil, err
	}
	if s.BorderRadius, err = readDimension(r); err != nil {
		return nil, err
	}
	if s.FontFamily, err = r.str(); err != nil {
		return nil, err
	}
	if s.FontSize, err = readDimension(r); err != nil {
		return nil, err
	}
	if s.FontWeight, err = r.str(); err != nil {
		return nil, err
	}
	ff, err := r.u32()
	if err != nil {
		return nil, err
	}
	s.FontFlags = ir.FontFlags(ff)
	if s.Padding, err = readRect(r); err != nil {
		return nil, err
	}
	if s.Margin, err = readRect(r); err != nil {
		return nil, err
	}
	pos, err := r.u8()
	if err != nil {
		return nil, err
	}
	s.Position = ir.PositionMode(pos)
	if s.X, err = readDimension(r); err != nil {
		return nil, err
	}
	if s.Y, err = readDimension(r); err != nil {
		return nil, err
	}
	if s.Visible, err = r.boolv(); err != nil {
		return nil, err
	}
	if s.Opacity, err = r.f64(); err != nil {
		return nil, err
	}
	zo, err := r.i32()
	if err != nil {
		return nil, err
	}
	s.ZOrder = int(zo)
	return s, nil
}

func writeLayout(w *writer, l *ir.LayoutRecord) {
	w.bool(l != nil)
	if l == nil {
		return
	}
	w.u8(uint8(l.Mode))
	w.bool(l.ExplicitDisplay)
	writeDimension(w, l.MinWidth)
	writeDimension(w, l.MaxWidth)
	writeDimension(w, l.MinHeight)
	writeDimension(w, l.MaxHeight)
	w.u8(uint8(l.FlexDirection))
	writeDimension(w, l.Gap)
	w.u8(uint8(l.JustifyContent))
	w.u8(uint8(l.AlignItems))
	w.bool(l.Wrap)
	w.i32(int32(l.GridColumns))
	w.i32(int32(l.GridRows))
	writeRect(w, l.Padding)
	writeRect(w, l.Margin)
	w.f64(l.AspectRatio)
}

func readLayout(r *reader) (*ir.LayoutRecord, error) {
	present, err := r.boolv()
	if err != nil || !present {
		return nil, err
	}
	l := &ir.LayoutRecord{}
	mode, err := r.u8()
	if err != nil {
		return nil, err
	}
	l.Mode = ir.LayoutMode(mode)
	if l.ExplicitDisplay, err = r.boolv(); err != nil {
		return nil, err
	}
	if l.MinWidth, err = readDimension(r); err != nil {
		return nil, err
	}
	if l.MaxWidth, err = readDimension(r); err != nil {
		return nil, err
	}
	if l.MinHeight, err = readDimension(r); err != nil {
		return nil, err
	}
	if l.MaxHeight, err = readDimension(r); err != nil {
		return nil, err
	}
	fd, err := r.u8()
	if err != nil {
		return nil, err
	}
	l.FlexDirection = ir.FlexDirection(fd)
	if l.Gap, err = readDimension(r); err != nil {
		return nil, err
	}
	jc, err := r.u8()
	if err != nil {
		return nil, err
	}
	l.JustifyContent = ir.Alignment(jc)
	ai, err := r.u8()
	if err != nil {
		return nil, err
	}
	l.AlignItems = ir.Alignment(ai)
	if l.Wrap, err = r.boolv(); err != nil {
		return nil, err
	}
	gc, err := r.i32()
	if err != nil {
		return nil, err
	}
	l.GridColumns = int(gc)
	gr, err := r.i32()
	if err != nil {
		return nil, err
	}
	l.GridRows = int(gr)
	if l.Padding, err = readRect(r); err != nil {
		return nil, err
	}
	if l.Margin, err = readRect(r); err != nil {
		return nil, err
	}
	if l.AspectRatio, err = r.f64(); err != nil {
		return nil, err
	}
	return l, nil
}
