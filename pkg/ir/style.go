package ir

// Color is {r,g,b,a} with alpha explicit.
type Color struct {
	R, G, B, A uint8
}

// DimensionKind tags a Dimension's unit.
type DimensionKind int

const (
	DimPixels DimensionKind = iota
	DimPercent
	DimEm
	DimRem
	DimViewportW
	DimViewportH
	DimAuto
)

// Dimension is the measurement variant: pixels(n), percent(n), em(n),
// rem(n), viewport-w(n), viewport-h(n), or auto.
type Dimension struct {
	Kind  DimensionKind
	Value float64
}

func Pixels(n float64) Dimension     { return Dimension{Kind: DimPixels, Value: n} }
func Percent(n float64) Dimension    { return Dimension{Kind: DimPercent, Value: n} }
func Auto() Dimension                { return Dimension{Kind: DimAuto} }

// FontFlags is a bitmask of font style flags (bold/italic/underline).
type FontFlags int

const (
	FontBold FontFlags = 1 << iota
	FontItalic
	FontUnderline
)

// StyleSetFlags identifies which fields of a StyleRecord a given rule or
// property block actually touches, so later merges only overwrite fields
// that were explicitly set.
type StyleSetFlags uint64

const (
	SetBackground StyleSetFlags = 1 << iota
	SetColor
	SetBorderColor
	SetBorderWidth
	SetBorderRadius
	SetFontFamily
	SetFontSize
	SetFontWeight
	SetPadding
	SetMargin
	SetPosition
	SetVisible
	SetOpacity
	SetZOrder
)

// Rect is a four-sided box measurement (padding/margin).
type Rect struct {
	Top, Right, Bottom, Left Dimension
}

// PositionMode is flow or absolute positioning.
type PositionMode int

const (
	PositionFlow PositionMode = iota
	PositionAbsolute
)

// StyleRecord is the typed style-properties record shared by components
// and stylesheet rules.
type StyleRecord struct {
	Set StyleSetFlags

	Background Color
	Foreground Color
	BorderColor Color
	BorderWidth Dimension
	BorderRadius Dimension

	FontFamily string
	FontSize   Dimension
	FontWeight string
	FontFlags  FontFlags

	Padding Rect
	Margin  Rect

	Position PositionMode
	X, Y     Dimension

	Visible bool
	Opacity float64
	ZOrder  int
}

// Merge overlays other's explicitly-set fields onto r: child overrides
// parent for inherited component templates, and stylesheet rules merge
// into per-component styles at resolve time. Returns a new record; r is
// not mutated.
func (r StyleRecord) Merge(other StyleRecord) StyleRecord {
	out := r
	if other.Set&SetBackground != 0 {
		out.Background = other.Background
	}
	if other.Set&SetColor != 0 {
		out.Foreground = other.Foreground
	}
	if other.Set&SetBorderColor != 0 {
		out.BorderColor = other.BorderColor
	}
	if other.Set&SetBorderWidth != 0 {
		out.BorderWidth = other.BorderWidth
	}
	if other.Set&SetBorderRadius != 0 {
		out.BorderRadius = other.BorderRadius
	}
	if other.Set&SetFontFamily != 0 {
		out.FontFamily = other.FontFamily
	}
	if other.Set&SetFontSize != 0 {
		out.FontSize = other.FontSize
	}
	if other.Set&SetFontWeight != 0 {
		out.FontWeight = other.FontWeight
		out.FontFlags = other.FontFlags
	}
	if other.Set&SetPadding != 0 {
		out.Padding = other.Padding
	}
	if other.Set&SetMargin != 0 {
		out.Margin = other.Margin
	}
	if other.Set&SetPosition != 0 {
		out.Position = other.Position
		out.X, out.Y = other.X, other.Y
	}
	if other.Set&SetVisible != 0 {
		out.Visible = other.Visible
	}
	if other.Set&SetOpacity != 0 {
		out.Opacity = other.Opacity
	}
	if other.Set&SetZOrder != 0 {
		out.ZOrder = other.ZOrder
	}
	out.Set |= other.Set
	return out
}

// LayoutMode distinguishes flex/grid/block layout.
type LayoutMode int

const (
	LayoutFlex LayoutMode = iota
	LayoutGrid
	LayoutBlock
)

// FlexDirection is the main-axis direction for LayoutFlex.
type FlexDirection int

const (
	FlexRow FlexDirection = iota
	FlexColumn
)

// Alignment enumerates the contentAlignment/justifyContent values.
type Alignment int

const (
	AlignStart Alignment = iota
	AlignEnd
	AlignCenter
	AlignSpaceBetween
	AlignSpaceAround
	AlignSpaceEvenly
	AlignStretch
)

// LayoutRecord is a component's typed layout record.
type LayoutRecord struct {
	Mode           LayoutMode
	ExplicitDisplay bool
	MinWidth, MaxWidth   Dimension
	MinHeight, MaxHeight Dimension

	FlexDirection FlexDirection
	Gap           Dimension
	JustifyContent Alignment
	AlignItems     Alignment
	Wrap           bool

	GridColumns int
	GridRows    int

	Padding Rect
	Margin  Rect

	AspectRatio float64
}
