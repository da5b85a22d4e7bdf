// Package svg is a small, self-contained SVG document writer: just enough
// of the format (circle, polyline, text, colors, stroke attributes) to
// render a transit map, with an exact byte contract (two-space indent per
// element, XML entity escaping) rather than a general-purpose library.
package svg

import (
	"strconv"
	"strings"
)

// Point is a coordinate pair in the document's user space.
type Point struct {
	X, Y float64
}

type colorKind int

const (
	// colorUnset is the zero kind: no value was ever assigned, so the
	// attribute it would back is omitted entirely.
	colorUnset colorKind = iota
	colorNamed
	colorRGB
	colorRGBA
)

// Color is a fill/stroke value: unset (the zero value; omits the
// attribute), a named CSS color, or an explicit rgb()/rgba() triple.
type Color struct {
	kind    colorKind
	name    string
	r, g, b uint8
	opacity float64
}

// NoneColor is the literal SVG "none" value, not the unset zero value: it
// is a named color whose string is "none", matching
// original_source/libs/svg/include/svg.h's `inline const Color
// NoneColor{"none"}`. Setting a shape's fill to NoneColor always emits
// `fill="none"`; it is not the same as never calling SetFillColor, which
// leaves the attribute out altogether and falls back to SVG's implicit
// black fill.
var NoneColor = Named("none")

// Named wraps a CSS color keyword or any literal color string ("red",
// "none", "#ff0000").
func Named(name string) Color {
	return Color{kind: colorNamed, name: name}
}

// RGB builds an rgb(r,g,b) color.
func RGB(r, g, b uint8) Color {
	return Color{kind: colorRGB, r: r, g: g, b: b}
}

// RGBA builds an rgba(r,g,b,opacity) color.
func RGBA(r, g, b uint8, opacity float64) Color {
	return Color{kind: colorRGBA, r: r, g: g, b: b, opacity: opacity}
}

func (c Color) isSet() bool {
	return c.kind != colorUnset
}

// IsUnset reports whether the color is the zero value — no fill/stroke
// attribute will be emitted for it. This is distinct from NoneColor, which
// is a set value that happens to render as `fill="none"`.
func (c Color) IsUnset() bool {
	return c.kind == colorUnset
}

// AsNamed returns the wrapped name and true if this is a named color.
func (c Color) AsNamed() (string, bool) {
	return c.name, c.kind == colorNamed
}

// AsRGB returns the wrapped components and true if this is an rgb color.
func (c Color) AsRGB() (r, g, b uint8, ok bool) {
	return c.r, c.g, c.b, c.kind == colorRGB
}

// AsRGBA returns the wrapped components and true if this is an rgba color.
func (c Color) AsRGBA() (r, g, b uint8, opacity float64, ok bool) {
	return c.r, c.g, c.b, c.opacity, c.kind == colorRGBA
}

func (c Color) String() string {
	switch c.kind {
	case colorNamed:
		return c.name
	case colorRGB:
		return "rgb(" + strconv.Itoa(int(c.r)) + "," + strconv.Itoa(int(c.g)) + "," + strconv.Itoa(int(c.b)) + ")"
	case colorRGBA:
		return "rgba(" + strconv.Itoa(int(c.r)) + "," + strconv.Itoa(int(c.g)) + "," + strconv.Itoa(int(c.b)) + "," + formatNumber(c.opacity) + ")"
	default:
		return ""
	}
}

// Stroke line cap values, as rendered in the stroke-linecap attribute.
const (
	LineCapButt   = "butt"
	LineCapRound  = "round"
	LineCapSquare = "square"
)

// Stroke line join values, as rendered in the stroke-linejoin attribute.
const (
	LineJoinArcs       = "arcs"
	LineJoinBevel      = "bevel"
	LineJoinMiter      = "miter"
	LineJoinMiterClip  = "miter-clip"
	LineJoinRound      = "round"
)

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Element is anything that can render itself as one indented SVG tag.
type Element interface {
	renderElement(ctx *renderContext)
}

type renderContext struct {
	out    *strings.Builder
	indent int
}

func (ctx *renderContext) writeIndent() {
	for i := 0; i < ctx.indent; i++ {
		ctx.out.WriteByte(' ')
	}
}

func writeStyleAttrs(sb *strings.Builder, fill, stroke Color, width *float64, lineCap, lineJoin string) {
	if fill.isSet() {
		sb.WriteString(` fill="`)
		sb.WriteString(fill.String())
		sb.WriteByte('"')
	}
	if stroke.isSet() {
		sb.WriteString(` stroke="`)
		sb.WriteString(stroke.String())
		sb.WriteByte('"')
	}
	if width != nil {
		sb.WriteString(` stroke-width="`)
		sb.WriteString(formatNumber(*width))
		sb.WriteByte('"')
	}
	if lineCap != "" {
		sb.WriteString(` stroke-linecap="`)
		sb.WriteString(lineCap)
		sb.WriteByte('"')
	}
	if lineJoin != "" {
		sb.WriteString(` stroke-linejoin="`)
		sb.WriteString(lineJoin)
		sb.WriteByte('"')
	}
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&apos;",
	"<", "&lt;",
	">", "&gt;",
)

// styleProps holds the fill/stroke attributes shared by Circle, Polyline,
// and Text. Each element embeds one and exposes its own fluent setters
// (Go has no CRTP, so there is no shared base to return from).
type styleProps struct {
	fill          Color
	stroke        Color
	strokeWidth   *float64
	strokeLineCap string
	strokeLineJoin string
}

// Circle is the <circle> element.
type Circle struct {
	styleProps
	center Point
	radius float64
}

// NewCircle returns a circle with the SVG default radius of 1.
func NewCircle() *Circle {
	return &Circle{radius: 1}
}

func (c *Circle) SetCenter(p Point) *Circle                 { c.center = p; return c }
func (c *Circle) SetRadius(r float64) *Circle                { c.radius = r; return c }
func (c *Circle) SetFillColor(col Color) *Circle             { c.fill = col; return c }
func (c *Circle) SetStrokeColor(col Color) *Circle           { c.stroke = col; return c }
func (c *Circle) SetStrokeWidth(w float64) *Circle            { c.strokeWidth = &w; return c }
func (c *Circle) SetStrokeLineCap(cap string) *Circle         { c.strokeLineCap = cap; return c }
func (c *Circle) SetStrokeLineJoin(join string) *Circle       { c.strokeLineJoin = join; return c }

func (c *Circle) renderElement(ctx *renderContext) {
	sb := ctx.out
	sb.WriteString(`<circle cx="`)
	sb.WriteString(formatNumber(c.center.X))
	sb.WriteString(`" cy="`)
	sb.WriteString(formatNumber(c.center.Y))
	sb.WriteString(`" r="`)
	sb.WriteString(formatNumber(c.radius))
	sb.WriteByte('"')
	writeStyleAttrs(sb, c.fill, c.stroke, c.strokeWidth, c.strokeLineCap, c.strokeLineJoin)
	sb.WriteString(`/>`)
}

// Polyline is the <polyline> element.
type Polyline struct {
	styleProps
	points []Point
}

// NewPolyline returns an empty polyline.
func NewPolyline() *Polyline {
	return &Polyline{}
}

func (p *Polyline) AddPoint(pt Point) *Polyline                { p.points = append(p.points, pt); return p }
func (p *Polyline) SetFillColor(col Color) *Polyline            { p.fill = col; return p }
func (p *Polyline) SetStrokeColor(col Color) *Polyline          { p.stroke = col; return p }
func (p *Polyline) SetStrokeWidth(w float64) *Polyline           { p.strokeWidth = &w; return p }
func (p *Polyline) SetStrokeLineCap(cap string) *Polyline        { p.strokeLineCap = cap; return p }
func (p *Polyline) SetStrokeLineJoin(join string) *Polyline      { p.strokeLineJoin = join; return p }

func (p *Polyline) renderElement(ctx *renderContext) {
	sb := ctx.out
	sb.WriteString(`<polyline points="`)
	for i, pt := range p.points {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(formatNumber(pt.X))
		sb.WriteByte(',')
		sb.WriteString(formatNumber(pt.Y))
	}
	sb.WriteByte('"')
	writeStyleAttrs(sb, p.fill, p.stroke, p.strokeWidth, p.strokeLineCap, p.strokeLineJoin)
	sb.WriteString(`/>`)
}

// Text is the <text> element.
type Text struct {
	styleProps
	position   Point
	offset     Point
	fontSize   uint32
	fontFamily string
	fontWeight string
	data       string
}

// NewText returns a text element with the SVG default font size of 1.
func NewText() *Text {
	return &Text{fontSize: 1}
}

func (t *Text) SetPosition(p Point) *Text          { t.position = p; return t }
func (t *Text) SetOffset(p Point) *Text             { t.offset = p; return t }
func (t *Text) SetFontSize(size uint32) *Text        { t.fontSize = size; return t }
func (t *Text) SetFontFamily(family string) *Text    { t.fontFamily = family; return t }
func (t *Text) SetFontWeight(weight string) *Text    { t.fontWeight = weight; return t }
func (t *Text) SetData(data string) *Text            { t.data = data; return t }
func (t *Text) SetFillColor(col Color) *Text         { t.fill = col; return t }
func (t *Text) SetStrokeColor(col Color) *Text       { t.stroke = col; return t }
func (t *Text) SetStrokeWidth(w float64) *Text        { t.strokeWidth = &w; return t }
func (t *Text) SetStrokeLineCap(cap string) *Text     { t.strokeLineCap = cap; return t }
func (t *Text) SetStrokeLineJoin(join string) *Text   { t.strokeLineJoin = join; return t }

func (t *Text) renderElement(ctx *renderContext) {
	sb := ctx.out
	sb.WriteString(`<text`)
	writeStyleAttrs(sb, t.fill, t.stroke, t.strokeWidth, t.strokeLineCap, t.strokeLineJoin)
	sb.WriteString(` x="`)
	sb.WriteString(formatNumber(t.position.X))
	sb.WriteString(`" y="`)
	sb.WriteString(formatNumber(t.position.Y))
	sb.WriteString(`" dx="`)
	sb.WriteString(formatNumber(t.offset.X))
	sb.WriteString(`" dy="`)
	sb.WriteString(formatNumber(t.offset.Y))
	sb.WriteString(`" font-size="`)
	sb.WriteString(strconv.FormatUint(uint64(t.fontSize), 10))
	sb.WriteByte('"')
	if t.fontFamily != "" {
		sb.WriteString(` font-family="`)
		sb.WriteString(t.fontFamily)
		sb.WriteByte('"')
	}
	if t.fontWeight != "" {
		sb.WriteString(` font-weight="`)
		sb.WriteString(t.fontWeight)
		sb.WriteByte('"')
	}
	sb.WriteString(`>`)
	sb.WriteString(textEscaper.Replace(t.data))
	sb.WriteString(`</text>`)
}

// Document is an ordered list of SVG elements rendered inside one <svg>
// root, one element per line, two-space indented.
type Document struct {
	elements []Element
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Add appends an element to the document in draw order.
func (d *Document) Add(e Element) {
	d.elements = append(d.elements, e)
}

// Render returns the complete SVG text: XML declaration, svg root,
// indented elements, closing tag.
func (d *Document) Render() string {
	var sb strings.Builder
	sb.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\" ?>\n")
	sb.WriteString("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\">\n")

	ctx := &renderContext{out: &sb, indent: 2}
	for _, e := range d.elements {
		ctx.writeIndent()
		e.renderElement(ctx)
		sb.WriteByte('\n')
	}

	sb.WriteString("</svg>")
	return sb.String()
}
