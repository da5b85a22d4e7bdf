package svg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyDocument(t *testing.T) {
	doc := NewDocument()
	want := "<?xml version=\"1.0\" encoding=\"UTF-8\" ?>\n" +
		"<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\">\n" +
		"</svg>"
	assert.Equal(t, want, doc.Render())
}

func TestCircleRendersAttributesInOrder(t *testing.T) {
	doc := NewDocument()
	doc.Add(NewCircle().SetCenter(Point{X: 1.5, Y: 2}).SetRadius(3).SetFillColor(Named("white")))

	want := "<?xml version=\"1.0\" encoding=\"UTF-8\" ?>\n" +
		"<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\">\n" +
		"  <circle cx=\"1.5\" cy=\"2\" r=\"3\" fill=\"white\"/>\n" +
		"</svg>"
	assert.Equal(t, want, doc.Render())
}

func TestPolylinePoints(t *testing.T) {
	p := NewPolyline().
		AddPoint(Point{X: 0, Y: 0}).
		AddPoint(Point{X: 10, Y: 20}).
		SetStrokeColor(RGB(255, 0, 0)).
		SetStrokeWidth(1)

	doc := NewDocument()
	doc.Add(p)

	got := doc.Render()
	assert.Contains(t, got, `points="0,0 10,20"`)
	assert.Contains(t, got, `stroke="rgb(255,0,0)"`)
	assert.Contains(t, got, `stroke-width="1"`)
}

func TestTextEscapesEntities(t *testing.T) {
	text := NewText().SetPosition(Point{X: 0, Y: 0}).SetData(`A & B <tag> "quoted" 'single'`)
	doc := NewDocument()
	doc.Add(text)

	got := doc.Render()
	assert.Contains(t, got, "A &amp; B &lt;tag&gt; &quot;quoted&quot; &apos;single&apos;")
}

func TestRGBAColorString(t *testing.T) {
	c := RGBA(12, 34, 56, 0.5)
	assert.Equal(t, "rgba(12,34,56,0.5)", c.String())
}

func TestUnsetColorEmitsNoAttribute(t *testing.T) {
	doc := NewDocument()
	doc.Add(NewCircle().SetCenter(Point{}).SetRadius(1))

	got := doc.Render()
	assert.NotContains(t, got, "fill=")
	assert.NotContains(t, got, "stroke=")
}

func TestNoneColorEmitsExplicitFillNone(t *testing.T) {
	doc := NewDocument()
	doc.Add(NewPolyline().AddPoint(Point{X: 0, Y: 0}).SetFillColor(NoneColor))

	got := doc.Render()
	assert.Contains(t, got, `fill="none"`)
}

func TestIsUnsetDistinguishesFromNoneColor(t *testing.T) {
	assert.True(t, Color{}.IsUnset())
	assert.False(t, NoneColor.IsUnset())
}
