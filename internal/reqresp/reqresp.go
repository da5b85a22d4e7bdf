// Package reqresp defines the JSON request/response envelope: the single
// top-level document read from stdin, and the response array written to
// stdout. Parsing stops here — internal/dispatch turns parsed requests
// into catalogue/router/map-renderer calls.
package reqresp

import (
	"encoding/json"
	"fmt"

	"github.com/transitcat/catalogue/internal/mapview"
	"github.com/transitcat/catalogue/internal/router"
	"github.com/transitcat/catalogue/internal/svg"
)

// Document is the single top-level object accepted on stdin. Every member
// is optional; make_base typically supplies base_requests, render_settings,
// routing_settings, and serialization_settings, while process_requests
// supplies stat_requests and serialization_settings.
type Document struct {
	BaseRequests          []BaseRequest          `json:"base_requests,omitempty"`
	StatRequests          []StatRequest          `json:"stat_requests,omitempty"`
	RenderSettings        *RenderSettings        `json:"render_settings,omitempty"`
	RoutingSettings       *RoutingSettings       `json:"routing_settings,omitempty"`
	SerializationSettings *SerializationSettings `json:"serialization_settings,omitempty"`
}

// BaseRequest is one ingest request: a Stop (name, coordinates, distances
// to other stops) or a Bus (name, direction policy, ordered stop names).
type BaseRequest struct {
	Type          string             `json:"type"`
	Name          string             `json:"name"`
	Latitude      float64            `json:"latitude,omitempty"`
	Longitude     float64            `json:"longitude,omitempty"`
	RoadDistances map[string]float64 `json:"road_distances,omitempty"`
	IsRoundtrip   bool               `json:"is_roundtrip,omitempty"`
	Stops         []string           `json:"stops,omitempty"`
}

// StatRequest is one query: Stop/Bus/Map use Name; Route uses From/To.
type StatRequest struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// SerializationSettings names the artifact file both CLI modes read or
// write.
type SerializationSettings struct {
	File string `json:"file"`
}

// DefaultRouterSettings is applied whenever routing_settings is absent, or
// present but missing either field — the catalogue still has to answer
// Route requests with some notion of wait time and speed.
var DefaultRouterSettings = router.Settings{WaitTimeMinutes: 1, VelocityKmh: 1}

// RoutingSettings mirrors router.Settings in JSON's native types. Both
// fields are pointers so ToRouterSettings can tell "absent" from "zero".
type RoutingSettings struct {
	BusWaitTime *int     `json:"bus_wait_time,omitempty"`
	BusVelocity *float64 `json:"bus_velocity,omitempty"`
}

// ToRouterSettings converts the wire representation to router.Settings.
// The override only takes effect when both fields are present; a document
// that sets one but not the other falls back to DefaultRouterSettings
// entirely, rather than mixing one overridden field with one default.
func (r RoutingSettings) ToRouterSettings() router.Settings {
	if r.BusWaitTime == nil || r.BusVelocity == nil {
		return DefaultRouterSettings
	}
	return router.Settings{
		WaitTimeMinutes: float64(*r.BusWaitTime),
		VelocityKmh:     *r.BusVelocity,
	}
}

// RenderSettings mirrors mapview.Settings; colors arrive as raw JSON since
// they may be a string, a 3-element rgb array, or a 4-element rgba array.
type RenderSettings struct {
	Width             float64           `json:"width"`
	Height            float64           `json:"height"`
	Padding           float64           `json:"padding"`
	LineWidth         float64           `json:"line_width"`
	StopRadius        float64           `json:"stop_radius"`
	BusLabelFontSize  uint32            `json:"bus_label_font_size"`
	BusLabelOffset    [2]float64        `json:"bus_label_offset"`
	StopLabelFontSize uint32            `json:"stop_label_font_size"`
	StopLabelOffset   [2]float64        `json:"stop_label_offset"`
	UnderlayerColor   json.RawMessage   `json:"underlayer_color"`
	UnderlayerWidth   float64           `json:"underlayer_width"`
	ColorPalette      []json.RawMessage `json:"color_palette"`
}

// ToMapSettings converts the wire representation to mapview.Settings,
// parsing every color field.
func (r RenderSettings) ToMapSettings() (mapview.Settings, error) {
	underlayer, err := ParseColor(r.UnderlayerColor)
	if err != nil {
		return mapview.Settings{}, fmt.Errorf("underlayer_color: %w", err)
	}

	palette := make([]svg.Color, len(r.ColorPalette))
	for i, raw := range r.ColorPalette {
		c, err := ParseColor(raw)
		if err != nil {
			return mapview.Settings{}, fmt.Errorf("color_palette[%d]: %w", i, err)
		}
		palette[i] = c
	}

	return mapview.Settings{
		Width:             r.Width,
		Height:            r.Height,
		Padding:           r.Padding,
		StopRadius:        r.StopRadius,
		LineWidth:         r.LineWidth,
		BusLabelFontSize:  r.BusLabelFontSize,
		BusLabelOffset:    svg.Point{X: r.BusLabelOffset[0], Y: r.BusLabelOffset[1]},
		StopLabelFontSize: r.StopLabelFontSize,
		StopLabelOffset:   svg.Point{X: r.StopLabelOffset[0], Y: r.StopLabelOffset[1]},
		UnderlayerColor:   underlayer,
		UnderlayerWidth:   r.UnderlayerWidth,
		ColorPalette:      palette,
	}, nil
}

// ParseColor decodes one color value: a string (named color), a 3-element
// array (rgb), or a 4-element array (rgba). An absent field decodes to the
// unset zero Color, not svg.NoneColor — the latter is the explicit SVG
// "none" literal, a set value in its own right.
func ParseColor(raw json.RawMessage) (svg.Color, error) {
	if len(raw) == 0 {
		return svg.Color{}, nil
	}

	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return svg.Named(name), nil
	}

	var parts []float64
	if err := json.Unmarshal(raw, &parts); err != nil {
		return svg.Color{}, fmt.Errorf("color must be a string or a numeric array: %w", err)
	}

	switch len(parts) {
	case 3:
		return svg.RGB(uint8(parts[0]), uint8(parts[1]), uint8(parts[2])), nil
	case 4:
		return svg.RGBA(uint8(parts[0]), uint8(parts[1]), uint8(parts[2]), parts[3]), nil
	default:
		return svg.Color{}, fmt.Errorf("color array must have 3 or 4 elements, got %d", len(parts))
	}
}

// The response types below are the closed set of shapes a stat request can
// produce. Each
// request type marshals to one concrete shape with exactly its own
// fields — never a single flattened struct with unused fields omitted —
// matching the variant the dispatcher folds at this boundary.

// StopResponse answers a Stop request: the buses passing through it, in
// name order. Buses is never omitted, even when empty — "the stop exists
// but no bus visits it" is distinct from "not found".
type StopResponse struct {
	RequestID int      `json:"request_id"`
	Buses     []string `json:"buses"`
}

// BusResponse answers a Bus request with the derived statistics.
type BusResponse struct {
	RequestID       int     `json:"request_id"`
	Curvature       float64 `json:"curvature"`
	UniqueStopCount int     `json:"unique_stop_count"`
	StopCount       int     `json:"stop_count"`
	RouteLength     float64 `json:"route_length"`
}

// MapResponse answers a Map request with the rendered SVG document text.
type MapResponse struct {
	RequestID int    `json:"request_id"`
	Map       string `json:"map"`
}

// RouteResponse answers a Route request with the total time and the
// ordered itinerary.
type RouteResponse struct {
	RequestID int    `json:"request_id"`
	TotalTime float64 `json:"total_time"`
	Items     []any  `json:"items"`
}

// ErrorResponse answers any request type whose target was not found.
type ErrorResponse struct {
	RequestID    int    `json:"request_id"`
	ErrorMessage string `json:"error_message"`
}

// WaitItem is a Route itinerary entry for boarding at a stop.
type WaitItem struct {
	Type     string  `json:"type"`
	Time     float64 `json:"time"`
	StopName string  `json:"stop_name"`
}

// BusItem is a Route itinerary entry for riding a bus across some span.
type BusItem struct {
	Type      string  `json:"type"`
	Time      float64 `json:"time"`
	Bus       string  `json:"bus"`
	SpanCount int     `json:"span_count"`
}
