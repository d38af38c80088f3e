// Package viewer projects a sample into a chart description the review
// page draws: a candlestick series, the wave overlay, and a title.
package viewer

import (
	"fmt"
	"strconv"

	"github.com/rustyeddy/wavelabel/dataset"
)

const (
	WaveLineColor   = "#2962FF"
	WaveMarkerColor = "#FFD600"
)

// Chart is serialized as JSON and handed to the page's plotting code.
type Chart struct {
	Title   string   `json:"title"`
	Candles Candles  `json:"candles"`
	Wave    Wave     `json:"wave"`
	Layout  Layout   `json:"layout"`
	Issues  []string `json:"issues,omitempty"`
}

// Candles is the price series keyed by row number.
type Candles struct {
	Name   string    `json:"name"`
	X      []int     `json:"x"`
	Open   []float64 `json:"open"`
	High   []float64 `json:"high"`
	Low    []float64 `json:"low"`
	Close  []float64 `json:"close"`
	Volume []float64 `json:"volume,omitempty"`
}

// Wave is the labeled path drawn over the candles.
type Wave struct {
	Name         string    `json:"name"`
	X            []int     `json:"x"`
	Y            []float64 `json:"y"`
	Text         []string  `json:"text"`
	TextPosition string    `json:"textposition"`
	LineColor    string    `json:"line_color"`
	LineWidth    int       `json:"line_width"`
	MarkerColor  string    `json:"marker_color"`
	MarkerSize   int       `json:"marker_size"`
}

type Layout struct {
	Height      int    `json:"height"`
	RangeSlider bool   `json:"rangeslider"`
	Margin      Margin `json:"margin"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Title formats the chart heading with the 1-based progress indicator.
func Title(symbol string, position, total int) string {
	return fmt.Sprintf("%s - Valid Impulse? (%d/%d)", symbol, position, total)
}

// Render builds the chart for sample, shown at position (1-based) of total.
func Render(sample dataset.Sample, position, total int) Chart {
	n := len(sample.Data)
	c := Candles{
		Name:  "Price",
		X:     make([]int, n),
		Open:  make([]float64, n),
		High:  make([]float64, n),
		Low:   make([]float64, n),
		Close: make([]float64, n),
	}
	// volume is left out when the series was generated without it
	if n > 0 && sample.Data[0].HasVolume() {
		c.Volume = make([]float64, n)
	}
	for i, bar := range sample.Data {
		c.X[i] = i
		c.Open[i] = bar.Open
		c.High[i] = bar.High
		c.Low[i] = bar.Low
		c.Close[i] = bar.Close
		if c.Volume != nil {
			c.Volume[i] = bar.Volume
		}
	}

	// pair points positionally; a short side truncates the overlay
	m := min(len(sample.WaveIndices), len(sample.WavePrices))
	w := Wave{
		Name:         "Elliott Wave",
		X:            append([]int{}, sample.WaveIndices[:m]...),
		Y:            append([]float64{}, sample.WavePrices[:m]...),
		Text:         make([]string, m),
		TextPosition: "top center",
		LineColor:    WaveLineColor,
		LineWidth:    2,
		MarkerColor:  WaveMarkerColor,
		MarkerSize:   10,
	}
	for i := range w.Text {
		w.Text[i] = strconv.Itoa(i)
	}

	chart := Chart{
		Title:   Title(sample.Symbol, position, total),
		Candles: c,
		Wave:    w,
		Layout: Layout{
			Height: 600,
			Margin: Margin{L: 20, R: 20, T: 40, B: 20},
		},
	}

	if err := sample.Validate(); err != nil {
		chart.Issues = splitErrors(err)
	}
	return chart
}

// splitErrors flattens an errors.Join result into one string per error.
func splitErrors(err error) []string {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range j.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
