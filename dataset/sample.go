// Package dataset holds the wave samples under review and the file they
// are stored in.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/rustyeddy/wavelabel/market"
)

// WavePoints is the number of labeled points in an impulse (0 through 5).
const WavePoints = 6

// Sample is one candidate impulse: a price series and the wave labeled on it.
type Sample struct {
	Symbol      string          `json:"symbol"`
	Data        []market.Candle `json:"data"`
	WaveIndices []int           `json:"wave_indices"`
	WavePrices  []float64       `json:"wave_prices"`

	// Extra holds any other keys the generator wrote, written back as read.
	Extra map[string]json.RawMessage `json:"-"`
}

// sampleFields is Sample without its methods or Extra.
type sampleFields struct {
	Symbol      string          `json:"symbol"`
	Data        []market.Candle `json:"data"`
	WaveIndices []int           `json:"wave_indices"`
	WavePrices  []float64       `json:"wave_prices"`
}

var sampleKeys = []string{"symbol", "data", "wave_indices", "wave_prices"}

func (s *Sample) UnmarshalJSON(b []byte) error {
	var f sampleFields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for _, k := range sampleKeys {
		delete(all, k)
	}

	*s = Sample{
		Symbol:      f.Symbol,
		Data:        f.Data,
		WaveIndices: f.WaveIndices,
		WavePrices:  f.WavePrices,
	}
	if len(all) > 0 {
		s.Extra = all
	}
	return nil
}

// MarshalJSON writes the known keys first, then Extra in key order.
func (s Sample) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(sampleFields{
		Symbol:      s.Symbol,
		Data:        s.Data,
		WaveIndices: s.WaveIndices,
		WavePrices:  s.WavePrices,
	})
	if err != nil || len(s.Extra) == 0 {
		return b, err
	}

	var buf bytes.Buffer
	buf.Write(b[:len(b)-1])
	keys := make([]string, 0, len(s.Extra))
	for k := range s.Extra {
		if !slices.Contains(sampleKeys, k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		if v := s.Extra[k]; len(v) > 0 {
			buf.Write(v)
		} else {
			buf.WriteString("null")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Dataset is the ordered list of samples. Order is review order.
type Dataset []Sample

// Validate checks the wave labels against the series they annotate. It does
// not judge whether the wave is a valid impulse.
func (s Sample) Validate() error {
	var errs []error

	if s.Symbol == "" {
		errs = append(errs, errors.New("symbol is empty"))
	}
	if len(s.WaveIndices) != WavePoints {
		errs = append(errs, fmt.Errorf("wave_indices has %d points, want %d", len(s.WaveIndices), WavePoints))
	}
	if len(s.WavePrices) != WavePoints {
		errs = append(errs, fmt.Errorf("wave_prices has %d points, want %d", len(s.WavePrices), WavePoints))
	}
	for i, x := range s.WaveIndices {
		if x < 0 || x >= len(s.Data) {
			errs = append(errs, fmt.Errorf("wave point %d index %d outside data [0,%d)", i, x, len(s.Data)))
		}
	}
	return errors.Join(errs...)
}

// Issue is a validation problem found at a position in a dataset.
type Issue struct {
	Index  int
	Symbol string
	Err    error
}

func (i Issue) String() string {
	return fmt.Sprintf("#%d %s: %v", i.Index+1, i.Symbol, i.Err)
}

// Check validates every sample and returns the problems found.
func (d Dataset) Check() []Issue {
	var issues []Issue
	for i, s := range d {
		if err := s.Validate(); err != nil {
			issues = append(issues, Issue{Index: i, Symbol: s.Symbol, Err: err})
		}
	}
	return issues
}

// Symbols returns the distinct symbols in review order.
func (d Dataset) Symbols() []string {
	seen := make(map[string]bool, len(d))
	var out []string
	for _, s := range d {
		if !seen[s.Symbol] {
			seen[s.Symbol] = true
			out = append(out, s.Symbol)
		}
	}
	return out
}
