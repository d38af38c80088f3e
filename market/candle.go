package market

import (
	"encoding/json"
	"fmt"
)

// Candle represents one OHLCV bar. On disk a candle is a positional
// JSON array: [open, high, low, close, volume].
type Candle struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	// set when the source row had no volume column
	noVolume bool
}

// HasVolume reports whether the candle was read with a volume column.
func (c Candle) HasVolume() bool {
	return !c.noVolume
}

func (c Candle) MarshalJSON() ([]byte, error) {
	if c.noVolume {
		return json.Marshal([4]float64{c.Open, c.High, c.Low, c.Close})
	}
	return json.Marshal([5]float64{c.Open, c.High, c.Low, c.Close, c.Volume})
}

func (c *Candle) UnmarshalJSON(b []byte) error {
	var row []float64
	if err := json.Unmarshal(b, &row); err != nil {
		return fmt.Errorf("candle: %w", err)
	}

	switch len(row) {
	case 5:
		*c = Candle{Open: row[0], High: row[1], Low: row[2], Close: row[3], Volume: row[4]}
	case 4:
		*c = Candle{Open: row[0], High: row[1], Low: row[2], Close: row[3], noVolume: true}
	default:
		return fmt.Errorf("candle: want 4 or 5 values, got %d", len(row))
	}
	return nil
}

// Range returns the lowest low and highest high of the candles.
func Range(candles []Candle) (lo, hi float64) {
	for i, c := range candles {
		if i == 0 || c.Low < lo {
			lo = c.Low
		}
		if i == 0 || c.High > hi {
			hi = c.High
		}
	}
	return lo, hi
}
