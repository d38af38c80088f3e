package journal

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{"decision_id", "session_id", "symbol", "action", "position", "total", "decided_at"}

// CSV appends decisions to a CSV file as they are made.
type CSV struct {
	w *csv.Writer
	f *os.File
}

// NewCSV opens path for appending, writing the header when the file is new.
func NewCSV(path string) (*CSV, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	w := csv.NewWriter(f)
	if st.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			f.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, err
		}
	}

	return &CSV{w: w, f: f}, nil
}

func (j *CSV) RecordDecision(d DecisionRecord) error {
	if err := j.w.Write(csvRow(d)); err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSV) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}

// WriteCSV writes recs with a header row.
func WriteCSV(out io.Writer, recs []DecisionRecord) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, d := range recs {
		if err := w.Write(csvRow(d)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func csvRow(d DecisionRecord) []string {
	return []string{
		d.DecisionID,
		d.SessionID,
		d.Symbol,
		d.Action,
		strconv.Itoa(d.Position),
		strconv.Itoa(d.Total),
		d.DecidedAt.UTC().Format(time.RFC3339),
	}
}
