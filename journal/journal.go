// Package journal records every delete and keep a reviewer makes, so a
// curated dataset can be traced back to the decisions that shaped it.
package journal

import "time"

const (
	ActionDelete = "delete"
	ActionKeep   = "keep"
)

// DecisionRecord is one reviewer decision.
type DecisionRecord struct {
	DecisionID string
	SessionID  string
	Symbol     string
	Action     string
	Position   int // 1-based, before the decision was applied
	Total      int // dataset size before the decision was applied
	DecidedAt  time.Time
}

type Journal interface {
	RecordDecision(DecisionRecord) error
	Close() error
}

// Nop discards every record.
type Nop struct{}

func (Nop) RecordDecision(DecisionRecord) error { return nil }
func (Nop) Close() error                        { return nil }
