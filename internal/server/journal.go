package server

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/wavelabel/journal"
	"github.com/rustyeddy/wavelabel/pkg/id"
	"github.com/rustyeddy/wavelabel/review"
)

// RecordDecisions returns a session hook that writes each decision to j.
// A journal failure is logged; it never undoes the decision.
func RecordDecisions(j journal.Journal, log logrus.FieldLogger) func(review.Decision) {
	return func(d review.Decision) {
		now := time.Now().UTC()
		rec := journal.DecisionRecord{
			DecisionID: id.NewAt(now),
			SessionID:  d.SessionID,
			Symbol:     d.Symbol,
			Action:     string(d.Action),
			Position:   d.Position,
			Total:      d.Total,
			DecidedAt:  now,
		}
		if err := j.RecordDecision(rec); err != nil {
			log.WithError(err).WithField("symbol", d.Symbol).Error("journal decision")
		}
	}
}
