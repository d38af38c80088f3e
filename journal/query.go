package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const selectDecisions = `
	SELECT decision_id, session_id, symbol, action, position, total, decided_at
	FROM decisions`

// GetDecision returns a single decision by ID.
func (j *SQLite) GetDecision(decisionID string) (DecisionRecord, error) {
	row := j.db.QueryRow(selectDecisions+` WHERE decision_id = ?`, decisionID)

	rec, err := scanDecision(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DecisionRecord{}, fmt.Errorf("decision %q not found", decisionID)
		}
		return DecisionRecord{}, err
	}
	return rec, nil
}

// ListDecisions returns the decisions of one session in the order made.
// An empty sessionID lists every session.
func (j *SQLite) ListDecisions(sessionID string) ([]DecisionRecord, error) {
	if sessionID == "" {
		return j.query(selectDecisions + ` ORDER BY decided_at ASC, decision_id ASC`)
	}
	return j.query(selectDecisions+`
		WHERE session_id = ?
		ORDER BY decided_at ASC, decision_id ASC`, sessionID)
}

// ListDecisionsBetween returns decisions made within [start, end).
func (j *SQLite) ListDecisionsBetween(start, end time.Time) ([]DecisionRecord, error) {
	return j.query(selectDecisions+`
		WHERE decided_at >= ? AND decided_at < ?
		ORDER BY decided_at ASC, decision_id ASC`, start.UTC(), end.UTC())
}

// SessionSummary counts the decisions of one review session.
type SessionSummary struct {
	SessionID string
	Deleted   int
	Kept      int
	First     time.Time
	Last      time.Time
}

// Sessions summarizes every recorded session, oldest first.
func (j *SQLite) Sessions() ([]SessionSummary, error) {
	recs, err := j.ListDecisions("")
	if err != nil {
		return nil, err
	}
	return Summarize(recs), nil
}

// Summarize groups decisions by session, keeping first-seen order.
func Summarize(recs []DecisionRecord) []SessionSummary {
	idx := map[string]int{}
	var out []SessionSummary
	for _, r := range recs {
		i, ok := idx[r.SessionID]
		if !ok {
			i = len(out)
			idx[r.SessionID] = i
			out = append(out, SessionSummary{SessionID: r.SessionID, First: r.DecidedAt})
		}
		s := &out[i]
		switch r.Action {
		case ActionDelete:
			s.Deleted++
		case ActionKeep:
			s.Kept++
		}
		if r.DecidedAt.Before(s.First) {
			s.First = r.DecidedAt
		}
		if r.DecidedAt.After(s.Last) {
			s.Last = r.DecidedAt
		}
	}
	return out
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDecision(row scanner) (DecisionRecord, error) {
	var rec DecisionRecord
	err := row.Scan(
		&rec.DecisionID,
		&rec.SessionID,
		&rec.Symbol,
		&rec.Action,
		&rec.Position,
		&rec.Total,
		&rec.DecidedAt,
	)
	return rec, err
}

func (j *SQLite) query(q string, args ...any) ([]DecisionRecord, error) {
	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DecisionRecord
	for rows.Next() {
		rec, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
