package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatDecisionOrg renders a decision as an Org-mode entry. Structured
// facts go in the PROPERTIES drawer; the Notes heading is left for the
// reviewer.
func FormatDecisionOrg(d DecisionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** %s: %s (%s)\n", strings.ToUpper(d.Action), d.Symbol, shortID(d.DecisionID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", d.DecisionID)
	fmt.Fprintf(&b, ":SESSION_ID: %s\n", d.SessionID)
	fmt.Fprintf(&b, ":SYMBOL: %s\n", d.Symbol)
	fmt.Fprintf(&b, ":ACTION: %s\n", d.Action)
	fmt.Fprintf(&b, ":POSITION: %d/%d\n", d.Position, d.Total)
	fmt.Fprintf(&b, ":DECIDED_AT: %s\n", d.DecidedAt.UTC().Format(time.RFC3339))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Notes\n- \n")
	return b.String()
}

// FormatDecisionsOrg renders decisions separated by blank lines.
func FormatDecisionsOrg(recs []DecisionRecord) string {
	var b strings.Builder
	for i, d := range recs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatDecisionOrg(d))
	}
	return b.String()
}

// last 8 characters: the random tail of a ULID
func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}
