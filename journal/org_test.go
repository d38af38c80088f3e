package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDecisionOrg(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	d := decision("01HZX3V7K8Q2M4N6P8R0S2T4V6", "01HZX3V7K8Q2M4N6P8R0S2AAAA", "EUR_USD", ActionDelete, 4, at)

	result := FormatDecisionOrg(d)

	assert.Contains(t, result, "** DELETE: EUR_USD (R0S2T4V6)")
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":ID: 01HZX3V7K8Q2M4N6P8R0S2T4V6")
	assert.Contains(t, result, ":SESSION_ID: 01HZX3V7K8Q2M4N6P8R0S2AAAA")
	assert.Contains(t, result, ":SYMBOL: EUR_USD")
	assert.Contains(t, result, ":ACTION: delete")
	assert.Contains(t, result, ":POSITION: 4/10")
	assert.Contains(t, result, ":DECIDED_AT: 2024-03-15T10:30:45Z")
	assert.Contains(t, result, ":END:")
	assert.Contains(t, result, "*** Notes")
}

func TestFormatDecisionOrgShortID(t *testing.T) {
	t.Parallel()

	d := decision("short", "S", "GBP_USD", ActionKeep, 1, time.Now())
	assert.Contains(t, FormatDecisionOrg(d), "** KEEP: GBP_USD (short)")
}

func TestFormatDecisionsOrg(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	out := FormatDecisionsOrg([]DecisionRecord{
		decision("D1", "S", "A", ActionKeep, 1, at),
		decision("D2", "S", "B", ActionDelete, 2, at),
	})

	assert.Equal(t, 2, strings.Count(out, ":PROPERTIES:"))
	assert.Contains(t, out, "- \n\n\n** DELETE: B (D2)")
	assert.Empty(t, FormatDecisionsOrg(nil))
}
