package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/wavelabel/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the review journal",
	Long: `Query and export review decisions from the SQLite journal.

Subcommands:
  list     - List decisions as Org-mode entries
  sessions - Summarize review sessions
  show     - Show one decision
  export   - Export decisions as csv, org or xlsx

Examples:
  wavelabel journal list --session 01J0Z9...
  wavelabel journal list --day 2024-01-15
  wavelabel journal export --format xlsx -o review.xlsx`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List decisions as Org-mode entries",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalSessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Summarize review sessions",
	Args:  cobra.NoArgs,
	RunE:  runJournalSessions,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <decision-id>",
	Short: "Show one decision as an Org-mode entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var journalExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export decisions",
	Args:  cobra.NoArgs,
	RunE:  runJournalExport,
}

var (
	journalDBPath  string
	journalSession string
	journalDay     string
	journalFormat  string
	journalOutput  string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalSessionsCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalExportCmd)

	journalCmd.PersistentFlags().StringVar(&journalDBPath, "db", "", "path to SQLite journal DB (default from config)")
	journalCmd.PersistentFlags().StringVarP(&journalSession, "session", "s", "", "only decisions from this session")
	journalCmd.PersistentFlags().StringVar(&journalDay, "day", "", "only decisions made on this day (YYYY-MM-DD, local time)")

	journalExportCmd.Flags().StringVarP(&journalFormat, "format", "f", "csv", "export format: csv, org or xlsx")
	journalExportCmd.Flags().StringVarP(&journalOutput, "output", "o", "", "output file (default stdout; required for xlsx)")
}

func openJournalDB() (*journal.SQLite, error) {
	path := journalDBPath
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		if cfg.Journal.Type != "sqlite" {
			return nil, fmt.Errorf("journal type is %q; pass --db to query a SQLite journal", cfg.Journal.Type)
		}
		path = cfg.Journal.DBPath
	}

	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

// selectDecisions applies the --session and --day filters.
func selectDecisions(j *journal.SQLite) ([]journal.DecisionRecord, error) {
	var (
		recs []journal.DecisionRecord
		err  error
	)
	if journalDay != "" {
		start, end, derr := dayBounds(time.Local, journalDay)
		if derr != nil {
			return nil, fmt.Errorf("date: %w", derr)
		}
		recs, err = j.ListDecisionsBetween(start, end)
	} else {
		recs, err = j.ListDecisions(journalSession)
	}
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}

	if journalDay != "" && journalSession != "" {
		filtered := recs[:0]
		for _, r := range recs {
			if r.SessionID == journalSession {
				filtered = append(filtered, r)
			}
		}
		recs = filtered
	}
	return recs, nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := selectDecisions(j)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatDecisionsOrg(recs))
	return nil
}

func runJournalSessions(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	var sessions []journal.SessionSummary
	if journalDay == "" && journalSession == "" {
		sessions, err = j.Sessions()
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
	} else {
		recs, err := selectDecisions(j)
		if err != nil {
			return err
		}
		sessions = journal.Summarize(recs)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tDELETED\tKEPT\tFIRST\tLAST")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", s.SessionID, s.Deleted, s.Kept,
			s.First.Local().Format(time.DateTime), s.Last.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetDecision(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatDecisionOrg(rec))
	return nil
}

func runJournalExport(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := selectDecisions(j)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch journalFormat {
	case "csv":
		err = journal.WriteCSV(&buf, recs)
	case "org":
		_, err = io.WriteString(&buf, journal.FormatDecisionsOrg(recs)+"\n")
	case "xlsx":
		if journalOutput == "" {
			return fmt.Errorf("xlsx export needs --output")
		}
		var b []byte
		b, err = journal.ExportXLSX(recs)
		buf.Write(b)
	default:
		return fmt.Errorf("unknown format %q", journalFormat)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", journalFormat, err)
	}

	if journalOutput == "" {
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(journalOutput, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d decisions to %s\n", len(recs), journalOutput)
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
