package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/wavelabel/config"
	"github.com/rustyeddy/wavelabel/dataset"
	"github.com/rustyeddy/wavelabel/internal/server"
	"github.com/rustyeddy/wavelabel/journal"
	"github.com/rustyeddy/wavelabel/pkg/logger"
	"github.com/rustyeddy/wavelabel/review"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the review page",
	Long: `Load the dataset and serve the review page.

The dataset file is rewritten after every delete. Startup fails when the
file is missing or holds no samples.

Examples:
  wavelabel serve
  wavelabel serve --data impulses.json --addr :8501`,
	RunE: runServe,
}

var (
	serveData   string
	serveAddr   string
	serveStrict bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveData, "data", "d", "", "dataset file (default from config)")
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveStrict, "strict", false, "refuse to start when a sample fails validation")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveData != "" {
		cfg.Dataset.Path = serveData
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveStrict {
		cfg.Dataset.Strict = true
	}

	log, err := logger.New(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}

	store := &dataset.FileStore{Path: cfg.Dataset.Path, Strict: cfg.Dataset.Strict}
	session, err := review.Open(store)
	if errors.Is(err, review.ErrEmptyDataset) {
		log.WithField("dataset", cfg.Dataset.Path).Error("No data found! Delete the old json and regenerate the dataset.")
		return err
	}
	if err != nil {
		return err
	}

	samples := session.Samples()
	for _, issue := range samples.Check() {
		log.WithField("sample", issue.Index+1).WithField("symbol", issue.Symbol).Warnf("invalid labels: %v", issue.Err)
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	entry := logger.WithComponent(log, "review").WithField("session", session.ID())
	session.OnDecision(server.LogDecisions(entry))
	session.OnDecision(server.RecordDecisions(j, entry))

	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := server.NewServer(session, logger.WithComponent(log, "http"))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(logrus.Fields{
		"addr":    cfg.Server.Addr,
		"dataset": cfg.Dataset.Path,
		"samples": session.Len(),
		"journal": cfg.Journal.Type,
		"session": session.ID(),
	}).Info("review server started")

	if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	log.WithField("remaining", session.Len()).Info("review server stopped")
	return nil
}

func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	case "csv":
		return journal.NewCSV(cfg.CSVFile)
	case "none":
		return journal.Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
	}
}
