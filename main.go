package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nissyi-gh/socialdebt/internal/config"
	"github.com/nissyi-gh/socialdebt/internal/importer"
	"github.com/nissyi-gh/socialdebt/internal/ledger"
	"github.com/nissyi-gh/socialdebt/internal/logging"
	"github.com/nissyi-gh/socialdebt/internal/profile"
	"github.com/nissyi-gh/socialdebt/internal/reminder"
	"github.com/nissyi-gh/socialdebt/internal/store"
	"github.com/nissyi-gh/socialdebt/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configFlag := flag.String("config", "", "Path to YAML config file")
	dbFlag := flag.String("db", "", "Path to sqlite database file")
	exportFlag := flag.String("export", "", "Export favors as CSV to `file` (- for stdout) and exit")
	importFlag := flag.String("import", "", "Import favors from a CSV `file` and exit")
	watchFlag := flag.Bool("watch", false, "Print due-date reminders to stdout until interrupted")
	logStderr := flag.Bool("log-stderr", false, "Log to stderr instead of the log file")
	flag.Parse()

	config.LoadDotEnv()
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *dbFlag != "" {
		cfg.DBPath = *dbFlag
	}
	if err := cfg.Resolve(); err != nil {
		return err
	}

	level := logging.ParseLevel(cfg.LogLevel)
	if *logStderr {
		logging.Setup(os.Stderr, level, true)
	} else {
		f, err := logging.SetupFile(cfg.LogFile, level)
		if err != nil {
			return err
		}
		defer f.Close()
	}

	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	repo, err := ledger.New(s, s)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	headless := *importFlag != "" || *exportFlag != "" || *watchFlag
	if *importFlag != "" {
		if err := runImport(ctx, repo, s, *importFlag); err != nil {
			return err
		}
	}
	if *exportFlag != "" {
		if err := runExport(repo, *exportFlag); err != nil {
			s.Record(err, "Export CSV")
			return err
		}
	}
	if *watchFlag {
		reminder.Run(ctx, reminder.NewChecker(repo), cfg.ReminderInterval, func(notices []reminder.Notice) {
			for _, n := range notices {
				fmt.Println(n.Message())
			}
		})
	}
	if headless {
		return nil
	}

	pm, err := profile.NewManager(s)
	if err != nil {
		return err
	}
	m := ui.New(ui.Deps{
		Ledger:    repo,
		Profile:   pm,
		Errors:    s,
		Reminders: reminder.NewChecker(repo),
	}, ui.Options{
		PageSize:         cfg.PageSize,
		ReminderInterval: cfg.ReminderInterval,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func runImport(ctx context.Context, repo *ledger.Repository, s *store.Store, path string) error {
	rep, err := importer.ImportFile(ctx, repo, path)
	if err != nil {
		s.Record(err, "Import CSV")
		return err
	}
	fmt.Printf("Imported %d favors from %s\n", rep.Imported, path)
	for _, row := range rep.Skipped {
		fmt.Printf("  skipped %v\n", row)
	}
	if rep.StorageErr != nil {
		return fmt.Errorf("imported favors were not saved: %w", rep.StorageErr)
	}
	return nil
}

func runExport(repo *ledger.Repository, path string) error {
	favors := repo.Favors()
	if path == "-" {
		if err := importer.WriteCSV(os.Stdout, favors); err != nil {
			return err
		}
		fmt.Println()
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := importer.WriteCSV(f, favors); err != nil {
		f.Close()
		return fmt.Errorf("write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Exported %d favors to %s\n", len(favors), path)
	return nil
}
