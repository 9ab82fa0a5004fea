package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AntonStoeckl/lending-ledger-go/circulation/shell"
	"github.com/AntonStoeckl/lending-ledger-go/circulation/shell/config"
	"github.com/AntonStoeckl/lending-ledger-go/journal/memjournal"
	"github.com/AntonStoeckl/lending-ledger-go/journal/postgresjournal"
	"github.com/AntonStoeckl/lending-ledger-go/journal/promadapters"
	"github.com/AntonStoeckl/lending-ledger-go/ledger"
)

const (
	adapterPGXPool = "pgxpool"
	adapterSQLDB   = "sqldb"
	adapterSQLX    = "sqlx"
	adapterMemory  = "memory"

	policyPlaceholder = "placeholder"
	policyNone        = "none"
	policyFixed       = "fixed"
)

// settings are the resolved persistent flags.
type settings struct {
	adapter       string
	dsn           string
	jsonLog       bool
	logLevel      string
	lateFeePolicy string
	lateFee       float64
	printMetrics  bool
}

// app carries what one CLI invocation shares between the root command and its subcommands.
type app struct {
	settings settings
	stdout   io.Writer
	stderr   io.Writer
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *promadapters.MetricsCollector
	closers  []func() error
}

// setup builds the logger and the metrics collector from the resolved settings.
func (a *app) setup() error {
	level := slog.LevelWarn
	if err := level.UnmarshalText([]byte(a.settings.logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", a.settings.logLevel, err)
	}

	options := &slog.HandlerOptions{Level: level}
	if a.settings.jsonLog {
		a.logger = slog.New(slog.NewJSONHandler(a.stderr, options))
	} else {
		a.logger = slog.New(slog.NewTextHandler(a.stderr, options))
	}

	a.registry = prometheus.NewRegistry()

	metrics, err := promadapters.NewMetricsCollector(a.registry, promadapters.WithNamespace("lendingdesk"))
	if err != nil {
		return err
	}

	a.metrics = metrics

	return nil
}

func (a *app) lateFeePolicy() (ledger.LateFeePolicy, error) {
	switch a.settings.lateFeePolicy {
	case policyPlaceholder:
		return ledger.PlaceholderLateFeePolicy(), nil
	case policyNone:
		return ledger.NoLateFeePolicy(), nil
	case policyFixed:
		return ledger.FixedLateFeePolicy(a.settings.lateFee), nil
	default:
		return nil, fmt.Errorf("unsupported late fee policy %q: use placeholder, none or fixed", a.settings.lateFeePolicy)
	}
}

// openJournal connects the configured journal. Connections are closed by close.
func (a *app) openJournal(ctx context.Context) (*postgresjournal.Journal, shell.Journal, error) {
	options := []postgresjournal.Option{
		postgresjournal.WithContextualLogger(a.logger),
		postgresjournal.WithMetrics(a.metrics),
	}

	switch a.settings.adapter {
	case adapterMemory:
		j, err := memjournal.New(memjournal.WithLogger(a.logger))
		return nil, j, err

	case adapterPGXPool:
		poolConfig, err := config.PostgresPGXPoolConfig(a.settings.dsn)
		if err != nil {
			return nil, nil, err
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, nil, err
		}

		a.closers = append(a.closers, func() error { pool.Close(); return nil })

		if err := pool.Ping(ctx); err != nil {
			return nil, nil, err
		}

		j, err := postgresjournal.NewJournalFromPGXPool(pool, options...)
		return j, j, err

	case adapterSQLDB:
		db, err := config.PostgresSQLDB(ctx, a.settings.dsn)
		if err != nil {
			return nil, nil, err
		}

		a.closers = append(a.closers, db.Close)

		j, err := postgresjournal.NewJournalFromSQLDB(db, options...)
		return j, j, err

	case adapterSQLX:
		db, err := config.PostgresSQLX(ctx, a.settings.dsn)
		if err != nil {
			return nil, nil, err
		}

		a.closers = append(a.closers, db.Close)

		j, err := postgresjournal.NewJournalFromSQLX(db, options...)
		return j, j, err

	default:
		return nil, nil, fmt.Errorf(
			"unsupported adapter %q: use %s",
			a.settings.adapter,
			strings.Join([]string{adapterPGXPool, adapterSQLDB, adapterSQLX, adapterMemory}, ", "),
		)
	}
}

// openDesk opens a desk on the configured journal.
func (a *app) openDesk(ctx context.Context) (*shell.Desk, error) {
	_, j, err := a.openJournal(ctx)
	if err != nil {
		return nil, err
	}

	return a.openDeskOn(ctx, j)
}

func (a *app) openDeskOn(ctx context.Context, j shell.Journal) (*shell.Desk, error) {
	policy, err := a.lateFeePolicy()
	if err != nil {
		return nil, err
	}

	return shell.OpenDesk(ctx, j,
		shell.WithLogger(a.logger),
		shell.WithMetrics(a.metrics),
		shell.WithEngineOptions(
			ledger.WithLateFeePolicy(policy),
			ledger.WithLogger(a.logger),
			ledger.WithMetrics(a.metrics),
		),
	)
}

// close releases connections and prints the gathered metrics if asked to.
func (a *app) close() error {
	var errs []error

	if a.settings.printMetrics && a.registry != nil {
		errs = append(errs, printMetrics(a.stdout, a.registry))
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}

	a.closers = nil

	return errors.Join(errs...)
}
