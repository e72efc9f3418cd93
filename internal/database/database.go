// Package database contains the logic for establishing
// connections to the PostgreSQL database.
//
// It handles:
//   - building a DSN from config
//   - creating a pgx connection pool (pgxpool)
//   - handing out one scoped connection per unit of work (WithConn)
//   - wiring query tracing/logging (pgx tracelog, slow queries)
//   - optional New Relic instrumentation (nrpgx5)
//   - a pool-free connectivity check for the /test endpoint
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/people-api/internal/config"
	loggerConfig "github.com/deppfellow/people-api/internal/logger"
)

// Querier is the statement surface shared by *pgx.Conn, *pgxpool.Conn and pgx.Tx.
// Repositories only ever see this interface.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Conn is a connection that can also open a transaction.
type Conn interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Database wraps the pgx connection pool and a logger.
//
// Pool is the shared connection pool.
// log is used for lifecycle logs (connect/close, etc.).
type Database struct {
	Pool *pgxpool.Pool
	log  *zerolog.Logger
}

// multiTracer allows chaining multiple tracers.
//
// pgx supports a single Tracer in ConnConfig, so this adapter fans the
// callbacks out to every tracer that implements them.
type multiTracer struct {
	tracers []any
}

// TraceQueryStart implements pgx.QueryTracer, threading ctx through each tracer.
func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

// TraceQueryEnd implements pgx.QueryTracer.
func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

type slowQueryKey struct{}

type slowQueryStart struct {
	sql   string
	start time.Time
}

// slowQueryTracer warns about statements slower than threshold.
type slowQueryTracer struct {
	threshold time.Duration
	log       *zerolog.Logger
	now       func() time.Time
}

func newSlowQueryTracer(threshold time.Duration, log *zerolog.Logger) *slowQueryTracer {
	return &slowQueryTracer{threshold: threshold, log: log, now: time.Now}
}

func (st *slowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, slowQueryKey{}, slowQueryStart{sql: data.SQL, start: st.now()})
}

func (st *slowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	started, ok := ctx.Value(slowQueryKey{}).(slowQueryStart)
	if !ok {
		return
	}

	elapsed := st.now().Sub(started.start)
	if elapsed < st.threshold {
		return
	}

	event := st.log.Warn()
	if data.Err != nil {
		event = event.Err(data.Err)
	}
	event.
		Str("sql", started.sql).
		Dur("duration", elapsed).
		Dur("threshold", st.threshold).
		Msg("slow query")
}

// DatabasePingTimeout defines the number of seconds to wait for the
// startup ping.
const DatabasePingTimeout = 5

// DSN builds the postgres URL for cfg. Every component is escaped and IPv6
// hosts are bracketed.
func DSN(cfg config.DatabaseConfig) string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawPath:  "/" + url.PathEscape(cfg.Name),
		RawQuery: url.Values{"sslmode": {cfg.SSLMode}}.Encode(),
	}
	return dsn.String()
}

// buildTracer assembles the query tracers enabled for this process.
// It returns nil when none apply.
func buildTracer(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) pgx.QueryTracer {
	var tracers []any

	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	// Full statement logging is only readable on a developer machine.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: tracelog.LogLevel(loggerConfig.GetPgxTraceLogLevel(globalLevel)),
		})
	}

	if threshold := cfg.Observability.Logging.SlowQueryThreshold; threshold > 0 {
		tracers = append(tracers, newSlowQueryTracer(threshold, logger))
	}

	switch len(tracers) {
	case 0:
		return nil
	case 1:
		return tracers[0].(pgx.QueryTracer)
	default:
		return &multiTracer{tracers: tracers}
	}
}

// New creates a PostgreSQL connection pool with instrumentation.
//
// The pool connects lazily. An unreachable database is logged and does not
// stop startup: data requests fail with a 500 until it comes back, and /test
// and /status report it.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(DSN(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(cfg.Database.MaxConns)
	pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	if tracer := buildTracer(cfg, logger, loggerService); tracer != nil {
		pgxPoolConfig.ConnConfig.Tracer = tracer
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	database := &Database{
		Pool: pool,
		log:  logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err = pool.Ping(ctx); err != nil {
		logger.Warn().
			Err(err).
			Str("host", cfg.Database.Host).
			Int("port", cfg.Database.Port).
			Str("database", cfg.Database.Name).
			Msg("database unreachable at startup, continuing")

		return database, nil
	}

	logger.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("database", cfg.Database.Name).
		Msg("connected to the database")

	return database, nil
}

// WithConn acquires one pooled connection, runs fn on it and releases it
// before returning, whatever fn does.
func (db *Database) WithConn(ctx context.Context, fn func(Conn) error) error {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to acquire database connection")
	}
	defer conn.Release()

	return fn(conn)
}

// Ping checks that the pool can still reach the database.
func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Close closes the database connection pool.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	db.Pool.Close()
	return nil
}

// WithTx runs fn inside a transaction on conn. It commits when fn returns
// nil and rolls back otherwise.
func WithTx(ctx context.Context, conn Conn, fn func(Querier) error) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	if err := fn(tx); err != nil {
		// Rollback on a closed tx is a no-op; the fn error is returned.
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// ConnCheck is the outcome of a connectivity check.
type ConnCheck struct {
	Connected bool
	Message   string
}

// CheckConnection opens a fresh, unpooled connection, asks the server for its
// version and closes the connection. A failure is reported in the result,
// never as an error.
func CheckConnection(ctx context.Context, cfg config.DatabaseConfig) ConnCheck {
	conn, err := pgx.Connect(ctx, DSN(cfg))
	if err != nil {
		return ConnCheck{Message: "Connection failed: " + err.Error()}
	}
	defer conn.Close(ctx)

	var version string
	if err := conn.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		return ConnCheck{Message: "Connection failed: " + err.Error()}
	}

	return ConnCheck{Connected: true, Message: "Connected to PostgreSQL: " + version}
}
