package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// dialect carries the SQL that differs between drivers.
type dialect struct {
	driver string
	schema string
	upsert string
	query  string
}

var (
	sqliteDialect = dialect{
		driver: "sqlite",
		schema: `CREATE TABLE IF NOT EXISTS prior_temperature (
			id          INTEGER PRIMARY KEY CHECK (id = 1),
			celsius     REAL NOT NULL,
			observed_at TEXT NOT NULL
		)`,
		upsert: `INSERT INTO prior_temperature (id, celsius, observed_at) VALUES (1, ?, ?)
			ON CONFLICT (id) DO UPDATE SET celsius = excluded.celsius, observed_at = excluded.observed_at`,
		query: `SELECT celsius, observed_at FROM prior_temperature WHERE id = 1`,
	}

	postgresDialect = dialect{
		driver: "postgres",
		schema: `CREATE TABLE IF NOT EXISTS prior_temperature (
			id          INTEGER PRIMARY KEY CHECK (id = 1),
			celsius     DOUBLE PRECISION NOT NULL,
			observed_at TEXT NOT NULL
		)`,
		upsert: `INSERT INTO prior_temperature (id, celsius, observed_at) VALUES (1, $1, $2)
			ON CONFLICT (id) DO UPDATE SET celsius = EXCLUDED.celsius, observed_at = EXCLUDED.observed_at`,
		query: `SELECT celsius, observed_at FROM prior_temperature WHERE id = 1`,
	}
)

// SQLStore keeps the value in a single-row table.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	clock   clockwork.Clock
}

// OpenSQLite opens (or creates) the database file at path.
func OpenSQLite(path string, clock clockwork.Clock) (*SQLStore, error) {
	return openSQL(sqliteDialect, path, clock)
}

// OpenPostgres connects using a lib/pq DSN.
func OpenPostgres(dsn string, clock clockwork.Clock) (*SQLStore, error) {
	return openSQL(postgresDialect, dsn, clock)
}

func openSQL(d dialect, dsn string, clock clockwork.Clock) (*SQLStore, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver, err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create prior_temperature table: %w", err)
	}

	return &SQLStore{db: db, dialect: d, clock: clock}, nil
}

func (s *SQLStore) Load(ctx context.Context) (float64, bool, error) {
	snap, ok, err := s.Snapshot(ctx)
	return snap.Celsius, ok, err
}

func (s *SQLStore) Snapshot(ctx context.Context) (Snapshot, bool, error) {
	var (
		celsius  float64
		observed string
	)
	err := s.db.QueryRowContext(ctx, s.dialect.query).Scan(&celsius, &observed)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("query prior temperature: %w", err)
	}

	snap := Snapshot{Celsius: celsius}
	if t, err := time.Parse(time.RFC3339, observed); err == nil {
		snap.ObservedAt = t
	}
	return snap, true, nil
}

func (s *SQLStore) Save(ctx context.Context, celsius float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	observed := s.clock.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, s.dialect.upsert, celsius, observed); err != nil {
		return fmt.Errorf("upsert prior temperature: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit prior temperature: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
