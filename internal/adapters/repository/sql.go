package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
	_ "modernc.org/sqlite"             // sqlite driver

	"github.com/okian/offseason/internal/domain/draft"
	"github.com/okian/offseason/internal/domain/model"
	"github.com/okian/offseason/internal/domain/position"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFS embed.FS

// Dialect is the SQL flavour of a database.
type Dialect string

// Supported dialects.
const (
	DialectSQLite   Dialect = DriverSQLite
	DialectPostgres Dialect = DriverPostgres
)

const pingTimeout = 10 * time.Second

// SQLStore keeps sessions as JSON documents and contracts as rows.
type SQLStore struct {
	dialect      Dialect
	db           *sql.DB
	maxOpenConns int
}

// OpenSQL connects, pings and migrates the database.
func OpenSQL(ctx context.Context, dialect Dialect, dsn string, opts ...Option) (*SQLStore, error) {
	var driverName string
	switch dialect {
	case DialectSQLite:
		driverName = "sqlite"
	case DialectPostgres:
		driverName = "pgx"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, dialect)
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%w: %s needs a dsn", ErrUnsupportedDriver, dialect)
	}

	s := &SQLStore{dialect: dialect, maxOpenConns: 4}
	for _, opt := range opts {
		opt(s)
	}
	if dialect == DialectSQLite {
		s.maxOpenConns = 1
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	db.SetMaxOpenConns(s.maxOpenConns)
	db.SetMaxIdleConns(s.maxOpenConns)
	s.db = db

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", dialect, err)
	}
	if err := s.migrate(pctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) bind(pos int) string {
	if s.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", pos)
	}
	return "?"
}

func (s *SQLStore) binds(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = s.bind(i + 1)
	}
	return strings.Join(ph, ", ")
}

func (s *SQLStore) migrate(ctx context.Context) error {
	create := `CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_unix BIGINT NOT NULL
	)`
	if _, err := s.db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := map[string]bool{}
	rows, err := s.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan schema migration: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("iterate schema migrations: %w", err)
	}
	_ = rows.Close()

	files, err := fs.Glob(migrationFS, fmt.Sprintf("migrations/%s/*.sql", s.dialect))
	if err != nil {
		return fmt.Errorf("glob migrations: %w", err)
	}
	sort.Strings(files)
	for _, file := range files {
		version := path.Base(file)
		if applied[version] {
			continue
		}
		body, err := migrationFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
		q := fmt.Sprintf("INSERT INTO schema_migrations (version, applied_unix) VALUES (%s)", s.binds(2))
		if _, err := tx.ExecContext(ctx, q, version, time.Now().UTC().Unix()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (*draft.Session, error) {
	defer observe("session_get", time.Now())
	var body string
	q := "SELECT body FROM draft_sessions WHERE id = " + s.bind(1)
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return decodeSession(body)
}

func (s *SQLStore) Put(ctx context.Context, sess *draft.Session) error {
	defer observe("session_put", time.Now())
	if err := checkSession(sess); err != nil {
		return err
	}
	body, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	q := fmt.Sprintf(`INSERT INTO draft_sessions (id, status, created_unix, updated_unix, body) VALUES (%s)
		ON CONFLICT (id) DO UPDATE SET status = excluded.status, updated_unix = excluded.updated_unix, body = excluded.body`,
		s.binds(5))
	_, err = s.db.ExecContext(ctx, q, sess.ID, string(sess.Status),
		sess.CreatedAt.UnixNano(), sess.UpdatedAt.UnixNano(), string(body))
	if err != nil {
		return fmt.Errorf("put session %s: %w", sess.ID, err)
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context) ([]*draft.Session, error) {
	defer observe("session_list", time.Now())
	rows, err := s.db.QueryContext(ctx, "SELECT body FROM draft_sessions ORDER BY created_unix, id")
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*draft.Session
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess, err := decodeSession(body)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func decodeSession(body string) (*draft.Session, error) {
	var sess draft.Session
	if err := json.Unmarshal([]byte(body), &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *SQLStore) AddContract(ctx context.Context, c model.Contract) error {
	defer observe("contract_add", time.Now())
	if err := checkContract(c); err != nil {
		return err
	}
	schedule, err := json.Marshal(c.Schedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	q := fmt.Sprintf(`INSERT INTO contracts
		(team, player_id, position, kind, term, annual_value, guaranteed, schedule, signed_unix)
		VALUES (%s)`, s.binds(9))
	_, err = s.db.ExecContext(ctx, q, c.Team, c.PlayerID, string(c.Position), string(c.Kind),
		c.Term, c.AnnualValue, c.Guaranteed, string(schedule), c.SignedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("add contract %s/%s: %w", c.Team, c.PlayerID, err)
	}
	return nil
}

func (s *SQLStore) Contracts(ctx context.Context, team string) ([]model.Contract, error) {
	defer observe("contract_list", time.Now())
	q := `SELECT team, player_id, position, kind, term, annual_value, guaranteed, schedule, signed_unix
		FROM contracts WHERE team = ` + s.bind(1) + ` ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q, team)
	if err != nil {
		return nil, fmt.Errorf("list contracts %s: %w", team, err)
	}
	defer func() { _ = rows.Close() }()

	out := []model.Contract{}
	for rows.Next() {
		var (
			c        model.Contract
			pos      string
			kind     string
			schedule string
			signed   int64
		)
		if err := rows.Scan(&c.Team, &c.PlayerID, &pos, &kind, &c.Term, &c.AnnualValue,
			&c.Guaranteed, &schedule, &signed); err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		if err := json.Unmarshal([]byte(schedule), &c.Schedule); err != nil {
			return nil, fmt.Errorf("decode schedule: %w", err)
		}
		c.Position = position.Position(pos)
		c.Kind = model.ContractKind(kind)
		c.SignedAt = time.Unix(0, signed).UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
