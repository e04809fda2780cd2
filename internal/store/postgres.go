package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karmamapper/karmamapper/backend-go/internal/document"
	"github.com/karmamapper/karmamapper/backend-go/internal/typeid"
)

const schema = `
CREATE TABLE IF NOT EXISTS scene_snapshots (
	id         TEXT PRIMARY KEY,
	scene_name TEXT NOT NULL,
	version    INTEGER NOT NULL,
	document   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (scene_name, version)
)`

// DBTX is the subset of pgx used by PGStore; *pgxpool.Pool and pgx.Tx both
// satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore keeps every save as a new versioned snapshot row; Load returns the
// latest one.
type PGStore struct {
	db DBTX
}

// NewPool connects to Postgres and verifies the connection.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func NewPGStore(db DBTX) *PGStore {
	return &PGStore{db: db}
}

// EnsureSchema creates the snapshots table if it does not exist.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *PGStore) Load(ctx context.Context, name string) (*document.SceneDoc, error) {
	name, err := sceneKey(name)
	if err != nil {
		return nil, err
	}
	var raw []byte
	err = s.db.QueryRow(ctx,
		`SELECT document FROM scene_snapshots WHERE scene_name = $1 ORDER BY version DESC LIMIT 1`,
		name,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var doc document.SceneDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := document.Validate(&doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &doc, nil
}

func (s *PGStore) Save(ctx context.Context, name string, doc *document.SceneDoc) error {
	name, err := sceneKey(name)
	if err != nil {
		return err
	}
	if doc.Version == 0 {
		doc.Version = document.CurrentVersion
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	// Get current version to increment
	var current int32
	err = s.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM scene_snapshots WHERE scene_name = $1`,
		name,
	).Scan(&current)
	if err != nil {
		return fmt.Errorf("get latest version: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO scene_snapshots (id, scene_name, version, document) VALUES ($1, $2, $3, $4)`,
		typeid.NewSnapshotID(), name, current+1, docJSON,
	)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	return nil
}

func (s *PGStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT DISTINCT scene_name FROM scene_snapshots ORDER BY scene_name`)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	return names, nil
}
