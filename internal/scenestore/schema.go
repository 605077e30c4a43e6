package scenestore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stored in PRAGMA user_version. A fresh database reports 0.
const schemaVersion = 2

// upgrades[v] moves a database from version v to v+1.
var upgrades = map[int]string{
	1: "ALTER TABLE scenes ADD COLUMN layout TEXT NOT NULL DEFAULT ''",
}

// ErrSchemaMismatch reports a database written by an incompatible build.
var ErrSchemaMismatch = errors.New("schema version mismatch")

func (s *Store) initSchema(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	switch {
	case version == schemaVersion:
		return nil
	case version == 0:
		return s.createSchema(ctx)
	case version < schemaVersion:
		return s.upgradeSchema(ctx, version)
	default:
		return fmt.Errorf("%w: %s is at version %d, this build expects %d; remove it to start over",
			ErrSchemaMismatch, s.path, version, schemaVersion)
	}
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	if err := stampVersion(ctx, tx, schemaVersion); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) upgradeSchema(ctx context.Context, from int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upgrade tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for v := from; v < schemaVersion; v++ {
		stmt, ok := upgrades[v]
		if !ok {
			return fmt.Errorf("%w: no upgrade from version %d", ErrSchemaMismatch, v)
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("upgrade schema from version %d: %w", v, err)
		}
	}
	if err := stampVersion(ctx, tx, schemaVersion); err != nil {
		return err
	}
	return tx.Commit()
}

// stampVersion formats the version into the statement since PRAGMA
// arguments cannot be bound parameters.
func stampVersion(ctx context.Context, tx *sql.Tx, version int) error {
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("stamp user_version: %w", err)
	}
	return nil
}
