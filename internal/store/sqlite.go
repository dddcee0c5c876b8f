package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/credential"
	"github.com/dmitrijs2005/authgate/internal/dbx"
	"github.com/dmitrijs2005/authgate/internal/migrations"
	"github.com/dmitrijs2005/authgate/internal/repositories/metadata"
)

const (
	keyUsername = "username"
	keyPassword = "password"
)

// SQLiteStore keeps the record as two rows of the metadata table.
type SQLiteStore struct {
	db *sql.DB
}

// RunMigrations brings the schema up to date using the embedded migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// OpenSQLiteStore opens dsn with the modernc driver and migrates it.
func OpenSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// one writer, and :memory: databases live per connection
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLiteStore(db), nil
}

// NewSQLiteStore wraps an already migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (s *SQLiteStore) Exists(ctx context.Context) (bool, error) {
	v, err := s.repo(s.db).Get(ctx, keyUsername)
	if err != nil {
		return false, err
	}
	return v != nil, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (credential.Record, error) {
	rows, err := s.repo(s.db).List(ctx, keyUsername, keyPassword)
	if err != nil {
		return credential.Record{}, err
	}
	if len(rows) == 0 {
		return credential.Record{}, common.ErrNotFound
	}

	username, okU := rows[keyUsername]
	password, okP := rows[keyPassword]
	if !okU || !okP {
		return credential.Record{}, fmt.Errorf("%w: record is incomplete", common.ErrCorruptData)
	}
	return checkLoaded(credential.Record{Username: string(username), PasswordDigest: string(password)})
}

func (s *SQLiteStore) Save(ctx context.Context, rec credential.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Set(ctx, keyUsername, []byte(rec.Username)); err != nil {
			return err
		}
		return r.Set(ctx, keyPassword, []byte(rec.PasswordDigest))
	})
}

func (s *SQLiteStore) Destroy(ctx context.Context) (bool, error) {
	var removed bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		rows, err := r.List(ctx, keyUsername, keyPassword)
		if err != nil {
			return err
		}
		removed = len(rows) > 0
		if err := r.Delete(ctx, keyUsername); err != nil {
			return err
		}
		return r.Delete(ctx, keyPassword)
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
