// Package store persists the single credential record.
//
// Two backends implement Store: FileStore keeps a flat JSON object on disk
// and SQLiteStore keeps the record in a key/value table. Both replace the
// record wholesale on Save and tolerate a missing record on Destroy.
package store

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/config"
	"github.com/dmitrijs2005/authgate/internal/credential"
)

// Store is the persistence boundary of the credential gate.
//
// Contract:
//   - Exists reports whether a record is currently persisted.
//   - Load returns common.ErrNotFound when nothing is stored and
//     common.ErrCorruptData when the stored content is unusable.
//   - Save fully replaces any existing record; it is atomic for the caller.
//   - Destroy removes the record and reports whether there was one; a
//     missing record is not an error.
type Store interface {
	Exists(ctx context.Context) (bool, error)
	Load(ctx context.Context) (credential.Record, error)
	Save(ctx context.Context, rec credential.Record) error
	Destroy(ctx context.Context) (bool, error)
	Close() error
}

// New opens the backend selected by cfg.Storage.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Storage {
	case config.StorageFile:
		return NewFileStore(cfg.CredentialFile), nil
	case config.StorageSQLite:
		return OpenSQLiteStore(ctx, cfg.SQLiteDSN)
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownStorage, cfg.Storage)
	}
}

// checkLoaded turns a decoded record that fails validation into a
// corrupt-data error.
func checkLoaded(rec credential.Record) (credential.Record, error) {
	if err := rec.Validate(); err != nil {
		return credential.Record{}, fmt.Errorf("%w: %v", common.ErrCorruptData, err)
	}
	return rec, nil
}
