package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/credential"
	"github.com/dmitrijs2005/authgate/internal/filex"
)

const fileMode os.FileMode = 0o600

// FileStore keeps the record as {"username": ..., "password": ...} in one
// file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Exists(ctx context.Context) (bool, error) {
	fi, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", s.path, err)
	}
	if fi.IsDir() {
		return false, fmt.Errorf("%w: %s is a directory", common.ErrCorruptData, s.path)
	}
	return true, nil
}

func (s *FileStore) Load(ctx context.Context) (credential.Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return credential.Record{}, common.ErrNotFound
	}
	if err != nil {
		return credential.Record{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	// Values must be JSON strings; null or numbers from a damaged file land
	// in the corrupt branch rather than decoding to "".
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return credential.Record{}, fmt.Errorf("%w: %v", common.ErrCorruptData, err)
	}

	var rec credential.Record
	if err := decodeString(raw, "username", &rec.Username); err != nil {
		return credential.Record{}, err
	}
	if err := decodeString(raw, "password", &rec.PasswordDigest); err != nil {
		return credential.Record{}, err
	}
	return checkLoaded(rec)
}

func decodeString(raw map[string]json.RawMessage, key string, dst *string) error {
	v, ok := raw[key]
	if !ok {
		return fmt.Errorf("%w: missing key %q", common.ErrCorruptData, key)
	}
	if err := json.Unmarshal(v, dst); err != nil || string(v) == "null" {
		return fmt.Errorf("%w: key %q is not a string", common.ErrCorruptData, key)
	}
	return nil
}

func (s *FileStore) Save(ctx context.Context, rec credential.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return filex.WriteFileAtomic(s.path, data, fileMode)
}

func (s *FileStore) Destroy(ctx context.Context) (bool, error) {
	return filex.RemoveIfExists(s.path)
}

func (s *FileStore) Close() error {
	return nil
}
