package registry

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/filesystem"
	"github.com/fossmodmanager/fmm/pkg/logging"
	"github.com/fossmodmanager/fmm/pkg/types"
	"github.com/rs/zerolog"
)

// Store loads and saves the registry document at one path
type Store struct {
	fs     types.FS
	path   string
	now    func() time.Time
	logger zerolog.Logger
}

// NewStore creates a store for the registry file at path
func NewStore(fsys types.FS, path string) *Store {
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	return &Store{
		fs:     fsys,
		path:   filepath.Clean(path),
		now:    time.Now,
		logger: logging.GetLogger("registry.store"),
	}
}

// Path returns the registry file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the registry. A missing or blank file yields an empty
// registry. Older formats are migrated and written back in the current
// schema. A file no parser accepts is moved aside and an empty registry
// is returned; if it cannot be moved aside the SchemaError is returned.
func (s *Store) Load() (*types.Registry, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			s.logger.Debug().Str("path", s.path).Msg("No registry file, starting empty")
			return types.NewRegistry(), nil
		}
		return nil, errors.IOFailure(err, "read", s.path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return types.NewRegistry(), nil
	}

	reg, format, parseErr := s.parse(data)
	if parseErr != nil {
		if errors.IsErrorCode(parseErr, errors.ErrSchema) && errors.GetErrorDetails(parseErr)["newer"] == true {
			return nil, parseErr
		}
		backup, backupErr := s.backupCorrupt()
		if backupErr != nil {
			s.logger.Error().Err(backupErr).Str("path", s.path).Msg("Could not preserve unreadable registry")
			return nil, parseErr
		}
		s.logger.Warn().Err(parseErr).Str("backup", backup).Msg("Unreadable registry moved aside, starting empty")
		return types.NewRegistry(), nil
	}

	if format != "current" || reg.FormatVersion < types.FormatVersion {
		s.logger.Info().
			Str("from", format).
			Int("fromVersion", reg.FormatVersion).
			Int("mods", len(reg.Mods)).
			Int("skinMods", len(reg.SkinMods)).
			Msg("Migrating registry to current format")
		reg.FormatVersion = types.FormatVersion
		if err := s.Save(reg); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (s *Store) parse(data []byte) (*types.Registry, string, error) {
	var failures []string
	for _, p := range parsers {
		reg, err := p.parse(data, s.now())
		if err == nil {
			if reg.FormatVersion > types.FormatVersion {
				return nil, p.name, errors.Newf(errors.ErrSchema,
					"registry %s has format_version %d, newer than supported %d", s.path, reg.FormatVersion, types.FormatVersion).
					WithDetail(errors.DetailPath, s.path).
					WithDetail("newer", true)
			}
			return reg, p.name, nil
		}
		s.logger.Debug().Err(err).Str("format", p.name).Msg("Registry format did not match")
		failures = append(failures, fmt.Sprintf("%s: %v", p.name, err))
	}
	return nil, "", errors.Newf(errors.ErrSchema, "registry %s matches no known format (%s)", s.path, strings.Join(failures, "; ")).
		WithDetail(errors.DetailPath, s.path)
}

func (s *Store) backupCorrupt() (string, error) {
	backup := fmt.Sprintf("%s.corrupt-%d", s.path, s.now().Unix())
	if err := s.fs.Rename(s.path, backup); err != nil {
		return "", errors.IOFailure(err, "rename", s.path)
	}
	return backup, nil
}

// Save writes reg in the current schema, replacing the file atomically
func (s *Store) Save(reg *types.Registry) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode registry")
	}
	if err := filesystem.WriteFileAtomic(s.fs, s.path, data, 0644); err != nil {
		return errors.IOFailure(err, "write", s.path)
	}
	s.logger.Debug().Str("path", s.path).Int("mods", len(reg.Mods)).Int("skinMods", len(reg.SkinMods)).Msg("Registry saved")
	return nil
}

// Update runs fn on the loaded registry and saves the result, holding the
// lock for this registry file throughout. Nothing is saved if fn fails.
func (s *Store) Update(ctx context.Context, fn func(reg *types.Registry) error) error {
	unlock, err := lockPath(ctx, s.path)
	if err != nil {
		return err
	}
	defer unlock()

	reg, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(reg); err != nil {
		return err
	}
	reg.LastUpdated = s.now().Unix()
	return s.Save(reg)
}

// View runs fn on the loaded registry under the same lock as Update
// without saving.
func (s *Store) View(ctx context.Context, fn func(reg *types.Registry) error) error {
	unlock, err := lockPath(ctx, s.path)
	if err != nil {
		return err
	}
	defer unlock()

	reg, err := s.Load()
	if err != nil {
		return err
	}
	return fn(reg)
}

// locks holds one single-slot semaphore per registry path
var locks sync.Map

func lockPath(ctx context.Context, path string) (func(), error) {
	v, _ := locks.LoadOrStore(path, make(chan struct{}, 1))
	sem := v.(chan struct{})
	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), errors.ErrCanceled, "waiting for registry lock")
	}
}
