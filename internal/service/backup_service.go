package service

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/astanton/gradebook/pkg/errors"
	"github.com/astanton/gradebook/pkg/storage"
)

type backupStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	List() ([]storage.FileInfo, error)
	Path(filename string) string
}

// BackupService snapshots the database file and restores it from snapshots.
// Restore must run before the database connection is opened, or after it has
// been closed.
type BackupService struct {
	dbPath  string
	backups backupStorage
	logger  *zap.Logger
}

// NewBackupService constructs a BackupService for the database at dbPath.
func NewBackupService(dbPath string, backups backupStorage, logger *zap.Logger) *BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupService{dbPath: dbPath, backups: backups, logger: logger}
}

// Create copies the database file into the backup directory and returns the
// snapshot name. An empty name defaults to "snapshot".
func (s *BackupService) Create(name string) (string, error) {
	if name == "" {
		name = "snapshot"
	}
	filename := snapshotFilename(name)
	path, err := s.copyFile(s.dbPath, filename)
	if err != nil {
		return "", err
	}
	s.logger.Info("backup created", zap.String("path", path))
	return filename, nil
}

// List returns the stored snapshots, newest first.
func (s *BackupService) List() ([]storage.FileInfo, error) {
	infos, err := s.backups.List()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to list backups")
	}
	return infos, nil
}

// Restore replaces the database file with the named snapshot. A safety
// snapshot of the current database is taken first so a bad restore can be
// undone.
func (s *BackupService) Restore(snapshot string) error {
	source, err := s.backups.Open(snapshot)
	if err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("backup %q not found", snapshot))
	}
	defer source.Close() //nolint:errcheck

	if _, err := s.copyFile(s.dbPath, snapshotFilename("pre-restore")); err != nil {
		return err
	}

	target, err := os.Create(s.dbPath)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to open database file")
	}
	defer target.Close() //nolint:errcheck
	if _, err := io.Copy(target, source); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to restore database file")
	}
	s.logger.Info("backup restored", zap.String("snapshot", snapshot))
	return nil
}

func (s *BackupService) copyFile(source, filename string) (string, error) {
	file, err := os.Open(source)
	if err != nil {
		if os.IsNotExist(err) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "database file not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to read database file")
	}
	defer file.Close() //nolint:errcheck

	path, err := s.backups.SaveStream(filename, file)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Exit, "failed to write backup")
	}
	return path, nil
}

func snapshotFilename(name string) string {
	timestamp := time.Now().UTC().Format("20060102-150405")
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s-%s-%s.db", sanitizeFilename(name), timestamp, suffix)
}
