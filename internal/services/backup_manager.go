package services

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const backupTimeFormat = "20060102-150405"

// BackupManager snapshots the store file before an ingestion run and prunes
// old snapshots afterwards.
type BackupManager struct {
	storePath string
	backupDir string
	keep      int
}

// NewBackupManager creates a manager for the store file at storePath. An
// empty backupDir places snapshots next to the store file; keep is the
// number of snapshots surviving pruning, zero keeps all of them.
func NewBackupManager(storePath, backupDir string, keep int) *BackupManager {
	if backupDir == "" {
		backupDir = filepath.Dir(storePath)
	}
	return &BackupManager{
		storePath: storePath,
		backupDir: backupDir,
		keep:      keep,
	}
}

// Create copies the store file to a timestamped snapshot and returns its
// path. A store file that does not exist yet is skipped without error, the
// first run has nothing to protect.
func (m *BackupManager) Create() (string, error) {

	if _, err := os.Stat(m.storePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Infof("store file %v does not exist yet, skipping backup", m.storePath)
			return "", nil
		}
		return "", errors.Wrap(err, "failed to stat store file")
	}

	if err := os.MkdirAll(m.backupDir, 0755); err != nil {
		return "", errors.Wrap(err, "failed to create backup directory")
	}

	name := filepath.Base(m.storePath) + "." + time.Now().Format(backupTimeFormat) + ".bak"
	target := filepath.Join(m.backupDir, name)

	if err := copyFile(m.storePath, target); err != nil {
		return "", errors.Wrapf(err, "failed to back up store to %v", target)
	}

	log.Infof("store backed up to %v", target)
	m.prune()

	return target, nil
}

// prune removes the oldest snapshots beyond the retention count. Failures
// here are logged and never fail the run.
func (m *BackupManager) prune() {

	if m.keep <= 0 {
		return
	}

	snapshots, err := m.snapshots()
	if err != nil {
		log.Warnf("failed to list backups in %v: %v", m.backupDir, err)
		return
	}
	if len(snapshots) <= m.keep {
		return
	}

	// timestamped names sort chronologically
	sort.Sort(sort.Reverse(sort.StringSlice(snapshots)))

	for _, old := range snapshots[m.keep:] {
		if err := os.Remove(old); err != nil {
			log.Warnf("failed to remove old backup %v: %v", old, err)
		} else {
			log.Infof("removed old backup %v", old)
		}
	}
}

func (m *BackupManager) snapshots() ([]string, error) {
	pattern := filepath.Join(m.backupDir, filepath.Base(m.storePath)+".*.bak")
	return filepath.Glob(pattern)
}

func copyFile(source, target string) error {

	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(target)
		return err
	}

	if err = out.Sync(); err != nil {
		_ = out.Close()
		_ = os.Remove(target)
		return err
	}

	return out.Close()
}
