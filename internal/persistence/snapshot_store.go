package persistence

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KanoeWallet/Kanoe/internal/persistence/interfaces"
	"github.com/KanoeWallet/Kanoe/internal/structures"
)

// FileSnapshotStore keeps the snapshot in a single file replaced atomically on write.
type FileSnapshotStore struct {
	path string
}

func NewFileSnapshotStore(path string) *FileSnapshotStore {
	return &FileSnapshotStore{path: path}
}

func (s *FileSnapshotStore) Write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	tmpFile := s.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, s.path)
}

func (s *FileSnapshotStore) Read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (s *FileSnapshotStore) Close() error {
	return nil
}

func NewSnapshotStore(conf *structures.Config) (interfaces.SnapshotStoreInterface, error) {
	switch conf.Persistence.Driver {
	case "", "file":
		return NewFileSnapshotStore(conf.Persistence.FilePath), nil
	case "sqlite":
		return OpenSqliteSnapshotStore(conf.Persistence.FilePath)
	default:
		return nil, fmt.Errorf("unknown persistence driver %q", conf.Persistence.Driver)
	}
}
