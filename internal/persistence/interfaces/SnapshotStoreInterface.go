package interfaces

import "github.com/KanoeWallet/Kanoe/internal/models"

// SnapshotStoreInterface keeps the latest encoded snapshot. Read returns nil
// data and no error when nothing was written yet.
type SnapshotStoreInterface interface {
	Write(data []byte) error
	Read() ([]byte, error)
	Close() error
}

type SnapshotterInterface interface {
	Snapshot() *models.Storage
	Restore(storage *models.Storage) error
}
