package persistence

import (
	"fmt"
	"time"

	"github.com/KanoeWallet/Kanoe/internal/models"
	"github.com/KanoeWallet/Kanoe/internal/persistence/interfaces"
	"github.com/KanoeWallet/Kanoe/internal/providers"
	json "github.com/goccy/go-json"
)

// FileManager encodes engine snapshots as compressed JSON and hands them to a store.
type FileManager struct {
	state      interfaces.SnapshotterInterface
	store      interfaces.SnapshotStoreInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewFileManager(compressor interfaces.CompressorInterface, store interfaces.SnapshotStoreInterface, state interfaces.SnapshotterInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *FileManager {
	return &FileManager{
		state:      state,
		store:      store,
		compressor: compressor,
		logger:     logger,
		metrics:    metrics,
	}
}

func (f *FileManager) Save() error {
	start := time.Now()
	storage := f.state.Snapshot()

	jsonData, err := json.Marshal(storage)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}
	if err := f.store.Write(data); err != nil {
		return err
	}

	f.metrics.SetSnapshotSize(len(data))
	f.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

func (f *FileManager) Load() error {
	data, err := f.store.Read()
	if err != nil {
		return err
	}
	if data == nil {
		f.logger.Infof(providers.TypeApp, "No snapshot found, starting with empty state")
		return nil
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var storage models.Storage
	if err := json.Unmarshal(decompressed, &storage); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if storage.Version == 0 {
		return fmt.Errorf("decode snapshot: missing storage version")
	}
	return f.state.Restore(&storage)
}

func (f *FileManager) Close() {
	f.compressor.Close()
	if err := f.store.Close(); err != nil {
		f.logger.Errorf(providers.TypeApp, "Error while closing snapshot store: %s", err)
	}
}
