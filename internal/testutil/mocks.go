package testutil

import (
	"sync"
	"time"

	"github.com/KanoeWallet/Kanoe/internal/models"
	"github.com/KanoeWallet/Kanoe/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at the given level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// identity
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}

// MockSnapshotStore implements interfaces.SnapshotStoreInterface in memory.
type MockSnapshotStore struct {
	mu       sync.Mutex
	Data     []byte
	Writes   int
	WriteErr error
	ReadErr  error
	Closed   bool
}

func (m *MockSnapshotStore) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Data = append([]byte(nil), data...)
	m.Writes++
	return nil
}

func (m *MockSnapshotStore) Read() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	return m.Data, nil
}

func (m *MockSnapshotStore) Close() error {
	m.Closed = true
	return nil
}

// MockSnapshotter implements interfaces.SnapshotterInterface.
type MockSnapshotter struct {
	mu         sync.Mutex
	State      *models.Storage
	Restored   []*models.Storage
	RestoreErr error
}

func (m *MockSnapshotter) Snapshot() *models.Storage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.State == nil {
		return &models.Storage{Version: models.StorageVersion}
	}
	return m.State
}

func (m *MockSnapshotter) Restore(storage *models.Storage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RestoreErr != nil {
		return m.RestoreErr
	}
	m.Restored = append(m.Restored, storage)
	return nil
}

// MockMetrics implements providers.MetricsProviderInterface and records calls.
type MockMetrics struct {
	mu              sync.Mutex
	Requests        map[string]int
	Operations      map[string]int
	CacheHits       map[string]int
	CacheMisses     map[string]int
	Persisted       int
	SnapshotBytes   int
	StateRegistered bool
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Requests == nil {
		m.Requests = make(map[string]int)
	}
	m.Requests[endpoint]++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncCacheHits(family string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CacheHits == nil {
		m.CacheHits = make(map[string]int)
	}
	m.CacheHits[family]++
}

func (m *MockMetrics) IncCacheMisses(family string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CacheMisses == nil {
		m.CacheMisses = make(map[string]int)
	}
	m.CacheMisses[family]++
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}

func (m *MockMetrics) SetSnapshotSize(bytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SnapshotBytes = bytes
}

func (m *MockMetrics) IncOperationsTotal(operation, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Operations == nil {
		m.Operations = make(map[string]int)
	}
	m.Operations[operation+":"+outcome]++
}

func (m *MockMetrics) ObserveOperationDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) RegisterStateGauges(_ providers.StateSourceInterface) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StateRegistered = true
}

// OperationCount returns how many times operation finished with outcome.
func (m *MockMetrics) OperationCount(operation, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Operations[operation+":"+outcome]
}
