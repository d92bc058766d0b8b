package transient

import (
	"context"
	"sync"
	"time"

	"dmapi/internal/domain"
)

type memoryEntry struct {
	versions []domain.Version
	expires  time.Time
}

// MemoryManager is the cacheless-deployment and test implementation.
type MemoryManager struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[int64]memoryEntry
}

func NewMemoryManager(ttl time.Duration) *MemoryManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryManager{
		ttl:     ttl,
		entries: make(map[int64]memoryEntry),
	}
}

func (m *MemoryManager) GetVersions(ctx context.Context, downloadID int64) ([]domain.Version, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[downloadID]
	if !ok || time.Now().After(entry.expires) {
		delete(m.entries, downloadID)
		return nil, false
	}

	out := make([]domain.Version, len(entry.versions))
	copy(out, entry.versions)
	return out, true
}

func (m *MemoryManager) SetVersions(ctx context.Context, downloadID int64, versions []domain.Version) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]domain.Version, len(versions))
	copy(stored, versions)
	m.entries[downloadID] = memoryEntry{
		versions: stored,
		expires:  time.Now().Add(m.ttl),
	}
}

func (m *MemoryManager) ClearVersionsTransient(ctx context.Context, downloadID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, downloadID)
	return nil
}
