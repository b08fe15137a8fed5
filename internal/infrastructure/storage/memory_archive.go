package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	appreconciliation "github.com/erp/reconciliation/internal/application/reconciliation"
)

var _ appreconciliation.AuditSink = (*MemoryAuditArchive)(nil)

// MemoryAuditArchive keeps archived audit records in process memory.
// The server uses it in development when object storage is disabled.
type MemoryAuditArchive struct {
	mu      sync.RWMutex
	prefix  string
	objects map[string][]byte
}

// NewMemoryAuditArchive creates an empty archive
func NewMemoryAuditArchive(prefix string) *MemoryAuditArchive {
	return &MemoryAuditArchive{
		prefix:  normalizePrefix(prefix),
		objects: make(map[string][]byte),
	}
}

// Name identifies the sink in logs and errors
func (m *MemoryAuditArchive) Name() string {
	return "memory-archive"
}

// Write stores the record under the same key S3AuditArchive would use
func (m *MemoryAuditArchive) Write(_ context.Context, record appreconciliation.AuditRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	m.mu.Lock()
	m.objects[m.prefix+record.Key()] = data
	m.mu.Unlock()
	return nil
}

// Read returns the record stored under key
func (m *MemoryAuditArchive) Read(_ context.Context, key string) (*appreconciliation.AuditRecord, error) {
	m.mu.RLock()
	data, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("audit object %s not found", key)
	}
	var record appreconciliation.AuditRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return &record, nil
}

// Keys returns the stored keys in sorted order
func (m *MemoryAuditArchive) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
