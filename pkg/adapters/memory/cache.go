// Package memory provides an in-process ReportCache, the default when
// no Redis is configured.
package memory

import (
	"context"
	"sync"

	"synod/pkg/ports"
)

// Cache implements ports.ReportCache in process memory. Safe for
// concurrent use by the fan-out analysts.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]string)}
}

func key(instrument, role string) string {
	return instrument + "\x00" + role
}

// Get retrieves a cached report.
func (c *Cache) Get(_ context.Context, instrument, role string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	report, ok := c.entries[key(instrument, role)]
	if !ok {
		return "", ports.ErrReportNotFound
	}
	return report, nil
}

// Put stores a report.
func (c *Cache) Put(_ context.Context, instrument, role, report string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key(instrument, role)] = report
	return nil
}

// Delete removes a cached report.
func (c *Cache) Delete(_ context.Context, instrument, role string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key(instrument, role))
	return nil
}
