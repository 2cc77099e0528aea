package domain

import (
	"fmt"
	"sort"
)

// Context is an immutable snapshot of the shared pipeline state.
// Stages receive a Context by value and can never mutate the version
// the store handed out; every merge produces a new version.
type Context struct {
	values  map[string]any
	version int
}

// Value returns the value stored under key, if present.
func (c Context) Value(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// String returns the value under key as a string, or "" if absent or
// not a string.
func (c Context) String(key string) string {
	if v, ok := c.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Has reports whether key is present.
func (c Context) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Keys returns the sorted set of populated field names.
func (c Context) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Version identifies this snapshot. It increments with every merge.
func (c Context) Version() int {
	return c.version
}

// Update is one stage's contribution to a merge: the producing stage
// name plus the fields it wrote.
type Update struct {
	Stage  string
	Values map[string]any
}

// Store owns the evolving context for a single pipeline run. The driver
// sequences all merges, so the store needs no locking: snapshots are
// immutable and merges never overlap in time.
type Store struct {
	current Context
}

// NewStore creates a store seeded with the given initial fields.
func NewStore(seed map[string]any) *Store {
	values := make(map[string]any, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &Store{current: Context{values: values, version: 1}}
}

// Snapshot returns the current immutable context.
func (s *Store) Snapshot() Context {
	return s.current
}

// Merge applies one or more updates atomically and returns the new
// context. Later updates in the same call must not repeat a key written
// by an earlier one: two stages of a single fan-out group writing the
// same field is a contract violation, and the merge fails rather than
// silently picking a winner. A later Merge call overwriting a key from
// a previous version is fine (total-overwrite-per-key).
func (s *Store) Merge(updates ...Update) (Context, error) {
	next := make(map[string]any, len(s.current.values)+len(updates))
	for k, v := range s.current.values {
		next[k] = v
	}

	written := make(map[string]string) // key -> stage that wrote it in this merge
	for _, u := range updates {
		for _, key := range sortedKeys(u.Values) {
			if prev, dup := written[key]; dup {
				return Context{}, &ContractError{
					Stage:  u.Stage,
					Reason: fmt.Sprintf("field %q already written by stage %q in the same merge", key, prev),
				}
			}
			written[key] = u.Stage
			next[key] = u.Values[key]
		}
	}

	s.current = Context{values: next, version: s.current.version + 1}
	return s.current, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
