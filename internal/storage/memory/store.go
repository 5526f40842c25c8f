// Package memory implements an in-process transactional key-value store
// satisfying the internal/storage contract, modeled directly on the redb
// API surface observed in the original Rust implementation: begin_read /
// begin_write, open_table, get/insert/remove/iter/range, explicit commit.
// A single binary semaphore stands in for redb's MVCC isolation — write
// transactions are serialized and see a consistent snapshot; a read
// transaction waits for any open write transaction to finish before it
// copies its snapshot, and never blocks behind a writer once begun.
package memory

import (
	"context"
	"sort"

	"github.com/issuecraft/issuecraft/internal/storage"
)

// Store is the in-memory backend. The zero value is not usable; use New.
type Store struct {
	mu     chan struct{} // binary semaphore doubling as the write lock
	tables map[string]map[string]string
}

// New returns an empty Store.
func New() *Store {
	mu := make(chan struct{}, 1)
	mu <- struct{}{}
	return &Store{mu: mu, tables: make(map[string]map[string]string)}
}

// Snapshot returns a deep copy of the store's current table set, suitable
// for persisting to disk between process invocations (the CLI's --db
// flag, §6).
func (s *Store) Snapshot() map[string]map[string]string {
	<-s.mu
	snap := cloneTables(s.tables)
	s.mu <- struct{}{}
	return snap
}

// Restore replaces the store's table set with tables, such as one
// produced by a prior Snapshot. It takes ownership of tables rather than
// cloning it, since the only caller constructs it fresh from a decoded
// snapshot file.
func (s *Store) Restore(tables map[string]map[string]string) error {
	if tables == nil {
		tables = make(map[string]map[string]string)
	}
	<-s.mu
	s.tables = tables
	s.mu <- struct{}{}
	return nil
}

func cloneTables(src map[string]map[string]string) map[string]map[string]string {
	dst := make(map[string]map[string]string, len(src))
	for name, rows := range src {
		dstRows := make(map[string]string, len(rows))
		for k, v := range rows {
			dstRows[k] = v
		}
		dst[name] = dstRows
	}
	return dst
}

// BeginRead returns a transaction observing a point-in-time snapshot of
// the store. It waits until no write transaction is open, since a writer
// holds the semaphore from BeginWrite until Commit or Abort.
func (s *Store) BeginRead(ctx context.Context) (storage.ReadTx, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	<-s.mu
	snapshot := cloneTables(s.tables)
	s.mu <- struct{}{}
	return &readTx{tables: snapshot}, nil
}

// BeginWrite acquires exclusive access and returns a mutable transaction.
// The caller must call Commit to make writes durable, or Abort to discard
// them — Go has no scope-exit destructor to make abort-on-drop implicit,
// so it is a named method instead (§4.E).
func (s *Store) BeginWrite(ctx context.Context) (storage.WriteTx, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.mu:
	}
	working := cloneTables(s.tables)
	return &writeTx{store: s, working: working}, nil
}

type readTx struct {
	tables map[string]map[string]string
}

func (tx *readTx) OpenTable(ctx context.Context, name string) (storage.Table, error) {
	return &readTable{rows: tx.tables[name]}, nil
}

type readTable struct {
	rows map[string]string
}

func (t *readTable) Get(key string) (string, bool) {
	v, ok := t.rows[key]
	return v, ok
}

func (t *readTable) Insert(key, value string) {
	panic("storage/memory: write attempted on a read transaction")
}

func (t *readTable) Remove(key string) {
	panic("storage/memory: write attempted on a read transaction")
}

func (t *readTable) Iter() []storage.KeyValue {
	return sortedEntries(t.rows)
}

func (t *readTable) Range(low, high string) []storage.KeyValue {
	return rangeEntries(t.rows, low, high)
}

type writeTx struct {
	store    *Store
	working  map[string]map[string]string
	finished bool
}

func (tx *writeTx) OpenTable(ctx context.Context, name string) (storage.Table, error) {
	return &writeTable{tx: tx, name: name}, nil
}

// Commit installs this transaction's working set as the store's durable
// state and releases the write lock.
func (tx *writeTx) Commit(ctx context.Context) error {
	if tx.finished {
		return nil
	}
	tx.store.tables = tx.working
	tx.finished = true
	tx.store.mu <- struct{}{}
	return nil
}

// Abort discards this transaction's working set without installing it.
func (tx *writeTx) Abort() {
	if tx.finished {
		return
	}
	tx.finished = true
	tx.store.mu <- struct{}{}
}

type writeTable struct {
	tx   *writeTx
	name string
}

func (t *writeTable) rows() map[string]string {
	return t.tx.working[t.name]
}

func (t *writeTable) Get(key string) (string, bool) {
	v, ok := t.rows()[key]
	return v, ok
}

// Insert writes value under key, creating the table lazily on first
// write (§4.E "tables are created on first write").
func (t *writeTable) Insert(key, value string) {
	rows := t.tx.working[t.name]
	if rows == nil {
		rows = make(map[string]string)
		t.tx.working[t.name] = rows
	}
	rows[key] = value
}

func (t *writeTable) Remove(key string) {
	rows := t.tx.working[t.name]
	if rows == nil {
		return
	}
	delete(rows, key)
}

func (t *writeTable) Iter() []storage.KeyValue {
	return sortedEntries(t.rows())
}

func (t *writeTable) Range(low, high string) []storage.KeyValue {
	return rangeEntries(t.rows(), low, high)
}

func sortedEntries(rows map[string]string) []storage.KeyValue {
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]storage.KeyValue, len(keys))
	for i, k := range keys {
		out[i] = storage.KeyValue{Key: k, Value: rows[k]}
	}
	return out
}

func rangeEntries(rows map[string]string, low, high string) []storage.KeyValue {
	all := sortedEntries(rows)
	var out []storage.KeyValue
	for _, kv := range all {
		if kv.Key >= low && kv.Key < high {
			out = append(out, kv)
		}
	}
	return out
}
