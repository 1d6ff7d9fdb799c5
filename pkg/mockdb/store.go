package mockdb

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the time source used for timestamp columns.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator replaces the UUID generator used on insert.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// Store owns every table of one process. The set of tables is fixed when
// the store is built; their contents change through the query builder or
// through Load and Reset.
type Store struct {
	tables map[string]*Table
	names  []string
	now    func() time.Time
	newID  func() string
}

// Table is one named collection of records.
type Table struct {
	schema TableSchema

	mu   sync.RWMutex
	rows []Record
}

// NewStore builds an empty store with one table per schema.
func NewStore(schemas []TableSchema, opts ...Option) *Store {
	s := &Store{
		tables: make(map[string]*Table, len(schemas)),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, schema := range schemas {
		if _, exists := s.tables[schema.Name]; !exists {
			s.names = append(s.names, schema.Name)
		}
		s.tables[schema.Name] = &Table{schema: schema}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns the named table or an error wrapping ErrUnknownTable.
func (s *Store) Table(name string) (*Table, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, unknownTableError(name)
	}
	return t, nil
}

// TableNames lists the registered tables in registration order.
func (s *Store) TableNames() []string {
	return append([]string(nil), s.names...)
}

// Load replaces the contents of one table.
func (s *Store) Load(name string, rows []Record) error {
	t, err := s.Table(name)
	if err != nil {
		return err
	}
	t.replace(rows)
	return nil
}

// Reset replaces the contents of every table. Tables missing from data
// are emptied. Unknown table names are rejected before anything changes.
func (s *Store) Reset(data map[string][]Record) error {
	for name := range data {
		if _, ok := s.tables[name]; !ok {
			return fmt.Errorf("reset: %w", unknownTableError(name))
		}
	}
	for _, name := range s.names {
		s.tables[name].replace(data[name])
	}
	return nil
}

func (s *Store) timestamp() string {
	return Timestamp(s.now())
}

// Schema returns the table's schema.
func (t *Table) Schema() TableSchema {
	return t.schema
}

// Snapshot returns a deep copy of every row.
func (t *Table) Snapshot() []Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return CopyAll(t.rows)
}

// Len returns the number of stored rows.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

func (t *Table) replace(rows []Record) {
	fresh := make([]Record, len(rows))
	for i, row := range rows {
		if row == nil {
			row = Record{}
		}
		fresh[i] = NormalizeRecord(Copy(row))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = fresh
}
