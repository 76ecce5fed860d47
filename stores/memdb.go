package stores

import (
	"fmt"

	memdb "github.com/hashicorp/go-memdb"
	"github.com/on-the-ground/memo_ive_go/environment"
	"github.com/on-the-ground/memo_ive_go/value"
)

const (
	memdbTable = "values"
	memdbIndex = "id"
)

var (
	_ environment.Store = (*MemDB)(nil)
	_ environment.Sizer = (*MemDB)(nil)
)

type record struct {
	Name  string
	Value value.Value
}

// MemDB is an environment.Store kept in a go-memdb table.
// Every mutation is its own committed transaction.
type MemDB struct {
	db *memdb.MemDB
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			memdbTable: {
				Name: memdbTable,
				Indexes: map[string]*memdb.IndexSchema{
					memdbIndex: {
						Name:    memdbIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Name"},
					},
				},
			},
		},
	}
}

func NewMemDB() (*MemDB, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, err
	}
	return &MemDB{db: db}, nil
}

func (m *MemDB) Load(name string) (value.Value, bool) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(memdbTable, memdbIndex, name)
	if err != nil {
		panic(fmt.Errorf("memdb load %q: %w", name, err))
	}
	if raw == nil {
		return nil, false
	}
	return raw.(*record).Value, true
}

// Store panics on an empty name, which the id index cannot hold.
func (m *MemDB) Store(name string, v value.Value) {
	txn := m.db.Txn(true)
	defer txn.Abort()

	if err := txn.Insert(memdbTable, &record{Name: name, Value: v}); err != nil {
		panic(fmt.Errorf("memdb store %q: %w", name, err))
	}
	txn.Commit()
}

func (m *MemDB) Delete(name string) {
	txn := m.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll(memdbTable, memdbIndex, name); err != nil {
		panic(fmt.Errorf("memdb delete %q: %w", name, err))
	}
	txn.Commit()
}

func (m *MemDB) Clear() {
	txn := m.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll(memdbTable, memdbIndex+"_prefix", ""); err != nil {
		panic(fmt.Errorf("memdb clear: %w", err))
	}
	txn.Commit()
}

func (m *MemDB) Len() int {
	txn := m.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(memdbTable, memdbIndex+"_prefix", "")
	if err != nil {
		panic(fmt.Errorf("memdb len: %w", err))
	}
	n := 0
	for obj := it.Next(); obj != nil; obj = it.Next() {
		n++
	}
	return n
}
