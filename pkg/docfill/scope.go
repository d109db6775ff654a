package docfill

import (
	"fmt"
	"sort"
	"strings"
)

// DataValueMap is a read-only collection of values keyed by normalized key
type DataValueMap interface {
	// Value looks up key case-insensitively
	Value(key string) (DataValue, bool)
	// Values returns all values sorted by key
	Values() []DataValue
}

// DataTableMap is a read-only collection of tables keyed by normalized name
type DataTableMap interface {
	// Table looks up name case-insensitively
	Table(name string) (*DataTable, bool)
	// Tables returns all tables sorted by name
	Tables() []*DataTable
}

// valueSet implements the value half of a scope
type valueSet struct {
	byKey map[string]DataValue
}

// AddValue adds v to the scope. A key may only be added once.
func (s *valueSet) AddValue(v DataValue) error {
	if v.IsZero() {
		return fmt.Errorf("cannot add an unconstructed data value")
	}
	if s.byKey == nil {
		s.byKey = make(map[string]DataValue)
	}
	if _, exists := s.byKey[v.key]; exists {
		return &DuplicateKeyError{Key: v.key}
	}
	s.byKey[v.key] = v
	return nil
}

// AddValues adds vs in order and stops at the first error
func (s *valueSet) AddValues(vs ...DataValue) error {
	for _, v := range vs {
		if err := s.AddValue(v); err != nil {
			return err
		}
	}
	return nil
}

// AddText constructs a plain value and adds it
func (s *valueSet) AddText(key, text string, opts ...ValueOption) error {
	v, err := NewDataValue(key, text, opts...)
	if err != nil {
		return err
	}
	return s.AddValue(v)
}

// AddExtended constructs an extended value and adds it
func (s *valueSet) AddExtended(key string, ext ExtendedValue) error {
	v, err := NewExtendedValue(key, ext)
	if err != nil {
		return err
	}
	return s.AddValue(v)
}

// AddInterceptor adds a value computed by fn at resolution time
func (s *valueSet) AddInterceptor(key string, fn InterceptorFunc) error {
	v, err := Intercept(key, fn)
	if err != nil {
		return err
	}
	return s.AddValue(v)
}

func (s *valueSet) Value(key string) (DataValue, bool) {
	v, ok := s.byKey[upperCase(key)]
	return v, ok
}

func (s *valueSet) Values() []DataValue {
	out := make([]DataValue, 0, len(s.byKey))
	for _, v := range s.byKey {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

// tableSet implements the table half of a scope
type tableSet struct {
	byName map[string]*DataTable
}

// AddTable adds t to the scope. Table names are unique regardless of case.
func (s *tableSet) AddTable(t *DataTable) error {
	if t == nil {
		return fmt.Errorf("cannot add a nil data table")
	}
	if s.byName == nil {
		s.byName = make(map[string]*DataTable)
	}
	if _, exists := s.byName[t.name]; exists {
		return &DuplicateTableError{Name: t.name}
	}
	s.byName[t.name] = t
	return nil
}

func (s *tableSet) Table(name string) (*DataTable, bool) {
	t, ok := s.byName[normalizeTableName(name)]
	return t, ok
}

func (s *tableSet) Tables() []*DataTable {
	out := make([]*DataTable, 0, len(s.byName))
	for _, t := range s.byName {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// DataPage is the root scope of one generated document
type DataPage struct {
	valueSet
	tableSet
}

// NewDataPage creates an empty page
func NewDataPage() *DataPage {
	return &DataPage{}
}

// DataTable is a named, ordered list of rows that fills a repeating table
// region in the template
type DataTable struct {
	name string
	rows []*DataTableRow
}

// NewDataTable creates an empty table. The name is trimmed and upper-cased.
func NewDataTable(name string) (*DataTable, error) {
	n := normalizeTableName(name)
	if n == "" {
		return nil, ErrEmptyTableName
	}
	return &DataTable{name: n}, nil
}

// Name returns the normalized table name
func (t *DataTable) Name() string { return t.name }

// NewRow appends an empty row and returns it
func (t *DataTable) NewRow() *DataTableRow {
	row := &DataTableRow{}
	t.rows = append(t.rows, row)
	return row
}

// AddRow appends row
func (t *DataTable) AddRow(row *DataTableRow) {
	if row != nil {
		t.rows = append(t.rows, row)
	}
}

// Rows returns the rows in insertion order
func (t *DataTable) Rows() []*DataTableRow {
	return t.rows
}

func (t *DataTable) Len() int { return len(t.rows) }

// DataTableRow is one row of a DataTable. It holds values and nested tables.
type DataTableRow struct {
	valueSet
	tableSet
}

// NewDataTableRow creates a detached row for use with AddRow
func NewDataTableRow() *DataTableRow {
	return &DataTableRow{}
}

func normalizeTableName(name string) string {
	return upperCase(strings.TrimSpace(name))
}

// scope is anything that contributes values and tables to resolution
type scope interface {
	DataValueMap
	DataTableMap
}

var emptyScope scope = NewDataPage()

// scopeChain links the scopes visible at a point in the template, nearest first
type scopeChain struct {
	scope  scope
	parent *scopeChain
}

func newScopeChain(s scope) *scopeChain {
	if s == nil {
		s = emptyScope
	}
	return &scopeChain{scope: s}
}

func (c *scopeChain) push(s scope) *scopeChain {
	return &scopeChain{scope: s, parent: c}
}

// lookup returns the value for key and the scope it was found in
func (c *scopeChain) lookup(key string) (DataValue, DataValueMap, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		if v, ok := cur.scope.Value(key); ok {
			return v, cur.scope, true
		}
	}
	return DataValue{}, nil, false
}

func (c *scopeChain) table(name string) (*DataTable, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		if t, ok := cur.scope.Table(name); ok {
			return t, true
		}
	}
	return nil, false
}

// keys returns every key visible through the chain
func (c *scopeChain) keys() []string {
	seen := make(map[string]bool)
	var out []string
	for cur := c; cur != nil; cur = cur.parent {
		for _, v := range cur.scope.Values() {
			if !seen[v.key] {
				seen[v.key] = true
				out = append(out, v.key)
			}
		}
	}
	return out
}
