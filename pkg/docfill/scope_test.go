package docfill

import (
	"errors"
	"testing"
)

func TestDuplicateKeyRejected(t *testing.T) {
	page := NewDataPage()
	if err := page.AddText("name", "a"); err != nil {
		t.Fatal(err)
	}
	err := page.AddText("NAME", "b")
	var dup *DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("AddText() error = %v, want DuplicateKeyError", err)
	}
	if dup.Key != "NAME" {
		t.Errorf("DuplicateKeyError.Key = %q", dup.Key)
	}
	if v, _ := page.Value("name"); v.Text() != "a" {
		t.Errorf("first value was replaced: %q", v.Text())
	}
}

func TestDuplicateTableRejected(t *testing.T) {
	tests := []struct {
		name  string
		scope interface{ AddTable(*DataTable) error }
	}{
		{"page", NewDataPage()},
		{"row", NewDataTableRow()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.scope.AddTable(mustTable(t, "T1")); err != nil {
				t.Fatal(err)
			}
			err := tt.scope.AddTable(mustTable(t, "t1"))
			var dup *DuplicateTableError
			if !errors.As(err, &dup) {
				t.Fatalf("AddTable() error = %v, want DuplicateTableError", err)
			}
		})
	}
}

func TestNewDataTable(t *testing.T) {
	dt, err := NewDataTable("  Order Items ")
	if err != nil {
		t.Fatal(err)
	}
	if dt.Name() != "ORDER ITEMS" {
		t.Errorf("Name() = %q", dt.Name())
	}
	if _, err := NewDataTable("  "); !errors.Is(err, ErrEmptyTableName) {
		t.Errorf("NewDataTable(blank) error = %v", err)
	}

	first := dt.NewRow()
	second := NewDataTableRow()
	dt.AddRow(second)
	dt.AddRow(nil)
	if dt.Len() != 2 || dt.Rows()[0] != first || dt.Rows()[1] != second {
		t.Error("rows not kept in insertion order")
	}
}

func TestValuesSorted(t *testing.T) {
	page := newPage(t, "zz", "1", "aa", "2", "mm", "3")
	var keys []string
	for _, v := range page.Values() {
		keys = append(keys, v.Key())
	}
	if !equalStrings(keys, []string{"AA", "MM", "ZZ"}) {
		t.Errorf("Values() keys = %v", keys)
	}
}

func TestScopeChainPrecedence(t *testing.T) {
	page := newPage(t, "name", "page", "only_page", "p")
	outer := NewDataTableRow()
	outer.AddText("name", "outer")
	outer.AddText("only_outer", "o")
	inner := NewDataTableRow()
	inner.AddText("name", "inner")

	chain := newScopeChain(page).push(outer).push(inner)

	tests := []struct {
		key       string
		want      string
		wantScope DataValueMap
	}{
		{"name", "inner", inner},
		{"only_outer", "o", outer},
		{"ONLY_PAGE", "p", page},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v, found, ok := chain.lookup(tt.key)
			if !ok {
				t.Fatalf("lookup(%q) missed", tt.key)
			}
			if v.Text() != tt.want {
				t.Errorf("lookup(%q) = %q, want %q", tt.key, v.Text(), tt.want)
			}
			if found != tt.wantScope {
				t.Errorf("lookup(%q) found in the wrong scope", tt.key)
			}
		})
	}

	if _, _, ok := chain.lookup("missing"); ok {
		t.Error("lookup(missing) reported a hit")
	}
	if got := len(chain.keys()); got != 3 {
		t.Errorf("keys() = %d entries, want 3", got)
	}
}
