package core

import (
	"reflect"
	"testing"
)

func TestMapColumns(t *testing.T) {
	tests := []struct {
		name        string
		columns     []string
		mapping     ColumnMapping
		want        []string
		wantRenamed int
	}{
		{
			name:        "renames mapped columns",
			columns:     []string{"timestamp", "note"},
			mapping:     ColumnMapping{"timestamp": "record_date", "note": "notes"},
			want:        []string{"record_date", "notes"},
			wantRenamed: 2,
		},
		{
			name:        "unmapped columns pass through",
			columns:     []string{"timestamp", "pond"},
			mapping:     ColumnMapping{"timestamp": "record_date"},
			want:        []string{"record_date", "pond"},
			wantRenamed: 1,
		},
		{
			name:        "empty target ignored",
			columns:     []string{"feed_size"},
			mapping:     ColumnMapping{"": "feed_size", "feed_size": ""},
			want:        []string{"feed_size"},
			wantRenamed: 0,
		},
		{
			name:        "single pass does not chain renames",
			columns:     []string{"a", "b"},
			mapping:     ColumnMapping{"a": "b", "b": "c"},
			want:        []string{"b", "c"},
			wantRenamed: 2,
		},
		{
			name:        "nil mapping is identity",
			columns:     []string{"x", "y"},
			mapping:     nil,
			want:        []string{"x", "y"},
			wantRenamed: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := rawTable(t, tt.columns)

			got, report := MapColumns(table, tt.mapping)

			if !reflect.DeepEqual(got.ColumnNames(), tt.want) {
				t.Errorf("columns = %v, want %v", got.ColumnNames(), tt.want)
			}
			if len(report.Renamed) != tt.wantRenamed {
				t.Errorf("renamed = %v, want %d entries", report.Renamed, tt.wantRenamed)
			}
		})
	}
}

func TestMapColumns_CollapsesSynonyms(t *testing.T) {
	table := rawTable(t, []string{"feed_eaten(gram)", "0", "pond"},
		[]string{"120", "", "A"},
		[]string{"", "95", "B"},
		[]string{"80", "70", "C"},
	)

	got, report := MapColumns(table, ColumnMapping{
		"feed_eaten(gram)": "feed_eaten",
		"0":                "feed_eaten",
	})

	if want := []string{"feed_eaten", "pond"}; !reflect.DeepEqual(got.ColumnNames(), want) {
		t.Fatalf("columns = %v, want %v", got.ColumnNames(), want)
	}
	if !reflect.DeepEqual(report.Collapsed, []string{"0"}) {
		t.Errorf("collapsed = %v", report.Collapsed)
	}

	col, _ := got.Column("feed_eaten")
	want := []string{"120", "95", "80"}
	for i, w := range want {
		if col.Display(i) != w {
			t.Errorf("row %d = %q, want %q", i, col.Display(i), w)
		}
	}
}

func TestMapColumns_ZeroColumns(t *testing.T) {
	table := EmptyTable()

	got, report := MapColumns(table, ColumnMapping{"a": "b"})

	if got != table {
		t.Error("expected the input table back unchanged")
	}
	if report.Warning == "" {
		t.Error("expected a warning for a table without columns")
	}
}

func TestMapColumns_DisjointOrderIndependent(t *testing.T) {
	table := rawTable(t, []string{"a", "b", "c"})
	m1 := ColumnMapping{"a": "x", "c": "z"}
	m2 := ColumnMapping{"c": "z", "a": "x"}

	got1, _ := MapColumns(table, m1)
	got2, _ := MapColumns(table, m2)

	if !reflect.DeepEqual(got1.ColumnNames(), got2.ColumnNames()) {
		t.Errorf("%v != %v", got1.ColumnNames(), got2.ColumnNames())
	}
	if !reflect.DeepEqual(table.ColumnNames(), []string{"a", "b", "c"}) {
		t.Error("input table was modified")
	}
}
