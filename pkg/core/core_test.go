package core

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oakwood-commons/showroom/internal/browse"
	"github.com/oakwood-commons/showroom/internal/formatter"
)

const scenario = `{"a": {"CarName":"Alpha","Cost":1500000}, "b": {"CarName":"Beta","Cost":500000,"Unobtainable":true}}`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cars.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return path
}

func TestQueryScenario(t *testing.T) {
	ds, err := LoadFile(writeFile(t, scenario))
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	engine, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	res, err := engine.Query(ds.Records, Query{Sort: "price-asc"})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	visible := res.Visible()
	if len(visible) != 2 || visible[0].Name != "Beta" || visible[1].Name != "Alpha" {
		t.Fatalf("visible = %v, want [Beta Alpha]", visible)
	}

	var buf bytes.Buffer
	if err := engine.Write(&buf, res, formatter.Options{NoColor: true}); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Cost: Rp. 1.500.000", "Limited: Limited", "Showing 2 cars"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestQueryNoMatch(t *testing.T) {
	ds, err := LoadFile(writeFile(t, scenario))
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	engine, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	res, err := engine.Query(ds.Records, Query{Search: "zz"})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if res.Page.Total != 0 || len(res.Visible()) != 0 {
		t.Fatalf("expected empty result, got %d", res.Page.Total)
	}
	if got := res.Page.Status("cars"); got != "Showing 0 cars" {
		t.Fatalf("status = %q", got)
	}
}

func TestPrepare(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	plan, err := engine.Prepare(Query{Search: "gt", Filter: "limited", Sort: "name-desc"})
	if err != nil {
		t.Fatalf("Prepare error: %v", err)
	}
	want := browse.State{Search: "gt", Filter: browse.FilterLimited, Sort: browse.SortNameDesc, Page: 1}
	if plan.State != want {
		t.Fatalf("State = %+v, want %+v", plan.State, want)
	}

	tests := []struct {
		name string
		q    Query
		want error
	}{
		{name: "filter", q: Query{Filter: "rare"}, want: browse.ErrUnknownFilter},
		{name: "sort", q: Query{Sort: "random"}, want: browse.ErrUnknownSort},
		{name: "page", q: Query{Page: -1}, want: ErrInvalidPage},
		{name: "where", q: Query{Where: "_.Cost >"}, want: ErrInvalidWhere},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := engine.Prepare(tt.q); !errors.Is(err, tt.want) {
				t.Fatalf("Prepare error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPageClamped(t *testing.T) {
	var b strings.Builder
	b.WriteString("{")
	for i := range 75 {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `"k%d":{"CarName":"Car %02d"}`, i, i)
	}
	b.WriteString("}")
	ds, err := LoadFile(writeFile(t, b.String()))
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	engine, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	res, err := engine.Query(ds.Records, Query{Page: 7})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if res.Page.Number != 2 || len(res.Visible()) != 25 {
		t.Fatalf("page = %+v", res.Page)
	}
}
