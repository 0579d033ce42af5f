package browse

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/oakwood-commons/showroom/internal/catalog"
)

func record(name string, cost any, limited bool) *catalog.Record {
	fields := []catalog.Field{{Key: "CarName", Value: name}}
	if cost != nil {
		fields = append(fields, catalog.Field{Key: "Cost", Value: cost})
	}
	if limited {
		fields = append(fields, catalog.Field{Key: "Unobtainable", Value: true})
	}
	return catalog.NewRecord(strings.ToLower(name), fields, catalog.DefaultSchema())
}

func names(records []*catalog.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func fixture() []*catalog.Record {
	return []*catalog.Record{
		record("Porsche 911", 900000.0, false),
		record("Bugatti Chiron", 3000000.0, true),
		record("alfa Romeo", 450000.0, false),
		record("Zonda", nil, true),
		record("Émile Coupe", "1200000", false),
	}
}

func TestDeriveIdentity(t *testing.T) {
	records := fixture()
	got := NewEngine().Derive(records, NewState())
	if diff := cmp.Diff(names(records), names(got)); diff != "" {
		t.Fatalf("identity mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveDoesNotReorderInput(t *testing.T) {
	records := fixture()
	before := names(records)
	s := NewState()
	s.Sort = SortNameAsc
	_ = NewEngine().Derive(records, s)
	assert.Equal(t, before, names(records))
}

func TestDeriveSearch(t *testing.T) {
	records := fixture()
	for _, term := range []string{"o", "ZON", "romeo", "911", "zz", "é"} {
		t.Run(term, func(t *testing.T) {
			s := NewState()
			s.Search = term
			got := NewEngine().Derive(records, s)
			kept := map[*catalog.Record]bool{}
			for _, r := range got {
				kept[r] = true
				assert.Contains(t, strings.ToLower(r.Name), strings.ToLower(term))
			}
			for _, r := range records {
				if !kept[r] {
					assert.NotContains(t, strings.ToLower(r.Name), strings.ToLower(term))
				}
			}
		})
	}
}

func TestDeriveFilterPartition(t *testing.T) {
	records := fixture()
	e := NewEngine()
	s := NewState()

	s.Filter = FilterLimited
	limited := e.Derive(records, s)
	s.Filter = FilterNormal
	normal := e.Derive(records, s)
	s.Filter = FilterAll
	all := e.Derive(records, s)

	assert.Equal(t, []string{"Bugatti Chiron", "Zonda"}, names(limited))
	assert.Equal(t, []string{"Porsche 911", "alfa Romeo", "Émile Coupe"}, names(normal))
	assert.Len(t, all, len(limited)+len(normal))
	for _, r := range limited {
		assert.True(t, r.Limited())
	}
	for _, r := range normal {
		assert.False(t, r.Limited())
	}
}

func TestDeriveFilterAndSearchConjunction(t *testing.T) {
	s := NewState()
	s.Filter = FilterNormal
	s.Search = "o"
	got := NewEngine().Derive(fixture(), s)
	assert.Equal(t, []string{"Porsche 911", "alfa Romeo", "Émile Coupe"}, names(got))

	s.Filter = FilterLimited
	got = NewEngine().Derive(fixture(), s)
	assert.Equal(t, []string{"Bugatti Chiron", "Zonda"}, names(got))
}

func TestDeriveSortName(t *testing.T) {
	e := NewEngine()
	s := NewState()
	s.Sort = SortNameAsc
	asc := e.Derive(fixture(), s)
	// Root collation ignores case and folds accents at the primary level.
	assert.Equal(t, []string{"alfa Romeo", "Bugatti Chiron", "Émile Coupe", "Porsche 911", "Zonda"}, names(asc))
	for i := 1; i < len(asc); i++ {
		assert.LessOrEqual(t, e.CompareNames(asc[i-1].Name, asc[i].Name), 0)
	}

	s.Sort = SortNameDesc
	desc := e.Derive(fixture(), s)
	want := names(asc)
	for i, j := 0, len(want)-1; i < j; i, j = i+1, j-1 {
		want[i], want[j] = want[j], want[i]
	}
	assert.Equal(t, want, names(desc))
}

func TestDeriveSortPrice(t *testing.T) {
	e := NewEngine()
	s := NewState()
	s.Sort = SortPriceAsc
	assert.Equal(t,
		[]string{"Zonda", "alfa Romeo", "Porsche 911", "Émile Coupe", "Bugatti Chiron"},
		names(e.Derive(fixture(), s)))

	s.Sort = SortPriceDesc
	assert.Equal(t,
		[]string{"Bugatti Chiron", "Émile Coupe", "Porsche 911", "alfa Romeo", "Zonda"},
		names(e.Derive(fixture(), s)))
}

func TestDeriveSortPriceIsStable(t *testing.T) {
	records := []*catalog.Record{
		record("First", nil, false),
		record("Second", false, false),
		record("Third", 0.0, false),
	}
	s := NewState()
	s.Sort = SortPriceAsc
	assert.Equal(t, []string{"First", "Second", "Third"}, names(NewEngine().Derive(records, s)))
}

func TestDeriveScenario(t *testing.T) {
	schema := catalog.DefaultSchema()
	alpha := catalog.NewRecord("a", []catalog.Field{{Key: "CarName", Value: "Alpha"}, {Key: "Cost", Value: 1500000.0}}, schema)
	beta := catalog.NewRecord("b", []catalog.Field{{Key: "CarName", Value: "Beta"}, {Key: "Cost", Value: 500000.0}, {Key: "Unobtainable", Value: true}}, schema)
	records := []*catalog.Record{alpha, beta}
	e := NewEngine()

	s := NewState()
	s.Filter = FilterLimited
	assert.Equal(t, []string{"Beta"}, names(e.Derive(records, s)))

	s = NewState()
	s.Sort = SortPriceAsc
	assert.Equal(t, []string{"Beta", "Alpha"}, names(e.Derive(records, s)))

	s = NewState()
	s.Search = "zz"
	assert.Empty(t, e.Derive(records, s))
}

func TestDeriveWithWhere(t *testing.T) {
	e := NewEngine(WithWhere(func(r *catalog.Record) bool { return r.Price() > 800000 }))
	got := e.Derive(fixture(), NewState())
	assert.Equal(t, []string{"Porsche 911", "Bugatti Chiron", "Émile Coupe"}, names(got))
}

func TestDeriveWithLocale(t *testing.T) {
	e := NewEngine(WithLocale(language.Swedish))
	records := []*catalog.Record{record("Öland", nil, false), record("Zebra", nil, false)}
	s := NewState()
	s.Sort = SortNameAsc
	// Swedish sorts Ö after Z.
	assert.Equal(t, []string{"Zebra", "Öland"}, names(e.Derive(records, s)))
}

func TestDeriveLargeDataset(t *testing.T) {
	records := make([]*catalog.Record, 0, 3000)
	for i := 0; i < 3000; i++ {
		records = append(records, record(fmt.Sprintf("Car %04d", i), float64(3000-i), i%3 == 0))
	}
	s := NewState()
	s.Filter = FilterLimited
	s.Sort = SortPriceAsc
	got := NewEngine().Derive(records, s)
	require.Len(t, got, 1000)
	assert.Equal(t, "Car 2997", got[0].Name)
}
