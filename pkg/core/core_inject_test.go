package core

import (
	"errors"
	"testing"

	"github.com/oakwood-commons/showroom/internal/browse"
	"github.com/oakwood-commons/showroom/internal/catalog"
)

type fakeCompiler struct {
	exprs []string
	pred  browse.Predicate
	err   error
}

func (f *fakeCompiler) Compile(expr string) (browse.Predicate, error) {
	f.exprs = append(f.exprs, expr)
	return f.pred, f.err
}

func record(key, name string) *catalog.Record {
	return catalog.NewRecord(key, []catalog.Field{{Key: "CarName", Value: name}}, catalog.DefaultSchema())
}

func TestEngineUsesInjectedCompiler(t *testing.T) {
	fc := &fakeCompiler{pred: func(r *catalog.Record) bool { return r.Name == "Beta" }}
	engine, err := New(WithCompiler(fc))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	res, err := engine.Query([]*catalog.Record{record("a", "Alpha"), record("b", "Beta")}, Query{Where: "anything"})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(fc.exprs) != 1 || fc.exprs[0] != "anything" {
		t.Fatalf("compiler calls = %v", fc.exprs)
	}
	if len(res.Records) != 1 || res.Records[0].Name != "Beta" {
		t.Fatalf("records = %v", res.Records)
	}
}

func TestEngineSkipsCompilerWithoutWhere(t *testing.T) {
	fc := &fakeCompiler{err: errors.New("must not be called")}
	engine, err := New(WithCompiler(fc))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := engine.Prepare(Query{Where: "  "}); err != nil {
		t.Fatalf("Prepare error: %v", err)
	}
	if len(fc.exprs) != 0 {
		t.Fatalf("compiler called with %v", fc.exprs)
	}
}

func TestEngineWrapsCompileError(t *testing.T) {
	engine, err := New(WithCompiler(&fakeCompiler{err: errors.New("syntax")}))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := engine.Prepare(Query{Where: "x"}); !errors.Is(err, ErrInvalidWhere) {
		t.Fatalf("Prepare error = %v, want ErrInvalidWhere", err)
	}
}
