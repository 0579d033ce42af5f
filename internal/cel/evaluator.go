// Package cel compiles --where expressions into record predicates.
//
// An expression sees the record's fields as the map "_" plus the derived
// variables name (string), price (double) and limited (bool):
//
//	_.Cost > 1000000 && !limited
//	name.startsWith("B") || has(_.Rims)
package cel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/decls"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/showroom/internal/browse"
	"github.com/oakwood-commons/showroom/internal/catalog"
)

// Variable names bound for every record.
const (
	VarFields  = "_"
	VarName    = "name"
	VarPrice   = "price"
	VarLimited = "limited"
)

// Evaluator compiles and evaluates CEL expressions over records.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator with the standard extension libraries.
func NewEvaluator() (*Evaluator, error) {
	env, err := newStandardCELEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// GetEnvironment returns the CEL environment for introspection
func (e *Evaluator) GetEnvironment() *cel.Env {
	return e.env
}

// newStandardCELEnv creates the record environment. Additional options can
// extend it (e.g., custom functions).
func newStandardCELEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 9+len(opts))
	allOpts = append(allOpts,
		cel.Variable(VarFields, cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable(VarName, cel.StringType),
		cel.Variable(VarPrice, cel.DoubleType),
		cel.Variable(VarLimited, cel.BoolType),
		cel.CrossTypeNumericComparisons(true),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

// Filter is a compiled boolean expression.
type Filter struct {
	expr string
	prg  cel.Program
}

// Compile parses and type-checks expr. The expression must yield a bool.
func (e *Evaluator) Compile(expr string) (*Filter, error) {
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(types.BoolType) && !out.IsExactType(types.DynType) {
		return nil, fmt.Errorf("compilation error: %q yields %s, want bool", expr, out)
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expr
}

// Match evaluates the filter for rec. A missing field is an evaluation
// error, which callers treat as no match.
func (f *Filter) Match(rec *catalog.Record) (bool, error) {
	out, _, err := f.prg.Eval(Activation(rec))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	b, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("eval error: %q yields %s, want bool", f.expr, out.Type())
	}
	return bool(b), nil
}

// Predicate adapts the filter for the browse engine. Records the
// expression cannot evaluate are excluded and logged at V(1).
func (f *Filter) Predicate(lgr logr.Logger) browse.Predicate {
	return func(rec *catalog.Record) bool {
		ok, err := f.Match(rec)
		if err != nil {
			lgr.V(1).Info("where expression skipped record", "name", rec.Name, "error", err.Error())
			return false
		}
		return ok
	}
}

// Activation binds the variables of rec.
func Activation(rec *catalog.Record) map[string]any {
	fields := make(map[string]any, rec.Len())
	for k, v := range rec.Fields() {
		fields[k] = v
	}
	return map[string]any{
		VarFields:  fields,
		VarName:    rec.Name,
		VarPrice:   rec.Price(),
		VarLimited: rec.Limited(),
	}
}

// Evaluate evaluates any expression against rec and converts the result
// to Go values.
func (e *Evaluator) Evaluate(expr string, rec *catalog.Record) (any, error) {
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	result, _, err := prg.Eval(Activation(rec))
	if err != nil {
		return nil, fmt.Errorf("eval error: %w", err)
	}
	return ToGo(result), nil
}

// ToGo converts CEL values to Go values recursively.
func ToGo(val ref.Val) any {
	if val == nil {
		return nil
	}
	switch v := val.(type) {
	case types.Bool:
		return bool(v)
	case types.Int:
		return int64(v)
	case types.Uint:
		return uint64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bytes:
		return []byte(v)
	}

	valuer, ok := val.(interface{ Value() any })
	if !ok {
		return val
	}
	switch inner := valuer.Value().(type) {
	case []ref.Val:
		out := make([]any, len(inner))
		for i, elem := range inner {
			out[i] = ToGo(elem)
		}
		return out
	case map[ref.Val]ref.Val:
		out := make(map[string]any, len(inner))
		for k, v := range inner {
			out[fmt.Sprint(ToGo(k))] = ToGo(v)
		}
		return out
	default:
		return inner
	}
}

// Examples returns sample --where expressions.
func Examples() []string {
	return []string{
		`_.Cost >= 1000000`,
		`limited && price < 500000`,
		`name.lowerAscii().contains("gt")`,
		`has(_.Rims)`,
		`_.Color.R > 200`,
	}
}

// DiscoverFunctions lists the functions usable in --where expressions as
// "name() - usage" lines, sorted.
func DiscoverFunctions() ([]string, error) {
	env, err := newStandardCELEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return DiscoverFunctionsFromEnv(env), nil
}

// isOperator filters out internal operator-style declarations.
func isOperator(name string) bool {
	if strings.HasPrefix(name, "@") {
		return true
	}
	if strings.HasPrefix(name, "_") && strings.HasSuffix(name, "_") {
		return true
	}
	return name == "!_" || name == "-_" || name == "_[_]" || name == "_?_:_"
}

func typeLabel(t *types.Type) string {
	if t == nil {
		return "any"
	}
	if name := t.DeclaredTypeName(); name != "" {
		return name
	}
	return "any"
}

func formatParams(params []*types.Type) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = typeLabel(p)
	}
	return strings.Join(parts, ", ")
}

// usageFromOverload builds a human-readable usage string from a function overload.
func usageFromOverload(name string, o *decls.OverloadDecl) string {
	params := o.ArgTypes()
	call := name + "(" + formatParams(params) + ")"
	if o.IsMemberFunction() && len(params) > 0 {
		call = typeLabel(params[0]) + "." + name + "(" + formatParams(params[1:]) + ")"
	}
	if r := o.ResultType(); r != nil {
		call += " -> " + typeLabel(r)
	}
	return call
}

// DiscoverFunctionsFromEnv returns one entry per distinct overload plus
// the macros of env.
func DiscoverFunctionsFromEnv(env *cel.Env) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, 100)
	add := func(entry string) {
		if !seen[entry] {
			seen[entry] = true
			out = append(out, entry)
		}
	}
	for _, fn := range env.Functions() {
		if isOperator(fn.Name()) {
			continue
		}
		for _, o := range fn.OverloadDecls() {
			add(fn.Name() + "() - " + usageFromOverload(fn.Name(), o))
		}
	}
	for _, m := range env.Macros() {
		if !isOperator(m.Function()) {
			add(m.Function() + "() - macro")
		}
	}
	sort.Strings(out)
	return out
}
