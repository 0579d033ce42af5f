package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/showroom/internal/catalog"
	"github.com/oakwood-commons/showroom/internal/pager"
	"github.com/oakwood-commons/showroom/internal/render"
)

func sampleRecords() []*catalog.Record {
	schema := catalog.DefaultSchema()
	return []*catalog.Record{
		catalog.NewRecord("a", []catalog.Field{
			{Key: "CarName", Value: "Alpha"},
			{Key: "Cost", Value: 1500000.0},
			{Key: "Color", Value: map[string]any{"R": 255.0, "G": 0.0, "B": 0.0}},
		}, schema),
		catalog.NewRecord("b", []catalog.Field{
			{Key: "CarName", Value: "Beta"},
			{Key: "Cost", Value: 500000.0},
			{Key: "Unobtainable", Value: true},
			{Key: "Rims", Value: "rbxassetid://42"},
		}, schema),
	}
}

func sampleView() View {
	records := sampleRecords()
	return View{
		Records:  records,
		Page:     pager.Paginate(len(records), 1, pager.DefaultSize),
		Renderer: render.New(catalog.DefaultSchema()),
	}
}

func TestStringify(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"hello", "hello"},
		{"line1\nline2", "line1\\nline2"},
		{"a\r\nb", "a\\nb"},
		{nil, ""},
		{true, "true"},
		{42, "42"},
		{1.5, "1.5"},
		{map[string]any{"a": 1.0}, `{"a":1}`},
		{[]any{1.0, "x"}, `[1,"x"]`},
	}
	for _, c := range cases {
		if got := Stringify(c.in); got != c.want {
			t.Fatalf("Stringify(%#v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected no truncation, got %q", got)
	}
	got := truncate("this is a long string", 10)
	if got != "this is..." {
		t.Fatalf("expected 'this is...', got %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("expected 'ab', got %q", got)
	}
	if got := truncate("日本語テキスト", 7); lipgloss.Width(got) > 7 {
		t.Fatalf("wide runes exceed width: %q", got)
	}
	if got := truncate("anything", 0); got != "anything" {
		t.Fatalf("expected no limit for 0, got %q", got)
	}
}

func TestPad(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Fatalf("padRight must not cut, got %q", got)
	}
	if got := padLeft("ab", 5); got != "   ab" {
		t.Fatalf("padLeft = %q", got)
	}
}

func TestGetTerminalWidthDefault(t *testing.T) {
	if w := getTerminalWidth(); w <= 0 {
		t.Fatalf("expected positive width, got %d", w)
	}
}

func TestFormatTextNoColor(t *testing.T) {
	v := sampleView()
	got := FormatText(v.Renderer.Page(v.Records, v.Page), TextOptions{NoColor: true})
	want := strings.Join([]string{
		"Alpha",
		"  Cost: Rp. 1.500.000",
		"  Color: #ff0000 " + SwatchGlyph,
		"  Limited: No",
		"",
		"Beta",
		"  Cost: Rp. 500.000",
		"  Rims: 42",
		"  Limited: Limited",
		"",
		"(Prev) (Next)",
		"Showing 2 cars",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("unexpected text output:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatTextEmpty(t *testing.T) {
	r := render.New(catalog.DefaultSchema())
	got := FormatText(r.Page(nil, pager.Paginate(0, 1, pager.DefaultSize)), TextOptions{NoColor: true})
	if got != "(Prev) (Next)\nShowing 0 cars\n" {
		t.Fatalf("unexpected empty page: %q", got)
	}
}

func TestFormatTextWidth(t *testing.T) {
	v := sampleView()
	got := FormatText(v.Renderer.Page(v.Records, v.Page), TextOptions{NoColor: true, Width: 12})
	for _, line := range strings.Split(strings.TrimRight(got, "\n"), "\n") {
		if lipgloss.Width(line) > 12 {
			t.Fatalf("line wider than 12 cells: %q", line)
		}
	}
	if !strings.Contains(got, "  Cost: R...") {
		t.Fatalf("expected truncated price line, got:\n%s", got)
	}
}

func TestFormatTextStyled(t *testing.T) {
	v := sampleView()
	got := FormatText(v.Renderer.Page(v.Records, v.Page), TextOptions{})
	if !strings.Contains(got, "Alpha") || !strings.Contains(got, "1.500.000") {
		t.Fatalf("styled output lost content:\n%s", got)
	}
}

func TestImageLine(t *testing.T) {
	n := &render.Node{Kind: render.KindImage, Label: "CarImageUrl", Src: "p.png", Fallback: true}
	if got := ImageLine(n, true); got != "CarImageUrl: p.png (placeholder)" {
		t.Fatalf("ImageLine = %q", got)
	}
	n.Fallback = false
	if got := ImageLine(n, false); !strings.Contains(got, "p.png") {
		t.Fatalf("styled ImageLine lost the source: %q", got)
	}
}

func TestFormatTable(t *testing.T) {
	v := sampleView()
	got := FormatTable(Columns, TableRows(v.Records, v.Renderer), TableOptions{NoColor: true, TotalWidth: 100, StartIndex: 50})
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines:\n%s", len(lines), got)
	}
	if fields := strings.Fields(lines[0]); strings.Join(fields, " ") != "# Name Price Color Rims Limited" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "51") || !strings.Contains(lines[2], "Alpha") || !strings.Contains(lines[2], "Rp. 1.500.000") {
		t.Fatalf("unexpected first row %q", lines[2])
	}
	if !strings.Contains(lines[3], "42") || !strings.Contains(lines[3], "Limited") {
		t.Fatalf("unexpected second row %q", lines[3])
	}
}

func TestFormatTableShrinks(t *testing.T) {
	v := sampleView()
	got := FormatTable(Columns, TableRows(v.Records, v.Renderer), TableOptions{NoColor: true, TotalWidth: 40})
	for _, line := range strings.Split(strings.TrimRight(got, "\n"), "\n") {
		if lipgloss.Width(line) > 40 {
			t.Fatalf("line wider than 40 cells: %q", line)
		}
	}
	if FormatTable(Columns, nil, TableOptions{}) != "" {
		t.Fatal("expected empty output without rows")
	}
}

func TestFormatTree(t *testing.T) {
	v := sampleView()
	got := FormatTree(v.Renderer.Page(v.Records, v.Page), TreeOptions{})
	for _, want := range []string{"page 1", "Alpha", "Cost: Rp. 1.500.000", "Limited: Limited", "Showing 2 cars"} {
		if !strings.Contains(got, want) {
			t.Fatalf("tree missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(FormatTree(v.Renderer.Page(v.Records, v.Page), TreeOptions{NoValues: true}), "1.500.000") {
		t.Fatal("NoValues tree still shows values")
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != OutputText {
		t.Fatalf("empty format: %v %v", f, err)
	}
	if f, err := ParseFormat("JSON"); err != nil || f != OutputJSON {
		t.Fatalf("JSON format: %v %v", f, err)
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleView(), Options{Format: OutputJSON}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	var doc struct {
		Page       int    `json:"page"`
		TotalPages int    `json:"total_pages"`
		Total      int    `json:"total"`
		Showing    string `json:"showing"`
		Items      []struct {
			Name    string         `json:"name"`
			Limited bool           `json:"limited"`
			Fields  map[string]any `json:"fields"`
		} `json:"items"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if doc.Page != 1 || doc.TotalPages != 1 || doc.Total != 2 || doc.Showing != "Showing 2 cars" {
		t.Fatalf("unexpected header: %+v", doc)
	}
	if len(doc.Items) != 2 || doc.Items[0].Name != "Alpha" || doc.Items[0].Limited || !doc.Items[1].Limited {
		t.Fatalf("unexpected items: %+v", doc.Items)
	}
	if strings.Index(out, `"CarName"`) > strings.Index(out, `"Cost"`) || strings.Index(out, `"Cost"`) > strings.Index(out, `"Color"`) {
		t.Fatalf("fields lost source order:\n%s", out)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleView(), Options{Format: OutputYAML}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "showing: Showing 2 cars") {
		t.Fatalf("missing status:\n%s", out)
	}
	if strings.Index(out, "CarName:") > strings.Index(out, "Cost:") {
		t.Fatalf("fields lost source order:\n%s", out)
	}
	var back map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
}

func nestedView() View {
	records := []*catalog.Record{
		catalog.NewRecord("a", []catalog.Field{
			{Key: "CarName", Value: "Alpha", Raw: json.RawMessage(`"Alpha"`)},
			{
				Key:   "Engine",
				Value: map[string]any{"zeta": 1.0, "alpha": []any{"y", "b"}},
				Raw:   json.RawMessage(`{"zeta": 1, "alpha": ["y", "b"]}`),
			},
		}, catalog.DefaultSchema()),
	}
	return View{
		Records:  records,
		Page:     pager.Paginate(len(records), 1, pager.DefaultSize),
		Renderer: render.New(catalog.DefaultSchema()),
	}
}

func TestWriteKeepsNestedOrder(t *testing.T) {
	for _, format := range []Format{OutputJSON, OutputYAML} {
		var buf bytes.Buffer
		if err := Write(&buf, nestedView(), Options{Format: format}); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		if strings.Index(out, "zeta") > strings.Index(out, "alpha") {
			t.Fatalf("%s: nested keys lost source order:\n%s", format, out)
		}
		if format == OutputYAML && strings.Contains(out, "{") {
			t.Fatalf("yaml kept flow style:\n%s", out)
		}
	}

	var buf bytes.Buffer
	if err := Write(&buf, nestedView(), Options{Format: OutputJSON}); err != nil {
		t.Fatal(err)
	}
	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	field := doc.Items[0].Fields[1]
	if field.Key != "Engine" || render.FieldJSON(field) != `{"zeta":1,"alpha":["y","b"]}` {
		t.Fatalf("decoded field %+v", field)
	}
}

func TestWriteTOML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleView(), Options{Format: OutputTOML}); err != nil {
		t.Fatal(err)
	}
	var back struct {
		Page  int `toml:"page"`
		Items []struct {
			Name   string         `toml:"name"`
			Fields map[string]any `toml:"fields"`
		} `toml:"items"`
	}
	if err := toml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("invalid toml: %v\n%s", err, buf.String())
	}
	if back.Page != 1 || len(back.Items) != 2 || back.Items[0].Name != "Alpha" {
		t.Fatalf("unexpected toml document: %+v", back)
	}
	if back.Items[0].Fields["Cost"] != int64(1500000) {
		t.Fatalf("expected integral cost, got %#v", back.Items[0].Fields["Cost"])
	}
}

func TestWriteTableIncludesStatus(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleView(), Options{Format: OutputTable, NoColor: true, Width: 100}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "(Prev) (Next)\nShowing 2 cars\n") {
		t.Fatalf("unexpected table footer:\n%s", buf.String())
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, sampleView(), Options{Format: "xml"})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestFormatYAMLLiteralBlock(t *testing.T) {
	out, err := FormatYAML(map[string]any{"note": "line1\nline2"}, YAMLFormatOptions{LiteralBlockStrings: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "note: |") {
		t.Fatalf("expected literal block, got:\n%s", out)
	}
}
