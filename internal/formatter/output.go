package formatter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pelletier/go-toml/v2"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/showroom/internal/catalog"
	"github.com/oakwood-commons/showroom/internal/pager"
	"github.com/oakwood-commons/showroom/internal/render"
)

// Format names an output format.
type Format string

const (
	OutputText  Format = "text"
	OutputTable Format = "table"
	OutputTree  Format = "tree"
	OutputJSON  Format = "json"
	OutputYAML  Format = "yaml"
	OutputTOML  Format = "toml"
)

// Formats lists the accepted output formats.
var Formats = []Format{OutputText, OutputTable, OutputTree, OutputJSON, OutputYAML, OutputTOML}

// ErrUnknownFormat is returned for an output format not in Formats.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat validates s. An empty string is text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return OutputText, nil
	}
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("%w %q: valid values are %s", ErrUnknownFormat, s, strings.Join(names, ", "))
}

// View is one page ready for output.
type View struct {
	// Records is the whole derived sequence; Page selects from it.
	Records  []*catalog.Record
	Page     pager.Page
	Renderer *render.Renderer
}

// Options controls Write.
type Options struct {
	Format  Format
	NoColor bool
	// Width limits text and table output. 0 detects the terminal width for
	// tables and leaves text lines untruncated.
	Width int
}

// Write renders v in the requested format.
func Write(w io.Writer, v View, opts Options) error {
	var out string
	switch opts.Format {
	case OutputText, "":
		out = FormatText(v.Renderer.Page(v.Records, v.Page), TextOptions{NoColor: opts.NoColor, Width: opts.Width})
	case OutputTable:
		visible := pager.Slice(v.Records, v.Page)
		out = FormatTable(Columns, TableRows(visible, v.Renderer), TableOptions{
			NoColor:    opts.NoColor,
			TotalWidth: opts.Width,
			StartIndex: v.Page.Start,
		})
		controls := render.Controls(v.Page)
		out += ControlsLine(controls, opts.NoColor) + "\n"
		out += style(separatorStyle, v.Renderer.Status(v.Page).Text, opts.NoColor) + "\n"
	case OutputTree:
		out = FormatTree(v.Renderer.Page(v.Records, v.Page), TreeOptions{})
	case OutputJSON:
		data, err := json.MarshalIndent(NewDocument(v), "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		out = string(data) + "\n"
	case OutputYAML:
		s, err := FormatYAML(NewDocument(v), YAMLFormatOptions{LiteralBlockStrings: true})
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		out = s
	case OutputTOML:
		data, err := toml.Marshal(NewDocument(v).tomlDocument())
		if err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		out = string(data)
	default:
		_, err := ParseFormat(string(opts.Format))
		return err
	}
	_, err := io.WriteString(w, out)
	return err
}

// Document is the machine-readable form of a page.
type Document struct {
	Page       int    `json:"page" yaml:"page"`
	TotalPages int    `json:"total_pages" yaml:"total_pages"`
	Total      int    `json:"total" yaml:"total"`
	Showing    string `json:"showing" yaml:"showing"`
	Items      []Item `json:"items" yaml:"items"`
}

// Item is one visible record with its raw fields.
type Item struct {
	Name    string `json:"name" yaml:"name"`
	Limited bool   `json:"limited" yaml:"limited"`
	Fields  Fields `json:"fields" yaml:"fields"`
}

// NewDocument builds the document for the visible page of v.
func NewDocument(v View) Document {
	visible := pager.Slice(v.Records, v.Page)
	doc := Document{
		Page:       v.Page.Number,
		TotalPages: v.Page.TotalPages,
		Total:      v.Page.Total,
		Showing:    v.Page.Status(v.Renderer.Noun),
		Items:      make([]Item, 0, len(visible)),
	}
	for _, rec := range visible {
		item := Item{Name: rec.Name, Limited: rec.Limited()}
		for f := range rec.Entries() {
			item.Fields = append(item.Fields, f)
		}
		doc.Items = append(doc.Items, item)
	}
	return doc
}

// Fields keeps record fields in source order when encoded. Fields with
// raw JSON are written from it, so nested objects keep their order too.
type Fields []catalog.Field

// MarshalJSON implements json.Marshaler.
func (f Fields) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, any]()
	for _, field := range f {
		if len(field.Raw) > 0 {
			om.Set(field.Key, field.Raw)
			continue
		}
		om.Set(field.Key, field.Value)
	}
	return json.Marshal(om)
}

// UnmarshalJSON implements json.Unmarshaler, keeping the object key order.
func (f *Fields) UnmarshalJSON(data []byte) error {
	om := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, om); err != nil {
		return err
	}
	out := make(Fields, 0, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		var v any
		if err := json.Unmarshal(pair.Value, &v); err != nil {
			return fmt.Errorf("field %s: %w", pair.Key, err)
		}
		out = append(out, catalog.Field{Key: pair.Key, Value: v, Raw: pair.Value})
	}
	*f = out
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (f Fields) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, field := range f {
		value, err := yamlValue(field)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Key, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: field.Key}, value)
	}
	return node, nil
}

// yamlValue builds the node of one field. Raw JSON parses as flow YAML with
// mappings in source order; it is restyled as block YAML.
func yamlValue(field catalog.Field) (*yaml.Node, error) {
	if len(field.Raw) > 0 {
		var doc yaml.Node
		if err := yaml.Unmarshal(field.Raw, &doc); err == nil && len(doc.Content) == 1 {
			n := doc.Content[0]
			clearStyle(n)
			return n, nil
		}
	}
	value := &yaml.Node{}
	if err := value.Encode(field.Value); err != nil {
		return nil, err
	}
	return value, nil
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}

type tomlItem struct {
	Name    string         `toml:"name"`
	Limited bool           `toml:"limited"`
	Fields  map[string]any `toml:"fields"`
}

type tomlDoc struct {
	Page       int        `toml:"page"`
	TotalPages int        `toml:"total_pages"`
	Total      int        `toml:"total"`
	Showing    string     `toml:"showing"`
	Items      []tomlItem `toml:"items"`
}

// tomlDocument converts d for TOML, which has no null and orders table
// keys itself. Null fields are dropped.
func (d Document) tomlDocument() tomlDoc {
	out := tomlDoc{Page: d.Page, TotalPages: d.TotalPages, Total: d.Total, Showing: d.Showing}
	for _, it := range d.Items {
		fields := make(map[string]any, len(it.Fields))
		for _, f := range it.Fields {
			if v := tomlValue(f.Value); v != nil {
				fields[f.Key] = v
			}
		}
		out.Items = append(out.Items, tomlItem{Name: it.Name, Limited: it.Limited, Fields: fields})
	}
	return out
}

func tomlValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return int64(t)
		}
		return t
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, x := range t {
			if x = tomlValue(x); x != nil {
				m[k] = x
			}
		}
		return m
	case []any:
		s := make([]any, 0, len(t))
		for _, x := range t {
			if x = tomlValue(x); x != nil {
				s = append(s, x)
			}
		}
		return s
	default:
		return v
	}
}
