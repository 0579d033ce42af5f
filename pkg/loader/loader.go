// Package loader reads a showroom dataset and turns it into catalog records.
//
// A dataset is one JSON object mapping a source key to a record object. The
// object's insertion order is the base ordering of the catalog, so decoding
// goes through an ordered map instead of map[string]any.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-logr/logr"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/oakwood-commons/showroom/internal/catalog"
)

// DefaultSource is the dataset location used when none is given.
const DefaultSource = "docs/database/cars_combined.json"

// ErrNotObject is returned when the payload is valid JSON but not an object.
var ErrNotObject = errors.New("dataset is not a JSON object")

// Loader fetches and decodes datasets.
type Loader struct {
	client *http.Client
	schema catalog.Schema
	stdin  io.Reader
	log    logr.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		l.client = c
	}
}

// WithSchema sets the designated field names.
func WithSchema(s catalog.Schema) Option {
	return func(l *Loader) {
		l.schema = s.WithDefaults()
	}
}

// WithStdin sets the reader used for the "-" source.
func WithStdin(r io.Reader) Option {
	return func(l *Loader) {
		l.stdin = r
	}
}

// WithLogger sets the logger used for skipped entries and fetch details.
func WithLogger(lgr logr.Logger) Option {
	return func(l *Loader) {
		l.log = lgr
	}
}

// New creates a Loader with defaults.
func New(opts ...Option) *Loader {
	l := &Loader{
		client: &http.Client{Timeout: 30 * time.Second},
		schema: catalog.DefaultSchema(),
		stdin:  os.Stdin,
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile reads and decodes a dataset file with the default schema.
func LoadFile(path string) (*catalog.Dataset, error) {
	return New().Load(context.Background(), path)
}

// Load reads source and decodes it. Any failure fails the whole load; there
// is no partial result.
func (l *Loader) Load(ctx context.Context, source string) (*catalog.Dataset, error) {
	if source == "" {
		source = DefaultSource
	}
	start := time.Now()
	data, err := l.Read(ctx, source)
	if err != nil {
		return nil, err
	}
	records, err := l.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}
	l.log.V(1).Info("dataset loaded", "source", source, "records", len(records), "duration", time.Since(start).String())
	return &catalog.Dataset{Source: source, Schema: l.schema, Records: records}, nil
}

// Read returns the raw bytes of source: "-" for stdin, an http(s) URL, or a
// file path.
func (l *Loader) Read(ctx context.Context, source string) ([]byte, error) {
	switch {
	case source == "-":
		data, err := io.ReadAll(l.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	case IsURL(source):
		return l.fetch(ctx, source)
	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		return data, nil
	}
}

// IsURL reports whether source is an http or https URL.
func IsURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch dataset: %s: status %d", url, resp.StatusCode)
	}
	return body, nil
}

// Decode parses a dataset payload into records in insertion order. Entries
// whose value is not an object are skipped.
func (l *Loader) Decode(data []byte) ([]*catalog.Record, error) {
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, err
	}

	records := make([]*catalog.Record, 0, doc.Len())
	for pair := doc.Oldest(); pair != nil; pair = pair.Next() {
		fields, err := decodeFields(pair.Value)
		if err != nil {
			l.log.V(1).Info("skipping dataset entry", "key", pair.Key, "reason", err.Error())
			continue
		}
		records = append(records, catalog.NewRecord(pair.Key, fields, l.schema))
	}
	return records, nil
}

// Document is a dataset kept as raw entries in source order. It is the
// representation used when a dataset has to be rewritten.
type Document = orderedmap.OrderedMap[string, json.RawMessage]

// DecodeDocument validates data and splits it into ordered raw entries.
func DecodeDocument(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		var probe any
		err := json.Unmarshal(trimmed, &probe)
		if err == nil {
			err = errors.New("malformed document")
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotObject
	}
	doc := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(trimmed, doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return doc, nil
}

// EncodeDocument writes doc back as indented JSON, keeping key order.
func EncodeDocument(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}
	return append(data, '\n'), nil
}

// Entry is one dataset entry with raw field values in source order.
// Nested values are never decoded, so rewriting an entry keeps them
// byte for byte.
type Entry = orderedmap.OrderedMap[string, json.RawMessage]

// DecodeEntry splits one raw entry into its fields. It fails when the
// entry is not an object.
func DecodeEntry(raw json.RawMessage) (*Entry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotObject
	}
	entry := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(trimmed, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// EncodeEntry re-encodes an entry as a raw value.
func EncodeEntry(entry *Entry) (json.RawMessage, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

func decodeFields(raw json.RawMessage) ([]catalog.Field, error) {
	entry, err := DecodeEntry(raw)
	if err != nil {
		return nil, err
	}
	fields := make([]catalog.Field, 0, entry.Len())
	for pair := entry.Oldest(); pair != nil; pair = pair.Next() {
		var v any
		if err := json.Unmarshal(pair.Value, &v); err != nil {
			return nil, fmt.Errorf("field %s: %w", pair.Key, err)
		}
		fields = append(fields, catalog.Field{Key: pair.Key, Value: v, Raw: pair.Value})
	}
	return fields, nil
}
