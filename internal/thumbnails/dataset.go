package thumbnails

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/oakwood-commons/showroom/internal/catalog"
	"github.com/oakwood-commons/showroom/pkg/loader"
	"github.com/oakwood-commons/showroom/pkg/logger"
)

// ErrNoAssets is returned when a dataset holds no asset references.
var ErrNoAssets = errors.New("no asset references found")

var assetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`rbxassetid://(\d+)`),
	regexp.MustCompile(`roblox\.com/asset/\?id=(\d+)`),
}

// ExtractAssetID returns the numeric asset id of an rbxassetid:// or
// roblox.com/asset/?id= reference.
func ExtractAssetID(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	for _, re := range assetPatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// target pairs a reference field with the field receiving its URL.
type target struct {
	ref string
	url string
}

func targets(schema catalog.Schema) []target {
	schema = schema.WithDefaults()
	return []target{
		{ref: schema.CarAsset, url: schema.CarImage},
		{ref: schema.Rims, url: schema.RimsImage},
	}
}

// Collect returns the unique asset ids referenced by doc in numeric order.
func Collect(doc *loader.Document, schema catalog.Schema) ([]string, error) {
	seen := make(map[string]struct{})
	for pair := doc.Oldest(); pair != nil; pair = pair.Next() {
		entry, err := loader.DecodeEntry(pair.Value)
		if err != nil {
			continue
		}
		for _, t := range targets(schema) {
			if id, ok := entryAssetID(entry, t.ref); ok {
				seen[id] = struct{}{}
			}
		}
	}
	if len(seen) == 0 {
		return nil, ErrNoAssets
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, compareIDs)
	return ids, nil
}

// entryAssetID reads the asset reference stored under key.
func entryAssetID(entry *loader.Entry, key string) (string, bool) {
	raw, ok := entry.Get(key)
	if !ok {
		return "", false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return ExtractAssetID(v)
}

// Apply writes resolved URLs into doc. Failed assets are written as null;
// assets absent from results leave the entry untouched. Only the URL keys
// are rewritten; every other value keeps its source text. It returns the
// number of entries changed.
func Apply(doc *loader.Document, schema catalog.Schema, results Results) (int, error) {
	updated := 0
	for pair := doc.Oldest(); pair != nil; pair = pair.Next() {
		entry, err := loader.DecodeEntry(pair.Value)
		if err != nil {
			continue
		}
		changed := false
		for _, t := range targets(schema) {
			id, ok := entryAssetID(entry, t.ref)
			if !ok {
				continue
			}
			u, ok := results[id]
			if !ok {
				continue
			}
			value, err := json.Marshal(u)
			if err != nil {
				return updated, fmt.Errorf("encode url of %s: %w", id, err)
			}
			entry.Set(t.url, value)
			changed = true
		}
		if !changed {
			continue
		}
		raw, err := loader.EncodeEntry(entry)
		if err != nil {
			return updated, fmt.Errorf("encode entry %q: %w", pair.Key, err)
		}
		pair.Value = raw
		updated++
	}
	return updated, nil
}

// Summary reports one Update run.
type Summary struct {
	Assets  int
	Fetched int
	Failed  int
	Updated int
}

// Update resolves every asset referenced by the dataset at path and
// rewrites the file in place with the image URLs.
func Update(ctx context.Context, c *Client, path string, schema catalog.Schema) (Summary, error) {
	lgr := logger.FromContext(ctx)
	var sum Summary

	data, err := os.ReadFile(path)
	if err != nil {
		return sum, fmt.Errorf("read dataset: %w", err)
	}
	doc, err := loader.DecodeDocument(data)
	if err != nil {
		return sum, fmt.Errorf("decode %s: %w", path, err)
	}
	ids, err := Collect(doc, schema)
	if err != nil {
		return sum, err
	}
	sum.Assets = len(ids)
	lgr.Info("fetching thumbnails", "entries", doc.Len(), "assets", len(ids))

	results, err := c.Fetch(ctx, ids)
	if err != nil {
		return sum, err
	}
	sum.Fetched = results.Fetched()
	sum.Failed = results.Failed()

	if sum.Updated, err = Apply(doc, schema, results); err != nil {
		return sum, err
	}
	out, err := loader.EncodeDocument(doc)
	if err != nil {
		return sum, err
	}
	if err := writeFile(path, out); err != nil {
		return sum, err
	}
	lgr.Info("dataset updated", "path", path, "fetched", sum.Fetched, "failed", sum.Failed, "entries", sum.Updated)
	return sum, nil
}

// writeFile replaces path through a temp file in the same directory.
func writeFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

// compareIDs orders numeric ids by value.
func compareIDs(a, b string) int {
	x, errA := strconv.ParseUint(a, 10, 64)
	y, errB := strconv.ParseUint(b, 10, 64)
	switch {
	case errA == nil && errB == nil && x < y:
		return -1
	case errA == nil && errB == nil && x > y:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
