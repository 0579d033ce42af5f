package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/oakwood-commons/showroom/internal/catalog"
)

// Formatter renders one field into a node. Returning nil drops the field.
type Formatter func(r *Renderer, f catalog.Field) *Node

// formatters returns the dispatch table for the designated fields of s.
// Fields missing from the table are rendered by GenericLine.
func formatters(s catalog.Schema) map[string]Formatter {
	return map[string]Formatter{
		s.Price:     PriceLine,
		s.Color:     ColorLine,
		s.Rims:      RimsLine,
		s.CarImage:  ImageLine,
		s.RimsImage: ImageLine,
	}
}

// GenericLine renders key: <JSON-encoded value>. Strings keep their quotes.
func GenericLine(_ *Renderer, f catalog.Field) *Node {
	return &Node{Kind: KindLine, Label: f.Key, Text: FieldJSON(f)}
}

// FieldJSON encodes the value of f compactly. Objects nested in a field
// decoded from JSON keep their source key order.
func FieldJSON(f catalog.Field) string {
	if len(f.Raw) > 0 {
		var b strings.Builder
		if err := writeOrdered(&b, f.Raw); err == nil {
			return b.String()
		}
	}
	return JSONText(f.Value)
}

// JSONText encodes v the way a generic field line shows it.
func JSONText(v any) string {
	s, err := encodeJSON(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// writeOrdered re-encodes raw without whitespace. Scalars are normalized
// through encodeJSON, so 1.50 prints as 1.5.
func writeOrdered(b *strings.Builder, raw json.RawMessage) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return errors.New("empty value")
	}
	switch raw[0] {
	case '{':
		obj := orderedmap.New[string, json.RawMessage]()
		if err := json.Unmarshal(raw, obj); err != nil {
			return err
		}
		b.WriteByte('{')
		for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
			if pair != obj.Oldest() {
				b.WriteByte(',')
			}
			key, err := encodeJSON(pair.Key)
			if err != nil {
				return err
			}
			b.WriteString(key)
			b.WriteByte(':')
			if err := writeOrdered(b, pair.Value); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
		b.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeOrdered(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	default:
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		s, err := encodeJSON(v)
		if err != nil {
			return err
		}
		b.WriteString(s)
	}
	return nil
}

// PriceLine renders the price with the currency label.
func PriceLine(r *Renderer, f catalog.Field) *Node {
	return &Node{Kind: KindLine, Label: f.Key, Text: FormatPrice(r.currency(), catalog.Number(f.Value))}
}

// FormatPrice groups the integer part every three digits with '.' and
// prefixes the currency label: FormatPrice("Rp.", 1500000) is
// "Rp. 1.500.000". Fractions are rounded away; amounts past the int64
// range are grouped as well.
func FormatPrice(currency string, amount float64) string {
	n := humanize.FormatFloat("#.###,", math.Round(amount))
	if currency == "" {
		return n
	}
	return currency + " " + n
}

// ColorLine renders an RGB triple as #rrggbb with a swatch. Values that are
// not a triple fall back to the generic line.
func ColorLine(r *Renderer, f catalog.Field) *Node {
	hex, ok := ColorHex(f.Value)
	if !ok {
		return GenericLine(r, f)
	}
	line := &Node{Kind: KindLine, Label: f.Key, Text: hex}
	return line.Add(&Node{Kind: KindSwatch, Color: hex})
}

// ColorHex converts {r,g,b} (keys in any case) or [r,g,b] to #rrggbb.
// Channels all within [0,1] are taken as fractions and scaled to 0-255.
func ColorHex(value any) (string, bool) {
	var ch [3]float64
	switch v := value.(type) {
	case map[string]any:
		found := 0
		for k, x := range v {
			switch strings.ToLower(k) {
			case "r":
				ch[0] = catalog.Number(x)
				found |= 1
			case "g":
				ch[1] = catalog.Number(x)
				found |= 2
			case "b":
				ch[2] = catalog.Number(x)
				found |= 4
			}
		}
		if found != 7 {
			return "", false
		}
	case []any:
		if len(v) != 3 {
			return "", false
		}
		for i, x := range v {
			ch[i] = catalog.Number(x)
		}
	default:
		return "", false
	}

	fraction := true
	for _, c := range ch {
		if c < 0 || c > 1 {
			fraction = false
		}
	}
	var rgb [3]uint8
	for i, c := range ch {
		if fraction {
			c *= 255
		}
		rgb[i] = uint8(math.Round(math.Max(0, math.Min(255, c))))
	}
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2]), true
}

// RimsLine renders the short rims code. Non-string values fall back to
// the generic line.
func RimsLine(r *Renderer, f catalog.Field) *Node {
	s, ok := f.Value.(string)
	if !ok {
		return GenericLine(r, f)
	}
	return &Node{Kind: KindLine, Label: f.Key, Text: RimsCode(s)}
}

// RimsCode keeps what follows the last '/', then what follows the last '='.
func RimsCode(s string) string {
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndexByte(s, '='); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// ImageLine renders a thumbnail, swapped for the placeholder when the
// source has failed before. Empty or non-string values fall back to the
// generic line.
func ImageLine(r *Renderer, f catalog.Field) *Node {
	src, ok := f.Value.(string)
	if !ok || strings.TrimSpace(src) == "" {
		return GenericLine(r, f)
	}
	shown, fallback := r.Fallbacks.Resolve(src)
	if fallback && shown == "" {
		shown = src
	}
	return &Node{Kind: KindImage, Label: f.Key, Src: shown, Fallback: fallback}
}
