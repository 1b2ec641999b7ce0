package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml"
	"github.com/toon-format/toon-go"
	"gopkg.in/yaml.v3"
)

// Encode writes data in one of the structured formats. Values go through
// their JSON encoding first so custom marshalers and null policies apply to
// every format alike.
func Encode(w io.Writer, format Format, data any, pretty bool) error {
	switch format {
	case FormatJSON, FormatText, FormatMarkdown:
		return encodeJSON(w, data, pretty)
	case FormatYAML:
		return encodeYAML(w, data)
	case FormatTOML:
		return encodeTOML(w, data)
	case FormatTOON:
		return encodeTOON(w, data)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// Marshal returns the encoding of data in format.
func Marshal(format Format, data any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, format, data, pretty); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSON(w io.Writer, data any, pretty bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// toNode decodes the JSON form of data into a yaml node, which keeps the
// key order of the JSON encoding.
func toNode(data any) (*yaml.Node, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("unexpected document shape")
	}
	node := doc.Content[0]
	blockStyle(node)
	return node, nil
}

// blockStyle drops the flow and quoting styles inherited from JSON.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func encodeYAML(w io.Writer, data any) error {
	node, err := toNode(data)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return err
	}
	return enc.Close()
}

// generic decodes the JSON form of data into maps, slices and scalars with
// integral numbers kept as int64.
func generic(data any, keepNull bool) (any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return normalize(v, keepNull), nil
}

func normalize(v any, keepNull bool) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			if e == nil && !keepNull {
				continue
			}
			out[k] = normalize(e, keepNull)
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			if e == nil && !keepNull {
				continue
			}
			out = append(out, normalize(e, keepNull))
		}
		return out
	default:
		return v
	}
}

// encodeTOML writes data as a TOML document. TOML has no null, so null
// values are left out, and a top level array is wrapped in an "items" table.
func encodeTOML(w io.Writer, data any) error {
	v, err := generic(data, false)
	if err != nil {
		return err
	}
	m, ok := v.(map[string]any)
	if !ok {
		m = map[string]any{"items": v}
	}
	tree, err := toml.TreeFromMap(m)
	if err != nil {
		return err
	}
	_, err = tree.WriteTo(w)
	return err
}

func encodeTOON(w io.Writer, data any) error {
	v, err := generic(data, true)
	if err != nil {
		return err
	}
	out, err := toon.Marshal(v, toon.WithIndent(2))
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
