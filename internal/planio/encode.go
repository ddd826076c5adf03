package planio

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format selects an encoder.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatMsgpack}
}

// ParseFormat accepts a format name, case-insensitively. "yml" is an alias
// of yaml.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatMsgpack:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported output format %q (want json, yaml or msgpack)", s)
}

// Encode writes docs to w. A single document is written as an object, more
// than one as a list.
func Encode(w io.Writer, f Format, docs []Document) error {
	var v any = docs
	if len(docs) == 1 {
		v = docs[0]
	}

	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		return enc.Encode(v)
	}
	return fmt.Errorf("unsupported output format %q", f)
}
