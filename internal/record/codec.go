package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/gotruss/internal/apperr"
)

// Format is a record encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
	XLSX Format = "xlsx"
)

// ParseFormat validates a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case JSON, YAML, TOML, XLSX:
		return f, nil
	case "yml":
		return YAML, nil
	}
	return "", apperr.New(apperr.CodeInvalidFormat, "unsupported format %q (use json, yaml, toml or xlsx)", s)
}

// FormatFromPath infers the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	case ".toml":
		return TOML
	case ".xlsx":
		return XLSX
	}
	return JSON
}

// Decode reads an input record.
func Decode(r io.Reader, format Format) (*Input, error) {
	var in Input
	switch format {
	case JSON, "":
		dec := json.NewDecoder(r)
		if err := dec.Decode(&in); err != nil {
			return nil, apperr.Wrap(apperr.CodeInvalidInput, err, "decode json record")
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
			return nil, apperr.Wrap(apperr.CodeInvalidInput, err, "decode yaml record")
		}
	case TOML:
		if _, err := toml.NewDecoder(r).Decode(&in); err != nil {
			return nil, apperr.Wrap(apperr.CodeInvalidInput, err, "decode toml record")
		}
	case XLSX:
		return decodeXLSX(r)
	default:
		return nil, apperr.New(apperr.CodeInvalidFormat, "unsupported input format %q", format)
	}
	return &in, nil
}

// DecodeBytes reads an input record held in memory.
func DecodeBytes(data []byte, format Format) (*Input, error) {
	return Decode(bytes.NewReader(data), format)
}

// LoadFromFile reads an input record, inferring the format from the extension.
func LoadFromFile(path string) (*Input, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.Wrap(apperr.CodeFileNotFound, err, "input %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, FormatFromPath(path))
}

// Encode writes an input record. Used to save compiled projects.
func (in *Input) Encode(w io.Writer, format Format) error {
	switch format {
	case JSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(in)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(in)
	case TOML:
		return toml.NewEncoder(w).Encode(in)
	}
	return apperr.New(apperr.CodeInvalidFormat, "cannot write input record as %q", format)
}

// Encode writes a result record. JSON is compact, matching what callers of
// the engine parse.
func (o Output) Encode(w io.Writer, format Format) error {
	switch format {
	case JSON, "":
		return json.NewEncoder(w).Encode(o)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(o)
	}
	return apperr.New(apperr.CodeInvalidFormat, "cannot write result record as %q", format)
}
