package record

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Flag is a boundary flag that decodes from a boolean, a number, or the
// strings "true"/"false". The design sheet writes the string form.
type Flag bool

func parseFlag(s string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boundary flag %q", s)
}

func flagFrom(v any) (Flag, error) {
	switch t := v.(type) {
	case nil:
		return false, nil
	case bool:
		return Flag(t), nil
	case string:
		return parseFlag(t)
	case float64:
		return t != 0, nil
	case int64:
		return t != 0, nil
	}
	return false, fmt.Errorf("invalid boundary flag %v", v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	parsed, err := flagFrom(v)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Flag) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: boundary flag must be a scalar", n.Line)
	}
	parsed, err := parseFlag(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*f = parsed
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (f *Flag) UnmarshalTOML(v any) error {
	parsed, err := flagFrom(v)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
