// Package project reads truss projects in design-sheet units and compiles
// them into engine input records.
//
// A project names its material once, places joints with a support type,
// connects them with members and applies point loads by magnitude and
// direction:
//
//	name: Bridge
//	material: {preset: Steel, areaCm2: 15}
//	joints:
//	  - {id: 1, x: 0, y: 0, support: pinned}
//	  - {id: 2, x: 4, y: 0}
//	  - {id: 3, x: 8, y: 0, support: roller}
//	members:
//	  - {id: 1, from: 1, to: 2}
//	loads:
//	  - {joint: 2, magnitude: 50, angle: 270}
package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/gotruss/internal/apperr"
	"github.com/alexiusacademia/gotruss/internal/record"
)

// Support is the restraint of a joint.
type Support string

const (
	Free   Support = "free"
	Pinned Support = "pinned"
	Roller Support = "roller"
	Fixed  Support = "fixed"
)

// Restraints returns the restrained directions. A roller rides on a
// horizontal surface; fixed joints behave as pins in a pin-jointed truss.
func (s Support) Restraints() (x, y bool) {
	switch s {
	case Pinned, Fixed:
		return true, true
	case Roller:
		return false, true
	}
	return false, false
}

// Label is the display name written to the input record.
func (s Support) Label() string {
	switch s {
	case Pinned:
		return "Pinned"
	case Roller:
		return "Roller"
	case Fixed:
		return "Fixed"
	}
	return ""
}

// Material describes the section and material shared by all members.
type Material struct {
	Preset   string  `json:"preset" yaml:"preset" toml:"preset"`
	EGPa     float64 `json:"eGPa,omitempty" yaml:"eGPa,omitempty" toml:"eGPa,omitempty" validate:"gte=0"`
	YieldMPa float64 `json:"yieldMPa,omitempty" yaml:"yieldMPa,omitempty" toml:"yieldMPa,omitempty" validate:"gte=0"`
	AreaCm2  float64 `json:"areaCm2" yaml:"areaCm2" toml:"areaCm2" validate:"gt=0"`
}

// Joint is a truss node in metres.
type Joint struct {
	ID      int     `json:"id" yaml:"id" toml:"id" validate:"gte=1"`
	X       float64 `json:"x" yaml:"x" toml:"x"`
	Y       float64 `json:"y" yaml:"y" toml:"y"`
	Support Support `json:"support,omitempty" yaml:"support,omitempty" toml:"support,omitempty" validate:"omitempty,oneof=free pinned roller fixed"`
}

// Member connects two joints.
type Member struct {
	ID   int `json:"id" yaml:"id" toml:"id" validate:"gte=1"`
	From int `json:"from" yaml:"from" toml:"from"`
	To   int `json:"to" yaml:"to" toml:"to"`
}

// Load is a point load on a joint. Angle is measured counter-clockwise
// from +X, so 270 points down.
type Load struct {
	Joint     int     `json:"joint" yaml:"joint" toml:"joint" validate:"gte=1"`
	Magnitude float64 `json:"magnitude" yaml:"magnitude" toml:"magnitude" validate:"gte=0"` // kN
	Angle     float64 `json:"angle" yaml:"angle" toml:"angle" validate:"gte=0,lte=360"`     // degrees
	Kind      string  `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty" validate:"omitempty,oneof=dead live roof wind earthquake rain"`
}

// Project is a truss in design-sheet units.
type Project struct {
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Material    Material `json:"material" yaml:"material" toml:"material"`
	Joints      []Joint  `json:"joints" yaml:"joints" toml:"joints" validate:"dive"`
	Members     []Member `json:"members" yaml:"members" toml:"members" validate:"dive"`
	Loads       []Load   `json:"loads" yaml:"loads" toml:"loads" validate:"dive"`
	Combination string   `json:"combination,omitempty" yaml:"combination,omitempty" toml:"combination,omitempty" validate:"omitempty,oneof=1 2 3 4 5 6 7"`
}

// ApplyDefaults fills an unset material preset and area.
func (p *Project) ApplyDefaults(preset string, areaCm2 float64) {
	if p.Material.Preset == "" {
		p.Material.Preset = preset
	}
	if p.Material.AreaCm2 == 0 {
		p.Material.AreaCm2 = areaCm2
	}
}

// Decode reads a project. XLSX is not a project format.
func Decode(r io.Reader, format record.Format) (*Project, error) {
	var p Project
	switch format {
	case record.JSON, "":
		if err := json.NewDecoder(r).Decode(&p); err != nil {
			return nil, apperr.Wrap(apperr.CodeInvalidProject, err, "decode json project")
		}
	case record.YAML:
		if err := yaml.NewDecoder(r).Decode(&p); err != nil && !errors.Is(err, io.EOF) {
			return nil, apperr.Wrap(apperr.CodeInvalidProject, err, "decode yaml project")
		}
	case record.TOML:
		if _, err := toml.NewDecoder(r).Decode(&p); err != nil {
			return nil, apperr.Wrap(apperr.CodeInvalidProject, err, "decode toml project")
		}
	default:
		return nil, apperr.New(apperr.CodeInvalidFormat, "unsupported project format %q", format)
	}
	return &p, nil
}

// DecodeBytes reads a project held in memory.
func DecodeBytes(data []byte, format record.Format) (*Project, error) {
	return Decode(bytes.NewReader(data), format)
}

// LoadFromFile reads a project, inferring the format from the extension.
func LoadFromFile(path string) (*Project, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.Wrap(apperr.CodeFileNotFound, err, "project %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, record.FormatFromPath(path))
}
