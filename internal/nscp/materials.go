package nscp

import (
	"fmt"
	"sort"
	"strings"
)

// Unit conversions used by the design sheet
const (
	GPa = 1e9  // Pa
	MPa = 1e6  // Pa
	Cm2 = 1e-4 // m²
	KN  = 1e3  // N
)

// Es is the modulus of elasticity of structural steel (Section 420.2.2)
const Es = 200.0 // GPa

// Material is a named member material.
// Values are in design-sheet units: modulus in GPa, yield strength in MPa.
type Material struct {
	Name     string
	E        float64 // GPa
	Yield    float64 // MPa
	Describe string
}

// Custom is the preset name for user-supplied material values
const Custom = "Custom"

// Materials lists the built-in presets.
var Materials = []Material{
	{Name: "Steel", E: Es, Yield: 250, Describe: "Structural steel (A36 / Grade 250)"},
	{Name: "Aluminum", E: 70, Yield: 95, Describe: "Aluminum alloy 6063-T5"},
	{Name: "Wood", E: 13, Yield: 40, Describe: "Structural timber, parallel to grain"},
}

// LookupMaterial returns the preset with the given name, ignoring case.
func LookupMaterial(name string) (Material, error) {
	for _, m := range Materials {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return Material{}, fmt.Errorf("unknown material preset %q (available: %s)", name, strings.Join(MaterialNames(), ", "))
}

// MaterialNames returns the preset names in sorted order.
func MaterialNames() []string {
	names := make([]string, 0, len(Materials))
	for _, m := range Materials {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}

// SI returns the modulus and yield strength in Pa.
func (m Material) SI() (e, yield float64) {
	return m.E * GPa, m.Yield * MPa
}
