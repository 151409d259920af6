package nscp

import (
	"fmt"
	"math"
	"strings"
)

// LoadKind is the source of a nodal load
type LoadKind string

const (
	Dead       LoadKind = "dead"
	Live       LoadKind = "live"
	Roof       LoadKind = "roof"
	Wind       LoadKind = "wind"
	Earthquake LoadKind = "earthquake"
	Rain       LoadKind = "rain"
)

// LoadKinds lists every load kind accepted on a joint load.
var LoadKinds = []LoadKind{Dead, Live, Roof, Wind, Earthquake, Rain}

// LoadCombination represents an NSCP load combination
// Based on NSCP 2015 Section 203.3 - Load Combinations Using Strength Design
type LoadCombination struct {
	ID          string
	Description string
	// Load factors for each load type
	Dead       float64 // D - Dead load
	Live       float64 // L - Live load
	Roof       float64 // Lr - Roof live load
	Wind       float64 // W - Wind load
	Earthquake float64 // E - Earthquake load
	Rain       float64 // R - Rain load
}

// NSCP 2015 Section 203.3.1 - Basic Load Combinations
var LoadCombinations = []LoadCombination{
	{ID: "1", Description: "1.4D", Dead: 1.4},
	{ID: "2", Description: "1.2D + 1.6L + 0.5(Lr or R)", Dead: 1.2, Live: 1.6, Roof: 0.5, Rain: 0.5},
	{ID: "3", Description: "1.2D + 1.6(Lr or R) + (1.0L or 0.5W)", Dead: 1.2, Live: 1.0, Roof: 1.6, Rain: 1.6, Wind: 0.5},
	{ID: "4", Description: "1.2D + 1.0W + 1.0L + 0.5(Lr or R)", Dead: 1.2, Live: 1.0, Wind: 1.0, Roof: 0.5, Rain: 0.5},
	{ID: "5", Description: "1.2D + 1.0E + 1.0L", Dead: 1.2, Live: 1.0, Earthquake: 1.0},
	{ID: "6", Description: "0.9D + 1.0W", Dead: 0.9, Wind: 1.0},
	{ID: "7", Description: "0.9D + 1.0E", Dead: 0.9, Earthquake: 1.0},
}

// Unfactored applies every load at its service value.
var Unfactored = LoadCombination{
	ID: "", Description: "Service (unfactored)",
	Dead: 1, Live: 1, Roof: 1, Wind: 1, Earthquake: 1, Rain: 1,
}

// LookupCombination returns the combination with the given ID. An empty ID
// selects Unfactored.
func LookupCombination(id string) (LoadCombination, error) {
	if id == "" {
		return Unfactored, nil
	}
	for _, c := range LoadCombinations {
		if c.ID == id {
			return c, nil
		}
	}
	return LoadCombination{}, fmt.Errorf("unknown load combination %q (NSCP 2015 Section 203.3 defines 1-7)", id)
}

// ParseLoadKind converts a load kind name, defaulting to dead load.
func ParseLoadKind(s string) (LoadKind, error) {
	if s == "" {
		return Dead, nil
	}
	for _, k := range LoadKinds {
		if strings.EqualFold(string(k), s) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown load kind %q", s)
}

// Factor returns the load factor the combination applies to kind.
func (lc LoadCombination) Factor(kind LoadKind) float64 {
	switch kind {
	case Dead:
		return lc.Dead
	case Live:
		return lc.Live
	case Roof:
		return lc.Roof
	case Wind:
		return lc.Wind
	case Earthquake:
		return lc.Earthquake
	case Rain:
		return lc.Rain
	}
	return 0
}

// Components resolves a load of magnitude mag (kN) acting at angle degrees
// from +X into factored force components in N.
func (lc LoadCombination) Components(kind LoadKind, mag, angle float64) (fx, fy float64) {
	f := lc.Factor(kind) * mag * KN
	rad := angle * math.Pi / 180
	return f * math.Cos(rad), f * math.Sin(rad)
}

// ServiceLoads are unfactored load effects by kind.
type ServiceLoads map[LoadKind]float64

// Combine returns the factored sum of the service loads.
func (lc LoadCombination) Combine(loads ServiceLoads) float64 {
	total := 0.0
	for kind, v := range loads {
		total += lc.Factor(kind) * v
	}
	return total
}

// Governing returns the largest factored magnitude among combos and the
// combination producing it. Ties keep the first.
func Governing(loads ServiceLoads, combos []LoadCombination) (float64, LoadCombination) {
	var best float64
	var governing LoadCombination
	for i, c := range combos {
		v := c.Combine(loads)
		if i == 0 || math.Abs(v) > math.Abs(best) {
			best, governing = v, c
		}
	}
	return best, governing
}
