package config

import "sort"

var Presets = map[string]map[string]*Config{
	"basic": {
		"slow": {Kind: "basic", Params: Params{"D": 1.0, "r": 0.1, "days": 30}},
		"fast": {Kind: "basic", Params: Params{"D": 1.0, "r": 1.5, "days": 10}},
		"high": {Kind: "basic", Params: Params{"D": 4.0, "r": 0.5, "days": 14}},
	},
	"degradation": {
		"slow": {Kind: "degradation", Params: Params{"k": 0.05, "days": 30}},
		"fast": {Kind: "degradation", Params: Params{"k": 0.8, "days": 10}},
	},
	"burst": {
		"low":  {Kind: "burst", Params: Params{"D": 1.0, "r": 0.5, "burst": 0.2, "days": 10}},
		"high": {Kind: "burst", Params: Params{"D": 1.0, "r": 0.5, "burst": 1.8, "days": 10}},
	},
	"cumulative": {
		"week":  {Kind: "cumulative", Params: Params{"D": 1.0, "r": 0.5, "days": 7}},
		"month": {Kind: "cumulative", Params: Params{"D": 1.0, "r": 0.2, "days": 30}},
		"fine":  {Kind: "cumulative", Samples: 1000, Params: Params{"D": 1.0, "r": 0.5, "days": 10}},
	},
	"linear": {
		"thin":  {Kind: "linear", Params: Params{"thickness": 20, "k": 1.0, "days": 30}},
		"thick": {Kind: "linear", Params: Params{"thickness": 80, "k": 1.5, "days": 60}},
	},
	"surface3d": {
		"flat":  {Kind: "surface3d", Plot: "3d", Params: Params{"a": 1.2, "b": 0.05, "c": 0.0}},
		"wavy":  {Kind: "surface3d", Plot: "3d", Params: Params{"a": 1.2, "b": 0.05, "c": 0.5}},
		"steep": {Kind: "surface3d", Plot: "3d", Params: Params{"a": 2.0, "b": 0.2, "c": 0.1}},
	},
}

func GetPreset(kind, preset string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

// ListPresets returns the preset names for kind in sorted order.
func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
