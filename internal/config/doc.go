// Package config loads hyperpipe settings.
//
// A config file is optional. It may be YAML (.yaml, .yml) or CUE (.cue); both
// are checked against the embedded CUE schema #Config after loading. Fields
// not set in the file keep their defaults.
//
// The alignment scoring scheme is fixed and deliberately not configurable.
package config
