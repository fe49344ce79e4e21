package ir

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Properties maps property names to their raw textual values.
// Numeric parsing is left to consumers.
type Properties map[string]string

// SortedKeys returns property names in RFC 8785 canonical order.
func (p Properties) SortedKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// Snapshot is an entity's property snapshot at one stage, or the missing marker.
// The zero value is Missing.
type Snapshot struct {
	observed bool
	props    Properties
}

// Missing returns the sentinel for "entity not observed at this position".
func Missing() Snapshot {
	return Snapshot{}
}

// Observed wraps decoded properties. A nil map is stored as an empty one so an
// observed snapshot never looks missing.
func Observed(props Properties) Snapshot {
	if props == nil {
		props = Properties{}
	}
	return Snapshot{observed: true, props: props}
}

// IsMissing reports whether this is the missing sentinel.
func (s Snapshot) IsMissing() bool {
	return !s.observed
}

// Properties returns the snapshot's properties; nil when missing.
func (s Snapshot) Properties() Properties {
	return s.props
}

// Get returns one property value. ok is false for missing snapshots and
// absent properties.
func (s Snapshot) Get(name string) (string, bool) {
	if !s.observed {
		return "", false
	}
	v, ok := s.props[name]
	return v, ok
}

// Equal reports whether two snapshots hold the same tag and properties.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.observed != o.observed {
		return false
	}
	if len(s.props) != len(o.props) {
		return false
	}
	for k, v := range s.props {
		if ov, ok := o.props[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func (s Snapshot) String() string {
	if !s.observed {
		return "<missing>"
	}
	return fmt.Sprintf("%v", map[string]string(s.props))
}

// MarshalJSON encodes Missing as null and Observed as an object.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	if !s.observed {
		return []byte("null"), nil
	}
	return json.Marshal(map[string]string(s.props))
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Missing()
		return nil
	}
	var props Properties
	if err := json.Unmarshal(data, &props); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}
	*s = Observed(props)
	return nil
}
