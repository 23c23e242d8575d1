package joints

import (
	"encoding/json"
	"fmt"
)

// #region observation
type slot struct {
	pos Position
	ok  bool
}

// Observation is the set of joint positions detected for one image.
// It is a value type; a zero Observation has every joint absent.
type Observation struct {
	slots [numIDs]slot
}

// NewObservation copies detected positions into an Observation.
// Invalid IDs are ignored.
func NewObservation(detected map[ID]Position) Observation {
	var obs Observation
	for id, p := range detected {
		if id.Valid() {
			obs.slots[id] = slot{pos: p, ok: true}
		}
	}
	return obs
}

// Get returns the position of id and whether it was detected.
func (o Observation) Get(id ID) (Position, bool) {
	if !id.Valid() {
		return Position{}, false
	}
	s := o.slots[id]
	return s.pos, s.ok
}

// Has reports whether id was detected.
func (o Observation) Has(id ID) bool {
	_, ok := o.Get(id)
	return ok
}

// HasAll reports whether every id was detected.
func (o Observation) HasAll(ids ...ID) bool {
	for _, id := range ids {
		if !o.Has(id) {
			return false
		}
	}
	return true
}

// Missing returns the ids that were not detected, in the order given.
func (o Observation) Missing(ids ...ID) []ID {
	var missing []ID
	for _, id := range ids {
		if !o.Has(id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// Presence returns a detected flag for each id.
func (o Observation) Presence(ids ...ID) map[ID]bool {
	flags := make(map[ID]bool, len(ids))
	for _, id := range ids {
		flags[id] = o.Has(id)
	}
	return flags
}

// Len returns the number of detected joints.
func (o Observation) Len() int {
	n := 0
	for _, s := range o.slots {
		if s.ok {
			n++
		}
	}
	return n
}

// With returns a copy of o with id set to p.
func (o Observation) With(id ID, p Position) Observation {
	if id.Valid() {
		o.slots[id] = slot{pos: p, ok: true}
	}
	return o
}

// Without returns a copy of o with id marked absent.
func (o Observation) Without(id ID) Observation {
	if id.Valid() {
		o.slots[id] = slot{}
	}
	return o
}

// #endregion observation

// #region json
type wirePosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// MarshalJSON encodes detected joints keyed by wire name. Absent joints are omitted.
func (o Observation) MarshalJSON() ([]byte, error) {
	out := make(map[string]wirePosition, o.Len())
	for i, s := range o.slots {
		if s.ok {
			out[ID(i).String()] = wirePosition{X: s.pos.X, Y: s.pos.Y, Z: s.pos.Z}
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes an object keyed by wire name. A null value means not detected.
func (o *Observation) UnmarshalJSON(data []byte) error {
	var in map[string]*wirePosition
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode observation: %w", err)
	}
	var obs Observation
	for name, wp := range in {
		id, err := ParseID(name)
		if err != nil {
			return fmt.Errorf("decode observation: %w", err)
		}
		if wp == nil {
			continue
		}
		obs.slots[id] = slot{pos: Pos(wp.X, wp.Y, wp.Z), ok: true}
	}
	*o = obs
	return nil
}

// #endregion json
