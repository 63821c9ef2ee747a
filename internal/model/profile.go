package model

// Slot is one expected value in a classification profile. The three-valued
// representation keeps the wildcard explicit instead of overloading a
// nullable integer.
type Slot uint8

const (
	// SlotZero matches only an indicator value of 0.
	SlotZero Slot = iota
	// SlotOne matches only an indicator value of 1.
	SlotOne
	// SlotAny matches either indicator value.
	SlotAny
)

// Matches reports whether the slot accepts the given indicator value.
func (s Slot) Matches(v int) bool {
	switch s {
	case SlotZero:
		return v == 0
	case SlotOne:
		return v == 1
	default:
		return true
	}
}

func (s Slot) String() string {
	switch s {
	case SlotZero:
		return "0"
	case SlotOne:
		return "1"
	default:
		return "*"
	}
}

// IndicatorVector is a farm's six binary classification indicators, in slot
// order: female dairy cattle, other female cattle, calf arrivals <85d,
// calf non-slaughter leavings <51d, female slaughterings <731d,
// young slaughterings 51-730d.
type IndicatorVector [6]int

// Profile is one row of the classification rule table: the expected
// indicator pattern for a single group. Profiles are immutable once built.
type Profile struct {
	Group Group
	Slots [6]Slot
}

// Matches reports whether every slot accepts the corresponding indicator.
func (p Profile) Matches(v IndicatorVector) bool {
	for i, s := range p.Slots {
		if !s.Matches(v[i]) {
			return false
		}
	}
	return true
}

// Pattern renders the profile slots for logging, e.g. [1 0 0 1 0 *].
func (p Profile) Pattern() string {
	out := "["
	for i, s := range p.Slots {
		if i > 0 {
			out += " "
		}
		out += s.String()
	}
	return out + "]"
}
