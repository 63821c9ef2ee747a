package classify

import (
	"fmt"
	"strings"
)

// Mode selects which wildcard pattern the profile table uses for the two
// slaughter slots. Slots 1-4 are identical across all modes.
type Mode string

const (
	// ModeSix uses all six indicators with fixed slaughter slots.
	ModeSix Mode = "6-indicators"
	// ModeSixFlex is ModeSix with the Milchvieh young-slaughter slot open.
	ModeSixFlex Mode = "6-indicators-flex"
	// ModeFour ignores both slaughter slots entirely.
	ModeFour Mode = "4-indicators"
	// ModeFive ignores female slaughterings but fixes young slaughterings.
	ModeFive Mode = "5-indicators"
	// ModeFiveFlex is ModeFive with the Milchvieh young-slaughter slot open.
	ModeFiveFlex Mode = "5-indicators-flex"
)

// Modes returns every supported indicator mode, in display order.
func Modes() []Mode {
	return []Mode{ModeSix, ModeSixFlex, ModeFour, ModeFive, ModeFiveFlex}
}

// ModeError reports an unsupported indicator mode string.
type ModeError struct {
	Mode string
}

func (e *ModeError) Error() string {
	valid := make([]string, 0, len(Modes()))
	for _, m := range Modes() {
		valid = append(valid, string(m))
	}
	return fmt.Sprintf("unsupported indicator mode %q (valid modes: %s)",
		e.Mode, strings.Join(valid, ", "))
}

// ParseMode resolves a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", &ModeError{Mode: s}
}
