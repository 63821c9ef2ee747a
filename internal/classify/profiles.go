package classify

import "github.com/mischadiehm/muka/internal/model"

// basePattern holds the fixed part of a group's profile: the four primary
// slots plus the strict values for the two slaughter slots. The primary
// slots fully determine the group split; the slaughter slots are opened to
// wildcards depending on the mode.
type basePattern struct {
	group  model.Group
	first4 [4]model.Slot
	slot5  model.Slot // female slaughterings <731d, strict value
	slot6  model.Slot // young slaughterings 51-730d, strict value
}

// basePatterns lists the profiles in classification priority order. The
// order is significant: the classifier returns the first match.
var basePatterns = []basePattern{
	{model.GroupMuku, [4]model.Slot{model.SlotZero, model.SlotZero, model.SlotZero, model.SlotZero}, model.SlotZero, model.SlotOne},
	{model.GroupMukuAmme, [4]model.Slot{model.SlotZero, model.SlotZero, model.SlotOne, model.SlotZero}, model.SlotZero, model.SlotOne},
	{model.GroupMilchvieh, [4]model.Slot{model.SlotOne, model.SlotZero, model.SlotZero, model.SlotOne}, model.SlotZero, model.SlotZero},
	{model.GroupBKMmZ, [4]model.Slot{model.SlotOne, model.SlotZero, model.SlotOne, model.SlotZero}, model.SlotZero, model.SlotOne},
	{model.GroupBKMoZ, [4]model.Slot{model.SlotOne, model.SlotZero, model.SlotZero, model.SlotZero}, model.SlotZero, model.SlotOne},
	{model.GroupIKM, [4]model.Slot{model.SlotZero, model.SlotOne, model.SlotOne, model.SlotZero}, model.SlotZero, model.SlotOne},
}

// BuildProfiles produces the ordered profile table for a mode. Exactly six
// profiles are returned, one per group, in priority order.
func BuildProfiles(mode Mode) ([]model.Profile, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	profiles := make([]model.Profile, 0, len(basePatterns))
	for _, bp := range basePatterns {
		p := model.Profile{Group: bp.group}
		copy(p.Slots[:4], bp.first4[:])
		p.Slots[4] = bp.slot5
		p.Slots[5] = bp.slot6

		switch mode {
		case ModeSix:
			// strict slaughter slots as listed
		case ModeSixFlex:
			if bp.group == model.GroupMilchvieh {
				p.Slots[5] = model.SlotAny
			}
		case ModeFour:
			p.Slots[4] = model.SlotAny
			p.Slots[5] = model.SlotAny
		case ModeFive:
			p.Slots[4] = model.SlotAny
		case ModeFiveFlex:
			p.Slots[4] = model.SlotAny
			if bp.group == model.GroupMilchvieh {
				p.Slots[5] = model.SlotAny
			}
		}

		profiles = append(profiles, p)
	}
	return profiles, nil
}
