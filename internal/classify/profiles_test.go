package classify

import (
	"strings"
	"testing"

	"github.com/mischadiehm/muka/internal/model"
)

var wantOrder = []model.Group{
	model.GroupMuku,
	model.GroupMukuAmme,
	model.GroupMilchvieh,
	model.GroupBKMmZ,
	model.GroupBKMoZ,
	model.GroupIKM,
}

func TestBuildProfilesOrderAndCount(t *testing.T) {
	for _, mode := range Modes() {
		profiles, err := BuildProfiles(mode)
		if err != nil {
			t.Fatalf("BuildProfiles(%s): %v", mode, err)
		}
		if len(profiles) != 6 {
			t.Fatalf("mode %s: got %d profiles, want 6", mode, len(profiles))
		}
		for i, p := range profiles {
			if p.Group != wantOrder[i] {
				t.Fatalf("mode %s: profile %d is %s, want %s", mode, i, p.Group, wantOrder[i])
			}
		}
	}
}

func TestBuildProfilesUnknownMode(t *testing.T) {
	_, err := BuildProfiles(Mode("7-indicators"))
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
	me, ok := err.(*ModeError)
	if !ok {
		t.Fatalf("error type = %T, want *ModeError", err)
	}
	if me.Mode != "7-indicators" {
		t.Fatalf("ModeError.Mode = %q", me.Mode)
	}
	for _, valid := range Modes() {
		if !strings.Contains(err.Error(), string(valid)) {
			t.Fatalf("error message %q does not list valid mode %s", err.Error(), valid)
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, mode := range Modes() {
		got, err := ParseMode(string(mode))
		if err != nil {
			t.Fatalf("ParseMode(%s): %v", mode, err)
		}
		if got != mode {
			t.Fatalf("ParseMode(%s) = %s", mode, got)
		}
	}
	if _, err := ParseMode("strict"); err == nil {
		t.Fatal("expected error for unsupported mode string")
	}
}

// The first four slots must be pairwise distinct and never wildcard; this is
// what makes the priority order immaterial for the primary split.
func TestPrimarySlotsDistinctAndFixed(t *testing.T) {
	for _, mode := range Modes() {
		profiles, err := BuildProfiles(mode)
		if err != nil {
			t.Fatalf("BuildProfiles(%s): %v", mode, err)
		}
		for i, p := range profiles {
			for s := 0; s < 4; s++ {
				if p.Slots[s] == model.SlotAny {
					t.Fatalf("mode %s: profile %s has wildcard in primary slot %d", mode, p.Group, s+1)
				}
			}
			for j := i + 1; j < len(profiles); j++ {
				q := profiles[j]
				same := true
				for s := 0; s < 4; s++ {
					if p.Slots[s] != q.Slots[s] {
						same = false
						break
					}
				}
				if same {
					t.Fatalf("mode %s: %s and %s share the primary slot pattern", mode, p.Group, q.Group)
				}
			}
		}
	}
}

// Exhaustive check over all 64 indicator vectors: in every mode at most one
// profile matches, so first-match-wins never actually depends on the order.
func TestProfilesMutuallyExclusive(t *testing.T) {
	for _, mode := range Modes() {
		profiles, err := BuildProfiles(mode)
		if err != nil {
			t.Fatalf("BuildProfiles(%s): %v", mode, err)
		}
		for bits := 0; bits < 64; bits++ {
			vec := vectorFromBits(bits)
			matches := 0
			for _, p := range profiles {
				if p.Matches(vec) {
					matches++
				}
			}
			if matches > 1 {
				t.Fatalf("mode %s: vector %v matches %d profiles", mode, vec, matches)
			}
		}
	}
}

func vectorFromBits(bits int) model.IndicatorVector {
	var v model.IndicatorVector
	for i := 0; i < 6; i++ {
		v[i] = (bits >> i) & 1
	}
	return v
}
