package model

import "testing"

func TestSlotMatches(t *testing.T) {
	if !SlotZero.Matches(0) || SlotZero.Matches(1) {
		t.Fatal("SlotZero must match exactly 0")
	}
	if !SlotOne.Matches(1) || SlotOne.Matches(0) {
		t.Fatal("SlotOne must match exactly 1")
	}
	if !SlotAny.Matches(0) || !SlotAny.Matches(1) {
		t.Fatal("SlotAny must match both values")
	}
}

func TestProfilePattern(t *testing.T) {
	p := Profile{
		Group: GroupMilchvieh,
		Slots: [6]Slot{SlotOne, SlotZero, SlotZero, SlotOne, SlotZero, SlotAny},
	}
	if got := p.Pattern(); got != "[1 0 0 1 0 *]" {
		t.Fatalf("Pattern() = %q", got)
	}
	if !p.Matches(IndicatorVector{1, 0, 0, 1, 0, 1}) {
		t.Fatal("wildcard slot should accept 1")
	}
	if p.Matches(IndicatorVector{0, 0, 0, 1, 0, 1}) {
		t.Fatal("fixed slot must reject a mismatch")
	}
}

func TestSortGroupLabels(t *testing.T) {
	labels := []string{UnclassifiedLabel, "IKM", "Sonstige", "Muku", "Andere", "Milchvieh"}
	SortGroupLabels(labels)
	want := []string{"Muku", "Milchvieh", "IKM", "Andere", "Sonstige", UnclassifiedLabel}
	for i, label := range want {
		if labels[i] != label {
			t.Fatalf("order = %v, want %v", labels, want)
		}
	}
}

func TestGroupLabel(t *testing.T) {
	f := &Farm{TVD: 1}
	if f.GroupLabel() != UnclassifiedLabel {
		t.Fatalf("nil group label = %q", f.GroupLabel())
	}
	g := GroupBKMmZ
	f.Group = &g
	if f.GroupLabel() != "BKMmZ" {
		t.Fatalf("label = %q", f.GroupLabel())
	}
}

func TestFieldByName(t *testing.T) {
	f, ok := FieldByName("n_animals_total")
	if !ok {
		t.Fatal("n_animals_total missing")
	}
	if v := f.Value(&Farm{AnimalsTotal: 7}); v != 7 {
		t.Fatalf("value = %v", v)
	}
	if _, ok := FieldByName("nope"); ok {
		t.Fatal("unknown field resolved")
	}
	if len(NumericFields) != 15 {
		t.Fatalf("NumericFields has %d entries, want 15", len(NumericFields))
	}
}
