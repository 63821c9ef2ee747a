package model

import "sort"

// Group is a farm classification category.
type Group string

const (
	// GroupMuku covers mother cow farms without nurse cows.
	GroupMuku Group = "Muku"
	// GroupMukuAmme covers mother cow farms with nurse cows.
	GroupMukuAmme Group = "Muku_Amme"
	// GroupMilchvieh covers dairy farms.
	GroupMilchvieh Group = "Milchvieh"
	// GroupBKMmZ covers combined dairy keeping with breeding.
	GroupBKMmZ Group = "BKMmZ"
	// GroupBKMoZ covers combined dairy keeping without breeding.
	GroupBKMoZ Group = "BKMoZ"
	// GroupIKM covers intensive calf rearing farms.
	GroupIKM Group = "IKM"
)

// UnclassifiedLabel names the synthetic bucket for farms no profile matched.
// It is not a Group: a farm without a match carries a nil group.
const UnclassifiedLabel = "Unclassified"

// Groups returns all categories in canonical report order.
func Groups() []Group {
	return []Group{
		GroupMuku,
		GroupMukuAmme,
		GroupMilchvieh,
		GroupBKMmZ,
		GroupBKMoZ,
		GroupIKM,
	}
}

// ParseGroup resolves a label to a Group.
func ParseGroup(label string) (Group, bool) {
	for _, g := range Groups() {
		if string(g) == label {
			return g, true
		}
	}
	return "", false
}

// groupRank returns the canonical sort position for a label. Known groups
// come first in canonical order, Unclassified last, anything else in between.
func groupRank(label string) int {
	for i, g := range Groups() {
		if string(g) == label {
			return i
		}
	}
	if label == UnclassifiedLabel {
		return len(Groups()) + 1
	}
	return len(Groups())
}

// SortGroupLabels orders labels canonically; unrecognized labels sort
// alphabetically among themselves, ahead of Unclassified.
func SortGroupLabels(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		ri, rj := groupRank(labels[i]), groupRank(labels[j])
		if ri != rj {
			return ri < rj
		}
		return labels[i] < labels[j]
	})
}
