package server

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mischadiehm/muka/internal/model"
	"github.com/mischadiehm/muka/internal/stats"
)

// Answer handles a free-text question with keyword heuristics over the
// loaded dataset. It is deliberately simple: counts, percentages, averages,
// extremes and outliers; anything else gets a capability hint.
func (s *Session) Answer(question string) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.farms) == 0 {
		return nil, ErrNoData
	}
	a, err := s.analyzer()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(question)
	counts := a.GroupCounts()
	group := mentionedGroup(q)

	reply := func(answer string, data interface{}) map[string]interface{} {
		out := map[string]interface{}{"question": question, "answer": answer}
		if data != nil {
			out["data"] = data
		}
		return out
	}

	switch {
	case strings.Contains(q, "how many") || strings.Contains(q, "count"):
		if group != "" {
			return reply(fmt.Sprintf("%d farms are in group %s.", counts[group], group),
				map[string]interface{}{"group": group, "count": counts[group]}), nil
		}
		return reply(fmt.Sprintf("The dataset contains %d farms.", a.Total()),
			map[string]interface{}{"count": a.Total()}), nil

	case strings.Contains(q, "percent"):
		percentages := make(map[string]float64, len(counts))
		for label, n := range counts {
			percentages[label] = float64(n) / float64(a.Total()) * 100
		}
		if group != "" {
			return reply(fmt.Sprintf("Group %s makes up %.1f%% of the farms.",
				group, percentages[group]),
				map[string]interface{}{"group": group, "percentage": percentages[group]}), nil
		}
		return reply("Share of farms per group, in percent.", percentages), nil

	case strings.Contains(q, "average") || strings.Contains(q, "mean"):
		farms := s.farms
		scope := "across all farms"
		if group != "" {
			farms = a.FarmsByGroup(group)
			scope = "in group " + group
		}
		dist, err := stats.Describe(farms, "n_animals_total")
		if err != nil {
			return nil, err
		}
		return reply(fmt.Sprintf("The average herd size %s is %.1f animals.", scope, dist.Mean),
			map[string]interface{}{"field": "n_animals_total", "mean": dist.Mean, "n": dist.Count}), nil

	case strings.Contains(q, "highest") || strings.Contains(q, "most") ||
		strings.Contains(q, "largest") || strings.Contains(q, "biggest"):
		topGroup, topCount := "", -1
		for _, label := range a.GroupLabels() {
			if counts[label] > topCount {
				topGroup, topCount = label, counts[label]
			}
		}
		var largest *model.Farm
		for _, farm := range s.farms {
			if largest == nil || farm.AnimalsTotal > largest.AnimalsTotal {
				largest = farm
			}
		}
		return reply(fmt.Sprintf("%s is the largest group with %d farms; farm %d has the biggest herd (%d animals).",
			topGroup, topCount, largest.TVD, largest.AnimalsTotal),
			map[string]interface{}{
				"largest_group": map[string]interface{}{"group": topGroup, "count": topCount},
				"largest_farm":  farmSnapshot(largest),
			}), nil

	case strings.Contains(q, "unusual") || strings.Contains(q, "outlier") ||
		strings.Contains(q, "strange") || strings.Contains(q, "anomal"):
		report, err := stats.DetectOutliers(s.farms, "n_animals_total", stats.MethodIQR, 0)
		if err != nil {
			return nil, err
		}
		return reply(fmt.Sprintf("%d farms (%.1f%%) have an unusual herd size.",
			report.Count, report.Percentage), report), nil
	}

	return reply("I can answer questions about farm counts, percentages, averages, the largest groups or farms, and outliers.", nil), nil
}

// mentionedGroup finds the first group label named in a lowercased question.
// Longer labels match first so "muku_amme" is not read as "muku".
// Unclassified counts as a label here.
func mentionedGroup(q string) string {
	labels := make([]string, 0, len(model.Groups())+1)
	for _, g := range model.Groups() {
		labels = append(labels, string(g))
	}
	labels = append(labels, model.UnclassifiedLabel)
	sort.Slice(labels, func(i, j int) bool { return len(labels[i]) > len(labels[j]) })
	for _, label := range labels {
		if strings.Contains(q, strings.ToLower(label)) {
			return label
		}
	}
	return ""
}
