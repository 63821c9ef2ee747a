// Package server exposes the analysis pipeline as a tool-calling HTTP
// service: a catalog of named tools, each invoked with a JSON argument
// object, operating on one shared dataset session.
package server

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	mstats "github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/mischadiehm/muka/internal/analyze"
	"github.com/mischadiehm/muka/internal/classify"
	"github.com/mischadiehm/muka/internal/config"
	"github.com/mischadiehm/muka/internal/export"
	"github.com/mischadiehm/muka/internal/ingest"
	"github.com/mischadiehm/muka/internal/model"
	"github.com/mischadiehm/muka/internal/stats"
)

// Session state errors.
var (
	ErrNoData        = errors.New("no data loaded; call load_farm_data first")
	ErrNotClassified = errors.New("farms not classified yet; call classify_farms first")
)

// Session holds one loaded dataset and its classification state. All tool
// calls are serialized through the mutex; the underlying classify/analyze
// functions stay pure.
type Session struct {
	ID string

	mu         sync.Mutex
	cfg        *config.Global
	logger     *zap.Logger
	farms      []*model.Farm
	sourcePath string
	mode       classify.Mode
	classified bool
	result     classify.Result
}

// NewSession builds an empty session with a fresh identifier.
func NewSession(cfg *config.Global, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		ID:     uuid.NewString(),
		cfg:    cfg,
		logger: logger.Named("session"),
	}
}

func (s *Session) analyzer() (*analyze.Analyzer, error) {
	if len(s.farms) == 0 {
		return nil, ErrNoData
	}
	return analyze.New(s.farms, s.logger)
}

// LoadData reads a CSV into the session, replacing any previous dataset and
// resetting the classification state.
func (s *Session) LoadData(path string) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	farms, err := ingest.ReadFarms(path, s.logger)
	if err != nil {
		return nil, err
	}
	s.farms = farms
	s.sourcePath = path
	s.classified = false
	s.result = classify.Result{}

	return map[string]interface{}{
		"session_id": s.ID,
		"file_path":  path,
		"farms":      len(farms),
		"columns":    ingest.RequiredColumns(),
	}, nil
}

// Classify runs the profile classifier over the loaded dataset. An empty
// mode string falls back to the configured default.
func (s *Session) Classify(modeStr string) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.farms) == 0 {
		return nil, ErrNoData
	}
	if modeStr == "" {
		modeStr = s.cfg.IndicatorMode
	}
	mode, err := classify.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}
	c, err := classify.New(mode, s.logger)
	if err != nil {
		return nil, err
	}
	c.SetWarnUnclassified(s.cfg.WarnUnclassified)
	result, err := c.ClassifyAll(s.farms)
	if err != nil {
		return nil, err
	}
	s.mode = mode
	s.classified = true
	s.result = result

	a, err := s.analyzer()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"mode":         string(mode),
		"total":        result.Total,
		"classified":   result.Classified,
		"unclassified": result.Unclassified,
		"group_counts": a.GroupCounts(),
	}, nil
}

// DataInfo describes the current session state.
func (s *Session) DataInfo() (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := map[string]interface{}{
		"session_id": s.ID,
		"loaded":     len(s.farms) > 0,
		"farms":      len(s.farms),
		"classified": s.classified,
	}
	if s.sourcePath != "" {
		info["file_path"] = s.sourcePath
	}
	if s.classified {
		info["mode"] = string(s.mode)
		a, err := s.analyzer()
		if err != nil {
			return nil, err
		}
		info["group_counts"] = a.GroupCounts()
	}
	return info, nil
}

// QueryFarms filters the dataset by group and/or a numeric field range and
// returns up to limit farm snapshots.
func (s *Session) QueryFarms(group, field string, minVal, maxVal *float64, limit int) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.farms) == 0 {
		return nil, ErrNoData
	}
	if group != "" && !s.classified {
		return nil, ErrNotClassified
	}
	var valueOf func(*model.Farm) float64
	if field != "" {
		f, ok := model.FieldByName(field)
		if !ok {
			return nil, fmt.Errorf("unknown field %q", field)
		}
		valueOf = f.Value
	}
	if limit <= 0 {
		limit = s.cfg.MaxDisplayRows
	}

	var matched []*model.Farm
	for _, farm := range s.farms {
		if group != "" && farm.GroupLabel() != group {
			continue
		}
		if valueOf != nil {
			v := valueOf(farm)
			if math.IsNaN(v) {
				continue
			}
			if minVal != nil && v < *minVal {
				continue
			}
			if maxVal != nil && v > *maxVal {
				continue
			}
		}
		matched = append(matched, farm)
	}

	shown := matched
	if len(shown) > limit {
		shown = shown[:limit]
	}
	rows := make([]map[string]interface{}, len(shown))
	for i, farm := range shown {
		rows[i] = farmSnapshot(farm)
	}
	return map[string]interface{}{
		"matched":   len(matched),
		"returned":  len(rows),
		"truncated": len(matched) > len(rows),
		"farms":     rows,
	}, nil
}

// FarmDetails returns every field of one farm.
func (s *Session) FarmDetails(tvd int64) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.farms) == 0 {
		return nil, ErrNoData
	}
	for _, farm := range s.farms {
		if farm.TVD == tvd {
			details := farmSnapshot(farm)
			for _, field := range model.NumericFields {
				v := field.Value(farm)
				if math.IsNaN(v) {
					details[field.Name] = nil
				} else {
					details[field.Name] = v
				}
			}
			details["indicators"] = farm.Indicators()
			return details, nil
		}
	}
	return nil, fmt.Errorf("no farm with tvd %d", tvd)
}

// GroupStatistics aggregates every numeric field, either for one classified
// group or for all of them. Unclassified farms have no statistics bucket;
// they only show up in counts.
func (s *Session) GroupStatistics(group string) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.farms) == 0 {
		return nil, ErrNoData
	}
	if !s.classified {
		return nil, ErrNotClassified
	}
	var target *model.Group
	if group != "" {
		if group == model.UnclassifiedLabel {
			return nil, fmt.Errorf("statistics cover classified groups only; %s farms appear in counts",
				model.UnclassifiedLabel)
		}
		g, ok := model.ParseGroup(group)
		if !ok {
			return nil, fmt.Errorf("unknown group %q", group)
		}
		target = &g
	}
	a, err := s.analyzer()
	if err != nil {
		return nil, err
	}
	groupStats := a.GroupStatistics(target)
	if len(groupStats) == 0 {
		return nil, fmt.Errorf("no farms in group %q", group)
	}
	return map[string]interface{}{
		"mode":   string(s.mode),
		"groups": groupStats,
	}, nil
}

// CompareGroups puts two groups' field statistics side by side. With no
// field list it compares every numeric field.
func (s *Session) CompareGroups(group1, group2 string, fields []string) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.farms) == 0 {
		return nil, ErrNoData
	}
	if !s.classified {
		return nil, ErrNotClassified
	}
	if len(fields) == 0 {
		for _, f := range model.NumericFields {
			fields = append(fields, f.Name)
		}
	}

	a, err := s.analyzer()
	if err != nil {
		return nil, err
	}
	statsFor := func(label string) (analyze.GroupStats, error) {
		for _, gs := range a.GroupStatistics(nil) {
			if gs.Group == label {
				return gs, nil
			}
		}
		return analyze.GroupStats{}, fmt.Errorf("no farms in group %q", label)
	}
	gs1, err := statsFor(group1)
	if err != nil {
		return nil, err
	}
	gs2, err := statsFor(group2)
	if err != nil {
		return nil, err
	}

	comparison := make(map[string]interface{}, len(fields))
	for _, name := range fields {
		if _, ok := model.FieldByName(name); !ok {
			return nil, fmt.Errorf("unknown field %q", name)
		}
		entry := map[string]interface{}{}
		if fs, ok := gs1.Fields[name]; ok {
			entry[group1] = fs
		}
		if fs, ok := gs2.Fields[name]; ok {
			entry[group2] = fs
		}
		comparison[name] = entry
	}
	return map[string]interface{}{
		"group1":     map[string]interface{}{"name": group1, "count": gs1.Count},
		"group2":     map[string]interface{}{"name": group2, "count": gs2.Count},
		"comparison": comparison,
	}, nil
}

// Aggregate operations.
var aggregateOps = []string{"sum", "mean", "median", "min", "max", "count"}

// Aggregate applies one named operation to a field, over the whole dataset
// or one group. The operation set is closed: arbitrary expressions are not
// evaluated.
func (s *Session) Aggregate(field, op, group string) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.farms) == 0 {
		return nil, ErrNoData
	}
	if group != "" && !s.classified {
		return nil, ErrNotClassified
	}
	f, ok := model.FieldByName(field)
	if !ok {
		return nil, fmt.Errorf("unknown field %q", field)
	}

	farms := s.farms
	if group != "" {
		farms = nil
		for _, farm := range s.farms {
			if farm.GroupLabel() == group {
				farms = append(farms, farm)
			}
		}
		if len(farms) == 0 {
			return nil, fmt.Errorf("no farms in group %q", group)
		}
	}

	values := make(mstats.Float64Data, 0, len(farms))
	for _, farm := range farms {
		v := f.Value(farm)
		if math.IsNaN(v) {
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("field %q has no valid values", field)
	}

	var (
		value float64
		err   error
	)
	switch op {
	case "sum":
		value, err = mstats.Sum(values)
	case "mean":
		value, err = mstats.Mean(values)
	case "median":
		value, err = mstats.Median(values)
	case "min":
		value, err = mstats.Min(values)
	case "max":
		value, err = mstats.Max(values)
	case "count":
		value = float64(len(values))
	default:
		return nil, fmt.Errorf("unknown operation %q (valid: %s)",
			op, strings.Join(aggregateOps, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("aggregate %s(%s): %w", op, field, err)
	}

	out := map[string]interface{}{
		"field":     field,
		"operation": op,
		"value":     value,
		"n":         len(values),
	}
	if group != "" {
		out["group"] = group
	}
	return out, nil
}

// Insights gives a quick overview: group counts, the herd size distribution
// and its IQR outliers.
func (s *Session) Insights() (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.farms) == 0 {
		return nil, ErrNoData
	}
	a, err := s.analyzer()
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{
		"farms":        a.Total(),
		"classified":   s.classified,
		"group_counts": a.GroupCounts(),
	}
	if dist, err := stats.Describe(s.farms, "n_animals_total"); err == nil {
		out["herd_size"] = dist
	}
	if report, err := stats.DetectOutliers(s.farms, "n_animals_total", stats.MethodIQR, 0); err == nil {
		out["herd_size_outliers"] = report
	}
	if s.classified {
		out["mode"] = string(s.mode)
		out["summary"] = a.Summary()
	}
	return out, nil
}

// Export writes the session's results to disk: the classified CSV, the
// summary workbook, or both. Empty format means both.
func (s *Session) Export(outputDir, format string) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.farms) == 0 {
		return nil, ErrNoData
	}
	if !s.classified {
		return nil, ErrNotClassified
	}
	if outputDir == "" {
		outputDir = s.cfg.OutputDir
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir output dir: %w", err)
	}

	written := []string{}
	if format == "" || format == "csv" {
		path := filepath.Join(outputDir, s.cfg.ClassifiedOutputFile)
		if err := ingest.WriteClassified(path, s.farms, true); err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	if format == "" || format == "excel" {
		a, err := s.analyzer()
		if err != nil {
			return nil, err
		}
		path := filepath.Join(outputDir, s.cfg.SummaryOutputFile)
		exp := export.New(s.cfg.DecimalPlaces, s.logger)
		if err := exp.WriteSummary(path, string(s.mode), a); err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	if len(written) == 0 {
		return nil, fmt.Errorf("unknown format %q (valid: csv, excel)", format)
	}
	sort.Strings(written)
	return map[string]interface{}{"files": written}, nil
}

// farmSnapshot renders the identifying columns of one farm.
func farmSnapshot(f *model.Farm) map[string]interface{} {
	return map[string]interface{}{
		"tvd":            f.TVD,
		"farm_type_name": f.FarmTypeName,
		"year":           f.Year,
		"animals_total":  f.AnimalsTotal,
		"group":          f.GroupLabel(),
	}
}
