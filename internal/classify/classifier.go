package classify

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mischadiehm/muka/internal/model"
)

// IndicatorValueError reports an indicator outside {0,1} reaching the
// classifier. The ingestion layer should have rejected the record; hitting
// this means the input contract was violated.
type IndicatorValueError struct {
	TVD   int64
	Slot  int
	Value int
}

func (e *IndicatorValueError) Error() string {
	return fmt.Sprintf("farm %d: indicator slot %d has value %d, want 0 or 1",
		e.TVD, e.Slot+1, e.Value)
}

// Classifier assigns farms to groups by walking an ordered profile table and
// returning the first match. It is safe for concurrent use: classification
// is pure with respect to (mode, indicator vector).
type Classifier struct {
	mode             Mode
	profiles         []model.Profile
	warnUnclassified bool
	logger           *zap.Logger
}

// New builds a classifier for the given indicator mode. The profile table is
// built once; an unsupported mode fails immediately.
func New(mode Mode, logger *zap.Logger) (*Classifier, error) {
	profiles, err := BuildProfiles(mode)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("classifier initialized",
		zap.String("mode", string(mode)),
		zap.Int("profiles", len(profiles)))
	return &Classifier{mode: mode, profiles: profiles, logger: logger}, nil
}

// SetWarnUnclassified controls the log severity for farms no profile
// matches. Off means such farms log at debug instead of warn.
func (c *Classifier) SetWarnUnclassified(on bool) { c.warnUnclassified = on }

// Mode returns the indicator mode the classifier was built with.
func (c *Classifier) Mode() Mode { return c.mode }

// Profiles returns a copy of the profile table in priority order.
func (c *Classifier) Profiles() []model.Profile {
	out := make([]model.Profile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// Classify returns the group of the first matching profile, or nil if no
// profile matches. A nil result is an expected outcome, not an error; the
// only error is an indicator outside {0,1}.
func (c *Classifier) Classify(farm *model.Farm) (*model.Group, error) {
	vec := farm.Indicators()
	for i, v := range vec {
		if v != 0 && v != 1 {
			return nil, &IndicatorValueError{TVD: farm.TVD, Slot: i, Value: v}
		}
	}

	for _, p := range c.profiles {
		if p.Matches(vec) {
			g := p.Group
			c.logger.Debug("farm classified",
				zap.Int64("tvd", farm.TVD),
				zap.String("group", string(g)),
				zap.String("pattern", p.Pattern()))
			return &g, nil
		}
	}

	fields := []zap.Field{
		zap.Int64("tvd", farm.TVD),
		zap.Ints("indicators", vec[:]),
	}
	if c.warnUnclassified {
		c.logger.Warn("farm could not be classified", fields...)
	} else {
		c.logger.Debug("farm could not be classified", fields...)
	}
	return nil, nil
}

// Result summarizes a batch classification pass.
type Result struct {
	Total        int
	Classified   int
	Unclassified int
}

// ClassifyAll classifies every farm in place, setting each farm's Group.
// Unclassified farms keep a nil group and do not abort the pass.
func (c *Classifier) ClassifyAll(farms []*model.Farm) (Result, error) {
	res := Result{Total: len(farms)}
	for _, farm := range farms {
		g, err := c.Classify(farm)
		if err != nil {
			return res, err
		}
		farm.Group = g
		if g != nil {
			res.Classified++
		} else {
			res.Unclassified++
		}
	}
	c.logger.Info("classification complete",
		zap.String("mode", string(c.mode)),
		zap.Int("total", res.Total),
		zap.Int("classified", res.Classified),
		zap.Int("unclassified", res.Unclassified))
	return res, nil
}
