package server

import "fmt"

// Tool is one callable operation in the catalog. Arguments arrive as a JSON
// object; the handler validates and dispatches to the session.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	handler func(args map[string]interface{}) (interface{}, error)
}

// Catalog lists every tool bound to a session, in presentation order.
func Catalog(s *Session) []Tool {
	return []Tool{
		{
			Name:        "load_farm_data",
			Description: "Load a farm CSV into the session. Args: file_path.",
			handler: func(args map[string]interface{}) (interface{}, error) {
				path, err := requiredString(args, "file_path")
				if err != nil {
					return nil, err
				}
				return s.LoadData(path)
			},
		},
		{
			Name:        "classify_farms",
			Description: "Classify loaded farms into groups. Args: mode (optional).",
			handler: func(args map[string]interface{}) (interface{}, error) {
				return s.Classify(stringArg(args, "mode"))
			},
		},
		{
			Name:        "get_data_info",
			Description: "Describe the session: loaded rows, classification state, group counts.",
			handler: func(args map[string]interface{}) (interface{}, error) {
				return s.DataInfo()
			},
		},
		{
			Name:        "query_farms",
			Description: "Filter farms. Args: group, field, min_value, max_value, limit (all optional).",
			handler: func(args map[string]interface{}) (interface{}, error) {
				return s.QueryFarms(
					stringArg(args, "group"),
					stringArg(args, "field"),
					floatArg(args, "min_value"),
					floatArg(args, "max_value"),
					intArg(args, "limit"),
				)
			},
		},
		{
			Name:        "get_farm_details",
			Description: "Return every field of one farm. Args: tvd.",
			handler: func(args map[string]interface{}) (interface{}, error) {
				tvd, err := requiredInt(args, "tvd")
				if err != nil {
					return nil, err
				}
				return s.FarmDetails(int64(tvd))
			},
		},
		{
			Name:        "calculate_group_statistics",
			Description: "Per-group statistics over every numeric field. Args: group (optional).",
			handler: func(args map[string]interface{}) (interface{}, error) {
				return s.GroupStatistics(stringArg(args, "group"))
			},
		},
		{
			Name:        "compare_groups",
			Description: "Side-by-side statistics for two groups. Args: group1, group2, fields (optional).",
			handler: func(args map[string]interface{}) (interface{}, error) {
				g1, err := requiredString(args, "group1")
				if err != nil {
					return nil, err
				}
				g2, err := requiredString(args, "group2")
				if err != nil {
					return nil, err
				}
				return s.CompareGroups(g1, g2, stringSliceArg(args, "fields"))
			},
		},
		{
			Name:        "aggregate_by_field",
			Description: "Apply sum, mean, median, min, max or count to a field. Args: field, operation, group (optional).",
			handler: func(args map[string]interface{}) (interface{}, error) {
				field, err := requiredString(args, "field")
				if err != nil {
					return nil, err
				}
				op, err := requiredString(args, "operation")
				if err != nil {
					return nil, err
				}
				return s.Aggregate(field, op, stringArg(args, "group"))
			},
		},
		{
			Name:        "get_data_insights",
			Description: "Overview of the dataset: counts, herd size distribution, outliers.",
			handler: func(args map[string]interface{}) (interface{}, error) {
				return s.Insights()
			},
		},
		{
			Name:        "answer_question",
			Description: "Answer a free-text question about the dataset. Args: question.",
			handler: func(args map[string]interface{}) (interface{}, error) {
				question, err := requiredString(args, "question")
				if err != nil {
					return nil, err
				}
				return s.Answer(question)
			},
		},
		{
			Name:        "export_analysis",
			Description: "Write results to disk. Args: output_dir (optional), format (csv, excel; optional).",
			handler: func(args map[string]interface{}) (interface{}, error) {
				return s.Export(stringArg(args, "output_dir"), stringArg(args, "format"))
			},
		},
	}
}

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func requiredString(args map[string]interface{}, key string) (string, error) {
	v := stringArg(args, key)
	if v == "" {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	return v, nil
}

// floatArg returns nil when the key is absent or not numeric. JSON numbers
// decode as float64.
func floatArg(args map[string]interface{}, key string) *float64 {
	if v, ok := args[key].(float64); ok {
		return &v
	}
	return nil
}

func intArg(args map[string]interface{}, key string) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return 0
}

func requiredInt(args map[string]interface{}, key string) (int, error) {
	if v, ok := args[key].(float64); ok {
		return int(v), nil
	}
	return 0, fmt.Errorf("missing required numeric argument %q", key)
}

func stringSliceArg(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
