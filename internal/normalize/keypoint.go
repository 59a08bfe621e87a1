package normalize

const defaultKeyPointImportance = "medium"

var keyPointImportances = []string{"low", "medium", "high"}

type NormalizedKeyPoint struct {
	Point       string   `json:"point"`
	Explanation string   `json:"explanation"`
	Importance  string   `json:"importance"`
	Category    string   `json:"category,omitempty"`
	Examples    []string `json:"examples,omitempty"`
}

func parseKeyPoints(raw []any) []NormalizedKeyPoint {
	out := make([]NormalizedKeyPoint, 0, len(raw))
	for _, kv := range raw {
		m, ok := asMap(kv)
		if !ok {
			continue
		}
		out = append(out, NormalizedKeyPoint{
			Point:       asString(pick(m, "point"), ""),
			Explanation: asString(pick(m, "explanation"), ""),
			Importance:  asEnum(pick(m, "importance"), keyPointImportances, defaultKeyPointImportance),
			Category:    asString(pick(m, "category"), ""),
			Examples:    asStringSlice(pick(m, "examples")),
		})
	}
	return out
}
