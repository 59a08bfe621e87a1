package normalize

const defaultFlashcardDifficulty = "medium"

var flashcardDifficulties = []string{"easy", "medium", "hard"}

type NormalizedFlashcard struct {
	Front       string `json:"front"`
	Back        string `json:"back"`
	Difficulty  string `json:"difficulty"`
	Hint        string `json:"hint,omitempty"`
	Explanation string `json:"explanation,omitempty"`
}

func parseFlashcards(raw []any) []NormalizedFlashcard {
	out := make([]NormalizedFlashcard, 0, len(raw))
	for _, fv := range raw {
		m, ok := asMap(fv)
		if !ok {
			continue
		}
		out = append(out, NormalizedFlashcard{
			Front:       asString(pick(m, "front"), ""),
			Back:        asString(pick(m, "back"), ""),
			Difficulty:  asEnum(pick(m, "difficulty"), flashcardDifficulties, defaultFlashcardDifficulty),
			Hint:        asString(pick(m, "hint"), ""),
			Explanation: asString(pick(m, "explanation"), ""),
		})
	}
	return out
}
