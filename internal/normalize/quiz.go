package normalize

const (
	defaultPassingScore   = 70
	defaultQuestionPoints = 1
	defaultQuestionType   = "multiple_choice"
)

var questionTypes = []string{"multiple_choice", "short_answer", "fill_in_blank", "essay", "true_false"}

type NormalizedQuiz struct {
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Questions      []NormalizedQuestion `json:"questions"`
	TotalQuestions int                  `json:"totalQuestions"`
	PassingScore   int                  `json:"passingScore"`
	TimeLimit      *int                 `json:"timeLimit,omitempty"`
	Instructions   string               `json:"instructions"`
}

type NormalizedQuestion struct {
	Question      string   `json:"question"`
	Type          string   `json:"type"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Points        int      `json:"points"`
}

// parseQuiz maps a raw quiz object. TotalQuestions is always recomputed from
// the parsed question list; an input value is never trusted.
func parseQuiz(qm map[string]any) NormalizedQuiz {
	q := NormalizedQuiz{
		Title:        asString(pick(qm, "title"), "Lesson Quiz"),
		Description:  asString(pick(qm, "description"), ""),
		PassingScore: asInt(pick(qm, "passingScore", "passing_score"), defaultPassingScore),
		TimeLimit:    asIntPtr(pick(qm, "timeLimit", "time_limit")),
		Instructions: asString(pick(qm, "instructions"), "Answer all questions to the best of your ability."),
	}

	raw, _ := asSlice(pick(qm, "questions"))
	q.Questions = make([]NormalizedQuestion, 0, len(raw))
	for _, qv := range raw {
		m, ok := asMap(qv)
		if !ok {
			continue
		}
		q.Questions = append(q.Questions, parseQuestion(m))
	}
	q.TotalQuestions = len(q.Questions)
	return q
}

func parseQuestion(m map[string]any) NormalizedQuestion {
	return NormalizedQuestion{
		Question:      asString(pick(m, "question"), ""),
		Type:          asEnum(pick(m, "type"), questionTypes, defaultQuestionType),
		Options:       asStringSlice(pick(m, "options")),
		CorrectAnswer: asString(pick(m, "correct_answer", "correctAnswer"), ""),
		Explanation:   asString(pick(m, "explanation"), ""),
		Points:        asInt(pick(m, "points"), defaultQuestionPoints),
	}
}
