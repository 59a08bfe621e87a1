package normalize

import (
	"encoding/json"
	"strings"
)

// Defaults applied when the generative output omits a field. The degraded
// fallback is the explicit policy for prose output: one "Introduction" lesson
// carrying the raw text verbatim.
const (
	DefaultCourseTitle    = "Untitled Course"
	DegradedCourseTitle   = "AI Generated Course"
	DegradedLessonTitle   = "Introduction"
	defaultDifficulty     = "beginner"
	defaultEstimatedHours = 10
	defaultLessonDuration = 30
)

type NormalizedCourse struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Objectives     []string `json:"objectives"`
	Prerequisites  []string `json:"prerequisites"`
	Difficulty     string   `json:"difficulty"`
	EstimatedHours int      `json:"estimatedHours"`
}

type NormalizedLesson struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Content     string                `json:"content"`
	Duration    int                   `json:"duration"`
	Order       int                   `json:"order"`
	Objectives  []string              `json:"objectives"`
	Quiz        *NormalizedQuiz       `json:"quiz,omitempty"`
	Flashcards  []NormalizedFlashcard `json:"flashcards,omitempty"`
	KeyPoints   []NormalizedKeyPoint  `json:"keyPoints,omitempty"`
	MindMap     *NormalizedMindMap    `json:"mindMap,omitempty"`
}

// Result is the Normalizer's tagged output. Degraded marks the prose
// fallback; downstream consumers must treat degraded results as ordinary,
// valid courses, but callers can log or flag them.
type Result struct {
	Course   NormalizedCourse   `json:"course"`
	Lessons  []NormalizedLesson `json:"lessons"`
	Degraded bool               `json:"degraded"`
}

// Normalize converts raw generative output into a fully-defaulted course
// representation. It never fails: output that cannot be parsed as a JSON
// object (directly or inside a fenced block) yields the degraded single-lesson
// result instead.
func Normalize(raw string) Result {
	if block, ok := extractFencedBlock(raw); ok {
		if m, ok := parseObject(block); ok {
			return fromStructured(m)
		}
	}
	if m, ok := parseObject(raw); ok {
		return fromStructured(m)
	}
	return degraded(raw)
}

// extractFencedBlock returns the contents of the first ``` fence in raw,
// skipping an optional language tag on the opening line.
func extractFencedBlock(raw string) (string, bool) {
	start := strings.Index(raw, "```")
	if start < 0 {
		return "", false
	}
	rest := raw[start+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		// Opening line may carry a language tag ("json"); drop it either way.
		first := strings.TrimSpace(rest[:nl])
		if first == "" || !strings.ContainsAny(first, "{[") {
			rest = rest[nl+1:]
		}
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

func parseObject(s string) (map[string]any, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] != '{' {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	return m, true
}

func fromStructured(m map[string]any) Result {
	// Some outputs nest the course object; tolerate both layouts.
	courseSrc := m
	if cm, ok := asMap(m["course"]); ok {
		courseSrc = cm
	}

	course := NormalizedCourse{
		Title:          asString(pick(courseSrc, "title"), DefaultCourseTitle),
		Description:    asString(pick(courseSrc, "description"), ""),
		Objectives:     asStringSlice(pick(courseSrc, "objectives")),
		Prerequisites:  asStringSlice(pick(courseSrc, "prerequisites")),
		Difficulty:     asString(pick(courseSrc, "difficulty"), defaultDifficulty),
		EstimatedHours: asInt(pick(courseSrc, "estimatedHours", "estimated_hours"), defaultEstimatedHours),
	}

	rawLessons, _ := asSlice(pick(m, "lessons"))
	if len(rawLessons) == 0 {
		rawLessons, _ = asSlice(pick(courseSrc, "lessons"))
	}

	lessons := make([]NormalizedLesson, 0, len(rawLessons))
	for i, lv := range rawLessons {
		lm, ok := asMap(lv)
		if !ok {
			lm = map[string]any{}
		}
		lessons = append(lessons, normalizeLesson(lm, i+1))
	}

	return Result{Course: course, Lessons: lessons}
}

// normalizeLesson maps one raw lesson object. order is the 1-based position
// in the source array; any "order" field in the input is ignored so lesson
// order stays dense and sequential.
func normalizeLesson(lm map[string]any, order int) NormalizedLesson {
	l := NormalizedLesson{
		Title:       asString(pick(lm, "title"), "Untitled Lesson"),
		Description: asString(pick(lm, "description"), ""),
		Content:     asString(pick(lm, "content"), ""),
		Duration:    asInt(pick(lm, "duration"), defaultLessonDuration),
		Order:       order,
		Objectives:  asStringSlice(pick(lm, "objectives")),
	}

	if qm, ok := asMap(pick(lm, "quiz")); ok {
		q := parseQuiz(qm)
		l.Quiz = &q
	}
	if fs, ok := asSlice(pick(lm, "flashcards")); ok {
		l.Flashcards = parseFlashcards(fs)
	}
	if ks, ok := asSlice(pick(lm, "keyPoints", "key_points")); ok {
		l.KeyPoints = parseKeyPoints(ks)
	}
	if mm, ok := asMap(pick(lm, "mindMap", "mind_map")); ok {
		m := parseMindMap(mm)
		l.MindMap = &m
	}
	return l
}

func degraded(raw string) Result {
	return Result{
		Course: NormalizedCourse{
			Title:          DegradedCourseTitle,
			Description:    "",
			Objectives:     []string{},
			Prerequisites:  []string{},
			Difficulty:     defaultDifficulty,
			EstimatedHours: defaultEstimatedHours,
		},
		Lessons: []NormalizedLesson{
			{
				Title:      DegradedLessonTitle,
				Content:    raw,
				Duration:   defaultLessonDuration,
				Order:      1,
				Objectives: []string{},
			},
		},
		Degraded: true,
	}
}
