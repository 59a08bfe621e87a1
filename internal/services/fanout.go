package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/normalize"
	"github.com/coursecraft/coursecraft-backend/internal/repos"
	"github.com/coursecraft/coursecraft-backend/internal/types"
)

// FanoutService writes a normalized course into the relational schema.
// Lessons are inserted one at a time so sub-entities can reference their ids;
// everything else is accumulated and written as one batch per entity type.
// There is no cross-type transaction: a failure partway leaves earlier
// batches committed.
type FanoutService interface {
	Persist(ctx context.Context, res normalize.Result, courseID uuid.UUID) error
}

type fanoutService struct {
	log           *logger.Logger
	courseRepo    repos.CourseRepo
	lessonRepo    repos.LessonRepo
	contentRepo   repos.LessonContentRepo
	quizRepo      repos.QuizRepo
	flashcardRepo repos.FlashcardRepo
	keyPointRepo  repos.KeyPointRepo
	mindMapRepo   repos.MindMapRepo
}

func NewFanoutService(
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	lessonRepo repos.LessonRepo,
	contentRepo repos.LessonContentRepo,
	quizRepo repos.QuizRepo,
	flashcardRepo repos.FlashcardRepo,
	keyPointRepo repos.KeyPointRepo,
	mindMapRepo repos.MindMapRepo,
) FanoutService {
	return &fanoutService{
		log:           baseLog.With("service", "FanoutService"),
		courseRepo:    courseRepo,
		lessonRepo:    lessonRepo,
		contentRepo:   contentRepo,
		quizRepo:      quizRepo,
		flashcardRepo: flashcardRepo,
		keyPointRepo:  keyPointRepo,
		mindMapRepo:   mindMapRepo,
	}
}

func (s *fanoutService) Persist(ctx context.Context, res normalize.Result, courseID uuid.UUID) error {
	if courseID == uuid.Nil {
		return fmt.Errorf("fanout: missing course id")
	}

	objectives, err := json.Marshal(res.Course.Objectives)
	if err != nil {
		return fmt.Errorf("fanout: marshal objectives: %w", err)
	}
	prerequisites, err := json.Marshal(res.Course.Prerequisites)
	if err != nil {
		return fmt.Errorf("fanout: marshal prerequisites: %w", err)
	}
	if err := s.courseRepo.UpdateFields(ctx, nil, courseID, map[string]interface{}{
		"title":           res.Course.Title,
		"description":     res.Course.Description,
		"difficulty":      res.Course.Difficulty,
		"estimated_hours": res.Course.EstimatedHours,
		"objectives":      datatypes.JSON(objectives),
		"prerequisites":   datatypes.JSON(prerequisites),
	}); err != nil {
		return fmt.Errorf("fanout: update course: %w", err)
	}

	var (
		contents   []*types.LessonContent
		quizzes    []*types.Quiz
		flashcards []*types.Flashcard
		keyPoints  []*types.KeyPoint
		mindMaps   []*types.MindMap
	)

	for _, nl := range res.Lessons {
		lessonObjectives, err := json.Marshal(nl.Objectives)
		if err != nil {
			return fmt.Errorf("fanout: marshal lesson objectives: %w", err)
		}
		lesson := &types.Lesson{
			CourseID:    courseID,
			Index:       nl.Order,
			Title:       nl.Title,
			Description: nl.Description,
			Duration:    nl.Duration,
			Objectives:  datatypes.JSON(lessonObjectives),
		}
		if _, err := s.lessonRepo.Create(ctx, nil, []*types.Lesson{lesson}); err != nil {
			return fmt.Errorf("fanout: create lesson %d: %w", nl.Order, err)
		}

		contents = append(contents, &types.LessonContent{
			LessonID: lesson.ID,
			Index:    1,
			Body:     nl.Content,
		})

		if nl.Quiz != nil {
			quiz, err := buildQuiz(lesson.ID, nl.Quiz)
			if err != nil {
				return err
			}
			quizzes = append(quizzes, quiz)
		}
		for i, fc := range nl.Flashcards {
			flashcards = append(flashcards, &types.Flashcard{
				LessonID:    lesson.ID,
				Index:       i + 1,
				Front:       fc.Front,
				Back:        fc.Back,
				Difficulty:  fc.Difficulty,
				Hint:        fc.Hint,
				Explanation: fc.Explanation,
			})
		}
		for i, kp := range nl.KeyPoints {
			examples, err := json.Marshal(kp.Examples)
			if err != nil {
				return fmt.Errorf("fanout: marshal key point examples: %w", err)
			}
			keyPoints = append(keyPoints, &types.KeyPoint{
				LessonID:    lesson.ID,
				Index:       i + 1,
				Point:       kp.Point,
				Explanation: kp.Explanation,
				Importance:  kp.Importance,
				Category:    kp.Category,
				Examples:    datatypes.JSON(examples),
			})
		}
		if nl.MindMap != nil {
			mm, err := buildMindMap(lesson.ID, nl.MindMap)
			if err != nil {
				return err
			}
			mindMaps = append(mindMaps, mm)
		}
	}

	if len(contents) > 0 {
		if _, err := s.contentRepo.Create(ctx, nil, contents); err != nil {
			return fmt.Errorf("fanout: create lesson contents: %w", err)
		}
	}
	if len(quizzes) > 0 {
		if _, err := s.quizRepo.Create(ctx, nil, quizzes); err != nil {
			return fmt.Errorf("fanout: create quizzes: %w", err)
		}
	}
	if len(flashcards) > 0 {
		if _, err := s.flashcardRepo.Create(ctx, nil, flashcards); err != nil {
			return fmt.Errorf("fanout: create flashcards: %w", err)
		}
	}
	if len(keyPoints) > 0 {
		if _, err := s.keyPointRepo.Create(ctx, nil, keyPoints); err != nil {
			return fmt.Errorf("fanout: create key points: %w", err)
		}
	}
	if len(mindMaps) > 0 {
		if _, err := s.mindMapRepo.Create(ctx, nil, mindMaps); err != nil {
			return fmt.Errorf("fanout: create mind maps: %w", err)
		}
	}

	s.log.Info("course persisted",
		"course_id", courseID,
		"lessons", len(res.Lessons),
		"quizzes", len(quizzes),
		"flashcards", len(flashcards),
		"key_points", len(keyPoints),
		"mind_maps", len(mindMaps),
		"degraded", res.Degraded,
	)
	return nil
}

func buildQuiz(lessonID uuid.UUID, nq *normalize.NormalizedQuiz) (*types.Quiz, error) {
	questions, err := json.Marshal(nq.Questions)
	if err != nil {
		return nil, fmt.Errorf("fanout: marshal quiz questions: %w", err)
	}
	return &types.Quiz{
		LessonID:       lessonID,
		Title:          nq.Title,
		Description:    nq.Description,
		Questions:      datatypes.JSON(questions),
		TotalQuestions: nq.TotalQuestions,
		PassingScore:   nq.PassingScore,
		TimeLimit:      nq.TimeLimit,
		Instructions:   nq.Instructions,
	}, nil
}

// buildMindMap stores the full node list under data and derives connections
// as the subset of nodes that declare children.
func buildMindMap(lessonID uuid.UUID, nm *normalize.NormalizedMindMap) (*types.MindMap, error) {
	data, err := json.Marshal(map[string]any{"nodes": nm.Nodes})
	if err != nil {
		return nil, fmt.Errorf("fanout: marshal mind map data: %w", err)
	}
	connected := make([]normalize.MindMapNode, 0, len(nm.Nodes))
	for _, n := range nm.Nodes {
		if len(n.Children) > 0 {
			connected = append(connected, n)
		}
	}
	connections, err := json.Marshal(connected)
	if err != nil {
		return nil, fmt.Errorf("fanout: marshal mind map connections: %w", err)
	}
	return &types.MindMap{
		LessonID:    lessonID,
		Title:       nm.Title,
		Data:        datatypes.JSON(data),
		Connections: datatypes.JSON(connections),
	}, nil
}
