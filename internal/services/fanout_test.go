package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/normalize"
)

type fanoutFixture struct {
	svc        FanoutService
	courses    *fakeCourseRepo
	lessons    *fakeLessonRepo
	contents   *fakeLessonContentRepo
	quizzes    *fakeQuizRepo
	flashcards *fakeFlashcardRepo
	keyPoints  *fakeKeyPointRepo
	mindMaps   *fakeMindMapRepo
}

func newFanoutFixture() *fanoutFixture {
	f := &fanoutFixture{
		courses:    newFakeCourseRepo(),
		lessons:    &fakeLessonRepo{},
		contents:   &fakeLessonContentRepo{},
		quizzes:    &fakeQuizRepo{},
		flashcards: &fakeFlashcardRepo{},
		keyPoints:  &fakeKeyPointRepo{},
		mindMaps:   &fakeMindMapRepo{},
	}
	f.svc = NewFanoutService(logger.NewNop(), f.courses, f.lessons, f.contents, f.quizzes, f.flashcards, f.keyPoints, f.mindMaps)
	return f
}

func TestPersist_BatchesPerEntityType(t *testing.T) {
	f := newFanoutFixture()
	courseID := uuid.New()

	res := normalize.Normalize(`{
		"title": "Chemistry",
		"lessons": [
			{
				"title": "Atoms",
				"content": "Matter is made of atoms.",
				"quiz": {"questions": [{"question": "Q"}]},
				"flashcards": [{"front": "H", "back": "Hydrogen"}, {"front": "He", "back": "Helium"}, {"front": "Li", "back": "Lithium"}]
			},
			{
				"title": "Bonds",
				"content": "Atoms bond.",
				"flashcards": [{"front": "Ionic", "back": "Electron transfer"}]
			}
		]
	}`)
	if err := f.svc.Persist(context.Background(), res, courseID); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	// One insert per lesson, then one batched write per entity type.
	if f.lessons.createCalls != 2 {
		t.Fatalf("lesson create calls: want=2 got=%d", f.lessons.createCalls)
	}
	if f.contents.createCalls != 1 || len(f.contents.contents) != 2 {
		t.Fatalf("content batch: want 1 call with 2 rows, got %d calls with %d rows", f.contents.createCalls, len(f.contents.contents))
	}
	if f.quizzes.createCalls != 1 || len(f.quizzes.quizzes) != 1 {
		t.Fatalf("quiz batch: want 1 call with 1 row, got %d calls with %d rows", f.quizzes.createCalls, len(f.quizzes.quizzes))
	}
	if f.flashcards.createCalls != 1 || len(f.flashcards.cards) != 4 {
		t.Fatalf("flashcard batch: want 1 call with 4 rows, got %d calls with %d rows", f.flashcards.createCalls, len(f.flashcards.cards))
	}
	// Nothing queued for absent types.
	if f.keyPoints.createCalls != 0 || f.mindMaps.createCalls != 0 {
		t.Fatalf("expected no key point or mind map writes, got %d/%d", f.keyPoints.createCalls, f.mindMaps.createCalls)
	}

	// Course patched once with normalized fields.
	if f.courses.updateCalls != 1 {
		t.Fatalf("course update calls: want=1 got=%d", f.courses.updateCalls)
	}
	if got := f.courses.updates[courseID]["title"]; got != "Chemistry" {
		t.Fatalf("course title patch: want=Chemistry got=%v", got)
	}
}

func TestPersist_FlashcardOrderIsPerLesson(t *testing.T) {
	f := newFanoutFixture()
	courseID := uuid.New()

	res := normalize.Normalize(`{
		"lessons": [
			{"flashcards": [{"front": "a", "back": "1"}, {"front": "b", "back": "2"}, {"front": "c", "back": "3"}]},
			{"flashcards": [{"front": "d", "back": "4"}]}
		]
	}`)
	if err := f.svc.Persist(context.Background(), res, courseID); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	if len(f.flashcards.cards) != 4 {
		t.Fatalf("want 4 flashcards, got %d", len(f.flashcards.cards))
	}
	first := f.flashcards.cards[:3]
	for i, fc := range first {
		if fc.Index != i+1 {
			t.Fatalf("lesson 1 flashcard %d: want index %d got %d", i, i+1, fc.Index)
		}
		if fc.LessonID != first[0].LessonID {
			t.Fatalf("lesson 1 flashcards must share a lesson id")
		}
	}
	// Second lesson restarts at 1 under its own lesson id.
	last := f.flashcards.cards[3]
	if last.Index != 1 {
		t.Fatalf("lesson 2 flashcard: want index 1 got %d", last.Index)
	}
	if last.LessonID == first[0].LessonID {
		t.Fatalf("lesson 2 flashcard must not share lesson 1's id")
	}
}

func TestPersist_DerivesMindMapConnections(t *testing.T) {
	f := newFanoutFixture()

	res := normalize.Normalize(`{
		"lessons": [{
			"mindMap": {
				"title": "Topics",
				"nodes": [
					{"id": "root", "label": "Root", "children": ["leaf"]},
					{"id": "leaf", "label": "Leaf", "parent": "root"}
				]
			}
		}]
	}`)
	if err := f.svc.Persist(context.Background(), res, uuid.New()); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if len(f.mindMaps.maps) != 1 {
		t.Fatalf("want 1 mind map, got %d", len(f.mindMaps.maps))
	}
	mm := f.mindMaps.maps[0]

	var data struct {
		Nodes []normalize.MindMapNode `json:"nodes"`
	}
	if err := json.Unmarshal(mm.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if len(data.Nodes) != 2 {
		t.Fatalf("data must carry all nodes, got %d", len(data.Nodes))
	}

	var connections []normalize.MindMapNode
	if err := json.Unmarshal(mm.Connections, &connections); err != nil {
		t.Fatalf("unmarshal connections: %v", err)
	}
	if len(connections) != 1 || connections[0].ID != "root" {
		t.Fatalf("connections must hold only nodes with children, got %#v", connections)
	}
}

func TestPersist_PropagatesStorageErrors(t *testing.T) {
	f := newFanoutFixture()
	f.flashcards.failCreate = true

	res := normalize.Normalize(`{
		"lessons": [{"flashcards": [{"front": "x", "back": "y"}]}]
	}`)
	if err := f.svc.Persist(context.Background(), res, uuid.New()); err == nil {
		t.Fatalf("expected storage error to propagate")
	}
}
