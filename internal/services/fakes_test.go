package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursecraft/coursecraft-backend/internal/normalize"
	"github.com/coursecraft/coursecraft-backend/internal/queue"
	"github.com/coursecraft/coursecraft-backend/internal/types"
)

// In-memory fakes for the repo interfaces. Create assigns ids the way the
// database default would.

type fakeUserRepo struct {
	users map[uuid.UUID]*types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*types.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.ID] = u
	}
	return users, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	return nil
}

type fakeCourseRepo struct {
	courses     map[uuid.UUID]*types.Course
	updates     map[uuid.UUID]map[string]interface{}
	updateCalls int
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses: map[uuid.UUID]*types.Course{},
		updates: map[uuid.UUID]map[string]interface{}{},
	}
}

func (r *fakeCourseRepo) Create(ctx context.Context, tx *gorm.DB, courses []*types.Course) ([]*types.Course, error) {
	for _, c := range courses {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.courses[c.ID] = c
	}
	return courses, nil
}

func (r *fakeCourseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error) {
	return r.courses[id], nil
}

func (r *fakeCourseRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Course, error) {
	var out []*types.Course
	for _, c := range r.courses {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	r.updateCalls++
	r.updates[id] = updates
	if c, ok := r.courses[id]; ok && c != nil {
		if title, ok := updates["title"].(string); ok {
			c.Title = title
		}
	}
	return nil
}

type fakeLessonRepo struct {
	lessons     []*types.Lesson
	createCalls int
}

func (r *fakeLessonRepo) Create(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) ([]*types.Lesson, error) {
	r.createCalls++
	for _, l := range lessons {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		r.lessons = append(r.lessons, l)
	}
	return lessons, nil
}

func (r *fakeLessonRepo) GetByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Lesson, error) {
	var out []*types.Lesson
	for _, l := range r.lessons {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeLessonContentRepo struct {
	contents    []*types.LessonContent
	createCalls int
}

func (r *fakeLessonContentRepo) Create(ctx context.Context, tx *gorm.DB, contents []*types.LessonContent) ([]*types.LessonContent, error) {
	r.createCalls++
	r.contents = append(r.contents, contents...)
	return contents, nil
}

func (r *fakeLessonContentRepo) GetByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.LessonContent, error) {
	return nil, nil
}

type fakeQuizRepo struct {
	quizzes     []*types.Quiz
	createCalls int
}

func (r *fakeQuizRepo) Create(ctx context.Context, tx *gorm.DB, quizzes []*types.Quiz) ([]*types.Quiz, error) {
	r.createCalls++
	r.quizzes = append(r.quizzes, quizzes...)
	return quizzes, nil
}

func (r *fakeQuizRepo) GetByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.Quiz, error) {
	return nil, nil
}

type fakeFlashcardRepo struct {
	cards       []*types.Flashcard
	createCalls int
	failCreate  bool
}

func (r *fakeFlashcardRepo) Create(ctx context.Context, tx *gorm.DB, cards []*types.Flashcard) ([]*types.Flashcard, error) {
	if r.failCreate {
		return nil, fmt.Errorf("flashcard write refused")
	}
	r.createCalls++
	r.cards = append(r.cards, cards...)
	return cards, nil
}

func (r *fakeFlashcardRepo) GetByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.Flashcard, error) {
	return nil, nil
}

type fakeKeyPointRepo struct {
	points      []*types.KeyPoint
	createCalls int
}

func (r *fakeKeyPointRepo) Create(ctx context.Context, tx *gorm.DB, points []*types.KeyPoint) ([]*types.KeyPoint, error) {
	r.createCalls++
	r.points = append(r.points, points...)
	return points, nil
}

func (r *fakeKeyPointRepo) GetByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.KeyPoint, error) {
	return nil, nil
}

type fakeMindMapRepo struct {
	maps        []*types.MindMap
	createCalls int
}

func (r *fakeMindMapRepo) Create(ctx context.Context, tx *gorm.DB, maps []*types.MindMap) ([]*types.MindMap, error) {
	r.createCalls++
	r.maps = append(r.maps, maps...)
	return maps, nil
}

func (r *fakeMindMapRepo) GetByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.MindMap, error) {
	return nil, nil
}

type fakeEnrollmentRepo struct {
	enrollments []*types.Enrollment
}

func (r *fakeEnrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollments []*types.Enrollment) ([]*types.Enrollment, error) {
	for _, e := range enrollments {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		r.enrollments = append(r.enrollments, e)
	}
	return enrollments, nil
}

func (r *fakeEnrollmentRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Enrollment, error) {
	return r.enrollments, nil
}

type fakeUsageRepo struct {
	usages map[uuid.UUID]*types.GenerationUsage
	getErr error
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{usages: map[uuid.UUID]*types.GenerationUsage{}}
}

func (r *fakeUsageRepo) Create(ctx context.Context, tx *gorm.DB, usages []*types.GenerationUsage) ([]*types.GenerationUsage, error) {
	for _, u := range usages {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.usages[u.UserID] = u
	}
	return usages, nil
}

func (r *fakeUsageRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.GenerationUsage, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.usages[userID], nil
}

func (r *fakeUsageRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	for _, u := range r.usages {
		if u.ID == id {
			if used, ok := updates["free_generations_used"].(int); ok {
				u.FreeGenerationsUsed = used
			}
		}
	}
	return nil
}

type fakeLevelRepo struct {
	levels map[string]*types.AcademicLevel
}

func newFakeLevelRepo(names ...string) *fakeLevelRepo {
	r := &fakeLevelRepo{levels: map[string]*types.AcademicLevel{}}
	for _, n := range names {
		r.levels[n] = &types.AcademicLevel{ID: uuid.New(), Name: n}
	}
	return r
}

func (r *fakeLevelRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.AcademicLevel, error) {
	return r.levels[name], nil
}

func (r *fakeLevelRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.AcademicLevel, error) {
	return nil, nil
}

type fakeSubjectRepo struct {
	subjects map[string]*types.Subject
}

func newFakeSubjectRepo(names ...string) *fakeSubjectRepo {
	r := &fakeSubjectRepo{subjects: map[string]*types.Subject{}}
	for _, n := range names {
		r.subjects[n] = &types.Subject{ID: uuid.New(), Name: n}
	}
	return r
}

func (r *fakeSubjectRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Subject, error) {
	return r.subjects[name], nil
}

func (r *fakeSubjectRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Subject, error) {
	return nil, nil
}

// fakeQueue mimics the Redis hash: entries stay until Remove.

type fakeQueue struct {
	entries map[string]*queue.GenerationRequest
	order   []string
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{entries: map[string]*queue.GenerationRequest{}}
}

func (q *fakeQueue) Enqueue(ctx context.Context, req *queue.GenerationRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if _, ok := q.entries[req.ID]; !ok {
		q.order = append(q.order, req.ID)
	}
	q.entries[req.ID] = req
	return nil
}

func (q *fakeQueue) Drain(ctx context.Context) ([]*queue.GenerationRequest, error) {
	out := make([]*queue.GenerationRequest, 0, len(q.entries))
	for _, id := range q.order {
		if e, ok := q.entries[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (q *fakeQueue) Remove(ctx context.Context, id string) error {
	delete(q.entries, id)
	return nil
}

func (q *fakeQueue) Len(ctx context.Context) (int64, error) {
	return int64(len(q.entries)), nil
}

type fakeNotifier struct {
	successTitles []string
	failureRefs   []string
	failureUsers  []uuid.UUID
}

func (n *fakeNotifier) NotifySuccess(ctx context.Context, userID uuid.UUID, courseTitle string) {
	n.successTitles = append(n.successTitles, courseTitle)
}

func (n *fakeNotifier) NotifyFailure(ctx context.Context, userID uuid.UUID, ref string) {
	n.failureRefs = append(n.failureRefs, ref)
	n.failureUsers = append(n.failureUsers, userID)
}

// fakeGenerationClient returns canned output per call, or an error.

type fakeGenerationClient struct {
	output string
	err    error
	calls  int
}

func (c *fakeGenerationClient) GenerateCourse(ctx context.Context, spec map[string]any, events chan<- ProgressEvent) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.output, nil
}

func (c *fakeGenerationClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.output, nil
}

type fakeFanout struct {
	persisted []uuid.UUID
	results   []normalize.Result
	err       error
}

func (f *fakeFanout) Persist(ctx context.Context, res normalize.Result, courseID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.persisted = append(f.persisted, courseID)
	f.results = append(f.results, res)
	return nil
}
