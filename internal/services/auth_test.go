package services

import (
	"context"
	"testing"

	"github.com/coursecraft/coursecraft-backend/internal/apierr"
	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/requestdata"
)

func newAuthService(t *testing.T, f *genFixture) AuthService {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	auth, err := NewAuthService(logger.NewNop(), f.users, f.usage)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return auth
}

func TestRegister_SeedsGenerationQuota(t *testing.T) {
	f := newGenFixture(t)
	auth := newAuthService(t, f)

	user, err := auth.Register(context.Background(), "new@example.com", "pw123456", "New", "User")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	usage := f.usage.usages[user.ID]
	if usage == nil {
		t.Fatalf("expected a generation usage row for the new user")
	}
	if usage.FreeGenerationsUsed != 0 {
		t.Fatalf("fresh usage: want 0 used, got %d", usage.FreeGenerationsUsed)
	}
}

func TestRegister_ThenFirstGenerationSucceeds(t *testing.T) {
	f := newGenFixture(t)
	auth := newAuthService(t, f)

	user, err := auth.Register(context.Background(), "new@example.com", "pw123456", "New", "User")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: user.ID})
	req := GenerateRequest{
		CourseSpec: map[string]any{"academicLevel": "HS", "subject": "Biology"},
		UserID:     user.ID,
	}
	course, err := f.svc.GenerateSync(ctx, req, nil)
	if err != nil {
		t.Fatalf("first generation after register: %v", err)
	}
	if course == nil || course.Title != "Intro Bio" {
		t.Fatalf("unexpected course: %#v", course)
	}
	if got := f.usage.usages[user.ID].FreeGenerationsUsed; got != 1 {
		t.Fatalf("usage after first success: want=1 got=%d", got)
	}
}

func TestLogin_RoundTripsRegisteredUser(t *testing.T) {
	f := newGenFixture(t)
	auth := newAuthService(t, f)

	if _, err := auth.Register(context.Background(), "new@example.com", "pw123456", "New", "User"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, user, err := auth.Login(context.Background(), "new@example.com", "pw123456")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	parsed, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if parsed != user.ID {
		t.Fatalf("token subject mismatch: want %s got %s", user.ID, parsed)
	}

	if _, _, err := auth.Login(context.Background(), "new@example.com", "wrong"); !apierr.IsCode(err, "auth_error") {
		t.Fatalf("bad password: want auth_error got %v", err)
	}
}
