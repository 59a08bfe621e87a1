package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/types"
	"github.com/coursecraft/coursecraft-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "coursecraft", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.AcademicLevel{},
		&types.Subject{},
		&types.Course{},
		&types.Lesson{},
		&types.LessonContent{},
		&types.Quiz{},
		&types.Flashcard{},
		&types.KeyPoint{},
		&types.MindMap{},
		&types.Enrollment{},
		&types.GenerationUsage{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	return nil
}

// SeedLookups makes sure the academic level and subject tables carry the
// default set referenced by generation requests. Idempotent.
func (s *PostgresService) SeedLookups() error {
	levels := []string{"Elementary", "Middle School", "HS", "Undergraduate", "Graduate", "Professional"}
	subjects := []string{"Mathematics", "Biology", "Chemistry", "Physics", "History", "Computer Science", "Languages", "Economics"}

	for _, name := range levels {
		lvl := types.AcademicLevel{Name: name}
		if err := s.db.Where("name = ?", name).FirstOrCreate(&lvl).Error; err != nil {
			return fmt.Errorf("seed academic level %q: %w", name, err)
		}
	}
	for _, name := range subjects {
		sub := types.Subject{Name: name}
		if err := s.db.Where("name = ?", name).FirstOrCreate(&sub).Error; err != nil {
			return fmt.Errorf("seed subject %q: %w", name, err)
		}
	}
	s.log.Info("Lookup tables seeded", "levels", len(levels), "subjects", len(subjects))
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
