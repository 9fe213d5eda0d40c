package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/exxata/connect-api/internal/auth"
	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/repository"
	"github.com/exxata/connect-api/internal/service"
)

// fixture wires the service stack over an in-memory database
type fixture struct {
	db       *gorm.DB
	projects *service.ProjectService
	overview *service.OverviewService
	activity *service.ActivityService
	panorama *service.PanoramaService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&domain.Profile{},
		&domain.Project{},
		&domain.ProjectMember{},
		&domain.ProjectActivity{},
		&domain.Indicator{},
		&domain.Conduct{},
		&domain.Panorama{},
		&domain.ProjectFile{},
	)
	require.NoError(t, err)

	log := zap.NewNop()
	projectRepo := repository.NewProjectRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	panoramaRepo := repository.NewPanoramaRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	projects := service.NewProjectService(projectRepo, memberRepo, panoramaRepo, log)

	return &fixture{
		db:       db,
		projects: projects,
		overview: service.NewOverviewService(projects, log),
		activity: service.NewActivityService(activityRepo, projects, log),
		panorama: service.NewPanoramaService(panoramaRepo, projects, log),
	}
}

// ctxAs returns a request context authenticated as the given role
func ctxAs(role domain.Role) (context.Context, uuid.UUID) {
	userID := uuid.New()
	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      userID,
		DisplayName: "Usuário de Teste",
		Email:       "teste@exxata.com.br",
		Role:        role,
	})
	return ctx, userID
}

func (f *fixture) createProfile(t *testing.T, userID uuid.UUID, role domain.Role) {
	t.Helper()
	require.NoError(t, f.db.Create(&domain.Profile{
		ID:     userID,
		Name:   "Usuário de Teste",
		Email:  "perfil-" + userID.String() + "@exxata.com.br",
		Role:   role,
		Status: domain.UserStatusActive,
	}).Error)
}

func (f *fixture) createProject(t *testing.T, ctx context.Context, name string) *domain.ProjectDTO {
	t.Helper()
	dto, err := f.projects.Create(ctx, &domain.CreateProjectRequest{
		Name:   name,
		Client: "Cliente Teste",
	})
	require.NoError(t, err)
	return dto
}

func (f *fixture) withIndicators() *service.IndicatorService {
	return service.NewIndicatorService(repository.NewIndicatorRepository(f.db), f.projects, zap.NewNop())
}
