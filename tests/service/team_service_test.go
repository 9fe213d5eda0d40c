package service_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/exxata/connect-api/internal/auth"
	"github.com/exxata/connect-api/internal/config"
	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/repository"
	"github.com/exxata/connect-api/internal/service"
)

func (f *fixture) withTeam(gotrue *auth.GoTrueClient) *service.TeamService {
	return service.NewTeamService(
		repository.NewProfileRepository(f.db),
		repository.NewMemberRepository(f.db),
		f.projects,
		gotrue,
		zap.NewNop(),
	)
}

// fakeGoTrue serves the admin endpoints the team flows touch. Emails in
// taken are reported as existing auth accounts.
func fakeGoTrue(t *testing.T, accountID uuid.UUID, taken ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("apikey"))
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/v1/invite":
			var payload struct {
				Email string `json:"email"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			json.NewEncoder(w).Encode(auth.GoTrueUser{
				ID:    accountID.String(),
				Email: payload.Email,
			})
		case r.Method == http.MethodGet && r.URL.Path == "/auth/v1/admin/users":
			users := []auth.GoTrueUser{}
			email := r.URL.Query().Get("email")
			for _, existing := range taken {
				if existing == email {
					users = append(users, auth.GoTrueUser{ID: uuid.New().String(), Email: email})
				}
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"users": users})
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/auth/v1/admin/users/"):
			var payload struct {
				AppMetadata map[string]interface{} `json:"app_metadata"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			json.NewEncoder(w).Encode(auth.GoTrueUser{
				ID:          strings.TrimPrefix(r.URL.Path, "/auth/v1/admin/users/"),
				AppMetadata: payload.AppMetadata,
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestAddMember(t *testing.T) {
	f := setup(t)
	team := f.withTeam(nil)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	userID := uuid.New()
	f.createProfile(t, userID, domain.RoleCollaborator)

	member, err := team.AddMember(ctx, project.ID, &domain.AddMemberRequest{UserID: userID})
	require.NoError(t, err)
	// role defaults to the profile's platform role
	assert.Equal(t, domain.RoleCollaborator, member.Role)

	_, err = team.AddMember(ctx, project.ID, &domain.AddMemberRequest{UserID: userID})
	assert.ErrorIs(t, err, service.ErrMemberExists)
}

func TestAddMember_UnknownUser(t *testing.T) {
	f := setup(t)
	team := f.withTeam(nil)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	_, err := team.AddMember(ctx, project.ID, &domain.AddMemberRequest{UserID: uuid.New()})
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestAddMember_ReactivatesRemovedRow(t *testing.T) {
	f := setup(t)
	team := f.withTeam(nil)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	userID := uuid.New()
	f.createProfile(t, userID, domain.RoleCollaborator)

	first, err := team.AddMember(ctx, project.ID, &domain.AddMemberRequest{UserID: userID})
	require.NoError(t, err)

	require.NoError(t, team.RemoveMember(ctx, project.ID, userID))

	second, err := team.AddMember(ctx, project.ID, &domain.AddMemberRequest{UserID: userID, Role: "cliente"})
	require.NoError(t, err)
	// the original row comes back instead of a duplicate
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domain.RoleClient, second.Role)

	members, err := team.ListMembers(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2) // creator plus the re-added user
}

func TestUpdateMemberRole(t *testing.T) {
	f := setup(t)
	team := f.withTeam(nil)
	ctx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, ctx, "Obra")

	userID := uuid.New()
	f.createProfile(t, userID, domain.RoleClient)
	_, err := team.AddMember(ctx, project.ID, &domain.AddMemberRequest{UserID: userID})
	require.NoError(t, err)

	updated, err := team.UpdateMemberRole(ctx, project.ID, userID, "gerente")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, updated.Role)

	_, err = team.UpdateMemberRole(ctx, project.ID, uuid.New(), "admin")
	assert.ErrorIs(t, err, service.ErrMemberNotFound)
}

func TestTeam_RequiresManagePermission(t *testing.T) {
	f := setup(t)
	team := f.withTeam(nil)
	staffCtx, _ := ctxAs(domain.RoleManager)
	project := f.createProject(t, staffCtx, "Obra")

	collabCtx, _ := ctxAs(domain.RoleCollaborator)
	_, err := team.AddMember(collabCtx, project.ID, &domain.AddMemberRequest{UserID: uuid.New()})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	_, err = team.ListProfiles(collabCtx, "")
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestInvite(t *testing.T) {
	f := setup(t)
	accountID := uuid.New()
	server := fakeGoTrue(t, accountID)
	defer server.Close()

	team := f.withTeam(auth.NewGoTrueClient(&config.SupabaseConfig{
		URL:        server.URL,
		ServiceKey: "service-key",
	}))
	ctx, _ := ctxAs(domain.RoleAdmin)

	profile, err := team.Invite(ctx, &domain.InviteUserRequest{
		Email: "nova@exxata.com.br",
		Name:  "Nova Pessoa",
		Role:  "consultor",
	})
	require.NoError(t, err)

	assert.Equal(t, accountID, profile.ID)
	assert.Equal(t, domain.RoleCollaborator, profile.Role)
	assert.Equal(t, domain.UserStatusInvited, profile.Status)
}

func TestInvite_ExistingProfileConflicts(t *testing.T) {
	f := setup(t)
	server := fakeGoTrue(t, uuid.New())
	defer server.Close()

	team := f.withTeam(auth.NewGoTrueClient(&config.SupabaseConfig{
		URL:        server.URL,
		ServiceKey: "service-key",
	}))
	ctx, _ := ctxAs(domain.RoleAdmin)

	existing := uuid.New()
	f.createProfile(t, existing, domain.RoleClient)

	var profile domain.Profile
	require.NoError(t, f.db.First(&profile, "id = ?", existing).Error)

	_, err := team.Invite(ctx, &domain.InviteUserRequest{
		Email: profile.Email,
		Name:  "Duplicada",
	})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestInvite_ExistingAuthAccountConflicts(t *testing.T) {
	f := setup(t)
	server := fakeGoTrue(t, uuid.New(), "ocupado@exxata.com.br")
	defer server.Close()

	team := f.withTeam(auth.NewGoTrueClient(&config.SupabaseConfig{
		URL:        server.URL,
		ServiceKey: "service-key",
	}))
	ctx, _ := ctxAs(domain.RoleAdmin)

	_, err := team.Invite(ctx, &domain.InviteUserRequest{
		Email: "ocupado@exxata.com.br",
		Name:  "Conta Existente",
	})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestUpdateProfileRole(t *testing.T) {
	f := setup(t)
	server := fakeGoTrue(t, uuid.New())
	defer server.Close()

	team := f.withTeam(auth.NewGoTrueClient(&config.SupabaseConfig{
		URL:        server.URL,
		ServiceKey: "service-key",
	}))
	ctx, _ := ctxAs(domain.RoleAdmin)

	userID := uuid.New()
	f.createProfile(t, userID, domain.RoleClient)

	dto, err := team.UpdateProfileRole(ctx, userID, "gerente")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, dto.Role)

	var stored domain.Profile
	require.NoError(t, f.db.First(&stored, "id = ?", userID).Error)
	assert.Equal(t, domain.RoleManager, stored.Role)
}

func TestUpdateProfileRole_UnknownUser(t *testing.T) {
	f := setup(t)
	server := fakeGoTrue(t, uuid.New())
	defer server.Close()

	team := f.withTeam(auth.NewGoTrueClient(&config.SupabaseConfig{
		URL:        server.URL,
		ServiceKey: "service-key",
	}))
	ctx, _ := ctxAs(domain.RoleAdmin)

	_, err := team.UpdateProfileRole(ctx, uuid.New(), "gerente")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
