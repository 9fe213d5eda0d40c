package service

import (
	"github.com/exxata/connect-api/internal/auth"
	"github.com/exxata/connect-api/internal/domain"
)

// UserCanSeeProject reports whether a user may read a project.
// Staff and the service account see everything; everyone else must have
// created the project or appear among its active members. Fails closed.
func UserCanSeeProject(userCtx *auth.UserContext, project *domain.Project) bool {
	if userCtx == nil || project == nil {
		return false
	}
	if userCtx.IsStaff() {
		return true
	}
	if project.CreatedBy != nil && *project.CreatedBy == userCtx.UserID {
		return true
	}
	for i := range project.Members {
		m := &project.Members[i]
		if m.UserID == userCtx.UserID && m.Status != domain.MemberStatusRemoved {
			return true
		}
	}
	return false
}
