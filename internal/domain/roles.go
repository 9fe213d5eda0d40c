package domain

import "strings"

// legacy free-text role strings, in Portuguese and English, mapped to
// the closed Role enum
var roleAliases = map[string]Role{
	"admin":         RoleAdmin,
	"administrador": RoleAdmin,
	"manager":       RoleManager,
	"gerente":       RoleManager,
	"collaborator":  RoleCollaborator,
	"colaborador":   RoleCollaborator,
	"consultor":     RoleCollaborator,
	"consultant":    RoleCollaborator,
	"client":        RoleClient,
	"cliente":       RoleClient,
}

// NormalizeRole maps a raw role string to the closed Role enum. Unknown
// or empty values degrade to client, which carries view-only access.
func NormalizeRole(raw string) Role {
	if r, ok := roleAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return r
	}
	return RoleClient
}

// PermissionsByRole returns the fixed capability set for a role.
// There are no per-user overrides; the role is the whole story.
func PermissionsByRole(role Role) []Permission {
	switch role {
	case RoleAdmin, RoleManager:
		return []Permission{
			PermissionViewProjects,
			PermissionEditProjects,
			PermissionDeleteProjects,
			PermissionManageTeam,
			PermissionCreateProject,
		}
	case RoleCollaborator:
		return []Permission{
			PermissionViewProjects,
			PermissionEditProjects,
		}
	default:
		return []Permission{PermissionViewProjects}
	}
}

// HasPermission reports whether the role grants the given capability
func HasPermission(role Role, perm Permission) bool {
	for _, p := range PermissionsByRole(role) {
		if p == perm {
			return true
		}
	}
	return false
}
