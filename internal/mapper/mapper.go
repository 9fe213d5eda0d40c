// Package mapper converts between database models and the camelCase
// DTOs the web client consumes, and owns the project field-name
// translation table.
package mapper

import (
	"strings"
	"time"

	"github.com/exxata/connect-api/internal/domain"
)

const (
	timeFormat = "2006-01-02T15:04:05Z"
	dateFormat = "2006-01-02"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateFormat)
}

// ToProfileDTO converts a Profile model to its DTO
func ToProfileDTO(p *domain.Profile) *domain.ProfileDTO {
	return &domain.ProfileDTO{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		Role:        p.Role,
		Status:      p.Status,
		Avatar:      p.Avatar,
		Phone:       p.Phone,
		LastLoginAt: formatTimePtr(p.LastLoginAt),
		CreatedAt:   formatTime(p.CreatedAt),
	}
}

// ToAuthUserDTO builds the authenticated-user payload with the
// resolved permission set
func ToAuthUserDTO(p *domain.Profile) *domain.AuthUserDTO {
	return &domain.AuthUserDTO{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		Role:        p.Role,
		Permissions: domain.PermissionsByRole(p.Role),
		Initials:    initials(p.Name),
	}
}

func initials(name string) string {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(firstRune(parts[0]))
	default:
		return strings.ToUpper(firstRune(parts[0]) + firstRune(parts[len(parts)-1]))
	}
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

// ToProjectDTO converts a Project model to its DTO
func ToProjectDTO(p *domain.Project) *domain.ProjectDTO {
	dto := &domain.ProjectDTO{
		ID:              p.ID,
		Name:            p.Name,
		Client:          p.Client,
		Sector:          p.Sector,
		Location:        p.Location,
		Description:     p.Description,
		Phase:           p.Phase,
		Status:          p.Status,
		ContractValue:   p.ContractValue,
		MeasuredValue:   p.MeasuredValue,
		HourlyRate:      p.HourlyRate,
		DisputedAmount:  p.DisputedAmount,
		ContractSummary: p.ContractSummary,

		StartDate:             formatDatePtr(p.StartDate),
		EndDate:               formatDatePtr(p.EndDate),
		ExecutionStartDate:    formatDatePtr(p.ExecutionStartDate),
		ExecutionEndDate:      formatDatePtr(p.ExecutionEndDate),
		ContractSignatureDate: formatDatePtr(p.ContractSignatureDate),
		OsSignatureDate:       formatDatePtr(p.OsSignatureDate),
		ReportCutoffDate:      formatDatePtr(p.ReportCutoffDate),

		Progress:                   p.Progress,
		BillingProgress:            p.BillingProgress,
		BillingProgressContracted:  p.BillingProgressContracted,
		PhysicalProgress:           p.PhysicalProgress,
		PhysicalProgressContracted: p.PhysicalProgressContracted,

		ContractCode:   p.ContractCode,
		OverviewConfig: p.OverviewConfig,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      formatTime(p.CreatedAt),
		UpdatedAt:      formatTime(p.UpdatedAt),
	}

	if dto.OverviewConfig.Widgets == nil {
		dto.OverviewConfig.Widgets = []domain.OverviewWidget{}
	}

	for i := range p.Members {
		dto.Members = append(dto.Members, *ToProjectMemberDTO(&p.Members[i]))
	}

	return dto
}

// ToProjectMemberDTO converts a ProjectMember model to its DTO
func ToProjectMemberDTO(m *domain.ProjectMember) *domain.ProjectMemberDTO {
	dto := &domain.ProjectMemberDTO{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Role:      m.Role,
		Status:    m.Status,
		CreatedAt: formatTime(m.CreatedAt),
	}
	if m.User != nil {
		dto.Name = m.User.Name
		dto.Email = m.User.Email
	}
	return dto
}

// ToProjectActivityDTO converts a ProjectActivity model to its DTO
func ToProjectActivityDTO(a *domain.ProjectActivity) *domain.ProjectActivityDTO {
	return &domain.ProjectActivityDTO{
		ID:         a.ID,
		ProjectID:  a.ProjectID,
		CustomID:   a.CustomID,
		Title:      a.Title,
		AssignedTo: a.AssignedTo,
		StartDate:  formatDatePtr(a.StartDate),
		EndDate:    formatDatePtr(a.EndDate),
		Status:     a.Status,
		CreatedAt:  formatTime(a.CreatedAt),
		UpdatedAt:  formatTime(a.UpdatedAt),
	}
}

// ToProjectFileDTO converts a ProjectFile model to its DTO
func ToProjectFileDTO(f *domain.ProjectFile) *domain.ProjectFileDTO {
	return &domain.ProjectFileDTO{
		ID:          f.ID,
		ProjectID:   f.ProjectID,
		Filename:    f.Filename,
		ContentType: f.ContentType,
		Size:        f.Size,
		Source:      f.Source,
		UploadedBy:  f.UploadedBy,
		CreatedAt:   formatTime(f.CreatedAt),
	}
}

// ToIndicatorDTO converts an Indicator model to its DTO
func ToIndicatorDTO(i *domain.Indicator) *domain.IndicatorDTO {
	labels := []string(i.Labels)
	if labels == nil {
		labels = []string{}
	}
	datasets := i.Datasets
	if datasets == nil {
		datasets = domain.DatasetList{}
	}
	return &domain.IndicatorDTO{
		ID:          i.ID,
		ProjectID:   i.ProjectID,
		Title:       i.Title,
		ChartType:   i.ChartType,
		Labels:      labels,
		Datasets:    datasets,
		Options:     i.Options,
		Observation: i.Observation,
		Position:    i.Position,
		CreatedAt:   formatTime(i.CreatedAt),
		UpdatedAt:   formatTime(i.UpdatedAt),
	}
}

// ToConductDTO converts a Conduct model to its DTO
func ToConductDTO(c *domain.Conduct) *domain.ConductDTO {
	return &domain.ConductDTO{
		ID:           c.ID,
		ProjectID:    c.ProjectID,
		Text:         c.Text,
		Urgency:      c.Urgency,
		DisplayOrder: c.DisplayOrder,
		CreatedAt:    formatTime(c.CreatedAt),
		UpdatedAt:    formatTime(c.UpdatedAt),
	}
}

// ToPanoramaDTO converts a Panorama model to its DTO
func ToPanoramaDTO(p *domain.Panorama) *domain.PanoramaDTO {
	items := []string(p.Items)
	if items == nil {
		items = []string{}
	}
	return &domain.PanoramaDTO{
		ID:        p.ID,
		ProjectID: p.ProjectID,
		Category:  p.Category,
		Status:    p.Status,
		Items:     items,
		UpdatedAt: formatTime(p.UpdatedAt),
	}
}
