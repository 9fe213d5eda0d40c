package domain

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for API responses. Field names are camelCase to match what the
// web client has always consumed; the snake_case translation happens
// in the mapper package, nowhere else.

type ProfileDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	Status      UserStatus `json:"status"`
	Avatar      string     `json:"avatar,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	LastLoginAt string     `json:"lastLoginAt,omitempty"`
	CreatedAt   string     `json:"createdAt"` // ISO 8601
}

// AuthUserDTO represents the current authenticated user with the
// resolved permission set
type AuthUserDTO struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Role        Role         `json:"role"`
	Permissions []Permission `json:"permissions"`
	Initials    string       `json:"initials"`
}

type ProjectDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Client      string    `json:"client,omitempty"`
	Sector      string    `json:"sector,omitempty"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Phase       string    `json:"phase,omitempty"`
	Status      string    `json:"status,omitempty"`

	ContractValue   float64 `json:"contractValue"`
	MeasuredValue   float64 `json:"measuredValue"`
	HourlyRate      float64 `json:"hourlyRate"`
	DisputedAmount  float64 `json:"disputedAmount"`
	ContractSummary string  `json:"contractSummary,omitempty"`

	StartDate             string `json:"startDate,omitempty"` // ISO 8601
	EndDate               string `json:"endDate,omitempty"`
	ExecutionStartDate    string `json:"executionStartDate,omitempty"`
	ExecutionEndDate      string `json:"executionEndDate,omitempty"`
	ContractSignatureDate string `json:"contractSignatureDate,omitempty"`
	OsSignatureDate       string `json:"osSignatureDate,omitempty"`
	ReportCutoffDate      string `json:"reportCutoffDate,omitempty"`

	Progress                   float64 `json:"progress"`
	BillingProgress            float64 `json:"billingProgress"`
	BillingProgressContracted  float64 `json:"billingProgressContracted"`
	PhysicalProgress           float64 `json:"physicalProgress"`
	PhysicalProgressContracted float64 `json:"physicalProgressContracted"`

	ContractCode   string         `json:"contractCode,omitempty"`
	OverviewConfig OverviewConfig `json:"overviewConfig"`
	CreatedBy      *uuid.UUID     `json:"createdBy,omitempty"`
	CreatedAt      string         `json:"createdAt"`
	UpdatedAt      string         `json:"updatedAt"`

	Members []ProjectMemberDTO `json:"members,omitempty"`
}

type ProjectMemberDTO struct {
	ID        uuid.UUID    `json:"id"`
	ProjectID uuid.UUID    `json:"projectId"`
	UserID    uuid.UUID    `json:"userId"`
	Name      string       `json:"name,omitempty"`
	Email     string       `json:"email,omitempty"`
	Role      Role         `json:"role"`
	Status    MemberStatus `json:"status"`
	CreatedAt string       `json:"createdAt"`
}

type ProjectActivityDTO struct {
	ID         uuid.UUID      `json:"id"`
	ProjectID  uuid.UUID      `json:"projectId"`
	CustomID   string         `json:"customId,omitempty"`
	Title      string         `json:"title"`
	AssignedTo string         `json:"assignedTo,omitempty"`
	StartDate  string         `json:"startDate,omitempty"` // ISO 8601 date
	EndDate    string         `json:"endDate,omitempty"`
	Status     ActivityStatus `json:"status"`
	CreatedAt  string         `json:"createdAt"`
	UpdatedAt  string         `json:"updatedAt"`
}

// ActivityTimelineDTO carries the computed Gantt window plus one bar
// per activity, offsets and spans expressed as fractions of the window
type ActivityTimelineDTO struct {
	WindowStart string                `json:"windowStart"`
	WindowEnd   string                `json:"windowEnd"`
	TotalDays   int                   `json:"totalDays"`
	Bars        []ActivityTimelineBar `json:"bars"`
}

type ActivityTimelineBar struct {
	ActivityID uuid.UUID      `json:"activityId"`
	Title      string         `json:"title"`
	Status     ActivityStatus `json:"status"`
	OffsetPct  float64        `json:"offsetPct"`
	WidthPct   float64        `json:"widthPct"`
}

type ProjectFileDTO struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"projectId"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"contentType"`
	Size        int64      `json:"size"`
	Source      FileSource `json:"source"`
	UploadedBy  *uuid.UUID `json:"uploadedBy,omitempty"`
	CreatedAt   string     `json:"createdAt"`
}

type IndicatorDTO struct {
	ID          uuid.UUID    `json:"id"`
	ProjectID   uuid.UUID    `json:"projectId"`
	Title       string       `json:"title"`
	ChartType   ChartType    `json:"chartType"`
	Labels      []string     `json:"labels"`
	Datasets    DatasetList  `json:"datasets"`
	Options     ChartOptions `json:"options"`
	Observation string       `json:"observation,omitempty"`
	Position    int          `json:"position"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt"`
}

type ConductDTO struct {
	ID           uuid.UUID      `json:"id"`
	ProjectID    uuid.UUID      `json:"projectId"`
	Text         string         `json:"text"`
	Urgency      ConductUrgency `json:"urgency"`
	DisplayOrder int            `json:"displayOrder"`
	CreatedAt    string         `json:"createdAt"`
	UpdatedAt    string         `json:"updatedAt"`
}

type PanoramaDTO struct {
	ID        uuid.UUID        `json:"id"`
	ProjectID uuid.UUID        `json:"projectId"`
	Category  PanoramaCategory `json:"category"`
	Status    PanoramaStatus   `json:"status"`
	Items     []string         `json:"items"`
	UpdatedAt string           `json:"updatedAt"`
}

// OverviewCardDTO is one rendered overview card: the widget instance
// plus the label and formatted value the catalog resolves for it
type OverviewCardDTO struct {
	ID             string     `json:"id"`
	Type           string     `json:"type"`
	Size           WidgetSize `json:"size"`
	Label          string     `json:"label"`
	FormattedValue string     `json:"formattedValue"`
}

// Dashboard DTOs

type DashboardMetrics struct {
	TotalProjects      int64                `json:"totalProjects"`
	ProjectsByStatus   map[string]int64     `json:"projectsByStatus"`
	ProjectsByPhase    map[string]int64     `json:"projectsByPhase"`
	TotalContractValue float64              `json:"totalContractValue"`
	TotalMeasuredValue float64              `json:"totalMeasuredValue"`
	AverageProgress    float64              `json:"averageProgress"`
	RecentProjects     []ProjectDTO         `json:"recentProjects"`
	RecentActivities   []ProjectActivityDTO `json:"recentActivities"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Pagination response wrapper
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// Request DTOs

type CreateProjectRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	Client          string  `json:"client,omitempty" validate:"max=200"`
	Sector          string  `json:"sector,omitempty" validate:"max=100"`
	Location        string  `json:"location,omitempty" validate:"max=200"`
	Description     string  `json:"description,omitempty"`
	Phase           string  `json:"phase,omitempty" validate:"max=100"`
	Status          string  `json:"status,omitempty" validate:"max=50"`
	ContractValue   float64 `json:"contractValue,omitempty" validate:"gte=0"`
	HourlyRate      float64 `json:"hourlyRate,omitempty" validate:"gte=0"`
	DisputedAmount  float64 `json:"disputedAmount,omitempty" validate:"gte=0"`
	ContractSummary string  `json:"contractSummary,omitempty"`
	ContractCode    string  `json:"contractCode,omitempty" validate:"max=50"`

	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// ProjectPatch is a partial update keyed by the client-side camelCase
// field names. Keys are translated and whitelisted by the mapper; an
// unknown key rejects the whole patch.
type ProjectPatch map[string]interface{}

type CreateActivityRequest struct {
	CustomID   string         `json:"customId,omitempty" validate:"max=50"`
	Title      string         `json:"title" validate:"required,max=500"`
	AssignedTo string         `json:"assignedTo,omitempty" validate:"max=200"`
	StartDate  *time.Time     `json:"startDate,omitempty"`
	EndDate    *time.Time     `json:"endDate,omitempty"`
	Status     ActivityStatus `json:"status,omitempty"`
}

type UpdateActivityRequest struct {
	CustomID   string         `json:"customId,omitempty" validate:"max=50"`
	Title      string         `json:"title" validate:"required,max=500"`
	AssignedTo string         `json:"assignedTo,omitempty" validate:"max=200"`
	StartDate  *time.Time     `json:"startDate,omitempty"`
	EndDate    *time.Time     `json:"endDate,omitempty"`
	Status     ActivityStatus `json:"status,omitempty"`
}

type CreateIndicatorRequest struct {
	Title       string       `json:"title" validate:"required,max=200"`
	ChartType   ChartType    `json:"chartType" validate:"required"`
	Labels      []string     `json:"labels,omitempty"`
	Datasets    DatasetList  `json:"datasets,omitempty"`
	Options     ChartOptions `json:"options,omitempty"`
	Observation string       `json:"observation,omitempty"`
}

type UpdateIndicatorRequest struct {
	Title       string       `json:"title" validate:"required,max=200"`
	ChartType   ChartType    `json:"chartType" validate:"required"`
	Labels      []string     `json:"labels,omitempty"`
	Datasets    DatasetList  `json:"datasets,omitempty"`
	Options     ChartOptions `json:"options,omitempty"`
	Observation string       `json:"observation,omitempty"`
}

// ReorderIndicatorsRequest contains the full ordered list of indicator IDs
type ReorderIndicatorsRequest struct {
	OrderedIDs []uuid.UUID `json:"orderedIds" validate:"required,min=1"`
}

type CreateConductRequest struct {
	Text    string         `json:"text" validate:"required"`
	Urgency ConductUrgency `json:"urgency,omitempty"`
}

type UpdateConductRequest struct {
	Text    string         `json:"text" validate:"required"`
	Urgency ConductUrgency `json:"urgency,omitempty"`
}

type ReorderConductsRequest struct {
	OrderedIDs []uuid.UUID `json:"orderedIds" validate:"required,min=1"`
}

type UpdatePanoramaRequest struct {
	Status PanoramaStatus `json:"status" validate:"required"`
	Items  []string       `json:"items,omitempty"`
}

type AddMemberRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
	Role   string    `json:"role,omitempty" validate:"max=50"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" validate:"required,max=50"`
}

type UpdateProfileRoleRequest struct {
	Role string `json:"role" validate:"required,max=50"`
}

type InviteUserRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Name  string `json:"name" validate:"required,max=200"`
	Role  string `json:"role,omitempty" validate:"max=50"`
}

// Overview widget request DTOs

type AddWidgetRequest struct {
	Type string `json:"type" validate:"required,max=100"`
}

type ReorderWidgetsRequest struct {
	FromIndex int `json:"fromIndex" validate:"gte=0"`
	ToIndex   int `json:"toIndex" validate:"gte=0"`
}
