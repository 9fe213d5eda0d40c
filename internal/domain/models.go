package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the id client-side so created records carry it
// without a reload
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Role represents a user's role in the platform.
//
// Legacy data carries free-text role strings in two languages; use
// NormalizeRole at every boundary so the rest of the code only ever
// sees these four values.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleManager      Role = "manager"
	RoleCollaborator Role = "collaborator"
	RoleClient       Role = "client"
)

// IsValid checks if the Role is a valid enum value
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCollaborator, RoleClient:
		return true
	}
	return false
}

// IsStaff reports whether the role grants visibility over every project
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager
}

// Permission represents a capability token granted by a role
type Permission string

const (
	PermissionViewProjects   Permission = "view_projects"
	PermissionEditProjects   Permission = "edit_projects"
	PermissionDeleteProjects Permission = "delete_projects"
	PermissionManageTeam     Permission = "manage_team"
	PermissionCreateProject  Permission = "create_project"
)

// UserStatus represents the account status of a user profile
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInvited  UserStatus = "invited"
	UserStatusInactive UserStatus = "inactive"
)

// Profile represents a platform user
type Profile struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Email       string         `gorm:"type:varchar(255);not null;unique"`
	Name        string         `gorm:"type:varchar(200);not null"`
	Role        Role           `gorm:"type:varchar(50);not null;default:'client';index"`
	Status      UserStatus     `gorm:"type:varchar(50);not null;default:'active'"`
	Avatar      string         `gorm:"type:varchar(500)"`
	Phone       string         `gorm:"type:varchar(50)"`
	Projects    pq.StringArray `gorm:"type:text[]"`
	LastLoginAt *time.Time     `gorm:"column:last_login_at"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// ProjectStatus is a display status; legacy rows carry free text so this
// is normalized, not enforced
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "Ativo"
	ProjectStatusPaused   ProjectStatus = "Pausado"
	ProjectStatusFinished ProjectStatus = "Concluído"
	ProjectStatusArchived ProjectStatus = "Arquivado"
)

var projectStatusAliases = map[string]ProjectStatus{
	"ativo":        ProjectStatusActive,
	"active":       ProjectStatusActive,
	"em andamento": ProjectStatusActive,
	"pausado":      ProjectStatusPaused,
	"paused":       ProjectStatusPaused,
	"suspenso":     ProjectStatusPaused,
	"concluído":    ProjectStatusFinished,
	"concluido":    ProjectStatusFinished,
	"finalizado":   ProjectStatusFinished,
	"completed":    ProjectStatusFinished,
	"finished":     ProjectStatusFinished,
	"arquivado":    ProjectStatusArchived,
	"archived":     ProjectStatusArchived,
}

// NormalizeProjectStatus maps the free-text status values found in
// legacy data onto the display set. Unknown values read as active.
func NormalizeProjectStatus(s string) ProjectStatus {
	if status, ok := projectStatusAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return status
	}
	return ProjectStatusActive
}

// Project represents a consultancy engagement
type Project struct {
	BaseModel
	Name        string `gorm:"type:varchar(200);not null;index"`
	Client      string `gorm:"type:varchar(200)"`
	Sector      string `gorm:"type:varchar(100)"`
	Location    string `gorm:"type:varchar(200)"`
	Description string `gorm:"type:text"`
	Phase       string `gorm:"type:varchar(100)"`
	Status      string `gorm:"type:varchar(50);index"`

	ContractValue   float64 `gorm:"type:decimal(15,2);not null;default:0;column:contract_value"`
	MeasuredValue   float64 `gorm:"type:decimal(15,2);not null;default:0;column:measured_value"`
	HourlyRate      float64 `gorm:"type:decimal(15,2);not null;default:0;column:hourly_rate"`
	DisputedAmount  float64 `gorm:"type:decimal(15,2);not null;default:0;column:disputed_amount"`
	ContractSummary string  `gorm:"type:text;column:contract_summary"`

	StartDate             *time.Time `gorm:"type:date;column:start_date"`
	EndDate               *time.Time `gorm:"type:date;column:end_date"`
	ExecutionStartDate    *time.Time `gorm:"type:date;column:execution_start_date"`
	ExecutionEndDate      *time.Time `gorm:"type:date;column:execution_end_date"`
	ContractSignatureDate *time.Time `gorm:"type:date;column:contract_signature_date"`
	OsSignatureDate       *time.Time `gorm:"type:date;column:os_signature_date"`
	ReportCutoffDate      *time.Time `gorm:"type:date;column:report_cutoff_date"`

	// Progress percentages, clamped to [0,100] on every write
	Progress                   float64 `gorm:"type:decimal(5,2);not null;default:0"`
	BillingProgress            float64 `gorm:"type:decimal(5,2);not null;default:0;column:billing_progress"`
	BillingProgressContracted  float64 `gorm:"type:decimal(5,2);not null;default:0;column:billing_progress_contracted"`
	PhysicalProgress           float64 `gorm:"type:decimal(5,2);not null;default:0;column:physical_progress"`
	PhysicalProgressContracted float64 `gorm:"type:decimal(5,2);not null;default:0;column:physical_progress_contracted"`

	ContractCode string `gorm:"type:varchar(50);column:contract_code;index"`

	OverviewConfig OverviewConfig `gorm:"type:jsonb;not null;default:'{}';column:overview_config"`

	CreatedBy *uuid.UUID `gorm:"type:uuid;column:created_by;index"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid;column:updated_by"`

	Members    []ProjectMember   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Activities []ProjectActivity `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Files      []ProjectFile     `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Indicators []Indicator       `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Conducts   []Conduct         `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Panoramas  []Panorama        `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// MemberStatus represents a member's standing on a project
type MemberStatus string

const (
	MemberStatusActive  MemberStatus = "active"
	MemberStatusPending MemberStatus = "pending"
	MemberStatusRemoved MemberStatus = "removed"
)

// ProjectMember links a profile to a project
type ProjectMember struct {
	ID        uuid.UUID    `gorm:"type:uuid;primary_key"`
	ProjectID uuid.UUID    `gorm:"type:uuid;not null;index;column:project_id;uniqueIndex:idx_project_member"`
	Project   *Project     `gorm:"foreignKey:ProjectID"`
	UserID    uuid.UUID    `gorm:"type:uuid;not null;index;column:user_id;uniqueIndex:idx_project_member"`
	User      *Profile     `gorm:"foreignKey:UserID"`
	Role      Role         `gorm:"type:varchar(50);not null;default:'collaborator'"`
	Status    MemberStatus `gorm:"type:varchar(50);not null;default:'active'"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the id client-side, matching BaseModel
func (m *ProjectMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ActivityStatus represents the workflow state of a project activity.
// Values are the display strings the platform has always used.
type ActivityStatus string

const (
	ActivityStatusTodo       ActivityStatus = "A Fazer"
	ActivityStatusInProgress ActivityStatus = "Em Andamento"
	ActivityStatusDone       ActivityStatus = "Concluída"
)

// IsValid checks if the ActivityStatus is a valid enum value
func (as ActivityStatus) IsValid() bool {
	switch as {
	case ActivityStatusTodo, ActivityStatusInProgress, ActivityStatusDone:
		return true
	}
	return false
}

// ProjectActivity represents a schedulable work item shown on the Gantt
type ProjectActivity struct {
	BaseModel
	ProjectID  uuid.UUID      `gorm:"type:uuid;not null;index;column:project_id"`
	Project    *Project       `gorm:"foreignKey:ProjectID"`
	CustomID   string         `gorm:"type:varchar(50);column:custom_id"`
	Title      string         `gorm:"type:varchar(500);not null"`
	AssignedTo string         `gorm:"type:varchar(200);column:assigned_to"`
	StartDate  *time.Time     `gorm:"type:date;column:start_date"`
	EndDate    *time.Time     `gorm:"type:date;column:end_date"`
	Status     ActivityStatus `gorm:"type:varchar(50);not null;default:'A Fazer'"`
	CreatedBy  *uuid.UUID     `gorm:"type:uuid;column:created_by"`
}

// FileSource distinguishes who supplied a document
type FileSource string

const (
	FileSourceClient FileSource = "client"
	FileSourceExxata FileSource = "exxata"
)

// IsValid checks if the FileSource is a valid enum value
func (fs FileSource) IsValid() bool {
	return fs == FileSourceClient || fs == FileSourceExxata
}

// ProjectFile represents an uploaded document
type ProjectFile struct {
	BaseModel
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index;column:project_id"`
	Project     *Project   `gorm:"foreignKey:ProjectID"`
	Filename    string     `gorm:"type:varchar(255);not null"`
	ContentType string     `gorm:"type:varchar(100);not null;column:content_type"`
	Size        int64      `gorm:"not null"`
	StoragePath string     `gorm:"type:varchar(500);not null;unique;column:storage_path"`
	Source      FileSource `gorm:"type:varchar(20);not null;default:'exxata'"`
	UploadedBy  *uuid.UUID `gorm:"type:uuid;column:uploaded_by"`
}

// ChartType represents the rendering family of an indicator
type ChartType string

const (
	ChartTypeBar           ChartType = "bar"
	ChartTypeBarHorizontal ChartType = "bar-horizontal"
	ChartTypeLine          ChartType = "line"
	ChartTypePie           ChartType = "pie"
	ChartTypeDoughnut      ChartType = "doughnut"
	ChartTypeCombo         ChartType = "combo"
)

// IsValid checks if the ChartType is a valid enum value
func (ct ChartType) IsValid() bool {
	switch ct {
	case ChartTypeBar, ChartTypeBarHorizontal, ChartTypeLine, ChartTypePie, ChartTypeDoughnut, ChartTypeCombo:
		return true
	}
	return false
}

// ValueFormat selects how numeric values are rendered
type ValueFormat string

const (
	ValueFormatNumber      ValueFormat = "number"
	ValueFormatCurrency    ValueFormat = "currency"
	ValueFormatCurrencyUSD ValueFormat = "currency-usd"
	ValueFormatPercentage  ValueFormat = "percentage"
)

// Indicator represents a chart card on a project's indicators tab
type Indicator struct {
	BaseModel
	ProjectID   uuid.UUID      `gorm:"type:uuid;not null;index;column:project_id"`
	Project     *Project       `gorm:"foreignKey:ProjectID"`
	Title       string         `gorm:"type:varchar(200);not null"`
	ChartType   ChartType      `gorm:"type:varchar(50);not null;default:'bar';column:chart_type"`
	Labels      pq.StringArray `gorm:"type:text[]"`
	Datasets    DatasetList    `gorm:"type:jsonb;not null;default:'[]'"`
	Options     ChartOptions   `gorm:"type:jsonb;not null;default:'{}'"`
	Observation string         `gorm:"type:text"`
	Position    int            `gorm:"not null;default:0"`
	CreatedBy   *uuid.UUID     `gorm:"type:uuid;column:created_by"`
}

// ConductUrgency represents how pressing a recommended conduct is
type ConductUrgency string

const (
	ConductUrgencyPlanned   ConductUrgency = "Planejado"
	ConductUrgencyModerate  ConductUrgency = "Moderado"
	ConductUrgencyImmediate ConductUrgency = "Imediato"
)

// IsValid checks if the ConductUrgency is a valid enum value
func (cu ConductUrgency) IsValid() bool {
	switch cu {
	case ConductUrgencyPlanned, ConductUrgencyModerate, ConductUrgencyImmediate:
		return true
	}
	return false
}

// Conduct represents a recommended course of action for the client
type Conduct struct {
	BaseModel
	ProjectID    uuid.UUID      `gorm:"type:uuid;not null;index;column:project_id"`
	Project      *Project       `gorm:"foreignKey:ProjectID"`
	Text         string         `gorm:"type:text;not null"`
	Urgency      ConductUrgency `gorm:"type:varchar(50);not null;default:'Planejado'"`
	DisplayOrder int            `gorm:"not null;default:0;column:display_order"`
	CreatedBy    *uuid.UUID     `gorm:"type:uuid;column:created_by"`
}

// PanoramaCategory identifies one of the three fixed panorama blocks
type PanoramaCategory string

const (
	PanoramaCategoryTechnical PanoramaCategory = "technical"
	PanoramaCategoryPhysical  PanoramaCategory = "physical"
	PanoramaCategoryEconomic  PanoramaCategory = "economic"
)

// IsValid checks if the PanoramaCategory is a valid enum value
func (pc PanoramaCategory) IsValid() bool {
	switch pc {
	case PanoramaCategoryTechnical, PanoramaCategoryPhysical, PanoramaCategoryEconomic:
		return true
	}
	return false
}

// PanoramaStatus is the traffic-light state of a panorama category
type PanoramaStatus string

const (
	PanoramaStatusGreen  PanoramaStatus = "green"
	PanoramaStatusYellow PanoramaStatus = "yellow"
	PanoramaStatusRed    PanoramaStatus = "red"
)

// IsValid checks if the PanoramaStatus is a valid enum value
func (ps PanoramaStatus) IsValid() bool {
	switch ps {
	case PanoramaStatusGreen, PanoramaStatusYellow, PanoramaStatusRed:
		return true
	}
	return false
}

// Panorama represents one of the three status blocks on the panorama tab
type Panorama struct {
	BaseModel
	ProjectID uuid.UUID        `gorm:"type:uuid;not null;index;column:project_id;uniqueIndex:idx_panorama_category"`
	Project   *Project         `gorm:"foreignKey:ProjectID"`
	Category  PanoramaCategory `gorm:"type:varchar(50);not null;uniqueIndex:idx_panorama_category"`
	Status    PanoramaStatus   `gorm:"type:varchar(20);not null;default:'green'"`
	Items     pq.StringArray   `gorm:"type:text[]"`
	UpdatedBy *uuid.UUID       `gorm:"type:uuid;column:updated_by"`
}
