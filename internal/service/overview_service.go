package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/exxata/connect-api/internal/auth"
	"github.com/exxata/connect-api/internal/chart"
	"github.com/exxata/connect-api/internal/domain"
)

// cardKind selects how a card's value is rendered and, on import, how a
// spreadsheet cell is coerced back into a patch value
type cardKind int

const (
	cardText cardKind = iota
	cardCurrency
	cardPercent
	cardDate
	cardPeriod
	cardTeam
)

// CardDefinition describes one entry of the overview card catalog
type CardDefinition struct {
	Type  string
	Label string
	// PatchField is the camelCase project field the card edits; empty
	// for derived cards (period, team) that import handles specially
	PatchField string
	Kind       cardKind
}

// ExportLabel is the row key used in the Excel round-trip. Percentage
// cards carry a "(%)" suffix there, matching the spreadsheets the
// portal has always produced; both forms match on import.
func (d CardDefinition) ExportLabel() string {
	if d.Kind == cardPercent {
		return d.Label + " (%)"
	}
	return d.Label
}

// cardCatalog is the fixed overview card catalog, in display order.
// Labels double as the row keys of the Excel round-trip, so changing
// one breaks re-import of previously exported spreadsheets.
var cardCatalog = []CardDefinition{
	{Type: "name", Label: "Nome do Projeto", PatchField: "name", Kind: cardText},
	{Type: "client", Label: "Cliente Final", PatchField: "client", Kind: cardText},
	{Type: "sector", Label: "Setor de Atuação", PatchField: "sector", Kind: cardText},
	{Type: "location", Label: "Localização", PatchField: "location", Kind: cardText},
	{Type: "status", Label: "Status", PatchField: "status", Kind: cardText},
	{Type: "phase", Label: "Fase", PatchField: "phase", Kind: cardText},
	{Type: "description", Label: "Descrição do Projeto", PatchField: "description", Kind: cardText},
	{Type: "period", Label: "Período", Kind: cardPeriod},
	{Type: "executionPeriod", Label: "Período de Execução", Kind: cardPeriod},
	{Type: "contractSignatureDate", Label: "Data de Assinatura do Contrato", PatchField: "contractSignatureDate", Kind: cardDate},
	{Type: "osSignatureDate", Label: "Data de Assinatura da OS", PatchField: "osSignatureDate", Kind: cardDate},
	{Type: "reportCutoffDate", Label: "Data de Corte do Relatório", PatchField: "reportCutoffDate", Kind: cardDate},
	{Type: "contractValue", Label: "Valor do Contrato", PatchField: "contractValue", Kind: cardCurrency},
	{Type: "measuredValue", Label: "Valor Medido", PatchField: "measuredValue", Kind: cardCurrency},
	{Type: "hourlyRate", Label: "Valor do Homem-Hora", PatchField: "hourlyRate", Kind: cardCurrency},
	{Type: "disputedAmount", Label: "Valor em Discussão", PatchField: "disputedAmount", Kind: cardCurrency},
	{Type: "contractSummary", Label: "Título do Contrato", PatchField: "contractSummary", Kind: cardText},
	{Type: "progress", Label: "Progresso de Prazo", PatchField: "progress", Kind: cardPercent},
	{Type: "billingProgress", Label: "Progresso em Faturamento", PatchField: "billingProgress", Kind: cardPercent},
	{Type: "billingProgressContracted", Label: "Progresso em Faturamento Contratado", PatchField: "billingProgressContracted", Kind: cardPercent},
	{Type: "physicalProgress", Label: "Progresso Físico", PatchField: "physicalProgress", Kind: cardPercent},
	{Type: "physicalProgressContracted", Label: "Progresso Físico Contratado", PatchField: "physicalProgressContracted", Kind: cardPercent},
	{Type: "team", Label: "Equipe do Projeto", Kind: cardTeam},
}

var cardsByType = func() map[string]CardDefinition {
	m := make(map[string]CardDefinition, len(cardCatalog))
	for _, def := range cardCatalog {
		m[def.Type] = def
	}
	return m
}()

var cardsByLabel = func() map[string]CardDefinition {
	m := make(map[string]CardDefinition, 2*len(cardCatalog))
	for _, def := range cardCatalog {
		m[strings.ToLower(def.Label)] = def
		m[strings.ToLower(def.ExportLabel())] = def
	}
	return m
}()

// CardCatalog returns the full catalog in display order
func CardCatalog() []CardDefinition {
	return cardCatalog
}

// DefaultOverviewConfig is the widget set every new project starts with
func DefaultOverviewConfig() domain.OverviewConfig {
	cfg := domain.OverviewConfig{Widgets: []domain.OverviewWidget{}}
	for _, typ := range []string{"name", "client", "period", "contractValue", "progress", "description"} {
		size := domain.WidgetSizeNormal
		if typ == "description" {
			size = domain.WidgetSizeLarge
		}
		cfg.Widgets = append(cfg.Widgets, domain.OverviewWidget{
			ID:   newWidgetID(),
			Type: typ,
			Size: size,
		})
	}
	return cfg
}

// OverviewService manages the configurable card grid of the Overview tab.
// Every mutation rewrites the whole overviewConfig through the project
// patch path, so the grid inherits its transactional semantics.
type OverviewService struct {
	projectService *ProjectService
	logger         *zap.Logger
}

// NewOverviewService creates a new OverviewService
func NewOverviewService(projectService *ProjectService, logger *zap.Logger) *OverviewService {
	return &OverviewService{
		projectService: projectService,
		logger:         logger,
	}
}

// Cards renders the project's configured widgets as label/value cards.
// Empty values render as the "—" placeholder.
func (s *OverviewService) Cards(ctx context.Context, projectID uuid.UUID) ([]domain.OverviewCardDTO, error) {
	project, err := s.projectService.visibleProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	cards := make([]domain.OverviewCardDTO, 0, len(project.OverviewConfig.Widgets))
	for _, w := range project.OverviewConfig.Widgets {
		def, ok := cardsByType[w.Type]
		if !ok {
			continue
		}
		cards = append(cards, domain.OverviewCardDTO{
			ID:             w.ID,
			Type:           w.Type,
			Size:           w.Size,
			Label:          def.Label,
			FormattedValue: renderCardValue(project, def),
		})
	}
	return cards, nil
}

// AddWidget appends a widget of the given catalog type
func (s *OverviewService) AddWidget(ctx context.Context, projectID uuid.UUID, cardType string) (*domain.ProjectDTO, error) {
	def, ok := cardsByType[cardType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWidgetType, cardType)
	}

	return s.mutateConfig(ctx, projectID, func(cfg *domain.OverviewConfig) error {
		for _, w := range cfg.Widgets {
			if w.Type == def.Type {
				return fmt.Errorf("%w: %q", ErrWidgetExists, def.Type)
			}
		}
		cfg.Widgets = append(cfg.Widgets, domain.OverviewWidget{
			ID:   newWidgetID(),
			Type: def.Type,
			Size: domain.WidgetSizeNormal,
		})
		return nil
	})
}

// AddAllWidgets appends one widget per catalog type not yet on the grid
func (s *OverviewService) AddAllWidgets(ctx context.Context, projectID uuid.UUID) (*domain.ProjectDTO, error) {
	return s.mutateConfig(ctx, projectID, func(cfg *domain.OverviewConfig) error {
		present := make(map[string]bool, len(cfg.Widgets))
		for _, w := range cfg.Widgets {
			present[w.Type] = true
		}
		for _, def := range cardCatalog {
			if present[def.Type] {
				continue
			}
			cfg.Widgets = append(cfg.Widgets, domain.OverviewWidget{
				ID:   newWidgetID(),
				Type: def.Type,
				Size: domain.WidgetSizeNormal,
			})
		}
		return nil
	})
}

// RemoveWidget takes a widget off the grid, making its type addable again
func (s *OverviewService) RemoveWidget(ctx context.Context, projectID uuid.UUID, widgetID string) (*domain.ProjectDTO, error) {
	return s.mutateConfig(ctx, projectID, func(cfg *domain.OverviewConfig) error {
		kept := cfg.Widgets[:0]
		found := false
		for _, w := range cfg.Widgets {
			if w.ID == widgetID {
				found = true
				continue
			}
			kept = append(kept, w)
		}
		if !found {
			return fmt.Errorf("%w: %q", ErrWidgetNotFound, widgetID)
		}
		cfg.Widgets = kept
		return nil
	})
}

// ToggleWidgetSize flips a widget between one and two grid columns
func (s *OverviewService) ToggleWidgetSize(ctx context.Context, projectID uuid.UUID, widgetID string) (*domain.ProjectDTO, error) {
	return s.mutateConfig(ctx, projectID, func(cfg *domain.OverviewConfig) error {
		for i := range cfg.Widgets {
			if cfg.Widgets[i].ID != widgetID {
				continue
			}
			if cfg.Widgets[i].Size == domain.WidgetSizeLarge {
				cfg.Widgets[i].Size = domain.WidgetSizeNormal
			} else {
				cfg.Widgets[i].Size = domain.WidgetSizeLarge
			}
			return nil
		}
		return fmt.Errorf("%w: %q", ErrWidgetNotFound, widgetID)
	})
}

// ReorderWidgets moves a widget to sit before the widget currently at
// toIndex. Dropping onto a later slot accounts for the hole the move
// itself leaves behind.
func (s *OverviewService) ReorderWidgets(ctx context.Context, projectID uuid.UUID, fromIndex, toIndex int) (*domain.ProjectDTO, error) {
	return s.mutateConfig(ctx, projectID, func(cfg *domain.OverviewConfig) error {
		n := len(cfg.Widgets)
		if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex > n {
			return fmt.Errorf("%w: reorder indexes out of range", ErrInvalidInput)
		}
		if fromIndex == toIndex {
			return nil
		}
		moved := cfg.Widgets[fromIndex]
		rest := append(append([]domain.OverviewWidget{}, cfg.Widgets[:fromIndex]...), cfg.Widgets[fromIndex+1:]...)
		insertAt := toIndex
		if fromIndex < toIndex {
			insertAt--
		}
		widgets := append([]domain.OverviewWidget{}, rest[:insertAt]...)
		widgets = append(widgets, moved)
		widgets = append(widgets, rest[insertAt:]...)
		cfg.Widgets = widgets
		return nil
	})
}

func (s *OverviewService) mutateConfig(ctx context.Context, projectID uuid.UUID, mutate func(*domain.OverviewConfig) error) (*domain.ProjectDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionEditProjects) {
		return nil, ErrPermissionDenied
	}

	project, err := s.projectService.visibleProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	cfg := project.OverviewConfig
	cfg.Widgets = append([]domain.OverviewWidget{}, cfg.Widgets...)
	if err := mutate(&cfg); err != nil {
		return nil, err
	}

	return s.projectService.Patch(ctx, projectID, domain.ProjectPatch{
		"overviewConfig": cfg,
	})
}

func newWidgetID() string {
	return "w_" + uuid.NewString()
}

func renderCardValue(project *domain.Project, def CardDefinition) string {
	const placeholder = "—"

	switch def.Kind {
	case cardCurrency:
		// a zero amount means the field was never filled in; progress
		// cards are different, there 0% is a real reading
		v := projectNumber(project, def.PatchField)
		if v == 0 {
			return placeholder
		}
		return chart.FormatValue(v, domain.ValueFormatCurrency, false)
	case cardPercent:
		return chart.FormatValue(projectNumber(project, def.PatchField), domain.ValueFormatPercentage, false)
	case cardDate:
		if t := projectDate(project, def.PatchField); t != nil {
			return t.Format("02/01/2006")
		}
		return placeholder
	case cardPeriod:
		var start, end *time.Time
		if def.Type == "executionPeriod" {
			start, end = project.ExecutionStartDate, project.ExecutionEndDate
		} else {
			start, end = project.StartDate, project.EndDate
		}
		if start == nil && end == nil {
			return placeholder
		}
		return formatDateOrDash(start) + " a " + formatDateOrDash(end)
	case cardTeam:
		names := make([]string, 0, len(project.Members))
		for i := range project.Members {
			m := &project.Members[i]
			if m.Status == domain.MemberStatusRemoved {
				continue
			}
			if m.User != nil && m.User.Name != "" {
				names = append(names, m.User.Name)
			}
		}
		if len(names) == 0 {
			return placeholder
		}
		return strings.Join(names, ", ")
	default:
		if v := projectText(project, def.PatchField); v != "" {
			return v
		}
		return placeholder
	}
}

func projectText(project *domain.Project, field string) string {
	switch field {
	case "name":
		return project.Name
	case "client":
		return project.Client
	case "sector":
		return project.Sector
	case "location":
		return project.Location
	case "status":
		return project.Status
	case "phase":
		return project.Phase
	case "description":
		return project.Description
	case "contractSummary":
		return project.ContractSummary
	default:
		return ""
	}
}

func projectNumber(project *domain.Project, field string) float64 {
	switch field {
	case "contractValue":
		return project.ContractValue
	case "measuredValue":
		return project.MeasuredValue
	case "hourlyRate":
		return project.HourlyRate
	case "disputedAmount":
		return project.DisputedAmount
	case "progress":
		return project.Progress
	case "billingProgress":
		return project.BillingProgress
	case "billingProgressContracted":
		return project.BillingProgressContracted
	case "physicalProgress":
		return project.PhysicalProgress
	case "physicalProgressContracted":
		return project.PhysicalProgressContracted
	default:
		return 0
	}
}

func projectDate(project *domain.Project, field string) *time.Time {
	switch field {
	case "contractSignatureDate":
		return project.ContractSignatureDate
	case "osSignatureDate":
		return project.OsSignatureDate
	case "reportCutoffDate":
		return project.ReportCutoffDate
	default:
		return nil
	}
}

func formatDateOrDash(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("02/01/2006")
}
