package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/excel"
)

// ExportExcel serializes the project's overview cards into a workbook
func (s *OverviewService) ExportExcel(ctx context.Context, projectID uuid.UUID) (*excelize.File, error) {
	project, err := s.projectService.visibleProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	rows := make([]excel.OverviewRow, 0, len(project.OverviewConfig.Widgets))
	for _, w := range project.OverviewConfig.Widgets {
		def, ok := cardsByType[w.Type]
		if !ok {
			continue
		}
		rows = append(rows, excel.OverviewRow{
			Label: def.ExportLabel(),
			Value: renderCardValue(project, def),
			Large: w.Size == domain.WidgetSizeLarge,
		})
	}

	stats := []excel.OverviewStat{
		{Label: "Cartões exportados", Value: strconv.Itoa(len(rows))},
		{Label: "Última atualização", Value: project.UpdatedAt.Format("02/01/2006 15:04")},
	}

	meta := excel.OverviewMeta{
		ProjectName: project.Name,
		ProjectID:   project.ID.String(),
		ExportedAt:  time.Now(),
	}

	return excel.BuildOverviewWorkbook(meta, rows, stats)
}

// ImportExcel reads an overview workbook back into one project patch.
// Row labels are matched against the card catalog; unmatched labels are
// skipped, and a sheet with no matches at all is an error rather than a
// silent no-op. Widget order and size come back from the row sequence.
func (s *OverviewService) ImportExcel(ctx context.Context, projectID uuid.UUID, r io.Reader) (*domain.ProjectDTO, error) {
	rows, err := excel.ParseOverviewWorkbook(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	patch := domain.ProjectPatch{}
	widgets := []domain.OverviewWidget{}
	seen := map[string]bool{}

	for _, row := range rows {
		def, ok := lookupCardByLabel(row.Label)
		if !ok || seen[def.Type] {
			continue
		}
		seen[def.Type] = true

		size := domain.WidgetSizeNormal
		if row.Large {
			size = domain.WidgetSizeLarge
		}
		widgets = append(widgets, domain.OverviewWidget{
			ID:   newWidgetID(),
			Type: def.Type,
			Size: size,
		})

		value, ok := importCardValue(def, row.Value)
		if ok {
			patch[def.PatchField] = value
		}
	}

	if len(widgets) == 0 {
		return nil, ErrNoImportableRows
	}

	patch["overviewConfig"] = domain.OverviewConfig{Widgets: widgets}

	s.logger.Info("overview spreadsheet imported",
		zap.String("projectID", projectID.String()),
		zap.Int("widgets", len(widgets)),
		zap.Int("fields", len(patch)-1))

	return s.projectService.Patch(ctx, projectID, patch)
}

func lookupCardByLabel(label string) (CardDefinition, bool) {
	def, ok := cardsByLabel[strings.ToLower(strings.TrimSpace(label))]
	return def, ok
}

// importCardValue coerces a spreadsheet cell into a patch value for the
// card's field. Derived cards (period, team) carry no patch field and
// only contribute to widget order.
func importCardValue(def CardDefinition, raw string) (interface{}, bool) {
	if def.PatchField == "" {
		return nil, false
	}
	if raw == "" || raw == "—" {
		return nil, false
	}

	switch def.Kind {
	case cardCurrency:
		v, err := excel.ParseNumber(raw)
		if err != nil {
			return nil, false
		}
		return v, true
	case cardPercent:
		v, err := excel.ParseNumber(raw)
		if err != nil {
			return nil, false
		}
		return excel.CoercePercent(v), true
	case cardDate:
		if t, err := time.Parse("02/01/2006", raw); err == nil {
			return t.Format("2006-01-02"), true
		}
		if _, err := time.Parse("2006-01-02", raw); err == nil {
			return raw, true
		}
		return nil, false
	default:
		return raw, true
	}
}
