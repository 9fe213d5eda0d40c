package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/exxata/connect-api/internal/auth"
	"github.com/exxata/connect-api/internal/chart"
	"github.com/exxata/connect-api/internal/domain"
	"github.com/exxata/connect-api/internal/excel"
	"github.com/exxata/connect-api/internal/mapper"
	"github.com/exxata/connect-api/internal/report"
)

// ImportData replaces an indicator's labels and datasets with the
// contents of an uploaded spreadsheet. For pie and doughnut charts a
// value column must be named: its cells become the slice values and the
// series names become the labels.
func (s *IndicatorService) ImportData(ctx context.Context, projectID, indicatorID uuid.UUID, r io.Reader, valueColumn string) (*domain.IndicatorDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasPermission(domain.PermissionEditProjects) {
		return nil, ErrPermissionDenied
	}

	indicator, err := s.projectIndicator(ctx, projectID, indicatorID)
	if err != nil {
		return nil, err
	}

	sheet, err := excel.ParseIndicatorWorkbook(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	isPie := indicator.ChartType == domain.ChartTypePie || indicator.ChartType == domain.ChartTypeDoughnut
	if isPie {
		labels, dataset, err := pieFromSheet(sheet, valueColumn)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		indicator.Labels = labels
		indicator.Datasets = domain.DatasetList{dataset}
	} else {
		indicator.Labels = pq.StringArray(sheet.Labels)
		datasets := make(domain.DatasetList, 0, len(sheet.Series))
		for i, series := range sheet.Series {
			datasets = append(datasets, domain.Dataset{
				Name:   series.Name,
				Values: rawValues(series.Values),
				Color:  chart.DefaultColors[i%len(chart.DefaultColors)],
			})
		}
		indicator.Datasets = datasets
	}

	if err := s.indicatorRepo.Update(ctx, indicator); err != nil {
		return nil, fmt.Errorf("failed to save imported data: %w", err)
	}

	s.logger.Info("indicator data imported",
		zap.String("projectID", projectID.String()),
		zap.String("indicatorID", indicatorID.String()),
		zap.Int("labels", len(indicator.Labels)),
		zap.Int("datasets", len(indicator.Datasets)))

	return mapper.ToIndicatorDTO(indicator), nil
}

// Template returns the example workbook offered next to the import button
func (s *IndicatorService) Template() (*excelize.File, error) {
	return excel.BuildIndicatorTemplate()
}

// pieFromSheet flips the grid for pie charts: series names become slice
// labels and the chosen column supplies the values. Without an explicit
// column the first one wins.
func pieFromSheet(sheet *excel.IndicatorSheet, valueColumn string) (pq.StringArray, domain.Dataset, error) {
	col := 0
	if valueColumn != "" {
		col = -1
		for i, label := range sheet.Labels {
			if label == valueColumn {
				col = i
				break
			}
		}
		if col < 0 {
			return nil, domain.Dataset{}, fmt.Errorf("column %q not found in sheet", valueColumn)
		}
	}

	labels := make(pq.StringArray, 0, len(sheet.Series))
	values := make([]*float64, 0, len(sheet.Series))
	for _, series := range sheet.Series {
		labels = append(labels, series.Name)
		if col < len(series.Values) {
			values = append(values, series.Values[col])
		} else {
			values = append(values, nil)
		}
	}

	return labels, domain.Dataset{
		Name:   sheet.Labels[col],
		Values: rawValues(values),
		Color:  chart.DefaultColors[0],
	}, nil
}

func rawValues(values []*float64) []json.RawMessage {
	out := make([]json.RawMessage, len(values))
	for i, v := range values {
		if v == nil {
			out[i] = json.RawMessage("null")
			continue
		}
		raw, _ := json.Marshal(*v)
		out[i] = raw
	}
	return out
}

// ExportPDF renders every indicator of the project into one PDF
func (s *IndicatorService) ExportPDF(ctx context.Context, projectID uuid.UUID) ([]byte, error) {
	project, err := s.projectService.visibleProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	indicators, err := s.indicatorRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list indicators: %w", err)
	}

	cards := make([]report.IndicatorCard, 0, len(indicators))
	for i := range indicators {
		data := chart.Normalize(&indicators[i])
		cards = append(cards, report.IndicatorCard{
			Indicator: &indicators[i],
			Data:      &data,
		})
	}

	return report.RenderIndicators(project.Name, cards)
}
