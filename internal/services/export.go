package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/entities"
	"maintenance-system/pkg/types"
)

const exportSheet = "Export"

type ExportServiceInterface interface {
	Export(ctx context.Context, session *authz.Session, tag entities.PermissionEntity, criteria types.SearchCriteria) (*excelize.File, string, error)
}

type ExportService struct {
	search     SearchServiceInterface
	gatekeeper *authz.Gatekeeper
	maxRows    int
	logger     *zap.Logger
	now        func() time.Time
}

func NewExportService(search SearchServiceInterface, gatekeeper *authz.Gatekeeper, maxRows int, logger *zap.Logger) ExportServiceInterface {
	return &ExportService{
		search:     search,
		gatekeeper: gatekeeper,
		maxRows:    maxRows,
		logger:     logger,
		now:        time.Now,
	}
}

// Export runs criteria over every page, up to the row cap, and lays the rows
// out in a single sheet with a bold header row.
func (s *ExportService) Export(ctx context.Context, session *authz.Session, tag entities.PermissionEntity, criteria types.SearchCriteria) (*excelize.File, string, error) {
	if err := s.gatekeeper.Authorize(session, authz.ActionExport, tag, nil); err != nil {
		return nil, "", err
	}

	rows, headers, err := s.search.SearchAll(ctx, session, tag, criteria, s.maxRows)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, "", fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &headers); err != nil {
		return nil, "", fmt.Errorf("write header: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, style)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, "", err
		}
		values := row.ExportRow()
		for j, v := range values {
			if v == nil {
				values[j] = ""
			}
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, "", fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	s.logger.Info("export built",
		zap.String("entity", string(tag)),
		zap.Int("rows", len(rows)),
		zap.Uint64("userID", session.User.ID))

	fileName := fmt.Sprintf("%s_%s.xlsx", tag.Slug(), s.now().Format("2006-01-02"))
	return f, fileName, nil
}
