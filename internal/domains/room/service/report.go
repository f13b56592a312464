package service

import (
	"context"
	"fmt"

	"lodging/internal/domains/occupancy"
	"lodging/internal/domains/room/model"
	"lodging/shared"
	"lodging/shared/constant"
	gDto "lodging/shared/dto"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const reportSheet = "Occupancy"

var reportHeader = []any{"Room", "Capacity", "Occupied Beds", "Available Beds", "Mode", "Agent"}

var reportColumnWidths = []float64{12, 10, 15, 15, 15, 38}

// Report renders the tenant's rooms as an xlsx workbook, one row per room ordered by number.
func (s *serviceImpl) Report(ctx context.Context) (res []byte, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Report")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	filter := shared.WithTenant(gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}, tenantID, model.FieldTenantID, model.TableName)
	params := gDto.QueryParams{SortBy: model.TableName + "." + model.FieldNumber, SortDir: gDto.SortDirAsc}

	rooms, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms for report")

		return nil, fmt.Errorf("failed to get rooms: %w", err)
	}

	res, err = buildReport(rooms)
	if err != nil {
		log.Error().Err(err).Msg("failed to build occupancy report")

		return nil, err
	}

	return res, nil
}

func buildReport(rooms []model.Room) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err = file.SetSheetRow(reportSheet, "A1", &reportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	lastColumn, _ := excelize.ColumnNumberToName(len(reportHeader))
	if err = file.SetCellStyle(reportSheet, "A1", lastColumn+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, width := range reportColumnWidths {
		column, _ := excelize.ColumnNumberToName(i + 1)
		if err = file.SetColWidth(reportSheet, column, column, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, room := range rooms {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{
			room.Number,
			room.Capacity,
			room.OccupiedBeds,
			max(room.Capacity-room.OccupiedBeds, 0),
			string(occupancy.StateOf(room).Mode),
			room.AgentID(),
		}

		if err = file.SetSheetRow(reportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
