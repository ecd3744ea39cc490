package service

import (
	"github.com/xuri/excelize/v2"

	"guidelight-backend/internal/domains/pick"
	"guidelight-backend/internal/shared/utils"
)

const exportSheet = "Picks"

var exportHeaders = []string{
	"ID", "Category", "Title", "Brand", "Staff ID", "Active", "Status",
	"THC %", "CBD %", "Deal Value", "Effect Tags", "Custom Tags", "Rating",
	"Last Active At", "Created At",
}

func buildPicksWorkbook(picks []pick.Pick) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, headerStyle)
	}

	for i := range picks {
		p := &picks[i]
		row := []interface{}{
			p.ID.String(),
			p.CategoryName,
			p.Title(),
			utils.Deref(p.Brand),
			p.StaffID.String(),
			p.IsActive,
			string(p.Status),
			nil, nil, nil,
			joinTags(p.EffectTags),
			joinTags(p.CustomTags),
			nil,
			"",
			p.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if p.THCPercent != nil {
			row[7] = p.THCPercent.InexactFloat64()
		}
		if p.CBDPercent != nil {
			row[8] = p.CBDPercent.InexactFloat64()
		}
		if p.DealValue != nil {
			row[9] = p.DealValue.InexactFloat64()
		}
		if p.Rating != nil {
			row[12] = *p.Rating
		}
		if p.LastActiveAt != nil {
			row[13] = p.LastActiveAt.Format("2006-01-02 15:04:05")
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}
