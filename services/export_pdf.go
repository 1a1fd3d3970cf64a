package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GeneratePDF creates a PDF document from BOM export data using maroto/v2.
// It returns the raw PDF bytes or an error.
func GeneratePDF(data BOMExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addBOMHeader(m, data)
	addBOMTableHeader(m)
	for _, r := range data.Rows {
		addBOMTableRow(m, r)
	}
	addBOMSummary(m, data)
	addBOMFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addBOMHeader adds the project name, version/status line, and generated date.
func addBOMHeader(m core.Maroto, data BOMExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.ProjectName, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Bill of Materials — Version %d (%s)", data.Version, data.Status), props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Generated: %s", data.GeneratedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)

	// Spacer
	m.AddRows(row.New(4))
}

// addBOMTableHeader adds the column header row for the line table.
func addBOMTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(2).Add(
				text.New("Item Code", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(4).Add(
				text.New("Description", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Category", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Qty", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("UOM", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Unit Cost", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Total Cost", headerText),
			).WithStyle(&headerCell),
		),
	)
}

// addBOMTableRow adds a single consolidated line; edited lines get a pale
// yellow background.
func addBOMTableRow(m core.Maroto, r BOMExportRow) {
	var cellStyle *props.Cell
	if r.Edited {
		bg := &props.Color{Red: 254, Green: 249, Blue: 195}
		cellStyle = &props.Cell{BackgroundColor: bg}
	}

	baseText := props.Text{
		Size:  7,
		Align: align.Center,
	}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	desc := r.Description
	if r.Edited {
		desc += fmt.Sprintf(" (suggested %s)", FormatQty(r.SuggestedQty))
	}

	colCode := col.New(2).Add(text.New(r.ItemCode, leftText))
	colDesc := col.New(4).Add(text.New(desc, leftText))
	colCat := col.New(1).Add(text.New(r.Category, baseText))
	colQty := col.New(1).Add(text.New(FormatQty(r.Qty), rightText))
	colUOM := col.New(1).Add(text.New(r.UOM, baseText))
	colUnitCost := col.New(1).Add(text.New(FormatUSD(r.UnitCost), rightText))
	colTotal := col.New(2).Add(text.New(FormatUSD(r.TotalCost), rightText))

	if cellStyle != nil {
		colCode = colCode.WithStyle(cellStyle)
		colDesc = colDesc.WithStyle(cellStyle)
		colCat = colCat.WithStyle(cellStyle)
		colQty = colQty.WithStyle(cellStyle)
		colUOM = colUOM.WithStyle(cellStyle)
		colUnitCost = colUnitCost.WithStyle(cellStyle)
		colTotal = colTotal.WithStyle(cellStyle)
	}

	m.AddRows(
		row.New(7).Add(
			colCode,
			colDesc,
			colCat,
			colQty,
			colUOM,
			colUnitCost,
			colTotal,
		),
	)
}

// addBOMSummary adds the category subtotals and grand total.
func addBOMSummary(m core.Maroto, data BOMExportData) {
	m.AddRows(row.New(6))

	summaryBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}

	summaries := []struct {
		label string
		value float64
	}{
		{"Material", data.MaterialTotal},
		{"Labor", data.LaborTotal},
		{"Equipment", data.EquipmentTotal},
		{"Grand Total", data.GrandTotal},
	}

	for _, s := range summaries {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(
					text.New(s.label, labelStyle),
				).WithStyle(summaryCell),
				col.New(4).Add(
					text.New(FormatUSD(s.value), valueStyle),
				).WithStyle(summaryCell),
			),
		)
	}

	// Grand total in words, as written on the signed copy.
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(AmountToWords(data.GrandTotal), props.Text{
					Size:  8,
					Style: fontstyle.Italic,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)
}

// addBOMFooter adds the approval line at the bottom.
func addBOMFooter(m core.Maroto, data BOMExportData) {
	m.AddRows(row.New(6))

	footerText := fmt.Sprintf("Generated on %s", data.GeneratedDate)
	if data.Status == "approved" && data.ApprovedDate != "" {
		footerText = fmt.Sprintf("Approved on %s", data.ApprovedDate)
	}

	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(footerText, props.Text{
					Size:  7,
					Align: align.Left,
					Color: &props.Color{Red: 140, Green: 140, Blue: 140},
				}),
			),
		),
	)
}
