// Package export writes collected companies to an XLSX workbook.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/YessenBoranbay/2gis-lead-generator/internal/model"
	"github.com/YessenBoranbay/2gis-lead-generator/internal/twogis"
)

// ErrNoCompanies is returned when there is nothing to export.
var ErrNoCompanies = eris.New("export: no companies to export")

const sheetName = "Компании 2GIS"

const placeholder = "—"

var headers = []string{
	"Название компании",
	"Город",
	"Телефон",
	"Адрес",
	"Рейтинг",
	"Количество голосов",
	"Информация",
	"Ссылка",
}

var columnWidths = []float64{35, 18, 38, 45, 10, 15, 50, 12}

// WriteFile writes the workbook to path, appending the .xlsx extension when
// missing and creating parent directories. The resolved path is returned.
func WriteFile(companies []model.Company, path string) (string, error) {
	file, err := build(companies)
	if err != nil {
		return "", err
	}

	if filepath.Ext(path) == "" {
		path += ".xlsx"
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", eris.Wrap(err, "export: resolve path")
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", eris.Wrap(err, "export: create output dir")
	}
	if err := file.Save(abs); err != nil {
		return "", eris.Wrap(err, "export: save workbook")
	}

	zap.L().Info("workbook written",
		zap.String("component", "export"),
		zap.String("path", abs),
		zap.Int("companies", len(companies)))
	return abs, nil
}

// Write streams the workbook to w, for HTTP downloads.
func Write(companies []model.Company, w io.Writer) error {
	file, err := build(companies)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return eris.Wrap(err, "export: write workbook")
	}
	return nil
}

func build(companies []model.Company) (*xlsx.File, error) {
	if len(companies) == 0 {
		return nil, ErrNoCompanies
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return nil, eris.Wrap(err, "export: add sheet")
	}

	headerStyle := xlsx.NewStyle()
	headerStyle.Fill = *xlsx.NewFill("solid", "27AE60", "27AE60")
	headerStyle.Font = *xlsx.NewFont(11, "Calibri")
	headerStyle.Font.Bold = true
	headerStyle.Font.Color = "FFFFFF"
	headerStyle.Alignment = xlsx.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	headerStyle.ApplyFill = true
	headerStyle.ApplyFont = true
	headerStyle.ApplyAlignment = true

	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.Value = h
		cell.SetStyle(headerStyle)
	}

	bodyStyle := xlsx.NewStyle()
	bodyStyle.Alignment = xlsx.Alignment{Horizontal: "left", Vertical: "top", WrapText: true}
	bodyStyle.ApplyAlignment = true

	linkStyle := xlsx.NewStyle()
	linkStyle.Font = *xlsx.NewFont(11, "Calibri")
	linkStyle.Font.Color = "0563C1"
	linkStyle.Font.Underline = true
	linkStyle.Alignment = xlsx.Alignment{Horizontal: "left", Vertical: "top", WrapText: true}
	linkStyle.ApplyFont = true
	linkStyle.ApplyAlignment = true

	for _, c := range companies {
		row := sheet.AddRow()

		addCell(row, bodyStyle, orDash(truncateRunes(c.Name, 500)))
		addCell(row, bodyStyle, orDash(truncateRunes(c.City, 80)))
		addCell(row, bodyStyle, orDash(truncateRunes(c.Phone, 100)))
		addCell(row, bodyStyle, orDash(truncateRunes(c.Address, 500)))
		addCell(row, bodyStyle, formatRating(c.Rating))
		addCell(row, bodyStyle, formatVoters(c.VotersCount))
		addCell(row, bodyStyle, orDash(truncateRunes(c.Info, 1000)))

		linkCell := row.AddCell()
		url := strings.TrimSpace(c.URL)
		if strings.HasPrefix(url, "http") {
			linkCell.SetFormula(fmt.Sprintf(`HYPERLINK("%s","Открыть")`, twogis.CanonicalURL(url)))
			linkCell.SetStyle(linkStyle)
		} else {
			linkCell.Value = orDash(url)
			linkCell.SetStyle(bodyStyle)
		}
	}

	for i, w := range columnWidths {
		sheet.SetColWidth(i, i, w)
	}

	return file, nil
}

func addCell(row *xlsx.Row, style *xlsx.Style, value string) {
	cell := row.AddCell()
	cell.Value = value
	cell.SetStyle(style)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return strings.TrimSpace(s)
}

func formatRating(r *float64) string {
	if r == nil {
		return placeholder
	}
	return strconv.FormatFloat(*r, 'g', -1, 64)
}

func formatVoters(v *int) string {
	if v == nil {
		return placeholder
	}
	return strconv.Itoa(*v)
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
