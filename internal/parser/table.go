// Package parser extracts the first data table from an HTML page.
package parser

import (
	"bytes"
	"errors"

	"github.com/PuerkitoBio/goquery"
)

// Table is a data table as raw text cells. Footnote markup survives as text
// ("[39]", trailing reference letters) for downstream normalization.
type Table struct {
	Header []string
	Rows   [][]string
}

var (
	errNoTable  = errors.New("no table found")
	errNoHeader = errors.New("table has no header row")
)

// ExtractTable parses HTML and returns the first wikitable-classed table,
// falling back to the first table of any kind. The header is the first row
// containing th cells; later rows count as data only if they carry td cells.
// Short rows are padded with empty cells to the header width.
func ExtractTable(body []byte) (Table, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Table{}, err
	}

	selection := doc.Find("table.wikitable").First()
	if selection.Length() == 0 {
		selection = doc.Find("table").First()
	}
	if selection.Length() == 0 {
		return Table{}, errNoTable
	}

	table := Table{}
	selection.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := rowCells(row)
		if len(cells) == 0 {
			return
		}

		if table.Header == nil {
			if row.Find("th").Length() > 0 {
				table.Header = cells
			}

			return
		}

		if row.Find("td").Length() == 0 {
			return
		}

		table.Rows = append(table.Rows, padRow(cells, len(table.Header)))
	})

	if table.Header == nil {
		return Table{}, errNoHeader
	}

	return table, nil
}

func rowCells(row *goquery.Selection) []string {
	cells := []string{}
	row.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, cleanCellText(cell.Text()))
	})

	return cells
}

func padRow(cells []string, width int) []string {
	for len(cells) < width {
		cells = append(cells, "")
	}

	return cells
}
