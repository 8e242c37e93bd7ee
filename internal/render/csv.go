package render

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVRenderer writes delimited text. Fields containing the delimiter or
// quotes are quoted with embedded quotes doubled, per encoding/csv.
type CSVRenderer struct{}

func NewCSVRenderer() *CSVRenderer { return &CSVRenderer{} }

func (r *CSVRenderer) Format() string   { return "csv" }
func (r *CSVRenderer) Ext() string      { return ".csv" }
func (r *CSVRenderer) MimeType() string { return "text/csv" }
func (r *CSVRenderer) Available() bool  { return true }

func (r *CSVRenderer) Render(path string, data *Data, title string) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	if data.Empty() {
		if err := writer.Write([]string{NoDataMessage}); err != nil {
			return 0, err
		}
	} else {
		headers, rows := data.Table()
		if err := writer.Write(headers); err != nil {
			return 0, err
		}
		for _, row := range rows {
			if err := writer.Write(row); err != nil {
				return 0, err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
