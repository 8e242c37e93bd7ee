package render

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCSVRendererRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	data := &Data{
		Columns: []string{"Name", "Email", "Join Date"},
		Rows: []map[string]any{
			{"Name": "Asha, R.", "Email": "asha@example.com", "Join Date": time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
			{"Name": `Ravi "RV"`, "Email": "ravi@example.com", "Join Date": time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)},
		},
	}

	r := NewCSVRenderer()
	size, err := r.Render(path, data, "Members")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if size <= 0 {
		t.Fatalf("Render() size = %d, want > 0", size)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}
	wantHeader := []string{"Name", "Email", "Join Date"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], col)
		}
	}
	// Fields with delimiters and quotes must round-trip unchanged.
	if records[1][0] != "Asha, R." {
		t.Errorf("row 1 name = %q, want %q", records[1][0], "Asha, R.")
	}
	if records[2][0] != `Ravi "RV"` {
		t.Errorf("row 2 name = %q, want %q", records[2][0], `Ravi "RV"`)
	}
	if records[1][2] != "2024-03-05 10:00:00" {
		t.Errorf("row 1 join date = %q, want formatted timestamp", records[1][2])
	}
}

func TestCSVRendererEmptyData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")

	r := NewCSVRenderer()
	if _, err := r.Render(path, &Data{}, "Empty"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(content) == "" {
		t.Fatal("empty report wrote an empty file, want sentinel row")
	}
	if got := string(content); got != NoDataMessage+"\n" {
		t.Errorf("content = %q, want %q", got, NoDataMessage+"\n")
	}
}

func TestCSVRendererSummary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.csv")

	data := &Data{
		Summary: map[string]any{
			"New Users": 4,
			"New Clubs": 1,
			"Nested":    map[string]any{"skip": true},
		},
		SummaryOrder: []string{"New Users", "New Clubs", "Nested"},
	}

	r := NewCSVRenderer()
	if _, err := r.Render(path, data, "Activity"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}

	// Header plus two metric rows; the nested-object key is skipped.
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0][0] != "Metric" || records[0][1] != "Value" {
		t.Errorf("header = %v, want [Metric Value]", records[0])
	}
	if records[1][0] != "New Users" || records[1][1] != "4" {
		t.Errorf("row 1 = %v, want [New Users 4]", records[1])
	}
}

func TestCSVRendererAvailability(t *testing.T) {
	r := NewCSVRenderer()
	if !r.Available() {
		t.Error("CSV renderer should always be available")
	}
	if r.Format() != "csv" || r.Ext() != ".csv" || r.MimeType() != "text/csv" {
		t.Errorf("unexpected renderer metadata: %s %s %s", r.Format(), r.Ext(), r.MimeType())
	}
}
