package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestPDFRendererRows(t *testing.T) {
	r := NewPDFRenderer()
	if !r.Available() {
		t.Skip("pdf backend unavailable in this runtime")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "out.pdf")

	data := &Data{
		Columns: []string{"Name", "Role"},
		Rows: []map[string]any{
			{"Name": "Asha", "Role": "student"},
			{"Name": "Ravi", "Role": "student"},
		},
	}

	size, err := r.Render(path, data, "Users")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if size <= 0 {
		t.Fatalf("Render() size = %d, want > 0", size)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF header")
	}
	if int64(len(content)) != size {
		t.Errorf("reported size %d != actual %d", size, len(content))
	}
}

func TestPDFRendererEmptyData(t *testing.T) {
	r := NewPDFRenderer()
	if !r.Available() {
		t.Skip("pdf backend unavailable in this runtime")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	if _, err := r.Render(path, &Data{}, "Empty"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Error("empty report still must be a valid document")
	}
}

// Many more rows than fit a page must not error; the table clips.
func TestPDFRendererClipsLongTables(t *testing.T) {
	r := NewPDFRenderer()
	if !r.Available() {
		t.Skip("pdf backend unavailable in this runtime")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "long.pdf")

	data := &Data{Columns: []string{"N"}}
	for i := 0; i < 200; i++ {
		data.Rows = append(data.Rows, map[string]any{"N": i})
	}

	if _, err := r.Render(path, data, "Long"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
}
