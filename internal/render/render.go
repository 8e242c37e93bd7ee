package render

import (
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NoDataMessage is written into the artifact when a report matched nothing.
// Every renderer emits it so an empty report is still a valid, openable file.
const NoDataMessage = "No data available for the selected criteria"

// Data is the normalized shape every assembler produces and every renderer
// consumes: either an ordered row table or a flat metric summary.
type Data struct {
	Columns []string
	Rows    []map[string]any

	Summary      map[string]any
	SummaryOrder []string
}

// Empty reports whether there is nothing renderable.
func (d *Data) Empty() bool {
	if d == nil {
		return true
	}
	return len(d.Rows) == 0 && len(d.Summary) == 0
}

// Table normalizes the payload into headers plus string rows. Row data uses
// the declared column order; a summary is flattened into Metric/Value pairs,
// skipping nested-object values.
func (d *Data) Table() ([]string, [][]string) {
	if d == nil {
		return nil, nil
	}

	if len(d.Rows) > 0 {
		headers := d.Columns
		if len(headers) == 0 {
			for k := range d.Rows[0] {
				headers = append(headers, k)
			}
			sort.Strings(headers)
		}
		rows := make([][]string, 0, len(d.Rows))
		for _, rec := range d.Rows {
			row := make([]string, 0, len(headers))
			for _, col := range headers {
				row = append(row, CellString(rec[col]))
			}
			rows = append(rows, row)
		}
		return headers, rows
	}

	if len(d.Summary) > 0 {
		keys := d.SummaryOrder
		if len(keys) == 0 {
			for k := range d.Summary {
				keys = append(keys, k)
			}
			sort.Strings(keys)
		}
		var rows [][]string
		for _, k := range keys {
			v, ok := d.Summary[k]
			if !ok {
				continue
			}
			if _, nested := v.(map[string]any); nested {
				continue
			}
			rows = append(rows, []string{k, CellString(v)})
		}
		return []string{"Metric", "Value"}, rows
	}

	return nil, nil
}

// CellString renders a single value the way exported files expect it.
func CellString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	case primitive.ObjectID:
		return v.Hex()
	case map[string]any:
		if name, ok := v["name"]; ok {
			return fmt.Sprintf("%v", name)
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Renderer serializes normalized report data into one on-disk format.
// Available reports whether the backing capability is usable in this
// runtime; the orchestrator refuses the format up front when it is not.
type Renderer interface {
	Format() string
	Ext() string
	MimeType() string
	Available() bool
	Render(path string, data *Data, title string) (int64, error)
}

// Registry holds the renderers wired at startup. Handlers query it instead
// of touching renderer packages directly, so a missing capability is a
// normal client error rather than a crash.
type Registry struct {
	renderers map[string]Renderer
}

func NewRegistry(renderers ...Renderer) *Registry {
	m := make(map[string]Renderer, len(renderers))
	for _, r := range renderers {
		m[r.Format()] = r
	}
	return &Registry{renderers: m}
}

func (r *Registry) Get(format string) (Renderer, bool) {
	rend, ok := r.renderers[format]
	return rend, ok
}

// Formats lists registered formats in stable order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.renderers))
	for f := range r.renderers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
