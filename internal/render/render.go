// Package render formats query results and catalog listings for
// terminal output in table, json, csv, and markdown forms.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/quill-sh/quill/internal/adapter"
)

// Formats lists the accepted output format names.
var Formats = []string{"table", "json", "csv", "md"}

// ValidFormat reports whether name is an accepted output format.
func ValidFormat(name string) bool {
	switch name {
	case "table", "json", "csv", "md", "markdown":
		return true
	}
	return false
}

// Rows drains rows and renders them in the given format. It returns the
// number of data rows rendered.
func Rows(w io.Writer, rows *adapter.Rows, format string) (int, error) {
	cols, err := rows.Columns()
	if err != nil {
		return 0, err
	}

	// Collect all rows. Values are kept positional so duplicate column
	// names (SELECT 1 AS a, 2 AS a) do not collapse.
	var results [][]any
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return 0, err
		}

		for i, val := range values {
			// Convert []byte to string for readability
			if b, ok := val.([]byte); ok {
				values[i] = string(b)
			}
		}
		results = append(results, values)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	switch format {
	case "json":
		return len(results), renderJSON(w, cols, results)
	case "csv":
		return len(results), renderCSV(w, cols, results)
	case "md", "markdown":
		return len(results), renderMarkdown(w, cols, results)
	default:
		return len(results), renderTable(w, cols, results)
	}
}

// Relations renders a table/view listing.
func Relations(w io.Writer, relations []adapter.Relation, format string) error {
	results := make([][]any, 0, len(relations))
	for _, r := range relations {
		results = append(results, []any{r.Name, r.Kind})
	}
	cols := []string{"name", "type"}

	switch format {
	case "json":
		return renderJSON(w, cols, results)
	case "csv":
		return renderCSV(w, cols, results)
	case "md", "markdown":
		return renderMarkdown(w, cols, results)
	default:
		return renderTable(w, cols, results)
	}
}

// Metadata renders column metadata for a table or view.
func Metadata(w io.Writer, meta *adapter.Metadata, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(metadataJSON(meta))
	}

	title := "Table"
	if meta.Kind == "view" {
		title = "View"
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", title, meta.Name)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", 60))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Type", "Nullable"})
	for _, col := range meta.Columns {
		nullable := "YES"
		if !col.Nullable {
			nullable = "NO"
		}
		t.AppendRow(table.Row{col.Name, col.Type, nullable})
	}
	t.Render()

	if meta.RowCount > 0 {
		_, _ = fmt.Fprintf(w, "~%d rows\n", meta.RowCount)
	}
	return nil
}

type columnJSON struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
	Position int    `json:"position"`
}

type metaJSON struct {
	Schema  string       `json:"schema"`
	Name    string       `json:"name"`
	Kind    string       `json:"kind"`
	Columns []columnJSON `json:"columns"`
}

func metadataJSON(meta *adapter.Metadata) metaJSON {
	out := metaJSON{Schema: meta.Schema, Name: meta.Name, Kind: meta.Kind}
	for _, col := range meta.Columns {
		out.Columns = append(out.Columns, columnJSON{
			Name:     col.Name,
			Type:     col.Type,
			Nullable: col.Nullable,
			Position: col.Position,
		})
	}
	return out
}

func renderTable(w io.Writer, cols []string, results [][]any) error {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, result := range results {
		row := make(table.Row, len(cols))
		for i := range cols {
			row[i] = formatValue(result[i])
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(results))
	return nil
}

// renderJSON emits an array of column-keyed objects. JSON objects
// cannot carry duplicate keys, so duplicate column names keep the last
// value in this format only.
func renderJSON(w io.Writer, cols []string, results [][]any) error {
	objects := make([]map[string]any, 0, len(results))
	for _, result := range results {
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = result[i]
		}
		objects = append(objects, row)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(objects)
}

func renderCSV(w io.Writer, cols []string, results [][]any) error {
	_, _ = fmt.Fprintln(w, strings.Join(cols, ","))
	for _, result := range results {
		values := make([]string, len(cols))
		for i := range cols {
			values[i] = escapeCSV(formatValue(result[i]))
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
	return nil
}

func renderMarkdown(w io.Writer, cols []string, results [][]any) error {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cols, " | "))
	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, result := range results {
		values := make([]string, len(cols))
		for i := range cols {
			values[i] = formatValue(result[i])
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | "))
	}
	return nil
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
