// Package inspect renders the per-source inspection report.
package inspect

import (
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/domain"
)

// HeadRows is the number of rows shown per source.
const HeadRows = 5

const timeLayout = "2006-01-02 15:04:05"

// Column is a normalized column and the type inferred from its values.
type Column struct {
	Name string
	Type string
}

// Preview summarizes one normalized table.
type Preview struct {
	Rows    int
	Header  []string // source header after trimming
	Columns []Column
	Head    string
}

// NewPreview builds a preview of t through a dataframe so column types are
// inferred from the values rather than declared.
func NewPreview(t domain.Table) (Preview, error) {
	records := Records(t)
	p := Preview{Rows: t.Len(), Header: t.ColumnNames()}
	if t.Len() == 0 {
		for _, name := range records[0] {
			p.Columns = append(p.Columns, Column{Name: name, Type: "unknown"})
		}
		return p, nil
	}

	df := dataframe.LoadRecords(records, dataframe.HasHeader(true), dataframe.DetectTypes(true))
	if df.Err != nil {
		return Preview{}, df.Err
	}

	names := df.Names()
	types := df.Types()
	for i, name := range names {
		p.Columns = append(p.Columns, Column{Name: name, Type: string(types[i])})
	}

	n := min(HeadRows, df.Nrow())
	if n > 0 {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		head := df.Subset(idx)
		if head.Err != nil {
			return Preview{}, head.Err
		}
		p.Head = head.String()
	}
	return p, nil
}

// Records flattens a normalized table into a header row plus one string row
// per data row.
func Records(t domain.Table) [][]string {
	switch tt := t.(type) {
	case *domain.CurrentTable:
		out := [][]string{{domain.ColDateTime, domain.ColSpeed}}
		for _, r := range tt.Rows {
			out = append(out, []string{r.Time.Format(timeLayout), formatFloat(r.Speed)})
		}
		return out
	case *domain.WindTable:
		out := [][]string{{domain.ColDateTime, domain.ColSpeed, domain.ColGust}}
		for _, r := range tt.Rows {
			out = append(out, []string{r.Time.Format(timeLayout), formatFloat(r.Speed), formatFloat(r.Gust)})
		}
		return out
	case *domain.MonthlyLevelTable:
		out := [][]string{{domain.ColMonth, domain.ColYear, "Label", domain.ColHighest, domain.ColMSL}}
		for _, r := range tt.Rows {
			out = append(out, []string{
				strconv.Itoa(r.Month),
				strconv.Itoa(r.Year),
				r.Label,
				formatFloat(r.Highest),
				formatFloat(r.MSL),
			})
		}
		return out
	case *domain.VisibilityTable:
		out := [][]string{{domain.ColDateTime, domain.ColVisibility}}
		for _, r := range tt.Rows {
			out = append(out, []string{r.Time.Format(timeLayout), formatFloat(r.Visibility)})
		}
		return out
	default:
		return [][]string{t.ColumnNames()}
	}
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
