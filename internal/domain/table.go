package domain

import "time"

// RawRecord is one data row as read from a CSV source.
type RawRecord struct {
	Line   int // 1-based line number in the file
	Fields []string
}

// RawTable is a loaded CSV source with its header already trimmed.
// Records may be wider or narrower than Header.
type RawTable struct {
	Source  string
	Header  []string
	Records []RawRecord
}

// Table is a normalized, read-only table for one source.
type Table interface {
	Descriptor() SourceDescriptor
	ColumnNames() []string
	Len() int
}

// CurrentRow is one water current reading, speed in knots.
type CurrentRow struct {
	Time  time.Time
	Speed float64
}

// WindRow is one wind reading, speed and gust in meters per second.
type WindRow struct {
	Time  time.Time
	Speed float64
	Gust  float64
}

// MonthlyLevelRow is one month of water level extremes.
type MonthlyLevelRow struct {
	Month   int
	Year    int
	Highest float64
	MSL     float64
	Label   string // "{month}/{year}"
}

// VisibilityRow is one visibility reading.
type VisibilityRow struct {
	Time       time.Time
	Visibility float64
}

type CurrentTable struct {
	Source  SourceDescriptor
	Columns []string
	Rows    []CurrentRow
}

func (t *CurrentTable) Descriptor() SourceDescriptor { return t.Source }
func (t *CurrentTable) ColumnNames() []string        { return t.Columns }
func (t *CurrentTable) Len() int                     { return len(t.Rows) }

type WindTable struct {
	Source  SourceDescriptor
	Columns []string
	Rows    []WindRow
}

func (t *WindTable) Descriptor() SourceDescriptor { return t.Source }
func (t *WindTable) ColumnNames() []string        { return t.Columns }
func (t *WindTable) Len() int                     { return len(t.Rows) }

type MonthlyLevelTable struct {
	Source  SourceDescriptor
	Columns []string
	Rows    []MonthlyLevelRow
}

func (t *MonthlyLevelTable) Descriptor() SourceDescriptor { return t.Source }
func (t *MonthlyLevelTable) ColumnNames() []string        { return t.Columns }
func (t *MonthlyLevelTable) Len() int                     { return len(t.Rows) }

type VisibilityTable struct {
	Source  SourceDescriptor
	Columns []string
	Rows    []VisibilityRow
}

func (t *VisibilityTable) Descriptor() SourceDescriptor { return t.Source }
func (t *VisibilityTable) ColumnNames() []string        { return t.Columns }
func (t *VisibilityTable) Len() int                     { return len(t.Rows) }

// Dataset holds at most one normalized table per series kind.
type Dataset struct {
	Current      *CurrentTable
	Wind         *WindTable
	MonthlyLevel *MonthlyLevelTable
	Visibility   *VisibilityTable
}

// Add stores a table under its kind. A second table of the same kind is rejected.
func (d *Dataset) Add(t Table) error {
	src := t.Descriptor()
	if existing := d.table(src.Kind); existing != nil {
		return &SchemaError{
			Source: src.ID,
			Reason: "duplicate " + src.Kind.String() + " source, already have " + existing.Descriptor().ID,
		}
	}
	switch tt := t.(type) {
	case *CurrentTable:
		d.Current = tt
	case *WindTable:
		d.Wind = tt
	case *MonthlyLevelTable:
		d.MonthlyLevel = tt
	case *VisibilityTable:
		d.Visibility = tt
	default:
		return &SchemaError{Source: src.ID, Reason: "unsupported table type"}
	}
	return nil
}

// Missing lists the kinds with no table, in panel order.
func (d *Dataset) Missing() []SeriesKind {
	var missing []SeriesKind
	for _, k := range PanelOrder {
		if d.table(k) == nil {
			missing = append(missing, k)
		}
	}
	return missing
}

// Tables returns the present tables in panel order.
func (d *Dataset) Tables() []Table {
	var tables []Table
	for _, k := range PanelOrder {
		if t := d.table(k); t != nil {
			tables = append(tables, t)
		}
	}
	return tables
}

// table avoids returning typed nil pointers wrapped in a non-nil interface.
func (d *Dataset) table(k SeriesKind) Table {
	switch k {
	case KindCurrent:
		if d.Current != nil {
			return d.Current
		}
	case KindWind:
		if d.Wind != nil {
			return d.Wind
		}
	case KindMonthlyLevel:
		if d.MonthlyLevel != nil {
			return d.MonthlyLevel
		}
	case KindVisibility:
		if d.Visibility != nil {
			return d.Visibility
		}
	}
	return nil
}
