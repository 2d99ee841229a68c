package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Header names as they appear in CO-OPS exports after trimming.
const (
	ColDateTime   = "Date Time"
	ColDate       = "Date"
	ColTime       = "Time"
	ColSpeed      = "Speed"
	ColGust       = "Gust"
	ColMonth      = "Month"
	ColYear       = "Year"
	ColHighest    = "Highest"
	ColMSL        = "MSL"
	ColVisibility = "Visibility"
)

// timestampLayouts are tried in order. Times without a zone are read as UTC.
var timestampLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006 15:04",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
}

var errMonthRange = errors.New("month must be between 1 and 12")

// TrimHeader strips leading and trailing whitespace from every column name.
// It returns a new slice and is idempotent.
func TrimHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

// ParseTimestamp parses a CO-OPS timestamp in any of the supported layouts.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// MonthLabel formats the category label for a monthly row, e.g. "2/2022".
func MonthLabel(month, year int) string {
	return fmt.Sprintf("%d/%d", month, year)
}

// Normalize converts a raw table into the typed table for the source's kind.
func Normalize(src SourceDescriptor, raw RawTable) (Table, error) {
	switch src.Kind {
	case KindCurrent:
		return NormalizeCurrent(src, raw)
	case KindWind:
		return NormalizeWind(src, raw)
	case KindMonthlyLevel:
		return NormalizeMonthlyLevel(src, raw)
	case KindVisibility:
		return NormalizeVisibility(src, raw)
	default:
		return nil, &SchemaError{Source: src.ID, Reason: "series kind not set"}
	}
}

// NormalizeCurrent requires Date Time and Speed columns.
func NormalizeCurrent(src SourceDescriptor, raw RawTable) (*CurrentTable, error) {
	idx, err := requireColumns(src, raw.Header, ColDateTime, ColSpeed)
	if err != nil {
		return nil, err
	}

	rows := make([]CurrentRow, 0, len(raw.Records))
	for _, rec := range raw.Records {
		ts, err := parseTimestampField(src, rec, idx[0], ColDateTime)
		if err != nil {
			return nil, err
		}
		speed, err := parseFloatField(src, rec, idx[1], ColSpeed)
		if err != nil {
			return nil, err
		}
		rows = append(rows, CurrentRow{Time: ts, Speed: speed})
	}
	return &CurrentTable{Source: src, Columns: raw.Header, Rows: rows}, nil
}

// NormalizeWind requires Date Time, Speed and Gust columns.
func NormalizeWind(src SourceDescriptor, raw RawTable) (*WindTable, error) {
	idx, err := requireColumns(src, raw.Header, ColDateTime, ColSpeed, ColGust)
	if err != nil {
		return nil, err
	}

	rows := make([]WindRow, 0, len(raw.Records))
	for _, rec := range raw.Records {
		ts, err := parseTimestampField(src, rec, idx[0], ColDateTime)
		if err != nil {
			return nil, err
		}
		speed, err := parseFloatField(src, rec, idx[1], ColSpeed)
		if err != nil {
			return nil, err
		}
		gust, err := parseFloatField(src, rec, idx[2], ColGust)
		if err != nil {
			return nil, err
		}
		rows = append(rows, WindRow{Time: ts, Speed: speed, Gust: gust})
	}
	return &WindTable{Source: src, Columns: raw.Header, Rows: rows}, nil
}

// NormalizeMonthlyLevel requires Month, Year, Highest and MSL columns and
// derives the "{month}/{year}" label for every row. Month and Year stay integers.
func NormalizeMonthlyLevel(src SourceDescriptor, raw RawTable) (*MonthlyLevelTable, error) {
	idx, err := requireColumns(src, raw.Header, ColMonth, ColYear, ColHighest, ColMSL)
	if err != nil {
		return nil, err
	}

	rows := make([]MonthlyLevelRow, 0, len(raw.Records))
	for _, rec := range raw.Records {
		month, err := parseIntField(src, rec, idx[0], ColMonth)
		if err != nil {
			return nil, err
		}
		if month < 1 || month > 12 {
			return nil, &ParseError{Source: src.ID, Line: rec.Line, Column: ColMonth, Value: field(rec, idx[0]), Err: errMonthRange}
		}
		year, err := parseIntField(src, rec, idx[1], ColYear)
		if err != nil {
			return nil, err
		}
		highest, err := parseFloatField(src, rec, idx[2], ColHighest)
		if err != nil {
			return nil, err
		}
		msl, err := parseFloatField(src, rec, idx[3], ColMSL)
		if err != nil {
			return nil, err
		}
		rows = append(rows, MonthlyLevelRow{
			Month:   month,
			Year:    year,
			Highest: highest,
			MSL:     msl,
			Label:   MonthLabel(month, year),
		})
	}
	return &MonthlyLevelTable{Source: src, Columns: raw.Header, Rows: rows}, nil
}

// NormalizeVisibility reads the timestamp from the first two raw fields only.
//
// The header starts with either "Date Time" or "Date","Time". The visibility
// value sits at its header position shifted by the number of header columns
// the timestamp spans, so a date/time split in the data never shifts it.
// Fields past the visibility value are ignored. A row whose first field is
// already a complete timestamp is read unshifted.
func NormalizeVisibility(src SourceDescriptor, raw RawTable) (*VisibilityTable, error) {
	span, err := visibilityTimestampSpan(src, raw.Header)
	if err != nil {
		return nil, err
	}
	idx, err := requireColumns(src, raw.Header, ColVisibility)
	if err != nil {
		return nil, err
	}
	visCol := idx[0]
	if visCol < span {
		return nil, &SchemaError{Source: src.ID, Reason: "Visibility column precedes the timestamp"}
	}
	splitCol := visCol - span + 2

	rows := make([]VisibilityRow, 0, len(raw.Records))
	for _, rec := range raw.Records {
		valueCol := splitCol
		ts, err := ParseTimestamp(field(rec, 0))
		if err == nil && span == 1 {
			valueCol = visCol
		} else {
			joined := strings.TrimSpace(field(rec, 0) + " " + field(rec, 1))
			ts, err = ParseTimestamp(joined)
			if err != nil {
				return nil, &ParseError{Source: src.ID, Line: rec.Line, Column: ColDateTime, Value: joined, Err: err}
			}
		}
		vis, err := parseFloatField(src, rec, valueCol, ColVisibility)
		if err != nil {
			return nil, err
		}
		rows = append(rows, VisibilityRow{Time: ts, Visibility: vis})
	}
	return &VisibilityTable{Source: src, Columns: raw.Header, Rows: rows}, nil
}

func visibilityTimestampSpan(src SourceDescriptor, header []string) (int, error) {
	switch {
	case len(header) >= 1 && header[0] == ColDateTime:
		return 1, nil
	case len(header) >= 2 && header[0] == ColDate && header[1] == ColTime:
		return 2, nil
	default:
		return 0, &SchemaError{Source: src.ID, Column: ColDateTime}
	}
}

// requireColumns returns the index of each named column or a SchemaError for
// the first one missing.
func requireColumns(src SourceDescriptor, header []string, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = indexOf(header, name)
		if idx[i] < 0 {
			return nil, &SchemaError{Source: src.ID, Column: name}
		}
	}
	return idx, nil
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// field returns the trimmed value at i, or "" when the row is too short.
func field(rec RawRecord, i int) string {
	if i < 0 || i >= len(rec.Fields) {
		return ""
	}
	return strings.TrimSpace(rec.Fields[i])
}

func parseTimestampField(src SourceDescriptor, rec RawRecord, i int, column string) (time.Time, error) {
	v := field(rec, i)
	ts, err := ParseTimestamp(v)
	if err != nil {
		return time.Time{}, &ParseError{Source: src.ID, Line: rec.Line, Column: column, Value: v, Err: err}
	}
	return ts, nil
}

// parseFloatField treats blank, "-" and "NaN" as a missing reading.
func parseFloatField(src SourceDescriptor, rec RawRecord, i int, column string) (float64, error) {
	v := field(rec, i)
	if v == "" || v == "-" || strings.EqualFold(v, "nan") {
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &ParseError{Source: src.ID, Line: rec.Line, Column: column, Value: v, Err: err}
	}
	return f, nil
}

func parseIntField(src SourceDescriptor, rec RawRecord, i int, column string) (int, error) {
	v := field(rec, i)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ParseError{Source: src.ID, Line: rec.Line, Column: column, Value: v, Err: err}
	}
	return n, nil
}
