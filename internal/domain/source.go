package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SeriesKind is the semantic category of a CO-OPS export.
type SeriesKind int

const (
	KindUnknown SeriesKind = iota
	KindCurrent
	KindWind
	KindMonthlyLevel
	KindVisibility
)

// PanelOrder is the fixed order of series kinds in a composed figure.
var PanelOrder = []SeriesKind{KindCurrent, KindWind, KindMonthlyLevel, KindVisibility}

var kindNames = map[SeriesKind]string{
	KindCurrent:      "current",
	KindWind:         "wind",
	KindMonthlyLevel: "monthly_level",
	KindVisibility:   "visibility",
}

var kindSuffixes = map[SeriesKind]string{
	KindCurrent:      "cu",
	KindWind:         "ws",
	KindMonthlyLevel: "ml",
	KindVisibility:   "vs",
}

func (k SeriesKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Suffix returns the file identifier token for the kind, e.g. "cu" for current.
func (k SeriesKind) Suffix() string {
	return kindSuffixes[k]
}

// ParseSeriesKind accepts a kind name ("monthly_level") or its suffix token ("ml").
func ParseSeriesKind(s string) (SeriesKind, error) {
	for _, k := range PanelOrder {
		if s == k.String() || s == k.Suffix() {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown series kind %q", s)
}

// SourceDescriptor identifies one CO-OPS export and what it contains.
// StationID is derived once and never changes.
type SourceDescriptor struct {
	ID        string // file identifier, e.g. "CO-OPS__CFR1624__cu.csv"
	Path      string
	Kind      SeriesKind
	StationID string
}

// NewSourceDescriptor builds a descriptor for a file path with an explicit kind.
// The station id is taken from the identifier unless stationID is non-empty.
func NewSourceDescriptor(path string, kind SeriesKind, stationID string) (SourceDescriptor, error) {
	id := filepath.Base(path)
	if kind == KindUnknown {
		return SourceDescriptor{}, &SchemaError{Source: id, Reason: "series kind not set"}
	}
	if stationID == "" {
		var err error
		stationID, err = ExtractStationID(id)
		if err != nil {
			return SourceDescriptor{}, err
		}
	}
	return SourceDescriptor{ID: id, Path: path, Kind: kind, StationID: stationID}, nil
}

// DescribePath classifies a file path by its identifier and extracts the station id.
func DescribePath(path string, lenient bool) (SourceDescriptor, error) {
	kind, err := ClassifyIdentifier(path, lenient)
	if err != nil {
		return SourceDescriptor{}, err
	}
	return NewSourceDescriptor(path, kind, "")
}

// ExtractStationID returns the middle segment of "<provider>__<station>__<suffix>".
func ExtractStationID(id string) (string, error) {
	base := filepath.Base(id)
	parts, err := splitIdentifier(base)
	if err != nil {
		return "", err
	}
	return parts[1], nil
}

// ClassifyIdentifier resolves the series kind from an identifier's suffix token.
//
// Strict mode requires the suffix, with its extension removed, to be exactly one
// of cu, ws, ml or vs. Lenient mode matches the substrings cu, ws and ml in that
// order and falls back to visibility for anything else.
func ClassifyIdentifier(id string, lenient bool) (SeriesKind, error) {
	base := filepath.Base(id)
	parts, err := splitIdentifier(base)
	if lenient {
		token := base
		if err == nil {
			token = parts[2]
		}
		switch {
		case strings.Contains(token, "cu"):
			return KindCurrent, nil
		case strings.Contains(token, "ws"):
			return KindWind, nil
		case strings.Contains(token, "ml"):
			return KindMonthlyLevel, nil
		default:
			return KindVisibility, nil
		}
	}
	if err != nil {
		return KindUnknown, err
	}

	suffix := strings.TrimSuffix(parts[2], filepath.Ext(parts[2]))
	for _, k := range PanelOrder {
		if suffix == k.Suffix() {
			return k, nil
		}
	}
	return KindUnknown, &SchemaError{Source: base, Reason: fmt.Sprintf("unrecognized series suffix %q", suffix)}
}

func splitIdentifier(base string) ([]string, error) {
	parts := strings.Split(base, "__")
	if len(parts) != 3 {
		return nil, &SchemaError{Source: base, Reason: "identifier is not <provider>__<station>__<suffix>"}
	}
	for _, p := range parts {
		if p == "" {
			return nil, &SchemaError{Source: base, Reason: "identifier has an empty segment"}
		}
	}
	return parts, nil
}
