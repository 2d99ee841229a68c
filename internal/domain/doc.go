// Package domain models NOAA CO-OPS time-series exports and the normalized
// tables built from them.
//
// # Data Source
//
// Exports come from the NOAA Center for Operational Oceanographic Products and
// Services (CO-OPS) at https://tidesandcurrents.noaa.gov/products.html via
// "Data Only > Export to CSV". Four products are supported, one per [SeriesKind]:
//
//	cu  water current speed       6-minute cadence   Date Time, Speed, ...
//	ws  wind speed and gust       6-minute cadence   Date Time, Speed, Gust, ...
//	ml  monthly water levels      1 row per month    Month, Year, Highest, MSL, ...
//	vs  visibility                6-minute cadence   Date Time, Visibility, ...
//
// # File Identifiers
//
// Export files are named "<provider>__<stationId>__<seriesSuffix>.csv", e.g.
// "CO-OPS__CFR1624__cu.csv" is current data for station CFR1624 (Southport, NC).
// The station id is the middle "__"-delimited segment. See [ExtractStationID]
// and [ClassifyIdentifier].
//
// # Export Quirks
//
// Header cells carry incidental spaces (" Speed", "Gust ") and data cells are
// padded after the comma; both are trimmed on load.
//
// Visibility exports split the timestamp across two raw fields ("2023-03-31",
// "00:00") even when the header names a single "Date Time" column, and rows may
// carry trailing fields with no header. Only the first two raw fields form the
// timestamp and the visibility value is located relative to them, never by raw
// header position. See [NormalizeVisibility].
//
// Monthly level exports carry no timestamp. Month and Year are a coarse sampling
// grid rather than calendar dates, so they are kept as integers and rendered as
// a "{month}/{year}" category label, e.g. "2/2022".
//
// Blank, "-" and "NaN" numeric cells are missing readings and are kept as NaN so
// row counts always match the export.
package domain
