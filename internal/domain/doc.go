// Package domain models rows of a county crash-reporting extract (the
// "drivers" file published on the county open-data portal, one row per
// driver involved in a reported crash).
//
// # Source Data Conventions
//
// Timestamp format:
//
//	"MM/DD/YYYY hh:mm:ss AM|PM" in local time, e.g. "05/25/2018 06:35:00 PM".
//	Some exports use 24-hour or ISO-style variants; all accepted forms are
//	listed in crashTimeLayouts. Rows whose timestamp parses under none of
//	them are unusable and are dropped by the loader.
//
// Display hour:
//
//	Hour buckets run 1-24 rather than 0-23: a crash at 17:40 falls in
//	bucket 18. Derived once at parse time so every consumer agrees.
//
// Categorical cleaning:
//
//	The raw Weather, Light, Surface Condition, and Injury Severity columns
//	are free-text and inconsistent across reporting years ("RAINING",
//	"RAIN", "Rain, Drizzle"). Each column is collapsed into a small fixed
//	bucket set by substring rules; see normalizeWeather and friends. Empty
//	cells and the portal's N/A sentinels map to the UNKNOWN bucket.
//
// Vehicle make:
//
//	Makes mix full names with four-letter NCIC abbreviations (TOYT, HOND,
//	CHEV, MERZ, VOLK). Abbreviations are expanded to the full name; UNK and
//	UNKNOWN collapse to UNKNOWN.
//
// Vehicle year:
//
//	The column carries obvious garbage (0, 9999, blanks). Years are kept
//	only within [1980, 2025]; anything else is treated as missing.
//
// Injury severity:
//
//	Five ordered levels from "No Injury" through "Fatal Injury". Rows whose
//	severity cannot be classified carry the Unknown label; severity-based
//	aggregations skip them while time-based aggregations count them.
package domain
