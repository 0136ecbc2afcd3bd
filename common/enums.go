// Package common keeps enumerations shared by configuration and processing
// packages, so config does not have to import processing code and vice versa.
package common

//go:generate go tool go-enum --marshal --names

// Source type of the tabular data.
// ENUM(auto, csv, xlsx)
type SourceFmt int

// Ext returns canonical file extension for the source type, empty for auto.
func (s SourceFmt) Ext() string {
	switch s {
	case SourceFmtCsv:
		return ".csv"
	case SourceFmtXlsx:
		return ".xlsx"
	default:
		return ""
	}
}

// How values of a column are normalized.
// ENUM(opaque, identifier, list)
type FieldKind int
