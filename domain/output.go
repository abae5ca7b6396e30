package domain

// OutputFormat defines the output format for comparison results
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// SortCriteria defines how comparison results are ordered in output
type SortCriteria string

const (
	SortBySimilarity SortCriteria = "similarity"
	SortByName       SortCriteria = "name"
)

// IsValid reports whether the format is one of the supported output formats
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatCSV:
		return true
	}
	return false
}
