// export_test.go exports private functions for white-box testing.
package logger

// ErrorEntry exposes errorEntry for tests.
type ErrorEntry = errorEntry

// ExportErrorFormatting exports the private error formatting functions for testing.
var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
)
