// export_test.go exports private functions for white-box testing.
package commands

// WrapText exposes wrapText for tests.
var WrapText = wrapText
