// Package validation checks command-line input before any work is done.
package validation

import (
	"fmt"
	"os"
	"time"

	"fjacquet/up-budget/internal/dataerror"
	"fjacquet/up-budget/internal/models"
	"fjacquet/up-budget/internal/report"
)

// IsValidOutputFormat checks if the given format is supported.
func IsValidOutputFormat(format string) error {
	switch format {
	case report.FormatText, report.FormatJSON, report.FormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s. Supported formats are 'text', 'json', 'yaml'", format)
	}
}

// IsValidInputFile checks that path exists and is a regular file.
func IsValidInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", path)
	}
	return nil
}

// IsValidOutputFile checks that path can be created or overwritten as a
// file. Missing parent directories are fine; they are created on write.
func IsValidOutputFile(path string) error {
	if path == "" {
		return fmt.Errorf("output path is empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking output path %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("output path %s is a directory", path)
	}
	return nil
}

// IsValidMonthKey checks that month is a YYYY-MM key.
func IsValidMonthKey(month string) error {
	if _, err := time.Parse(models.MonthKeyLayout, month); err != nil {
		return &dataerror.ValidationError{Field: "month", Reason: fmt.Sprintf("%q is not YYYY-MM", month)}
	}
	return nil
}
