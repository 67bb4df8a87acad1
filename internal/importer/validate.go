// Package importer implements the statement-import wizard: a finite-state
// flow that uploads a statement, polls the analysis job, lets the user
// review detected recurring payments, and confirms the import.
package importer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SupportedExtensions is the client-side allow-list for statement files.
var SupportedExtensions = []string{".pdf", ".csv", ".ofx", ".qfx", ".qif"}

// SupportedCurrencies is the fixed list of currencies offered for upload.
var SupportedCurrencies = []string{"GBP", "USD", "EUR", "UAH", "CAD", "AUD"}

// ValidateStatementFile checks a selected file against the extension
// allow-list. The rejection message lists the allow-list so the user knows
// what to convert to.
func ValidateStatementFile(path string) error {
	if path == "" {
		return fmt.Errorf("no file selected")
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return nil
		}
	}

	return fmt.Errorf("unsupported file type %q: supported extensions are %s",
		ext, strings.Join(SupportedExtensions, ", "))
}

// ValidateCurrency checks the upload currency against the supported list.
func ValidateCurrency(currency string) error {
	for _, supported := range SupportedCurrencies {
		if currency == supported {
			return nil
		}
	}
	return fmt.Errorf("unsupported currency %q: choose one of %s",
		currency, strings.Join(SupportedCurrencies, ", "))
}
