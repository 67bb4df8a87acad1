package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStatementFile(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "pdf accepted", path: "statement.pdf"},
		{name: "csv accepted", path: "statement.csv"},
		{name: "ofx accepted", path: "statement.ofx"},
		{name: "qfx accepted", path: "statement.qfx"},
		{name: "qif accepted", path: "statement.qif"},
		{name: "uppercase extension accepted", path: "STATEMENT.CSV"},
		{name: "nested path accepted", path: "/home/user/Downloads/jan.ofx"},
		{name: "no file selected", path: "", wantErr: true},
		{name: "xlsx rejected", path: "statement.xlsx", wantErr: true},
		{name: "txt rejected", path: "statement.txt", wantErr: true},
		{name: "no extension rejected", path: "statement", wantErr: true},
		{name: "extension embedded in name rejected", path: "statement.csv.exe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStatementFile(tt.path)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateStatementFile_MessageListsAllowList(t *testing.T) {
	err := ValidateStatementFile("statement.docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".pdf, .csv, .ofx, .qfx, .qif")
}

func TestValidateCurrency(t *testing.T) {
	for _, currency := range []string{"GBP", "USD", "EUR", "UAH", "CAD", "AUD"} {
		assert.NoError(t, ValidateCurrency(currency), currency)
	}

	err := ValidateCurrency("JPY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JPY")

	// Lowercase is not accepted; the value goes to the API verbatim.
	assert.Error(t, ValidateCurrency("gbp"))
}
