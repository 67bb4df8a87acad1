package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal SGML-style OFX statement with two bank transactions.
const sampleOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20260115120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>GBP
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20260101120000[0:GMT]
<DTEND>20260131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260105120000[0:GMT]
<TRNAMT>-15.99
<FITID>2026010501
<NAME>NETFLIX.COM LONDON
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260112120000[0:GMT]
<TRNAMT>-9.99
<FITID>2026011201
<NAME>SPOTIFY UK
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20260131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestPreflightStatement_OFX(t *testing.T) {
	path := writeTemp(t, "statement.ofx", sampleOFX)

	p, err := PreflightStatement(path)
	require.NoError(t, err)
	assert.True(t, p.Supported)
	assert.Equal(t, 2, p.TransactionCount)
	assert.Equal(t, "2026-01-05", p.Start.Format("2006-01-02"))
	assert.Equal(t, "2026-01-12", p.End.Format("2006-01-02"))
}

func TestPreflightStatement_CSV(t *testing.T) {
	path := writeTemp(t, "statement.csv",
		"date,description,amount\n"+
			"2026-01-05,NETFLIX.COM,-15.99\n"+
			"2026-01-12,SPOTIFY,-9.99\n"+
			"2026-01-20,ICLOUD,-2.99\n")

	p, err := PreflightStatement(path)
	require.NoError(t, err)
	assert.True(t, p.Supported)
	assert.Equal(t, 3, p.TransactionCount)
}

func TestPreflightStatement_EmptyCSV(t *testing.T) {
	path := writeTemp(t, "statement.csv", "")

	p, err := PreflightStatement(path)
	require.NoError(t, err)
	assert.Equal(t, 0, p.TransactionCount)
}

func TestPreflightStatement_OpaqueFormats(t *testing.T) {
	for _, name := range []string{"statement.pdf", "statement.qif"} {
		path := writeTemp(t, name, "%PDF-1.4 opaque bytes")

		p, err := PreflightStatement(path)
		require.NoError(t, err, name)
		assert.False(t, p.Supported, name)
	}
}

func TestPreflightStatement_MissingFile(t *testing.T) {
	_, err := PreflightStatement(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}
