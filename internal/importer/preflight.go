package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
)

// Preflight is a local, pre-upload summary of a statement file. It is
// shown on the upload step for orientation only; detection itself is
// server-side.
type Preflight struct {
	Start            time.Time
	End              time.Time
	TransactionCount int
	Supported        bool
}

// PreflightStatement inspects OFX/QFX and CSV statements locally and
// reports how many transactions they contain and over what date range.
// PDF and QIF files are opaque to the client and come back unsupported,
// not as errors.
func PreflightStatement(path string) (*Preflight, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		return preflightOFX(f)
	case ".csv":
		return preflightCSV(f)
	default:
		return &Preflight{Supported: false}, nil
	}
}

// preflightOFX counts transactions across bank and credit card statements.
func preflightOFX(reader io.Reader) (*Preflight, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	p := &Preflight{Supported: true}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			for _, tx := range stmt.BankTranList.Transactions {
				p.observe(tx.DtPosted.Time)
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			for _, tx := range stmt.BankTranList.Transactions {
				p.observe(tx.DtPosted.Time)
			}
		}
	}

	return p, nil
}

// preflightCSV counts data rows, treating the first row as a header.
func preflightCSV(reader io.Reader) (*Preflight, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1

	rows := 0
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV file: %w", err)
		}
		rows++
	}

	count := rows - 1
	if count < 0 {
		count = 0
	}
	return &Preflight{Supported: true, TransactionCount: count}, nil
}

func (p *Preflight) observe(posted time.Time) {
	p.TransactionCount++
	if p.Start.IsZero() || posted.Before(p.Start) {
		p.Start = posted
	}
	if p.End.IsZero() || posted.After(p.End) {
		p.End = posted
	}
}

var severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
var unclosedTagRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)

// preprocessOFX fixes common formatting issues in bank-exported OFX files:
// leading whitespace before the header, mixed-case SEVERITY values, and
// SGML-style tags missing their closing bracket.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = unclosedTagRegex.ReplaceAllString(content, "$1>")
	return content
}
