// Package writer renders an ExtractionResult as CSV for download or local
// inspection.
package writer

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/fiscalpanel/extractito/internal/models"
)

// CSVWriter writes the transactions of a result to CSV.
type CSVWriter struct {
	// IncludeMeta prepends statement metadata as comment rows.
	IncludeMeta bool
}

type transactionRow struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	Balance     string `csv:"balance"`
	Currency    string `csv:"currency"`
	Type        string `csv:"type"`
	Category    string `csv:"category"`
	Page        int    `csv:"page"`
}

// WriteToFile writes the result to a CSV file at path.
func (w *CSVWriter) WriteToFile(path string, result *models.ExtractionResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", path, err)
	}
	defer f.Close()
	return w.Write(f, result)
}

// Write renders the result to out.
func (w *CSVWriter) Write(out io.Writer, result *models.ExtractionResult) error {
	if w.IncludeMeta && result.Meta != nil {
		writeMetaComments(out, result.Meta)
	}

	rows := make([]transactionRow, 0, len(result.Transactions))
	for _, t := range result.Transactions {
		row := transactionRow{
			Date:        t.Date.Format("02/01/2006"),
			Description: t.Description,
			Amount:      strconv.FormatFloat(t.Amount, 'f', 2, 64),
			Currency:    t.Currency,
			Type:        t.TypeHint,
			Category:    t.CategoryHint,
			Page:        t.SourcePage,
		}
		if t.Balance != nil {
			row.Balance = strconv.FormatFloat(*t.Balance, 'f', 2, 64)
		}
		rows = append(rows, row)
	}

	if err := gocsv.Marshal(&rows, out); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func writeMetaComments(out io.Writer, meta *models.StatementMeta) {
	if meta.InstitutionName != "" {
		fmt.Fprintf(out, "# institution: %s\n", meta.InstitutionName)
	}
	if meta.AccountType != "" {
		fmt.Fprintf(out, "# account type: %s\n", meta.AccountType)
	}
	if meta.Currency != "" {
		fmt.Fprintf(out, "# currency: %s\n", meta.Currency)
	}
	if meta.PeriodStart != nil && meta.PeriodEnd != nil {
		fmt.Fprintf(out, "# period: %s al %s\n",
			meta.PeriodStart.Format("02/01/2006"), meta.PeriodEnd.Format("02/01/2006"))
	}
	if meta.OpeningBalance != nil {
		fmt.Fprintf(out, "# opening balance: %.2f\n", *meta.OpeningBalance)
	}
	if meta.ClosingBalance != nil {
		fmt.Fprintf(out, "# closing balance: %.2f\n", *meta.ClosingBalance)
	}
}
