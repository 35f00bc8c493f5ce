package sheets

import "fmt"

// ExpectedSheets are the sheets the synced scripts read and write.
var ExpectedSheets = []string{
	"Currencies",
	"Exchange_Rates",
	"VAT_Rates",
	"Companies",
	"Counterparties",
	"Products",
	"Expense_Categories",
	"Purchase_Orders",
	"Purchase_Order_Lines",
	"Sales_Orders",
	"Sales_Order_LINES",
	"Expenses",
	"Cash_Transactions",
	"Payments",
	"Intercompany_Loans",
	"Intercompany_Loan_Payments",
	"Account_Balances",
}

// SheetInfo describes one sheet (tab) of a spreadsheet.
type SheetInfo struct {
	ID    int64
	Title string
	Index int64
}

// SpreadsheetInfo is the title and sheet list of a spreadsheet.
type SpreadsheetInfo struct {
	ID     string
	Title  string
	Sheets []SheetInfo
}

// EditURL returns the browser link of the spreadsheet.
func (s *SpreadsheetInfo) EditURL() string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", s.ID)
}

// Titles returns the sheet titles in order.
func (s *SpreadsheetInfo) Titles() []string {
	titles := make([]string, 0, len(s.Sheets))
	for _, sh := range s.Sheets {
		titles = append(titles, sh.Title)
	}
	return titles
}

// Report is the result of Compare.
type Report struct {
	Found   []string
	Missing []string
	Extra   []string
}

// Complete reports whether every expected sheet exists.
func (r *Report) Complete() bool {
	return len(r.Missing) == 0
}

// Compare checks a spreadsheet against the expected sheet titles.
// Titles are compared case-sensitively.
func Compare(info *SpreadsheetInfo, expected []string) *Report {
	r := &Report{}

	titles := info.Titles()

	have := make(map[string]bool, len(titles))
	for _, title := range titles {
		have[title] = true
	}

	want := make(map[string]bool, len(expected))
	for _, name := range expected {
		want[name] = true
		if have[name] {
			r.Found = append(r.Found, name)
		} else {
			r.Missing = append(r.Missing, name)
		}
	}

	for _, title := range titles {
		if !want[title] {
			r.Extra = append(r.Extra, title)
		}
	}

	return r
}
