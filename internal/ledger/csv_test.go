package ledger

import (
	"errors"
	"strings"
	"testing"
)

func TestParseCSV(t *testing.T) {
	input := "Category,Amount,Time\nDining,60,10\nGroceries,40,35\n"

	l, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}

	wantColumns := []string{"Category", "Amount", "Time"}
	for i, c := range wantColumns {
		if l.Columns[i] != c {
			t.Errorf("Columns[%d] = %q, want %q", i, l.Columns[i], c)
		}
	}

	if len(l.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(l.Rows))
	}
	if l.Rows[0]["Category"] != "Dining" || l.Rows[0]["Amount"] != "60" {
		t.Errorf("row 0 = %v", l.Rows[0])
	}
	if l.Rows[1]["Time"] != "35" {
		t.Errorf("row 1 Time = %q, want 35", l.Rows[1]["Time"])
	}
}

func TestParseCSV_EmptyFile(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("")); err == nil {
		t.Fatal("ParseCSV() = nil, want error for empty file")
	}
}

func TestParseCSV_TrimsHeaderWhitespace(t *testing.T) {
	l, err := ParseCSV(strings.NewReader(" Category , Amount\nDining,60\n"))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if !l.HasColumn("Category") || !l.HasColumn("Amount") {
		t.Errorf("Columns = %v, want trimmed names", l.Columns)
	}
}

func TestLedgerFloat(t *testing.T) {
	l := &Ledger{
		Columns: []string{"Amount"},
		Rows:    []Row{{"Amount": "12.50"}, {"Amount": "oops"}, {"Amount": ""}},
	}

	v, err := l.Float(0, "Amount")
	if err != nil || v != 12.50 {
		t.Errorf("Float(0) = %v, %v, want 12.50, nil", v, err)
	}

	for _, i := range []int{1, 2} {
		_, err := l.Float(i, "Amount")
		var rowErr *MalformedRowError
		if !errors.As(err, &rowErr) {
			t.Errorf("Float(%d) error = %v, want *MalformedRowError", i, err)
			continue
		}
		if rowErr.RowIndex != i || rowErr.Column != "Amount" {
			t.Errorf("MalformedRowError = %+v, want row %d column Amount", rowErr, i)
		}
	}
}

func TestRowNumericEcho(t *testing.T) {
	row := Row{"Amount": "529.00", "Category": "Shopping", "V1": "-3.04"}
	echo := row.NumericEcho()

	if echo["Amount"] != 529.00 {
		t.Errorf("Amount = %v (%T), want 529.00 as float64", echo["Amount"], echo["Amount"])
	}
	if echo["V1"] != -3.04 {
		t.Errorf("V1 = %v, want -3.04", echo["V1"])
	}
	if echo["Category"] != "Shopping" {
		t.Errorf("Category = %v, want the original string", echo["Category"])
	}
}
