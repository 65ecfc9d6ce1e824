package report

import (
	"fmt"
	"strings"

	"github.com/xenking/till/internal/domain/ledger"
	"github.com/xenking/till/internal/domain/settings"
)

const receiptWidth = 40

// Receipt renders a printable receipt for a completed sale.
func Receipt(sale ledger.Sale, s settings.Settings) string {
	var b strings.Builder
	rule := strings.Repeat("-", receiptWidth) + "\n"

	b.WriteString(center(s.StoreName, receiptWidth) + "\n")
	b.WriteString(center(sale.Date.Format("2006-01-02 15:04:05"), receiptWidth) + "\n")
	b.WriteString(center("Transaction #"+sale.ID, receiptWidth) + "\n")
	b.WriteString(rule)

	for _, it := range sale.Items {
		b.WriteString(row(fmt.Sprintf("%s x%d", it.Name, it.Quantity), s.Money(it.Total())))
	}

	b.WriteString(rule)
	b.WriteString(row("Subtotal", s.Money(sale.Subtotal)))
	b.WriteString(row(fmt.Sprintf("Tax (%s%%)", sale.TaxRate), s.Money(sale.Tax)))
	b.WriteString(row("Total", s.Money(sale.Total)))
	b.WriteString(rule)
	b.WriteString(row("Payment Method", strings.ToUpper(sale.PaymentMethod)))
	b.WriteString(row("Amount Paid", s.Money(sale.AmountPaid)))
	b.WriteString(row("Change", s.Money(sale.Change)))
	b.WriteString(strings.Repeat("=", receiptWidth) + "\n")
	b.WriteString(center("Thank you for your business!", receiptWidth) + "\n")
	b.WriteString(center("Customer: "+sale.CustomerName, receiptWidth) + "\n")

	return b.String()
}

// row lays out a label and a value on one receipt line, truncating the
// label when both do not fit.
func row(label, value string) string {
	room := receiptWidth - len([]rune(value)) - 1
	if room < 1 {
		room = 1
	}
	return fmt.Sprintf("%-*s %s\n", room, truncate(label, room), value)
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}
