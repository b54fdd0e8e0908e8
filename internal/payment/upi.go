package payment

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/borcelle/storefront/internal/config"
	"github.com/borcelle/storefront/internal/domain"
)

const currencyINR = "INR"

// UPI builds manual UPI payment instructions for a merchant VPA.
// Nothing here confirms that money arrived; the customer reports it.
type UPI struct {
	payeeID      string
	payeeName    string
	storeName    string
	supportPhone string
}

// NewUPI creates a UPI instruction builder from config
func NewUPI(cfg config.PaymentConfig) *UPI {
	return &UPI{
		payeeID:      cfg.UPIPayeeID,
		payeeName:    cfg.UPIPayeeName,
		storeName:    cfg.StoreName,
		supportPhone: cfg.SupportPhone,
	}
}

// Instructions builds what the payment modal shows for the cart
func (u *UPI) Instructions(cart *domain.Cart) *domain.PaymentInstructions {
	total := cart.Total()
	note := u.Note(cart.ItemCount())
	display := total.StringFixed(2)

	return &domain.PaymentInstructions{
		PayeeID:      u.payeeID,
		PayeeName:    u.payeeName,
		Amount:       display,
		Currency:     currencyINR,
		ItemCount:    cart.ItemCount(),
		Note:         note,
		Link:         u.Link(total, note),
		SupportPhone: u.supportPhone,
		Steps: []string{
			"Open your UPI app (PhonePe, Paytm, GPay, etc.)",
			fmt.Sprintf("Send ₹%s to UPI ID: %s", display, u.payeeID),
			`Or use the "Open UPI App" button below`,
			"Complete the payment in your UPI app",
			`Return here and click "Payment Done"`,
		},
	}
}

// Note is the transaction note shown in the payer's UPI app
func (u *UPI) Note(itemCount int) string {
	return fmt.Sprintf("%s Order - %d items", u.storeName, itemCount)
}

// Link returns upi://pay?pa=<payee>&am=<amount>&cu=INR&tn=<note>.
// The amount is written in its shortest form (1249.00 becomes 1249).
func (u *UPI) Link(amount decimal.Decimal, note string) string {
	return fmt.Sprintf("upi://pay?pa=%s&am=%s&cu=%s&tn=%s",
		u.payeeID,
		amount.Round(2).String(),
		currencyINR,
		EncodeURIComponent(note),
	)
}

// EncodeURIComponent percent-encodes s the way wallet apps expect query
// values: everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ) is escaped, and
// spaces become %20 rather than +.
func EncodeURIComponent(s string) string {
	const upperhex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
