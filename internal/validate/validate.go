package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"counterpos/internal/domain"
)

var (
	reEmail   = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID      = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reBarcode = regexp.MustCompile(`^[A-Za-z0-9-]{0,32}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 80 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password only bounds the length; bcrypt ignores bytes past 72.
func Password(s string) bool {
	return len(s) >= 1 && len(s) <= 72
}

// ID validates a simple resource identifier (product/sale ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a product or display name.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 80 {
		return "", false
	}
	return s, true
}

func Category(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= 40
}

func Barcode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reBarcode.MatchString(s)
}

// Price parses a non-negative amount with at most two decimals.
func Price(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() || d.Exponent() < -2 {
		return decimal.Zero, false
	}
	return d, true
}

// Stock parses a non-negative quantity.
func Stock(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// PaymentMethod normalizes the method name; empty means cash.
func PaymentMethod(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cash":
		return domain.PaymentCash, true
	case "card":
		return domain.PaymentCard, true
	case "qr", "khqr":
		return domain.PaymentQR, true
	}
	return "", false
}
