package validate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// Japanese postal code: 123-4567 or 1234567
	rePostal = regexp.MustCompile(`^\d{3}-?\d{4}$`)
	rePhone  = regexp.MustCompile(`^0\d{1,4}-?\d{1,4}-?\d{4}$`)
	reEmail  = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID     = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reSlug   = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	reSort   = regexp.MustCompile(`^(price_asc|price_desc)$`)
	reStock  = regexp.MustCompile(`^(IN_STOCK|LOW_STOCK|OUT_OF_STOCK|ON_ORDER)$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

func PostalCode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePostal.MatchString(s)
}

func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

// Length checks the rune count of s against [min, max].
func Length(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

// Q validates a search query: trims, drops control characters and cuts it to
// 50 runes. Japanese text is allowed.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	if r := []rune(s); len(r) > 50 {
		s = string(r[:50])
	}
	return s, s != ""
}

// Quantity accepts 1..999 items per cart line.
func Quantity(n int) bool {
	return n >= 1 && n <= 999
}

// ID validates a simple resource identifier (product/order/address ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func Slug(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= 64 && reSlug.MatchString(s)
}

// Sort validates allowed sort orders.
func Sort(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reSort.MatchString(s)
}

// StockStatus validates allowed stock status enums.
func StockStatus(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reStock.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > 100 {
		return "", false
	}
	return s, true
}

// Password enforces a length window; bcrypt ignores bytes past 72.
func Password(s string) bool {
	l := len(s)
	return l >= 8 && l <= 72
}
