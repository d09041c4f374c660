package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"kemstore/internal/validate"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return st, true
	}
	return "", false
}

func (s OrderStatus) Label() string {
	switch s {
	case StatusPending:
		return "注文受付"
	case StatusConfirmed:
		return "発送準備中"
	case StatusShipped:
		return "発送済み"
	case StatusDelivered:
		return "配達完了"
	case StatusCancelled:
		return "キャンセル済み"
	}
	return string(s)
}

// OrderItem snapshots name and price at the time of the order.
type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

func (it OrderItem) Subtotal() int64 { return it.Price * int64(it.Quantity) }

type Customer struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	CompanyName string `json:"companyName,omitempty"`
}

type Address struct {
	PostalCode   string `json:"postalCode"`
	Prefecture   string `json:"prefecture"`
	City         string `json:"city"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
}

func (a SavedAddress) OrderAddress() Address {
	return Address{
		PostalCode:   a.PostalCode,
		Prefecture:   a.Prefecture,
		City:         a.City,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
	}
}

type Order struct {
	ID              string      `json:"id"` // order-YYYYMMDDnnn
	UserID          string      `json:"userId"`
	Items           []OrderItem `json:"items"`
	TotalAmount     int64       `json:"totalAmount"`
	Customer        Customer    `json:"customer"`
	ShippingAddress Address     `json:"shippingAddress"`
	Status          OrderStatus `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
	Notes           string      `json:"notes,omitempty"`
}

const MaxNotesLength = 500

func SumItems(items []OrderItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}

// GenerateOrderID returns order-YYYYMMDD followed by seq as three digits.
// seq wraps at 1000.
func GenerateOrderID(now time.Time, seq int) string {
	return fmt.Sprintf("order-%s%03d", now.Format("20060102"), seq%1000)
}

// OrderIDDate extracts the YYYYMMDD part of an order id.
func OrderIDDate(id string) string {
	rest, ok := strings.CutPrefix(id, "order-")
	if !ok || len(rest) < 8 {
		return ""
	}
	return rest[:8]
}

// ValidateOrder lists every problem with o as a message for the customer.
// An empty result means the order can be placed.
func ValidateOrder(o Order) []string {
	problems := ValidateOrderLines(o)
	problems = append(problems, ValidateCustomer(o.Customer)...)
	return append(problems, ValidateAddress(o.ShippingAddress)...)
}

// ValidateOrderLines checks what holds for every order regardless of who
// entered the contact details: items, quantities, the total and the notes.
func ValidateOrderLines(o Order) []string {
	var problems []string
	if len(o.Items) == 0 {
		problems = append(problems, "注文アイテムが指定されていません。")
	}
	for _, it := range o.Items {
		if it.Quantity < 1 {
			problems = append(problems, fmt.Sprintf("%sの数量が正しくありません。", it.Name))
		}
	}
	if len(o.Items) > 0 && o.TotalAmount != SumItems(o.Items) {
		problems = append(problems, "合計金額が明細と一致しません。")
	}
	if utf8.RuneCountInString(o.Notes) > MaxNotesLength {
		problems = append(problems, "備考は500文字以内で入力してください。")
	}
	return problems
}

func ValidateCustomer(c Customer) []string {
	var problems []string
	switch {
	case strings.TrimSpace(c.Name) == "":
		problems = append(problems, "お名前を入力してください。")
	case !validate.Length(c.Name, 1, 100):
		problems = append(problems, "お名前は100文字以内で入力してください。")
	}
	if strings.TrimSpace(c.Email) == "" {
		problems = append(problems, "メールアドレスを入力してください。")
	} else if _, ok := validate.Email(c.Email); !ok {
		problems = append(problems, "有効なメールアドレスを入力してください。")
	}
	if strings.TrimSpace(c.PhoneNumber) == "" {
		problems = append(problems, "電話番号を入力してください。")
	} else if _, ok := validate.Phone(c.PhoneNumber); !ok {
		problems = append(problems, "有効な電話番号を入力してください。")
	}
	if !validate.Length(c.CompanyName, 0, 100) {
		problems = append(problems, "会社名は100文字以内で入力してください。")
	}
	return problems
}

func ValidateAddress(a Address) []string {
	var problems []string
	if strings.TrimSpace(a.PostalCode) == "" {
		problems = append(problems, "郵便番号を入力してください。")
	} else if _, ok := validate.PostalCode(a.PostalCode); !ok {
		problems = append(problems, "郵便番号は123-4567または1234567の形式で入力してください。")
	}
	if strings.TrimSpace(a.Prefecture) == "" {
		problems = append(problems, "都道府県を選択してください。")
	}
	if strings.TrimSpace(a.City) == "" {
		problems = append(problems, "市区町村を入力してください。")
	}
	if strings.TrimSpace(a.AddressLine1) == "" {
		problems = append(problems, "住所を入力してください。")
	}
	return problems
}

// FormatPostalCode inserts the hyphen into a bare 7-digit postal code.
func FormatPostalCode(s string) string {
	if strings.Contains(s, "-") {
		return s
	}
	d := digits(s)
	if len(d) == 7 {
		return d[:3] + "-" + d[3:]
	}
	return s
}

// FormatPhone hyphenates 10-digit landline (2-digit area code) and 11-digit
// mobile numbers. Anything else is returned unchanged.
func FormatPhone(s string) string {
	if strings.Contains(s, "-") {
		return s
	}
	d := digits(s)
	switch {
	case len(d) == 10 && d[0] == '0' && strings.ContainsRune("12345679", rune(d[1])):
		return d[:2] + "-" + d[2:6] + "-" + d[6:]
	case len(d) == 11 && d[0] == '0' && strings.ContainsRune("789", rune(d[1])):
		return d[:3] + "-" + d[3:7] + "-" + d[7:]
	}
	return s
}

// FormatDate renders a date the way receipts show it: 2024年5月23日.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
