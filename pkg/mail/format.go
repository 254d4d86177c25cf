package mail

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR renders whole rupees with Indian digit grouping, e.g. ₹1,23,456.
func FormatINR(amount int64) string {
	digits := decimal.NewFromInt(amount).Abs().StringFixed(0)
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	if len(digits) <= 3 {
		return sign + "₹" + digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return sign + "₹" + strings.Join(groups, ",") + "," + tail
}
