package domain

import (
	"fmt"
	"strconv"
)

// FormatPrice renders whole pesos the way es-AR does: "$" then the integer
// with "." thousands separators, e.g. $13.000.
func FormatPrice(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)

	buf := make([]byte, 0, len(digits)+len(digits)/3+2)
	if neg {
		buf = append(buf, '-')
	}
	buf = append(buf, '$')
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, digits[i])
	}
	return string(buf)
}

// FormatMinutes renders a duration in minutes: "45 min" or "1h 30min".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %dmin", minutes/60, minutes%60)
}
