package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// GroupThousands inserts dot separators in the Spanish style: 15000 → 15.000.
func GroupThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FormatEuro renders a price as "15.000€".
func FormatEuro(price int) string {
	return GroupThousands(price) + "€"
}

// FormatKM renders mileage as "85.000 km".
func FormatKM(km int) string {
	return GroupThousands(km) + " km"
}

// FormatPower renders engine power, "N/D" when unknown.
func FormatPower(power int) string {
	if power <= 0 {
		return "N/D"
	}
	return fmt.Sprintf("%d CV", power)
}
