package pricing

import (
	"strconv"
	"strings"
)

// FormatPrice formats an amount in paise as a rupee string using the Indian
// grouping system, e.g. 500000 -> "₹5,000" and 25200000 -> "₹2,52,000".
// Whole-rupee amounts drop the paise; fractional amounts keep two digits.
//
// Formatting happens only at the presentation edge; every calculation in this
// package stays in integer paise.
func FormatPrice(paise int64) string {
	neg := paise < 0
	if neg {
		paise = -paise
	}

	rupees := paise / 100
	fraction := paise % 100

	s := strconv.FormatInt(rupees, 10)

	var b strings.Builder
	b.Grow(len(s) + len(s)/2 + 4)
	if neg {
		b.WriteString("-")
	}
	b.WriteString("₹")

	// Indian grouping: the last three digits form one group, everything
	// before them groups in pairs ("2,52,000").
	if len(s) <= 3 {
		b.WriteString(s)
	} else {
		head := s[:len(s)-3]
		if len(head)%2 == 1 {
			b.WriteString(head[:1])
			b.WriteByte(',')
			head = head[1:]
		}
		for i := 0; i < len(head); i += 2 {
			b.WriteString(head[i : i+2])
			b.WriteByte(',')
		}
		b.WriteString(s[len(s)-3:])
	}

	if fraction != 0 {
		b.WriteByte('.')
		if fraction < 10 {
			b.WriteByte('0')
		}
		b.WriteString(strconv.FormatInt(fraction, 10))
	}

	return b.String()
}
