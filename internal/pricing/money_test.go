package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	for _, tc := range []struct {
		paise int64
		want  string
	}{
		{0, "₹0"},
		{5, "₹0.05"},
		{100, "₹1"},
		{123, "₹1.23"},
		{8000, "₹80"},
		{50000, "₹500"},
		{500000, "₹5,000"},
		{25200000, "₹2,52,000"},
		{1234567800, "₹1,23,45,678"},
		{1234567890, "₹1,23,45,678.90"},
		{-5000, "-₹50"},
		{-500000, "-₹5,000"},
	} {
		assert.Equal(t, tc.want, FormatPrice(tc.paise), "paise %d", tc.paise)
	}
}
