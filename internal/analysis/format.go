package analysis

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// FormatNumber renders a statistic for display. Magnitudes of 1000 or more
// get grouping separators and at most two fraction digits, integral values
// drop the decimal point, and everything else shows exactly two fraction
// digits. NaN and infinities render as N/A.
func FormatNumber(x float64) string {
	switch {
	case math.IsNaN(x) || math.IsInf(x, 0):
		return "N/A"
	case math.Abs(x) >= 1000:
		return printer.Sprint(number.Decimal(x, number.MaxFractionDigits(2)))
	case x == math.Trunc(x):
		return unsignZero(strconv.FormatFloat(x, 'f', 0, 64))
	default:
		return unsignZero(strconv.FormatFloat(x, 'f', 2, 64))
	}
}

// unsignZero drops the sign from values that round to zero ("-0", "-0.00").
func unsignZero(s string) string {
	if strings.HasPrefix(s, "-") && strings.Trim(s, "-0.") == "" {
		return s[1:]
	}
	return s
}
