package utils

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//nolint:gochecknoglobals // message.Printer is safe for concurrent use.
var printer = message.NewPrinter(language.Korean)

// FormatWon formats an amount with thousand separators, e.g. "12,345원".
func FormatWon(amount int64) string {
	return printer.Sprintf("%d원", amount)
}

// FormatDecimal formats v with the given precision and thousand separators.
func FormatDecimal(v float64, precision int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", precision), v)
}
