package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatPopulation renders n with en-US thousands separators, e.g. 39,538,223
func FormatPopulation(n int) string {
	return message.NewPrinter(language.AmericanEnglish).Sprintf("%d", n)
}
