// Package format renders numbers for console output.
package format

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is used when no locale is configured.
var DefaultLocale = language.AmericanEnglish

// NumberFormatter formats integers with the grouping rules of one locale.
type NumberFormatter struct {
	printer *message.Printer
}

// NewNumberFormatter returns a formatter bound to tag.
func NewNumberFormatter(tag language.Tag) *NumberFormatter {
	return &NumberFormatter{printer: message.NewPrinter(tag)}
}

// Int formats n with locale-specific digit grouping.
func (f *NumberFormatter) Int(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// Number formats n for the given locale without keeping a formatter around.
func Number(n int64, tag language.Tag) string {
	return NewNumberFormatter(tag).Int(n)
}

// ParseLocale parses a BCP 47 tag such as "en-US" or "de". An empty string
// yields DefaultLocale.
func ParseLocale(s string) (language.Tag, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLocale, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", s, err)
	}
	return tag, nil
}
