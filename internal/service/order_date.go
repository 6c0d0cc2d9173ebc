package service

import (
	"strings"
	"time"
)

const (
	LocaleBangla  = "bn-BD"
	LocaleEnglish = "en-US"
)

var bengaliDigits = strings.NewReplacer(
	"0", "০", "1", "১", "2", "২", "3", "৩", "4", "৪",
	"5", "৫", "6", "৬", "7", "৭", "8", "৮", "9", "৯",
)

// dhaka is UTC+6 without DST; a fixed zone avoids depending on tzdata in slim images
var dhaka = time.FixedZone("BDT", 6*60*60)

// FormatOrderDate renders t the way the shop shows order dates for locale.
// bn-BD uses day/month/year with Bengali digits in Dhaka time; anything else
// falls back to the en-US short form in UTC.
func FormatOrderDate(t time.Time, locale string) string {
	switch locale {
	case LocaleBangla:
		return bengaliDigits.Replace(t.In(dhaka).Format("2/1/2006, 3:04:05 PM"))
	default:
		return t.UTC().Format("1/2/2006, 3:04:05 PM")
	}
}
