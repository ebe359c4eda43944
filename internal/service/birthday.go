package service

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const birthdayLayout = "2006-01-02"

// FormatBirthday renders a YYYY-MM-DD date for display in the given
// language. It reports false, and never an error, for empty input and for
// strings that are not a real calendar date.
func FormatBirthday(value string, tag language.Tag) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	// time.Parse rejects out-of-range days such as 2003-02-30.
	t, err := time.Parse(birthdayLayout, value)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	switch base.String() {
	case "ja":
		return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day()), true
	default:
		return t.Format("January 2, 2006"), true
	}
}
