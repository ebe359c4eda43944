package service_test

import (
	"testing"

	"github.com/msomdec/dodgeball-fanpage/internal/service"
	"golang.org/x/text/language"
)

func TestFormatBirthday_Japanese(t *testing.T) {
	got, ok := service.FormatBirthday("2003-04-13", language.Japanese)
	if !ok {
		t.Fatal("expected a value")
	}
	if got != "2003年4月13日" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatBirthday_English(t *testing.T) {
	got, ok := service.FormatBirthday("2004-01-03", language.AmericanEnglish)
	if !ok {
		t.Fatal("expected a value")
	}
	if got != "January 3, 2004" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatBirthday_NoValue(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"not-a-date",
		"2003-02-30",
		"2003-13-01",
		"2003/04/13",
		"13-04-2003",
		"2003-4-13",
		"2003-04-13T00:00:00",
	}
	for _, in := range inputs {
		if got, ok := service.FormatBirthday(in, language.Japanese); ok || got != "" {
			t.Errorf("FormatBirthday(%q) = %q, %v; want no value", in, got, ok)
		}
	}
}

func TestFormatBirthday_LeapDay(t *testing.T) {
	if _, ok := service.FormatBirthday("2004-02-29", language.Japanese); !ok {
		t.Fatal("2004-02-29 is a valid date")
	}
	if _, ok := service.FormatBirthday("2003-02-29", language.Japanese); ok {
		t.Fatal("2003-02-29 is not a valid date")
	}
}
