package service_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
	"github.com/msomdec/dodgeball-fanpage/internal/service"
)

func TestURLPattern_Expand(t *testing.T) {
	p := service.URLPattern{Base: "https://img.example/dozzi_main", Extension: ".jpeg", Start: 1, End: 3}
	got, err := p.Expand()
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := []string{
		"https://img.example/dozzi_main1.jpeg",
		"https://img.example/dozzi_main2.jpeg",
		"https://img.example/dozzi_main3.jpeg",
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestURLPattern_Invalid(t *testing.T) {
	bad := []service.URLPattern{
		{Base: "", Start: 1, End: 2},
		{Base: "x", Start: 5, End: 2},
		{Base: "x", Start: -1, End: 2},
	}
	for _, p := range bad {
		if _, err := p.Expand(); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Expand(%+v): expected ErrInvalidInput, got %v", p, err)
		}
	}
}

func TestWriteImageList(t *testing.T) {
	var buf bytes.Buffer
	if err := service.WriteImageList(&buf, []string{"https://a.example/1.jpeg?x=1&y=2"}); err != nil {
		t.Fatalf("WriteImageList: %v", err)
	}
	if strings.Contains(buf.String(), `\u0026`) {
		t.Fatalf("ampersand should not be escaped: %s", buf.String())
	}
	var decoded []string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 url, got %d", len(decoded))
	}
}

func TestWriteImageList_NilIsEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	if err := service.WriteImageList(&buf, nil); err != nil {
		t.Fatalf("WriteImageList: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected [], got %q", buf.String())
	}
}
