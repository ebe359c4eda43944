package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
)

// URLPattern describes a numbered run of image URLs in the bucket, such as
// https://host/uploads/dozzi1.jpeg through dozzi1092.jpeg.
type URLPattern struct {
	Base      string // Everything before the number.
	Extension string // Including the dot.
	Start     int
	End       int // Inclusive.
}

// Validate checks that the pattern expands to at least one URL.
func (p URLPattern) Validate() error {
	if strings.TrimSpace(p.Base) == "" {
		return fmt.Errorf("%w: base URL is required", domain.ErrInvalidInput)
	}
	if p.Start < 0 || p.End < p.Start {
		return fmt.Errorf("%w: invalid range %d..%d", domain.ErrInvalidInput, p.Start, p.End)
	}
	return nil
}

// Expand returns every URL of the pattern in numeric order.
func (p URLPattern) Expand() ([]string, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := make([]string, 0, p.End-p.Start+1)
	for i := p.Start; i <= p.End; i++ {
		out = append(out, p.Base+strconv.Itoa(i)+p.Extension)
	}
	return out, nil
}

// WriteImageList writes urls as the JSON document the image feed serves: a
// flat, indented array of strings.
func WriteImageList(w io.Writer, urls []string) error {
	if urls == nil {
		urls = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(urls); err != nil {
		return fmt.Errorf("encode image list: %w", err)
	}
	return nil
}
