// Package seed holds the member records the site ships with.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed members.yaml
var membersYAML []byte

type memberFile struct {
	Members []memberRecord `yaml:"members"`
}

type memberRecord struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	NameRomaji   string `yaml:"name_romaji"`
	NameKana     string `yaml:"name_kana"`
	NameEn       string `yaml:"name_en"`
	Profile      string `yaml:"profile"`
	ImageURL     string `yaml:"image_url"`
	InstagramURL string `yaml:"instagram_url"`
	Birthday     string `yaml:"birthday"`
}

// Members returns the embedded member list in display order.
func Members() ([]domain.Member, error) {
	return Parse(membersYAML)
}

// Parse decodes a members document. Unknown keys are rejected so typos in
// the seed file fail loudly.
func Parse(data []byte) ([]domain.Member, error) {
	var f memberFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: decode members: %v", domain.ErrInvalidInput, err)
	}

	members := make([]domain.Member, 0, len(f.Members))
	for _, r := range f.Members {
		members = append(members, domain.Member{
			ID:           strings.TrimSpace(r.ID),
			Name:         strings.TrimSpace(r.Name),
			NameRomaji:   r.NameRomaji,
			NameKana:     r.NameKana,
			NameEn:       r.NameEn,
			Profile:      strings.TrimSpace(r.Profile),
			ImageURL:     r.ImageURL,
			InstagramURL: r.InstagramURL,
			Birthday:     r.Birthday,
		})
	}
	return members, nil
}
