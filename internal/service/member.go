package service

import (
	"context"
	"fmt"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
)

// MemberService manages the stored member records behind the directory.
type MemberService struct {
	members domain.MemberRepository
}

// NewMemberService creates a new MemberService.
func NewMemberService(members domain.MemberRepository) *MemberService {
	return &MemberService{members: members}
}

// Seed makes the stored members match the given list, in order. It is
// idempotent: existing records are updated in place and records not in the
// list are removed. The list is validated as a directory before anything is
// written.
func (s *MemberService) Seed(ctx context.Context, members []domain.Member) error {
	if _, err := domain.NewDirectory(members); err != nil {
		return fmt.Errorf("validate members: %w", err)
	}

	ids := make([]string, 0, len(members))
	for i, m := range members {
		if err := s.members.Upsert(ctx, m, i); err != nil {
			return fmt.Errorf("seed member %s: %w", m.ID, err)
		}
		ids = append(ids, m.ID)
	}
	if err := s.members.DeleteNotIn(ctx, ids); err != nil {
		return fmt.Errorf("prune members: %w", err)
	}
	return nil
}

// LoadDirectory reads the stored members into an immutable Directory.
func (s *MemberService) LoadDirectory(ctx context.Context) (*domain.Directory, error) {
	members, err := s.members.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	dir, err := domain.NewDirectory(members)
	if err != nil {
		return nil, fmt.Errorf("build directory: %w", err)
	}
	return dir, nil
}
