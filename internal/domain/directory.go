package domain

import (
	"fmt"
	"strings"
)

// Directory is the canonical ordered sequence of members. The order defines
// previous/next traversal and cannot change once the directory is built.
type Directory struct {
	members []Member
	index   map[string]int
}

// NewDirectory builds a directory from members in display order. IDs must be
// unique and every member needs an ID and a name.
func NewDirectory(members []Member) (*Directory, error) {
	d := &Directory{
		members: make([]Member, len(members)),
		index:   make(map[string]int, len(members)),
	}
	for i, m := range members {
		if strings.TrimSpace(m.ID) == "" {
			return nil, fmt.Errorf("%w: member at position %d has no id", ErrInvalidInput, i)
		}
		if strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("%w: member %q has no name", ErrInvalidInput, m.ID)
		}
		if _, dup := d.index[m.ID]; dup {
			return nil, fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrDuplicateID, m.ID)
		}
		d.members[i] = m
		d.index[m.ID] = i
	}
	return d, nil
}

// Len returns the number of members.
func (d *Directory) Len() int {
	return len(d.members)
}

// IndexOf returns the position of the member with the given id.
func (d *Directory) IndexOf(id string) (int, error) {
	i, ok := d.index[id]
	if !ok {
		return -1, fmt.Errorf("member %q: %w", id, ErrNotFound)
	}
	return i, nil
}

// Get returns the member with the given id.
func (d *Directory) Get(id string) (Member, error) {
	i, err := d.IndexOf(id)
	if err != nil {
		return Member{}, err
	}
	return d.members[i], nil
}

// At returns the member at position i. It panics when i is out of range,
// like a slice index.
func (d *Directory) At(i int) Member {
	return d.members[i]
}

// Members returns a copy of the ordered member list.
func (d *Directory) Members() []Member {
	out := make([]Member, len(d.members))
	copy(out, d.members)
	return out
}
