package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
)

// MemberRepository implements domain.MemberRepository using SQLite.
type MemberRepository struct {
	db *sql.DB
}

// NewMemberRepository creates a new SQLite-backed MemberRepository.
func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{db: db.SqlDB}
}

func (r *MemberRepository) Upsert(ctx context.Context, m domain.Member, position int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO members (id, position, name, name_romaji, name_kana, name_en, profile, image_url, instagram_url, birthday, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   position = excluded.position,
		   name = excluded.name,
		   name_romaji = excluded.name_romaji,
		   name_kana = excluded.name_kana,
		   name_en = excluded.name_en,
		   profile = excluded.profile,
		   image_url = excluded.image_url,
		   instagram_url = excluded.instagram_url,
		   birthday = excluded.birthday,
		   updated_at = excluded.updated_at`,
		m.ID, position, m.Name, m.NameRomaji, m.NameKana, m.NameEn, m.Profile,
		m.ImageURL, m.InstagramURL, m.Birthday, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert member: %w", err)
	}
	return nil
}

func (r *MemberRepository) ListOrdered(ctx context.Context) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, name_romaji, name_kana, name_en, profile, image_url, instagram_url, birthday
		 FROM members ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.NameRomaji, &m.NameKana, &m.NameEn,
			&m.Profile, &m.ImageURL, &m.InstagramURL, &m.Birthday); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *MemberRepository) DeleteNotIn(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM members`); err != nil {
			return fmt.Errorf("delete members: %w", err)
		}
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM members WHERE id NOT IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("delete members: %w", err)
	}
	return nil
}
