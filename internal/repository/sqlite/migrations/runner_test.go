package migrations_test

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/msomdec/dodgeball-fanpage/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func memoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Each connection to :memory: gets its own database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRun_AppliesInOrderOnce(t *testing.T) {
	db := memoryDB(t)
	ctx := context.Background()
	fsys := fstest.MapFS{
		"002_b.sql":  {Data: []byte("ALTER TABLE a ADD COLUMN note TEXT NOT NULL DEFAULT '';")},
		"001_a.sql":  {Data: []byte("CREATE TABLE a (id INTEGER PRIMARY KEY);")},
		"README.txt": {Data: []byte("not a migration")},
	}

	applied, err := migrations.Run(ctx, db, fsys)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if !slices.Equal(applied, []string{"001_a.sql", "002_b.sql"}) {
		t.Fatalf("unexpected applied files: %v", applied)
	}

	applied, err = migrations.Run(ctx, db, fsys)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(applied) != 0 {
		t.Fatalf("second run should apply nothing, got %v", applied)
	}

	fsys["003_c.sql"] = &fstest.MapFile{Data: []byte("CREATE INDEX idx_a_note ON a(note);")}
	applied, err = migrations.Run(ctx, db, fsys)
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if !slices.Equal(applied, []string{"003_c.sql"}) {
		t.Fatalf("expected only the new file, got %v", applied)
	}
}

func TestRun_ModifiedMigrationIsRejected(t *testing.T) {
	db := memoryDB(t)
	ctx := context.Background()
	fsys := fstest.MapFS{"001_a.sql": {Data: []byte("CREATE TABLE a (id INTEGER PRIMARY KEY);")}}
	if _, err := migrations.Run(ctx, db, fsys); err != nil {
		t.Fatalf("first run: %v", err)
	}

	fsys["001_a.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE a (id TEXT PRIMARY KEY);")}
	if _, err := migrations.Run(ctx, db, fsys); !errors.Is(err, migrations.ErrChecksumMismatch) {
		t.Fatalf("expected ErrChecksumMismatch, got %v", err)
	}
}

func TestRun_FailedMigrationIsNotRecorded(t *testing.T) {
	db := memoryDB(t)
	ctx := context.Background()
	fsys := fstest.MapFS{
		"001_a.sql": {Data: []byte("CREATE TABLE a (id INTEGER PRIMARY KEY);")},
		"002_b.sql": {Data: []byte("CREATE TABLE b (id INTEGER PRIMARY KEY); INSERT INTO missing VALUES (1);")},
	}

	applied, err := migrations.Run(ctx, db, fsys)
	if err == nil {
		t.Fatal("expected an error from the broken migration")
	}
	if !slices.Equal(applied, []string{"001_a.sql"}) {
		t.Fatalf("expected only the first file applied, got %v", applied)
	}

	var tables int
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'b'",
	).Scan(&tables); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if tables != 0 {
		t.Fatal("a failed migration must be rolled back")
	}
	var recorded int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&recorded); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if recorded != 1 {
		t.Fatalf("expected 1 recorded migration, got %d", recorded)
	}
}

func TestRun_MembersSchema(t *testing.T) {
	db := memoryDB(t)
	ctx := context.Background()
	if _, err := migrations.Run(ctx, db, migrations.FS); err != nil {
		t.Fatalf("Run: %v", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT name, pk FROM pragma_table_info('members')")
	if err != nil {
		t.Fatalf("table_info: %v", err)
	}
	defer rows.Close()
	columns := map[string]int{}
	for rows.Next() {
		var name string
		var pk int
		if err := rows.Scan(&name, &pk); err != nil {
			t.Fatalf("scan: %v", err)
		}
		columns[name] = pk
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}
	for _, col := range []string{"id", "position", "name", "profile", "image_url", "instagram_url", "birthday"} {
		if _, ok := columns[col]; !ok {
			t.Errorf("members is missing column %q", col)
		}
	}
	if columns["id"] != 1 {
		t.Error("expected id to be the primary key")
	}

	if _, err := db.ExecContext(ctx, "INSERT INTO members (id, position, name) VALUES ('1', 0, 'Aya')"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO members (id, position, name) VALUES ('1', 1, 'Again')"); err == nil {
		t.Fatal("expected member ids to be unique")
	}

	var index string
	if err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = 'members' AND name = 'idx_members_position'",
	).Scan(&index); err != nil {
		t.Fatalf("expected the position index: %v", err)
	}
}
