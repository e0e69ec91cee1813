package database

import (
	"testing"
)

func TestCreatePrefix(t *testing.T) {
	tests := []struct {
		stmt       string
		prefix     string
		normalized string
	}{
		{"create table foo (id int)", "foo", "create table foo_31337 (id int)"},
		{"create table foo_31337 (id int)", "foo", "create table foo_31337 (id int)"},
		{"CREATE TABLE IF NOT EXISTS bar_baz (id int)", "bar_baz", "CREATE TABLE IF NOT EXISTS bar_baz_31337 (id int)"},
		{"insert into foo values (1)", "", "insert into foo values (1)"},
	}

	for _, tt := range tests {
		t.Run(tt.stmt, func(t *testing.T) {
			prefix, normalized := createPrefix(tt.stmt, 31337)
			if prefix != tt.prefix {
				t.Errorf("prefix = %q, want %q", prefix, tt.prefix)
			}
			if normalized != tt.normalized {
				t.Errorf("normalized = %q, want %q", normalized, tt.normalized)
			}
		})
	}
}

func TestSubstitute(t *testing.T) {
	aliases := map[string]string{"foo": "foo_31337_2"}

	got := substitute("select * from foo join foo_31337_3 on foo.id = foo_31337_3.id", aliases)
	want := "select * from foo_31337_2 join foo_31337_3 on foo_31337_2.id = foo_31337_3.id"
	if got != want {
		t.Fatalf("substitute = %q, want %q", got, want)
	}
}

func TestTableID(t *testing.T) {
	id, err := tableID("update t_5_9 set a = 1; update healthbot_31337_12 set a = 1", 31337)
	if err != nil {
		t.Fatalf("tableID: %v", err)
	}
	if id != "12" {
		t.Fatalf("tableID = %q, want 12", id)
	}
}

func TestSubstitute_SkipsQuotedSpans(t *testing.T) {
	aliases := map[string]string{"users": "users_31337_2"}

	tests := []struct {
		stmt string
		want string
	}{
		{
			"INSERT INTO users (name) VALUES ('users')",
			"INSERT INTO users_31337_2 (name) VALUES ('users')",
		},
		{
			`insert into users values ('it''s users', "users", ` + "`users`" + `)`,
			`insert into users_31337_2 values ('it''s users', "users", ` + "`users`" + `)`,
		},
		{
			"update users set note = 'users",
			"update users_31337_2 set note = 'users",
		},
	}
	for _, tt := range tests {
		t.Run(tt.stmt, func(t *testing.T) {
			if got := substitute(tt.stmt, aliases); got != tt.want {
				t.Errorf("substitute = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTableID_SkipsQuotedSpans(t *testing.T) {
	id, err := tableID("update pets_31337_4 set note = 'moved from pets_31337_9'", 31337)
	if err != nil {
		t.Fatalf("tableID: %v", err)
	}
	if id != "4" {
		t.Fatalf("tableID = %q, want 4", id)
	}

	if _, err := tableID("insert into t values ('pets_31337_9')", 31337); err == nil {
		t.Fatal("tableID matched a table name inside a string literal")
	}
}
