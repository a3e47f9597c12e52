package migrate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements(`create table a (id text); insert into a values ('x;y'); select 1`)
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d: %q", len(stmts), stmts)
	}
	if got := stmts[1]; got != ` insert into a values ('x;y');` {
		t.Fatalf("semicolon inside string literal split the statement: %q", got)
	}
}

func TestListScriptsOrdersLexically(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_roles.up.sql", "0001_profiles.up.sql", "0001_profiles.down.sql", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("select 1;"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	scripts, err := listScripts(dir, ".up.sql")
	if err != nil {
		t.Fatalf("listScripts: %v", err)
	}
	if len(scripts) != 2 {
		t.Fatalf("expected 2 up scripts, got %d", len(scripts))
	}
	if scripts[0].name != "0001_profiles.up.sql" || scripts[1].name != "0002_roles.up.sql" {
		t.Fatalf("wrong order: %v", scripts)
	}
}

func TestListScriptsMissingDir(t *testing.T) {
	scripts, err := listScripts(filepath.Join(t.TempDir(), "absent"), ".sql")
	if err != nil {
		t.Fatalf("missing dir must not error: %v", err)
	}
	if len(scripts) != 0 {
		t.Fatalf("expected no scripts, got %d", len(scripts))
	}
}
