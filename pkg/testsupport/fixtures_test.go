package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func TestLoadFixture(t *testing.T) {
	testFile := writeFixture(t, "test.txt", "test fixture content")

	result := LoadFixture(t, testFile)
	if string(result) != "test fixture content" {
		t.Errorf("expected %q, got %q", "test fixture content", result)
	}
}

func TestLoadFixtureJSON(t *testing.T) {
	testFile := writeFixture(t, "org.json", `{"login": "google", "public_repos": 42, "topics": ["a", "b"]}`)

	var result struct {
		Login       string   `json:"login"`
		PublicRepos int      `json:"public_repos"`
		Topics      []string `json:"topics"`
	}
	LoadFixtureJSON(t, testFile, &result)

	if result.Login != "google" {
		t.Errorf("expected login %q, got %q", "google", result.Login)
	}
	if result.PublicRepos != 42 {
		t.Errorf("expected public_repos 42, got %d", result.PublicRepos)
	}
	if len(result.Topics) != 2 {
		t.Errorf("expected 2 topics, got %d", len(result.Topics))
	}
}

func TestExpandFixture(t *testing.T) {
	testFile := writeFixture(t, "org.json", `{"repos_url": "{{BASE}}/orgs/{{ORG}}/repos"}`)

	got := ExpandFixture(t, testFile, map[string]string{
		"BASE": "http://127.0.0.1:8080",
		"ORG":  "google",
	})

	want := `{"repos_url": "http://127.0.0.1:8080/orgs/google/repos"}`
	if string(got) != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFixturePath(t *testing.T) {
	if got, want := FixturePath("repos.json"), filepath.Join("testdata", "repos.json"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSeededOpener(t *testing.T) {
	opener, users := SeededOpener(t, 6)

	if len(users) != 6 {
		t.Fatalf("expected 6 users, got %d", len(users))
	}

	var count int
	if err := opener.DB().NewSelect().TableExpr("users").ColumnExpr("count(*)").Scan(t.Context(), &count); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 6 {
		t.Errorf("expected 6 rows in users, got %d", count)
	}
}

func TestUserHelpers(t *testing.T) {
	users := UserRows(nil)
	if users == nil || len(users) != 0 {
		t.Errorf("expected an empty non-nil result set, got %#v", users)
	}

	_, seeded := SeededOpener(t, 12)
	older := UsersOlderThan(seeded, 40)
	for _, u := range older {
		if u.Age <= 40 {
			t.Errorf("user %d is %d, not older than 40", u.ID, u.Age)
		}
	}
}
