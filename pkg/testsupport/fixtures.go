package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
// The path is relative to the test package directory.
func LoadFixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// ExpandFixture loads a fixture and replaces every {{NAME}} placeholder with
// vars[NAME]. Payloads that embed URLs use it to point at an httptest server.
func ExpandFixture(t *testing.T, path string, vars map[string]string) []byte {
	t.Helper()

	data := string(LoadFixture(t, path))
	for name, value := range vars {
		data = strings.ReplaceAll(data, "{{"+name+"}}", value)
	}
	if i := strings.Index(data, "{{"); i >= 0 {
		end := min(i+32, len(data))
		t.Fatalf("fixture %s has an unexpanded placeholder near %q", path, data[i:end])
	}

	return []byte(data)
}

// FixturePath constructs a path to a fixture file relative to the testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}
