package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func readSaved(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var saved map[string]any
	if err := yaml.Unmarshal(data, &saved); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return saved
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	t.Run("creates config file", func(t *testing.T) {
		if err := Save(path, KeyJiraBaseURL, "https://demo.atlassian.net"); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		saved := readSaved(t, path)
		if saved[KeyJiraBaseURL] != "https://demo.atlassian.net" {
			t.Errorf("jira_base_url = %v, want https://demo.atlassian.net", saved[KeyJiraBaseURL])
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("file mode = %o, want 600", perm)
		}
		dirInfo, err := os.Stat(filepath.Dir(path))
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if perm := dirInfo.Mode().Perm(); perm != 0o700 {
			t.Errorf("dir mode = %o, want 700", perm)
		}
	})

	t.Run("updates existing config", func(t *testing.T) {
		if err := Save(path, KeyIncludeDiff, "false"); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		saved := readSaved(t, path)
		if saved[KeyJiraBaseURL] != "https://demo.atlassian.net" {
			t.Errorf("jira_base_url = %v, want it kept", saved[KeyJiraBaseURL])
		}
		if saved[KeyIncludeDiff] != false {
			t.Errorf("include_diff = %v, want false", saved[KeyIncludeDiff])
		}
	})

	t.Run("rejects unknown key", func(t *testing.T) {
		err := Save(path, "invalid_key", "value")
		if err == nil {
			t.Fatal("expected error for invalid key")
		}
		if !strings.Contains(err.Error(), "unknown config key") {
			t.Errorf("error = %v, want to contain 'unknown config key'", err)
		}
	})

	t.Run("round trips through the resolver", func(t *testing.T) {
		cfg := NewResolver(ResolverConfig{Path: path, ValidKeys: Keys}).Resolve()
		if got := cfg.Get(KeyIncludeDiff); got != "false" {
			t.Errorf("include_diff = %q, want false", got)
		}
	})
}

func TestSaveAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	err := SaveAll(path, map[string]string{
		KeyTracker:   "jira",
		KeyJiraEmail: "me@example.com",
		KeyJiraToken: "",
	})
	if err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	saved := readSaved(t, path)
	if saved[KeyTracker] != "jira" || saved[KeyJiraEmail] != "me@example.com" {
		t.Errorf("saved = %v, want tracker and email", saved)
	}
	if _, ok := saved[KeyJiraToken]; ok {
		t.Error("empty values should not be written")
	}

	if err := SaveAll(path, map[string]string{"nope": "x"}); err == nil {
		t.Error("SaveAll() should reject unknown keys")
	}
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	t.Run("no error when file doesn't exist", func(t *testing.T) {
		if err := Delete(path, KeyJiraToken); err != nil {
			t.Errorf("Delete() error = %v, want nil", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("Delete() should not create the file")
		}
	})

	t.Run("deletes existing key", func(t *testing.T) {
		if err := SaveAll(path, map[string]string{KeyJiraToken: "t", KeyJiraEmail: "e"}); err != nil {
			t.Fatalf("SaveAll() error = %v", err)
		}
		if err := Delete(path, KeyJiraToken); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		saved := readSaved(t, path)
		if _, exists := saved[KeyJiraToken]; exists {
			t.Error("jira_token should have been deleted")
		}
		if saved[KeyJiraEmail] != "e" {
			t.Errorf("jira_email = %v, want e", saved[KeyJiraEmail])
		}
	})
}

func TestSave_OverwritesMalformed(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "this: is: not: valid: yaml\n")

	if err := Save(path, KeyLLMModel, "gemini-2.5-pro"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	saved := readSaved(t, path)
	if saved[KeyLLMModel] != "gemini-2.5-pro" {
		t.Errorf("llm_model = %v, want gemini-2.5-pro", saved[KeyLLMModel])
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"true", true},
		{"TRUE", true},
		{"false", false},
		{"False", false},
		{"hello", "hello"},
		{"123", "123"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseValue(tt.input); got != tt.want {
				t.Errorf("parseValue(%q) = %v (%T), want %v (%T)",
					tt.input, got, got, tt.want, tt.want)
			}
		})
	}
}
