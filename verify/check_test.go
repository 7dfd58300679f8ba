package verify

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckSource(t *testing.T) {
	tests := []struct {
		name       string
		language   string
		code       string
		wantIssues bool
	}{
		{
			name:     "valid java",
			language: "Java",
			code: `package com.example;

public class SCHEMA {
    public static final String NAMESPACE = "https://schema.org/";
}
`,
		},
		{
			name:     "java missing semicolon",
			language: "java",
			code: `package com.example;

public class SCHEMA {
    public static final String NAMESPACE = "https://schema.org/"
}
`,
			wantIssues: true,
		},
		{
			name:     "valid javascript",
			language: "JavaScript",
			code:     "const SCHEMA = {\n  PREFIX: \"schema\",\n  label: `A \\` backtick`,\n};\nmodule.exports = SCHEMA;\n",
		},
		{
			name:       "javascript unbalanced brace",
			language:   "javascript",
			code:       "const SCHEMA = {\n  PREFIX: \"schema\",\n;\n",
			wantIssues: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues, err := CheckSource(context.Background(), tt.language, []byte(tt.code))
			if err != nil {
				t.Fatalf("CheckSource: %v", err)
			}
			if got := len(issues) > 0; got != tt.wantIssues {
				t.Errorf("issues = %v, wantIssues %v", issues, tt.wantIssues)
			}
			for _, issue := range issues {
				if issue.Row < 1 || issue.Column < 1 {
					t.Errorf("issue position not 1-based: %+v", issue)
				}
			}
		})
	}
}

func TestCheckSource_UnknownLanguage(t *testing.T) {
	if _, err := CheckSource(context.Background(), "cobol", []byte("x")); err == nil {
		t.Error("expected an error for an unregistered language")
	}
}

func TestCheckDirectory(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"Java/src/main/java/com/example/GOOD.java": "package com.example;\npublic class GOOD {}\n",
		"Java/src/main/java/com/example/BAD.java":  "package com.example;\npublic class BAD {\n",
		"JavaScript/GeneratedVocab/GOOD.js":        "module.exports = {};\n",
		"JavaScript/node_modules/dep/broken.js":    "const = ;\n",
		"JavaScript/README.md":                     "# not source\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	invalid, err := CheckDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("CheckDirectory: %v", err)
	}
	if len(invalid) != 1 {
		t.Fatalf("expected 1 invalid file, got %d: %v", len(invalid), invalid)
	}
	if filepath.Base(invalid[0].Path) != "BAD.java" {
		t.Errorf("invalid file = %s, want BAD.java", invalid[0].Path)
	}
	if invalid[0].Language != "java" {
		t.Errorf("language = %s, want java", invalid[0].Language)
	}
	if invalid[0].Error() == "" {
		t.Error("empty error message")
	}
}

func TestRegistry(t *testing.T) {
	if name, ok := DefaultRegistry.LanguageForExtension(".JS"); !ok || name != "javascript" {
		t.Errorf("LanguageForExtension(.JS) = %q, %v", name, ok)
	}
	if _, ok := DefaultRegistry.LanguageForExtension(".py"); ok {
		t.Error("python should not be registered")
	}
	if _, ok := DefaultRegistry.Language("JAVA"); !ok {
		t.Error("java should be registered")
	}
}
