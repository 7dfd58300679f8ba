// Package verify checks the syntax of generated source code with
// tree-sitter.
package verify

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// maxIssues bounds how many issues a single file reports.
const maxIssues = 10

// Issue is a syntax problem at a 1-based row and column.
type Issue struct {
	Row    int
	Column int
	// Missing is set when the parser inserted an expected token, otherwise
	// the text at the position could not be parsed.
	Missing bool
	Node    string
}

func (i Issue) String() string {
	if i.Missing {
		return fmt.Sprintf("%d:%d: missing %s", i.Row, i.Column, i.Node)
	}
	return fmt.Sprintf("%d:%d: syntax error", i.Row, i.Column)
}

// SyntaxError reports the issues found in one generated file.
type SyntaxError struct {
	Path     string
	Language string
	Issues   []Issue
}

func (e *SyntaxError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("generated %s file [%s] is not valid: %s", e.Language, e.Path, strings.Join(parts, "; "))
}

// CheckSource parses content as language and returns its syntax issues.
func CheckSource(ctx context.Context, language string, content []byte) ([]Issue, error) {
	lang, ok := DefaultRegistry.Language(language)
	if !ok {
		return nil, fmt.Errorf("no grammar registered for language: %s", language)
	}

	p := sitter.NewParser()
	p.SetLanguage(lang)

	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil, nil
	}

	var issues []Issue
	collectIssues(root, &issues)
	return issues, nil
}

func collectIssues(node *sitter.Node, issues *[]Issue) {
	if len(*issues) >= maxIssues {
		return
	}
	if node.IsMissing() || node.IsError() {
		start := node.StartPoint()
		*issues = append(*issues, Issue{
			Row:     int(start.Row) + 1,
			Column:  int(start.Column) + 1,
			Missing: node.IsMissing(),
			Node:    node.Type(),
		})
		if node.IsMissing() {
			return
		}
	}
	if !node.HasError() {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectIssues(node.Child(i), issues)
	}
}

// CheckFile checks a generated file, choosing the grammar by extension. It
// returns a *SyntaxError if the file has issues, and nil for files of
// unknown languages.
func CheckFile(ctx context.Context, path string) error {
	language, ok := DefaultRegistry.LanguageForExtension(filepath.Ext(path))
	if !ok {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	issues, err := CheckSource(ctx, language, content)
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		return &SyntaxError{Path: path, Language: language, Issues: issues}
	}
	return nil
}

// CheckDirectory checks every source file below dir, skipping
// node_modules. It returns the *SyntaxError of each invalid file.
func CheckDirectory(ctx context.Context, dir string) ([]*SyntaxError, error) {
	var invalid []*SyntaxError
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}

		checkErr := CheckFile(ctx, path)
		var syntaxErr *SyntaxError
		switch {
		case checkErr == nil:
		case errors.As(checkErr, &syntaxErr):
			invalid = append(invalid, syntaxErr)
		default:
			return checkErr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invalid, nil
}
