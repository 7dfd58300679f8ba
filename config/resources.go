package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// LastModifier reports when a local or online resource last changed.
type LastModifier interface {
	LastModified(ctx context.Context, resource string) (time.Time, error)
}

// InputResources returns every input resource of every vocabulary, in
// configuration order.
func (c *Configuration) InputResources() []string {
	var resources []string
	for _, v := range c.VocabList {
		resources = append(resources, v.InputResources...)
	}
	return resources
}

// InputResourcesChangedSince returns the input resources modified after
// since. A changed term selection resource marks all of its vocabulary's
// input resources as changed.
func (c *Configuration) InputResourcesChangedSince(ctx context.Context, lm LastModifier, since time.Time) ([]string, error) {
	var changed []string
	for _, v := range c.VocabList {
		if v.TermSelectionResource != "" {
			modified, err := lm.LastModified(ctx, v.TermSelectionResource)
			if err != nil {
				return nil, err
			}
			if modified.After(since) {
				changed = append(changed, v.InputResources...)
				continue
			}
		}

		for _, resource := range v.InputResources {
			modified, err := lm.LastModified(ctx, resource)
			if err != nil {
				return nil, err
			}
			if modified.After(since) {
				changed = append(changed, resource)
			}
		}
	}
	return changed, nil
}

// ExpandVocabListFiles returns the files matching pattern, excluding those
// matching ignore. A directory matched by ignore excludes everything below
// it.
func ExpandVocabListFiles(pattern, ignore string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid vocab list file pattern [%s]: %w", pattern, err)
	}
	if ignore != "" && !doublestar.ValidatePattern(filepath.ToSlash(ignore)) {
		return nil, fmt.Errorf("invalid vocab list file ignore pattern [%s]", ignore)
	}

	var files []string
	for _, m := range matches {
		if ignore != "" && ignored(filepath.ToSlash(m), filepath.ToSlash(ignore)) {
			continue
		}
		files = append(files, m)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("No vocab list files found matching [%s].", pattern)
	}
	sort.Strings(files)
	return files, nil
}

func ignored(path, ignore string) bool {
	if ok, _ := doublestar.Match(ignore, path); ok {
		return true
	}
	ok, _ := doublestar.Match(ignore+"/**", path)
	return ok
}
