package iri

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// hierarchical schemes must carry an authority.
var hierarchical = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
}

// Validate reports why s is not an absolute IRI, or nil if it is one.
func Validate(s string) error {
	if s == "" {
		return fmt.Errorf("empty IRI")
	}
	if strings.ContainsAny(s, " \t\r\n<>\"{}|\\^`") {
		return fmt.Errorf("IRI contains characters that are not allowed: %q", s)
	}

	parsed, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid IRI: %w", err)
	}
	if parsed.Scheme == "" {
		return fmt.Errorf("IRI has no scheme: %q", s)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if !hierarchical[scheme] {
		if parsed.Opaque == "" && parsed.Host == "" && parsed.Path == "" {
			return fmt.Errorf("IRI has nothing after its scheme: %q", s)
		}
		return nil
	}

	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("IRI has no host: %q", s)
	}
	if _, err := idna.Lookup.ToASCII(host); err != nil {
		return fmt.Errorf("IRI host %q is not valid: %w", host, err)
	}
	return nil
}

// IsValid reports whether s is an absolute IRI.
func IsValid(s string) bool {
	return Validate(s) == nil
}

// Mangle replaces the characters of s that are unsafe in file names.
func Mangle(s string) string {
	return strings.NewReplacer(":", "-", "/", "-").Replace(s)
}
