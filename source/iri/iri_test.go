package iri

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		iri     string
		wantErr bool
	}{
		{
			name:    "https IRI",
			iri:     "https://schema.org/Person",
			wantErr: false,
		},
		{
			name:    "http IRI with fragment",
			iri:     "http://www.w3.org/2000/01/rdf-schema#label",
			wantErr: false,
		},
		{
			name:    "urn",
			iri:     "urn:isbn:0451450523",
			wantErr: false,
		},
		{
			name:    "internationalized host",
			iri:     "https://bücher.example/katalog",
			wantErr: false,
		},
		{
			name:    "empty",
			iri:     "",
			wantErr: true,
		},
		{
			name:    "relative",
			iri:     "just/a/path",
			wantErr: true,
		},
		{
			name:    "plain text",
			iri:     "Not an IRI at all",
			wantErr: true,
		},
		{
			name:    "http without host",
			iri:     "http:///path",
			wantErr: true,
		},
		{
			name:    "angle brackets",
			iri:     "<https://example.com/a>",
			wantErr: true,
		},
		{
			name:    "scheme only",
			iri:     "mailto:",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.iri)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.iri, err, tt.wantErr)
			}
			if IsValid(tt.iri) == tt.wantErr {
				t.Errorf("IsValid(%q) disagrees with Validate", tt.iri)
			}
		})
	}
}

func TestMangle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://rdf-extension.com#", "http---rdf-extension.com#"},
		{"https://schema.org/", "https---schema.org-"},
		{"no-change", "no-change"},
	}
	for _, tt := range tests {
		if got := Mangle(tt.in); got != tt.want {
			t.Errorf("Mangle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
