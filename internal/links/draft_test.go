package links

import (
	"errors"
	"testing"
)

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name    string
		draft   Draft
		wantErr error
	}{
		{name: "https link", draft: Draft{Title: "x", URL: "https://x"}, wantErr: nil},
		{name: "http with path", draft: Draft{Title: "Blog", URL: "http://example.com/posts?page=2"}, wantErr: nil},
		{name: "uppercase scheme", draft: Draft{Title: "Blog", URL: "HTTPS://example.com"}, wantErr: nil},

		{name: "empty title", draft: Draft{Title: "", URL: "https://x"}, wantErr: ErrTitleEmpty},
		{name: "blank title", draft: Draft{Title: "   ", URL: "https://x"}, wantErr: ErrTitleEmpty},

		{name: "empty url", draft: Draft{Title: "x", URL: ""}, wantErr: ErrURLInvalid},
		{name: "relative url", draft: Draft{Title: "x", URL: "/about"}, wantErr: ErrURLInvalid},
		{name: "bare host", draft: Draft{Title: "x", URL: "example.com"}, wantErr: ErrURLInvalid},

		{name: "javascript scheme", draft: Draft{Title: "x", URL: "javascript:alert(1)"}, wantErr: ErrURLScheme},
		{name: "file scheme", draft: Draft{Title: "x", URL: "file:///etc/passwd"}, wantErr: ErrURLScheme},
		{name: "mailto scheme", draft: Draft{Title: "x", URL: "mailto:a@example.com"}, wantErr: ErrURLScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate(%+v) = %v, want %v", tt.draft, err, tt.wantErr)
			}
		})
	}
}

func TestDraftRequest_TrimsTitle(t *testing.T) {
	req := Draft{Title: "  Blog ", URL: "https://x"}.request()
	if req.Title != "Blog" {
		t.Errorf("title = %q, want %q", req.Title, "Blog")
	}
}
