package integration

import "testing"

func TestParseRepositoryURL(t *testing.T) {
	tests := []struct {
		raw       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{raw: "https://github.com/acme/widgets", wantOwner: "acme", wantRepo: "widgets"},
		{raw: "https://github.com/acme/widgets.git", wantOwner: "acme", wantRepo: "widgets"},
		{raw: "https://github.com/acme/widgets/tree/main", wantOwner: "acme", wantRepo: "widgets"},
		{raw: " https://github.com/acme/widgets/ ", wantOwner: "acme", wantRepo: "widgets"},
		{raw: "https://gitlab.com/acme/widgets", wantErr: true},
		{raw: "https://github.com/acme", wantErr: true},
		{raw: "https://github.com/", wantErr: true},
		{raw: "https://github.com/acme/.git", wantErr: true},
		{raw: "::not a url", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			owner, repo, err := ParseRepositoryURL(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s/%s", owner, repo)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Fatalf("got %s/%s, want %s/%s", owner, repo, tt.wantOwner, tt.wantRepo)
			}
		})
	}
}
