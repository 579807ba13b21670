package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nhle/kaneo-sync/internal/github"
	"github.com/nhle/kaneo-sync/internal/model"
	"github.com/nhle/kaneo-sync/tests/testutil"
)

func newRepoServer(t *testing.T, wantToken string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+wantToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
			return
		}
		if r.URL.Path != "/repos/acme/widgets" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"name":"widgets","full_name":"acme/widgets"}`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestConnectPAT(t *testing.T) {
	ts := newRepoServer(t, "ghp_secret")
	s := testutil.NewTestStore(t)
	vault := newTestVault(t)
	ctx := context.Background()

	c := NewConnector(s, vault, nil, ts.URL, nil)

	integration, err := c.ConnectPAT(ctx, "proj-1", "https://github.com/acme/widgets.git", "ghp_secret")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	cred, ok := integration.Credential.(model.PATCredential)
	if !ok {
		t.Fatalf("unexpected credential %#v", integration.Credential)
	}
	if cred.EncryptedToken == "ghp_secret" {
		t.Fatal("token stored in plaintext")
	}
	token, err := vault.Decrypt(cred.EncryptedToken)
	if err != nil || token != "ghp_secret" {
		t.Fatalf("stored token does not decrypt: %q, %v", token, err)
	}

	// The resolver picks the stored integration up.
	handle := NewResolver(s, vault, nil, ts.URL, nil).Resolve(ctx, "proj-1")
	if handle == nil || handle.Owner != "acme" || handle.Repo != "widgets" {
		t.Fatalf("unexpected handle %+v", handle)
	}

	if err := c.Disconnect(ctx, "proj-1"); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if handle := NewResolver(s, vault, nil, ts.URL, nil).Resolve(ctx, "proj-1"); handle != nil {
		t.Fatal("expected disconnected integration to be skipped")
	}
}

func TestConnectPATRejects(t *testing.T) {
	ts := newRepoServer(t, "ghp_secret")
	s := testutil.NewTestStore(t)
	c := NewConnector(s, newTestVault(t), nil, ts.URL, nil)
	ctx := context.Background()

	if _, err := c.ConnectPAT(ctx, "proj-1", "https://github.com/acme/widgets", "ghp_wrong"); !github.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := c.ConnectPAT(ctx, "proj-1", "https://github.com/acme/gadgets", "ghp_secret"); !github.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := c.ConnectPAT(ctx, "proj-1", "https://example.com/acme/widgets", "ghp_secret"); err == nil {
		t.Fatal("expected invalid url to be rejected")
	}
	if _, err := c.ConnectPAT(ctx, "proj-1", "https://github.com/acme/widgets", ""); err == nil {
		t.Fatal("expected empty token to be rejected")
	}
	if _, err := s.GetIntegrationByProjectID(ctx, "proj-1"); err == nil {
		t.Fatal("rejected connections must not be stored")
	}
}

type repoApp struct {
	baseURL string
}

func (a repoApp) InstallationClient(_ context.Context, _ int64) (*github.Client, error) {
	return github.NewClient(a.baseURL, "ghs_installation"), nil
}

func TestConnectApp(t *testing.T) {
	ts := newRepoServer(t, "ghs_installation")
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if _, err := NewConnector(s, newTestVault(t), nil, ts.URL, nil).
		ConnectApp(ctx, "proj-1", "https://github.com/acme/widgets", 5); err == nil {
		t.Fatal("expected error without a configured app")
	}

	c := NewConnector(s, newTestVault(t), repoApp{baseURL: ts.URL}, ts.URL, nil)
	integration, err := c.ConnectApp(ctx, "proj-1", "https://github.com/acme/widgets", 5)
	if err != nil {
		t.Fatalf("connect app: %v", err)
	}
	if cred, ok := integration.Credential.(model.AppCredential); !ok || cred.InstallationID != 5 {
		t.Fatalf("unexpected credential %#v", integration.Credential)
	}
}
