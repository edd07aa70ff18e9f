package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSafelistDefaults(t *testing.T) {
	s := NewSafelist()

	assert.True(t, s.IsTrustedDomain("google.com"))
	assert.True(t, s.IsTrustedDomain("mail.google.com"), "subdomain inherits trust")
	assert.False(t, s.IsTrustedDomain("notgoogle.com"), "suffix match requires a dot boundary")
	assert.False(t, s.IsTrustedDomain(""))
	assert.NotEmpty(t, s.UnsafePhrases())
	assert.NotEmpty(t, s.UrgentPhrases())
}

func TestSafelistReplacePartial(t *testing.T) {
	s := NewSafelist()
	before := s.UnsafePhrases()

	s.Replace(Payload{TrustedDomains: []string{"example.org"}})

	assert.True(t, s.IsTrustedDomain("example.org"))
	assert.False(t, s.IsTrustedDomain("google.com"), "trusted list was replaced wholesale")
	assert.Equal(t, before, s.UnsafePhrases(), "untouched sections survive")
}

func TestSafelistLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "safelist.json")
	body := `{"trusted_domains":["bank.example"],"unsafe_phrases":["wire transfer now"]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	s := NewSafelist()
	require.NoError(t, s.LoadFile(path))

	assert.True(t, s.IsTrustedDomain("bank.example"))
	assert.Equal(t, []string{"wire transfer now"}, s.UnsafePhrases())
}

func TestSafelistLoadFileErrors(t *testing.T) {
	s := NewSafelist()

	assert.Error(t, s.LoadFile(filepath.Join(t.TempDir(), "missing.json")))

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	assert.Error(t, s.LoadFile(path))
}

func TestRefresherRefreshOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"trusted_domains":["feed.example"]}`))
	}))
	defer srv.Close()

	s := NewSafelist()
	r := NewRefresher(srv.URL, time.Hour, s, zap.NewNop())

	require.NoError(t, r.RefreshOnce(context.Background()))
	assert.True(t, s.IsTrustedDomain("feed.example"))
}

func TestRefresherBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewSafelist()
	r := NewRefresher(srv.URL, time.Hour, s, zap.NewNop())

	err := r.RefreshOnce(context.Background())
	require.Error(t, err)
	assert.True(t, s.IsTrustedDomain("google.com"), "failed refresh keeps the old catalog")
}
