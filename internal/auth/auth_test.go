package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/arbitra/internal/audit"
	"github.com/MrJamesThe3rd/arbitra/internal/auth"
)

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := auth.NewIssuer("s3cret", time.Hour)

	token, err := issuer.Issue("amira")
	require.NoError(t, err)

	user, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "amira", user)
}

func TestIssuer_Parse(t *testing.T) {
	good := auth.NewIssuer("s3cret", time.Hour)
	other := auth.NewIssuer("different", time.Hour)
	past := time.Now().Add(-2 * time.Hour)
	expired := auth.NewIssuer("s3cret", time.Hour).WithClock(func() time.Time { return past })

	otherToken, err := other.Issue("amira")
	require.NoError(t, err)

	expiredToken, err := expired.Issue("amira")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "WrongSecret", token: otherToken},
		{name: "Expired", token: expiredToken},
		{name: "Garbage", token: "not.a.token"},
		{name: "Empty", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := good.Parse(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestIssuer_IssueRequiresUser(t *testing.T) {
	_, err := auth.NewIssuer("s3cret", time.Hour).Issue("  ")
	assert.Error(t, err)
}

func TestIssuer_Authenticate(t *testing.T) {
	issuer := auth.NewIssuer("s3cret", time.Hour)
	token, err := issuer.Issue("amira")
	require.NoError(t, err)

	var gotActor string

	handler := issuer.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotActor = audit.ActorFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantActor  string
	}{
		{name: "Valid", header: "Bearer " + token, wantStatus: http.StatusNoContent, wantActor: "amira"},
		{name: "LowercaseScheme", header: "bearer " + token, wantStatus: http.StatusNoContent, wantActor: "amira"},
		{name: "Missing", header: "", wantStatus: http.StatusUnauthorized},
		{name: "WrongScheme", header: "Token " + token, wantStatus: http.StatusUnauthorized},
		{name: "Invalid", header: "Bearer abc", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotActor = ""

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantActor, gotActor)
		})
	}
}
