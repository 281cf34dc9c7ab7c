package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"neon-store-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthClientVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		switch r.Header.Get("Authorization") {
		case "Bearer good-token":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"U1","email":"u1@example.com"}`))
		case "Bearer empty-user":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid token"}`))
		}
	}))
	defer srv.Close()

	client := services.NewAuthClient(srv.URL, "anon-key")
	ctx := context.Background()

	identity, err := client.Verify(ctx, "good-token")
	require.NoError(t, err)
	assert.Equal(t, "U1", identity.ID)
	assert.Equal(t, "u1@example.com", identity.Email)

	_, err = client.Verify(ctx, "expired-token")
	assert.Error(t, err)

	// A 200 with no user ID is still a failure
	_, err = client.Verify(ctx, "empty-user")
	assert.Error(t, err)
}
