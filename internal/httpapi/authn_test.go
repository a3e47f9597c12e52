package httpapi

import (
	"net/http"
	"testing"

	"rentora.org/internal/profile"
)

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"plain", "Bearer abc123", "abc123", false},
		{"lowercase scheme", "bearer abc123", "abc123", false},
		{"padded", "  Bearer abc123  ", "abc123", false},
		{"empty", "", "", true},
		{"wrong scheme", "Basic abc123", "", true},
		{"scheme only", "Bearer ", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractBearerToken(tc.header)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.header)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestServiceAuthGuardsPipelineEndpoints(t *testing.T) {
	api := newTestAPI(t, profile.NewInMemory())

	// No credentials at all.
	resp := api.post("/v1/session/token", map[string]any{
		"id": "u1", "email": "a@b.com",
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without service token, got %d", resp.StatusCode)
	}

	// Wrong token.
	resp2 := api.post("/v1/hooks/principal-created", map[string]any{
		"id": "u1", "email": "a@b.com",
	}, map[string]string{"Authorization": "Bearer wrong"})
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong service token, got %d", resp2.StatusCode)
	}

	// Public paths stay open.
	resp3 := api.get("/v1/info", nil)
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusOK {
		t.Fatalf("expected /v1/info to be public, got %d", resp3.StatusCode)
	}
}

func TestSecureCompare(t *testing.T) {
	if !secureCompare("token", "token") {
		t.Fatal("equal strings must compare true")
	}
	if secureCompare("token", "Token") {
		t.Fatal("different strings must compare false")
	}
	if secureCompare("token", "tokens") {
		t.Fatal("different lengths must compare false")
	}
}
