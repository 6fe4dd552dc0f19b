package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckPhone(t *testing.T) {
	v := NewStandardVerifier(time.Second)

	tests := []struct {
		name       string
		input      string
		valid      bool
		normalized string
		display    string
	}{
		{"ten digits with separators", "(877) 696-6775", true, "8776966775", "(877) 696-6775"},
		{"eleven with country code", "1-877-696-6775", true, "18776966775", "(877) 696-6775"},
		{"too short", "555-1234", false, "5551234", "5551234"},
		{"eleven without leading one", "98776966775", false, "98776966775", "98776966775"},
		{"empty", "", false, "", ""},
		{"letters only", "call us", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.CheckPhone(tt.input)
			assert.Equal(t, tt.valid, result.Valid)
			assert.Equal(t, tt.normalized, result.Normalized)
			assert.Equal(t, tt.display, result.Display)
			if !tt.valid {
				assert.NotEmpty(t, result.Problem)
			}
		})
	}
}

func TestCheckEmail(t *testing.T) {
	v := NewStandardVerifier(time.Second)

	assert.True(t, v.CheckEmail("intake@harborlight.org").Valid)
	assert.False(t, v.CheckEmail("not-an-address").Valid)
	assert.False(t, v.CheckEmail("").Valid)
}

func TestCheckAddress(t *testing.T) {
	v := NewStandardVerifier(time.Second)

	complete := v.CheckAddress(AddressInput{
		Address: "123 NW Davis St",
		City:    "Portland",
		State:   "OR",
		Zip:     "97209",
	})
	assert.True(t, complete.Valid)
	assert.Empty(t, complete.Problems)

	incomplete := v.CheckAddress(AddressInput{
		City:  "Portland",
		State: "Oregon",
		Zip:   "972",
	})
	assert.False(t, incomplete.Valid)
	assert.Len(t, incomplete.Problems, 3)
}

func TestCheckWebsiteReachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	v := NewStandardVerifier(time.Second)
	result := v.CheckWebsite(context.Background(), server.URL)

	assert.True(t, result.Valid)
	assert.True(t, result.Reachable)
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestCheckWebsiteFallsBackToGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	v := NewStandardVerifier(time.Second)
	result := v.CheckWebsite(context.Background(), server.URL)

	assert.True(t, result.Reachable)
}

func TestCheckWebsiteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	v := NewStandardVerifier(time.Second)
	result := v.CheckWebsite(context.Background(), server.URL)

	assert.True(t, result.Valid)
	assert.False(t, result.Reachable)
	assert.NotEmpty(t, result.Problem)
}

func TestCheckWebsiteMalformedURL(t *testing.T) {
	v := NewStandardVerifier(time.Second)

	result := v.CheckWebsite(context.Background(), "harborlight.org")
	assert.False(t, result.Valid)
	assert.False(t, result.Reachable)
	assert.NotEmpty(t, result.Problem)
}
