package verify

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/communitydir/backend/pkg/phone"
	"github.com/communitydir/backend/pkg/validation"
)

// Verifier is the capability set a verification run can draw on. One method
// per check, each with a typed input and output, so a deterministic operator
// UI and an automated orchestrator invoke them the same way. Every check
// takes its subject explicitly; there is no ambient "current resource".
type Verifier interface {
	CheckWebsite(ctx context.Context, rawURL string) WebsiteCheck
	CheckPhone(raw string) PhoneCheck
	CheckEmail(address string) EmailCheck
	CheckAddress(in AddressInput) AddressCheck
}

// WebsiteCheck reports whether a listed website answers over HTTP.
type WebsiteCheck struct {
	URL        string `json:"url"`
	Valid      bool   `json:"valid"`
	Reachable  bool   `json:"reachable"`
	StatusCode int    `json:"status_code,omitempty"`
	FinalURL   string `json:"final_url,omitempty"`
	Problem    string `json:"problem,omitempty"`
}

// PhoneCheck reports whether a phone value fits the canonical US shapes.
type PhoneCheck struct {
	Input      string `json:"input"`
	Normalized string `json:"normalized"`
	Display    string `json:"display"`
	Valid      bool   `json:"valid"`
	Problem    string `json:"problem,omitempty"`
}

// EmailCheck reports whether an email address is well formed.
type EmailCheck struct {
	Address string `json:"address"`
	Valid   bool   `json:"valid"`
	Problem string `json:"problem,omitempty"`
}

// AddressInput is the typed subject of an address completeness check.
type AddressInput struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

// AddressCheck reports which parts of a postal address are missing or
// malformed.
type AddressCheck struct {
	Input    AddressInput `json:"input"`
	Valid    bool         `json:"valid"`
	Problems []string     `json:"problems,omitempty"`
}

// StandardVerifier is the deterministic Verifier implementation: format
// validation plus a reachability probe. Checks never fail hard; problems are
// reported in the result so a verification run can record partial findings.
type StandardVerifier struct {
	client *http.Client
}

func NewStandardVerifier(timeout time.Duration) *StandardVerifier {
	return &StandardVerifier{
		client: &http.Client{Timeout: timeout},
	}
}

// CheckWebsite probes the URL with a HEAD request, falling back to GET for
// servers that reject HEAD. Any 2xx or 3xx final status counts as reachable.
func (v *StandardVerifier) CheckWebsite(ctx context.Context, rawURL string) WebsiteCheck {
	result := WebsiteCheck{URL: rawURL}

	if !validation.ValidateURL(rawURL) {
		result.Problem = "not an absolute http(s) url"
		return result
	}
	result.Valid = true

	resp, err := v.do(ctx, http.MethodHead, rawURL)
	if err != nil || resp.StatusCode == http.StatusMethodNotAllowed {
		if resp != nil {
			resp.Body.Close()
		}
		resp, err = v.do(ctx, http.MethodGet, rawURL)
	}
	if err != nil {
		result.Problem = err.Error()
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	result.FinalURL = resp.Request.URL.String()
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Reachable = true
	} else {
		result.Problem = "server answered " + resp.Status
	}
	return result
}

func (v *StandardVerifier) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "communitydir-verifier/1.0")
	return v.client.Do(req)
}

// CheckPhone validates the digit count of a normalized phone value. Ten
// digits, or eleven with a leading country code 1, are the accepted shapes.
func (v *StandardVerifier) CheckPhone(raw string) PhoneCheck {
	normalized := phone.Normalize(raw)
	result := PhoneCheck{
		Input:      raw,
		Normalized: normalized,
		Display:    phone.Format(normalized),
	}

	switch {
	case normalized == "":
		result.Problem = "no digits"
	case len(normalized) == 10:
		result.Valid = true
	case len(normalized) == 11 && normalized[0] == '1':
		result.Valid = true
	default:
		result.Problem = "unexpected digit count"
	}
	return result
}

func (v *StandardVerifier) CheckEmail(address string) EmailCheck {
	result := EmailCheck{Address: address}
	if validation.ValidateEmail(address) {
		result.Valid = true
	} else {
		result.Problem = "malformed address"
	}
	return result
}

func (v *StandardVerifier) CheckAddress(in AddressInput) AddressCheck {
	result := AddressCheck{Input: in}

	if strings.TrimSpace(in.Address) == "" {
		result.Problems = append(result.Problems, "street address missing")
	}
	if strings.TrimSpace(in.City) == "" {
		result.Problems = append(result.Problems, "city missing")
	}
	if !validation.ValidateState(in.State) {
		result.Problems = append(result.Problems, "state must be a two-letter abbreviation")
	}
	if !validation.ValidateZip(in.Zip) {
		result.Problems = append(result.Problems, "zip must be 5 digits or zip+4")
	}

	result.Valid = len(result.Problems) == 0
	return result
}
