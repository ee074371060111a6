package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	dErrors "consentd/pkg/domain-errors"
)

const remoteTimeout = 5 * time.Second

// RemoteVerifier resolves a bearer token by calling the identity provider's
// user endpoint. Used when no signing secret is available for local checks.
type RemoteVerifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewRemoteVerifier builds a verifier for the provider at baseURL. The apiKey
// is sent alongside the bearer token as the provider requires.
func NewRemoteVerifier(baseURL, apiKey string) *RemoteVerifier {
	return &RemoteVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: remoteTimeout},
	}
}

// Verify calls GET {base}/auth/v1/user and maps the response onto an Identity.
func (v *RemoteVerifier) Verify(ctx context.Context, bearerToken string) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return Identity{}, dErrors.Wrap(err, dErrors.CodeInternal, "build identity request")
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)
	req.Header.Set("apikey", v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return Identity{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "identity provider unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Identity{}, errUnauthorized("token rejected by identity provider")
	default:
		return Identity{}, dErrors.New(dErrors.CodeUnavailable,
			fmt.Sprintf("identity provider returned status %d", resp.StatusCode))
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Identity{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "decode identity response")
	}
	if body.ID == "" {
		return Identity{}, errUnauthorized("identity provider returned no user id")
	}
	return Identity{UserID: body.ID}, nil
}
