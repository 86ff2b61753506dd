package verify

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bidmarket/internal/apperr"
)

// Ledger attests which key identity currently controls a product hash.
type Ledger interface {
	OwnerOf(ctx context.Context, productHash string) (ownerKeyHash string, found bool, err error)
	VerifySignature(ctx context.Context, challenge, signature, publicKey string) (bool, error)
}

// Client talks to the off-process verification service. Every call carries a
// timeout and transport failures are retried a bounded number of times; an
// explicit "not attributed" answer is never retried.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Retries int
	Backoff time.Duration
}

func NewClient(baseURL string, timeout time.Duration, retries int) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Retries: retries,
		Backoff: 200 * time.Millisecond,
	}
}

type ownerResponse struct {
	OwnerKeyHash string `json:"owner_key_hash"`
}

func (c *Client) OwnerOf(ctx context.Context, productHash string) (string, bool, error) {
	url := c.BaseURL + "/owners/" + productHash

	var lastErr error
	for attempt := 0; attempt <= c.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", false, apperr.ErrVerifierDown(ctx.Err())
			case <-time.After(c.Backoff * time.Duration(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", false, apperr.ErrVerifierDown(err)
		}
		resp, err := c.HTTP.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			// Ledger has no attribution for this hash.
			return "", false, nil
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("verifier returned %d", resp.StatusCode)
			continue
		case resp.StatusCode != http.StatusOK:
			return "", false, apperr.ErrVerifierDown(fmt.Errorf("verifier returned %d", resp.StatusCode))
		}
		if readErr != nil {
			lastErr = readErr
			continue
		}

		var or ownerResponse
		if err := json.Unmarshal(body, &or); err != nil {
			// Malformed response is an infra failure, never a silent success.
			return "", false, apperr.ErrVerifierDown(err)
		}
		if or.OwnerKeyHash == "" {
			return "", false, nil
		}
		return or.OwnerKeyHash, true, nil
	}
	return "", false, apperr.ErrVerifierDown(lastErr)
}

type signatureRequest struct {
	Challenge string `json:"challenge"`
	Signature string `json:"signature"`
	PublicKey string `json:"public_key"`
}

type signatureResponse struct {
	Verified bool `json:"verified"`
}

func (c *Client) VerifySignature(ctx context.Context, challenge, signature, publicKey string) (bool, error) {
	payload, err := json.Marshal(signatureRequest{
		Challenge: challenge, Signature: signature, PublicKey: publicKey,
	})
	if err != nil {
		return false, apperr.ErrVerifierDown(err)
	}
	url := c.BaseURL + "/signatures/verify"

	var lastErr error
	for attempt := 0; attempt <= c.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return false, apperr.ErrVerifierDown(ctx.Err())
			case <-time.After(c.Backoff * time.Duration(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return false, apperr.ErrVerifierDown(err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.HTTP.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		resp.Body.Close()

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("verifier returned %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return false, apperr.ErrVerifierDown(fmt.Errorf("verifier returned %d", resp.StatusCode))
		}
		if readErr != nil {
			lastErr = readErr
			continue
		}

		var sr signatureResponse
		if err := json.Unmarshal(body, &sr); err != nil {
			return false, apperr.ErrVerifierDown(err)
		}
		return sr.Verified, nil
	}
	return false, apperr.ErrVerifierDown(lastErr)
}

// KeyHash derives the ledger's key identity for a registered public key:
// hex sha256 over the raw key bytes. Keys that are not valid base64 are
// hashed in their string form so the identity is still stable.
func KeyHash(publicKey string) string {
	raw, err := base64.StdEncoding.DecodeString(publicKey)
	if err != nil {
		raw = []byte(publicKey)
	}
	h := sha256.Sum256(raw)
	return hex.EncodeToString(h[:])
}
