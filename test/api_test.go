package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/middleware"
	"github.com/2beens/liftlog/internal/misc"

	"github.com/brianvoe/gofakeit/v6"
)

// do sends a request as a browser client of the PWA would.
func (s *IntegrationTestSuite) do(ctx context.Context, method, path, token string, body any) (*http.Response, []byte) {
	var reqBody io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewReader(bodyJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	s.Require().NoError(err)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, respBytes
}

func newCredentials() auth.Credentials {
	return auth.Credentials{
		Username: gofakeit.Username() + gofakeit.DigitN(4),
		Password: gofakeit.Password(true, true, true, false, false, 12),
	}
}

// registerAndLogin creates a fresh user and returns its session token.
func (s *IntegrationTestSuite) registerAndLogin(ctx context.Context) (auth.Credentials, string) {
	credentials := newCredentials()

	resp, _ := s.do(ctx, http.MethodPost, "/a/register", "", credentials)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	resp, respBytes := s.do(ctx, http.MethodPost, "/a/login", "", credentials)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var tokenResp misc.TokenResponse
	s.Require().NoError(json.Unmarshal(respBytes, &tokenResp))
	s.Require().NotEmpty(tokenResp.Token)
	return credentials, tokenResp.Token
}
