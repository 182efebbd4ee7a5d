package test

import (
	"context"
	"net/http"
	"strconv"

	"github.com/2beens/liftlog/internal/auth"
)

func (s *IntegrationTestSuite) TestAuth_LoginLogout() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	credentials, token := s.registerAndLogin(ctx)

	// the same username cannot register twice
	resp, _ := s.do(ctx, http.MethodPost, "/a/register", "", credentials)
	s.Equal(http.StatusConflict, resp.StatusCode)

	resp, _ = s.do(ctx, http.MethodPost, "/a/login", "", auth.Credentials{
		Username: credentials.Username,
		Password: "bad-password",
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(ctx, http.MethodGet, "/templates/push", token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, body := s.do(ctx, http.MethodGet, "/a/logout", token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("logged-out", string(body))

	resp, _ = s.do(ctx, http.MethodGet, "/templates/push", token, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestAuth_LoginRateLimiting() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// simulate a brute force attack: the auth endpoints allow 15 requests per minute
	credentials := newCredentials()
	for i := 1; i <= 18; i++ {
		resp, _ := s.do(ctx, http.MethodPost, "/a/login", "", credentials)
		if i <= 15 {
			s.Require().Equal(http.StatusBadRequest, resp.StatusCode, "iteration: %d", i)
			s.Empty(resp.Header.Get("Retry-After"), "iteration: %d", i)
			continue
		}

		s.Require().Equal(http.StatusTooManyRequests, resp.StatusCode, "iteration: %d", i)
		retryAfter, err := strconv.Atoi(resp.Header.Get("Retry-After"))
		s.Require().NoError(err, "iteration: %d", i)
		s.Positive(retryAfter, "iteration: %d", i)
	}
}
