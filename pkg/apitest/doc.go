// Package apitest provides a scriptable in-process stub of the remote
// authentication API for integration-style contract tests.
//
// The stub implements the full surface the SDK consumes - the anti-forgery
// handshake, login with optional second factor, registration, logout,
// password reset, and email verification - with just enough server-side
// state (one account, one session cookie, one bearer token) to exercise the
// client's contracts. Failure modes are scriptable: a 429 with a
// Retry-After header, a failing current-principal call, an invalid code.
//
// # Usage
//
//	srv := apitest.NewServer(t,
//		apitest.WithAccount("jane@example.com", "secret"),
//		apitest.WithTwoFactor("654321", "temp-abc", "perm-xyz"),
//	)
//
//	cfg := apiclient.DefaultConfig()
//	cfg.BaseURL = srv.URL()
//
// The server shuts down automatically via t.Cleanup.
package apitest
