// Package apiclient provides the HTTP client for the remote authentication
// and account-management REST API.
//
// The client owns the two categories of request secrets so callers never
// touch headers themselves:
//
//   - A bearer token, set via SetToken and attached to every request's
//     Authorization header until ClearToken is called.
//   - An anti-forgery token, read from the XSRF cookie established by
//     Handshake, percent-decoded and mirrored into the XSRF request header.
//
// Both secrets are optional: when absent the corresponding header is simply
// omitted and requests rely on cookie-based session credentials alone.
//
// All request and response bodies are JSON. Every non-2xx response is
// normalized into *apiclient.Error before it leaves the package, so callers
// branch on structured data (status code, message, retry-after, field
// errors) instead of inspecting raw responses.
//
// # Usage
//
//	client, err := apiclient.New(apiclient.Config{BaseURL: "https://api.example.com"})
//	if err != nil {
//		// handle error
//	}
//
//	if err := client.Handshake(ctx); err != nil {
//		// handle error
//	}
//
//	var resp loginResponse
//	err = client.Post(ctx, "/api/login", loginRequest{...}, &resp)
//	if apiclient.IsRateLimited(err) {
//		// read RetryAfterSeconds off the error and render a cooldown
//	}
//
// The client never mutates session state; that is the session store's job.
package apiclient
