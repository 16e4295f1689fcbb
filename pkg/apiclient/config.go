package apiclient

import "time"

// Config holds API client configuration
type Config struct {
	// BaseURL is the root of the remote authentication API
	BaseURL string `env:"AUTH_API_BASE_URL" envDefault:"http://localhost:8000"`

	// Timeout bounds every request end to end (0 disables the client-side bound)
	Timeout time.Duration `env:"AUTH_API_TIMEOUT" envDefault:"30s"`

	// UserAgent identifies the SDK to the remote API
	UserAgent string `env:"AUTH_API_USER_AGENT" envDefault:"authkit/1.0"`

	// XSRFCookieName is the client-visible cookie carrying the anti-forgery token
	XSRFCookieName string `env:"AUTH_API_XSRF_COOKIE" envDefault:"XSRF-TOKEN"`

	// XSRFHeaderName is the request header the anti-forgery token is mirrored into
	XSRFHeaderName string `env:"AUTH_API_XSRF_HEADER" envDefault:"X-XSRF-TOKEN"`

	// HandshakePath is the GET endpoint that establishes the anti-forgery cookie
	HandshakePath string `env:"AUTH_API_HANDSHAKE_PATH" envDefault:"/sanctum/csrf-cookie"`
}

// DefaultConfig returns default API client configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:8000",
		Timeout:        30 * time.Second,
		UserAgent:      "authkit/1.0",
		XSRFCookieName: "XSRF-TOKEN",
		XSRFHeaderName: "X-XSRF-TOKEN",
		HandshakePath:  "/sanctum/csrf-cookie",
	}
}
