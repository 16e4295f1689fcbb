// Package twofactor provides presentation helpers for the TOTP setup flow.
//
// The server owns the shared secret and provisioning URI; this package only
// turns the server-provided otpauth:// URI into something a setup view can
// show - a QR code image (raw PNG or a data-URI for direct embedding) and a
// grouped rendering of the secret for manual entry. No cryptography happens
// client-side.
package twofactor
