package twofactor

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrEmptyProvisioningURI is returned when the otpauth URI is empty
	ErrEmptyProvisioningURI = errors.New("twofactor.empty_provisioning_uri")

	// ErrInvalidProvisioningURI is returned when the URI is not a valid otpauth URI
	ErrInvalidProvisioningURI = errors.New("twofactor.invalid_provisioning_uri")

	// ErrGenerateQRCode is returned when QR code generation fails
	ErrGenerateQRCode = errors.New("twofactor.generate_qr_code_failed")
)

// defaultSize is the QR image size in pixels when none is specified
const defaultSize = 256

// secretGroupSize is how many characters a manual-entry group holds
const secretGroupSize = 4

// SetupQRCode renders the server-provided otpauth provisioning URI as a PNG
// QR code for the authenticator app to scan.
func SetupQRCode(provisioningURI string, size int) ([]byte, error) {
	if err := validateURI(provisioningURI); err != nil {
		return nil, err
	}
	if size <= 0 {
		size = defaultSize
	}

	png, err := qrcode.Encode(provisioningURI, qrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrGenerateQRCode, err)
	}
	return png, nil
}

// SetupQRCodeDataURI renders the provisioning URI as a base64 PNG data-URI
// that can be embedded directly into an <img> tag.
func SetupQRCodeDataURI(provisioningURI string, size int) (string, error) {
	png, err := SetupQRCode(provisioningURI, size)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(png)), nil
}

// FormatSecret groups the shared secret into blocks of four for manual
// entry, the way authenticator apps display it.
func FormatSecret(secret string) string {
	cleaned := strings.ToUpper(strings.ReplaceAll(secret, " ", ""))
	if cleaned == "" {
		return ""
	}

	var b strings.Builder
	for i, r := range cleaned {
		if i > 0 && i%secretGroupSize == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func validateURI(provisioningURI string) error {
	if strings.TrimSpace(provisioningURI) == "" {
		return ErrEmptyProvisioningURI
	}

	u, err := url.Parse(provisioningURI)
	if err != nil || u.Scheme != "otpauth" || u.Host != "totp" {
		return ErrInvalidProvisioningURI
	}
	return nil
}
