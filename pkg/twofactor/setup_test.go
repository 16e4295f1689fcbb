package twofactor_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/twofactor"
)

const provisioningURI = "otpauth://totp/Example:jane@example.com?secret=JBSWY3DPEHPK3PXP&issuer=Example"

// PNG files start with this signature
var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47}

func TestSetupQRCode(t *testing.T) {
	t.Run("renders a PNG", func(t *testing.T) {
		png, err := twofactor.SetupQRCode(provisioningURI, 256)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, pngMagic))
	})

	t.Run("defaults the size", func(t *testing.T) {
		png, err := twofactor.SetupQRCode(provisioningURI, 0)
		require.NoError(t, err)
		assert.NotEmpty(t, png)
	})

	t.Run("rejects empty URI", func(t *testing.T) {
		_, err := twofactor.SetupQRCode("  ", 256)
		assert.ErrorIs(t, err, twofactor.ErrEmptyProvisioningURI)
	})

	t.Run("rejects non-otpauth URI", func(t *testing.T) {
		_, err := twofactor.SetupQRCode("https://example.com/evil", 256)
		assert.ErrorIs(t, err, twofactor.ErrInvalidProvisioningURI)
	})

	t.Run("rejects non-totp type", func(t *testing.T) {
		_, err := twofactor.SetupQRCode("otpauth://hotp/Example?secret=ABC", 256)
		assert.ErrorIs(t, err, twofactor.ErrInvalidProvisioningURI)
	})
}

func TestSetupQRCodeDataURI(t *testing.T) {
	uri, err := twofactor.SetupQRCodeDataURI(provisioningURI, 128)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
}

func TestFormatSecret(t *testing.T) {
	assert.Equal(t, "JBSW Y3DP EHPK 3PXP", twofactor.FormatSecret("JBSWY3DPEHPK3PXP"))
	assert.Equal(t, "JBSW Y3DP", twofactor.FormatSecret("jbsw y3dp"))
	assert.Equal(t, "ABC", twofactor.FormatSecret("abc"))
	assert.Empty(t, twofactor.FormatSecret(""))
}
