package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_VerifyEmail(t *testing.T) {
	brand := Brand{AppName: "Identity", CompanyName: "Acme", SupportURL: "https://acme.test/help"}
	data := NewVerifyEmailData(brand, "Juan", "juan@x.com", "https://api.test/auth/validate-email/tok",
		WithUsername("juanp"), WithExpiresIn(time.Hour))

	subject, text, html, err := Render(VerifyEmail, data)
	require.NoError(t, err)

	assert.Equal(t, "Welcome to Identity: verify your email address", subject)
	assert.Contains(t, text, "https://api.test/auth/validate-email/tok")
	assert.Contains(t, text, "expires in 1 hour")
	assert.Contains(t, text, `"juanp"`)
	assert.Contains(t, html, `href="https://api.test/auth/validate-email/tok"`)
	assert.Contains(t, html, "juan@x.com")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	assert.Error(t, err)
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "1 hour", HumanDuration(time.Hour))
	assert.Equal(t, "2 hours", HumanDuration(2*time.Hour))
	assert.Equal(t, "90 minutes", HumanDuration(90*time.Minute))
	assert.Equal(t, "1 minute", HumanDuration(time.Minute))
	assert.Equal(t, "30 seconds", HumanDuration(30*time.Second))
}

func TestFormatGeo(t *testing.T) {
	assert.Equal(t, "Lima, Lima, Peru", FormatGeo(Geo{City: "Lima", Region: "Lima", Country: "Peru"}))
	assert.Equal(t, "Peru", FormatGeo(Geo{Country: " Peru "}))
}
