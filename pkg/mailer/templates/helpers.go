package templates

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Brand is the sender identity shared by every outgoing email.
type Brand struct {
	AppName        string
	CompanyName    string
	CompanyAddress string
	LogoURL        string
	SupportURL     string
	PrivacyURL     string
}

// Option pattern
type Option func(*EmailData)

func WithIP(ip string) Option         { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option  { return func(d *EmailData) { d.UserAgent = ua } }
func WithUsername(u string) Option    { return func(d *EmailData) { d.Username = u } }
func WithVerifyURL(url string) Option { return func(d *EmailData) { d.VerifyURL = url } }

func setLocation(d *EmailData, loc string) {
	if s := strings.TrimSpace(loc); s != "" {
		d.Location = s
	}
}

func WithGeoFromIP(ctx context.Context, r GeoResolver, ip string) Option {
	return func(d *EmailData) {
		if r == nil || strings.TrimSpace(ip) == "" {
			return
		}
		if g, err := r.Lookup(ctx, ip); err == nil {
			setLocation(d, FormatGeo(g))
		}
	}
}

// WithExpiresIn stamps both the absolute expiry and a human duration such as "1 hour".
func WithExpiresIn(dur time.Duration) Option {
	return func(d *EmailData) {
		utc := time.Now().Add(dur).UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
		d.ExpiresIn = HumanDuration(dur)
	}
}

// HumanDuration renders whole hours or minutes, e.g. "1 hour", "90 minutes".
func HumanDuration(d time.Duration) string {
	plural := func(n int64, unit string) string {
		if n == 1 {
			return "1 " + unit
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int64(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int64(d/time.Minute), "minute")
	default:
		return plural(int64(d/time.Second), "second")
	}
}

// NewBaseEmailData fills the common fields from brand, then applies opts.
func NewBaseEmailData(brand Brand, typ, name, email, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: recipient,
		Type:           typ,

		AppName:        brand.AppName,
		CompanyName:    brand.CompanyName,
		CompanyAddress: brand.CompanyAddress,

		LogoURL:    brand.LogoURL,
		SupportURL: brand.SupportURL,
		PrivacyURL: brand.PrivacyURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewVerifyEmailData(brand Brand, name, email, verifyURL string, opts ...Option) map[string]any {
	opts = append([]Option{WithVerifyURL(verifyURL)}, opts...)
	d := NewBaseEmailData(brand, VerifyEmail, name, email, email, opts...)
	return ToMap(d)
}
