package source

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

type Source string

const (
	Shopee Source = "shopee"
)

var ErrUnsupportedHost = errors.New("unsupported marketplace host")

// markers are matched against the raw string before any parsing so that
// malformed short links still get a resolution attempt.
var markers = []string{"shopee", "shp.ee"}

// HasMarker reports whether raw mentions a marketplace or short-link domain.
func HasMarker(raw string) bool {
	lower := strings.ToLower(raw)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func Detect(rawURL string) (Source, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid URL (missing scheme/host): %q", rawURL)
	}

	host := strings.ToLower(u.Hostname())
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrUnsupportedHost, host, err)
	}

	switch {
	case domain == "shp.ee":
		return Shopee, nil
	case strings.HasPrefix(domain, "shopee."):
		return Shopee, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnsupportedHost, host)
	}
}

func IsMarketplace(rawURL string) bool {
	_, err := Detect(rawURL)
	return err == nil
}
