package session

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"

	DefaultAccessMaxAge  = 24 * time.Hour
	DefaultRefreshMaxAge = 7 * 24 * time.Hour
)

type CookieOptions struct {
	// AccessMaxAge is intentionally longer than the access token TTL so an
	// expired token is still presented and rejected as unauthorized.
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
	Secure        bool
	Domain        string
	Path          string
	// SameSite defaults to Lax. None is only honoured by browsers on Secure
	// cookies, so NewCookieManager forces Secure with it.
	SameSite http.SameSite
}

// CookieManager writes and reads the access/refresh cookie pair.
type CookieManager struct {
	opts CookieOptions
}

func NewCookieManager(opts CookieOptions) *CookieManager {
	if opts.AccessMaxAge <= 0 {
		opts.AccessMaxAge = DefaultAccessMaxAge
	}
	if opts.RefreshMaxAge <= 0 {
		opts.RefreshMaxAge = DefaultRefreshMaxAge
	}
	if opts.Path == "" {
		opts.Path = "/"
	}
	if opts.SameSite == 0 || opts.SameSite == http.SameSiteDefaultMode {
		opts.SameSite = http.SameSiteLaxMode
	}
	if opts.SameSite == http.SameSiteNoneMode {
		opts.Secure = true
	}

	return &CookieManager{opts: opts}
}

func (m *CookieManager) SetAccess(w http.ResponseWriter, token string) {
	http.SetCookie(w, m.cookie(AccessCookieName, token, m.opts.AccessMaxAge))
}

func (m *CookieManager) SetRefresh(w http.ResponseWriter, token string) {
	http.SetCookie(w, m.cookie(RefreshCookieName, token, m.opts.RefreshMaxAge))
}

// Clear expires both cookies whether or not the client sent them.
func (m *CookieManager) Clear(w http.ResponseWriter) {
	for _, name := range []string{AccessCookieName, RefreshCookieName} {
		cookie := m.cookie(name, "", 0)
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		http.SetCookie(w, cookie)
	}
}

func (m *CookieManager) AccessToken(r *http.Request) (string, bool) {
	return readCookie(r, AccessCookieName)
}

func (m *CookieManager) RefreshToken(r *http.Request) (string, bool) {
	return readCookie(r, RefreshCookieName)
}

func (m *CookieManager) cookie(name string, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.opts.Path,
		Domain:   m.opts.Domain,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: m.opts.SameSite,
	}
}

// ParseSameSite maps "lax", "strict" or "none" to the cookie attribute.
func ParseSameSite(value string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("unknown SameSite mode %q", value)
	}
}

func readCookie(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return "", false
	}

	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}

	return value, true
}
