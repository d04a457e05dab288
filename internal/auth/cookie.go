package auth

import (
	"net/http"
	"time"
)

// SessionCookie describes the HttpOnly cookie that carries the session
// token.
type SessionCookie struct {
	Name   string
	Domain string
	Secure bool
	TTL    time.Duration
}

func (sc SessionCookie) sameSite() http.SameSite {
	// browsers drop SameSite=None cookies that are not Secure
	if sc.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// Set writes the token cookie onto the response.
func (sc SessionCookie) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sc.Name,
		Value:    token,
		Path:     "/",
		Domain:   sc.Domain,
		MaxAge:   int(sc.TTL.Seconds()),
		Secure:   sc.Secure,
		HttpOnly: true,
		SameSite: sc.sameSite(),
	})
}

// Clear expires the cookie on the client.
func (sc SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sc.Name,
		Value:    "",
		Path:     "/",
		Domain:   sc.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   sc.Secure,
		HttpOnly: true,
		SameSite: sc.sameSite(),
	})
}

// Read returns the token sent by the client, or "" if there is none.
func (sc SessionCookie) Read(r *http.Request) string {
	cookie, err := r.Cookie(sc.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
