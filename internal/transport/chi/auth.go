package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// publicPaths are served without an API key.
var publicPaths = map[string]struct{}{
	PathHealth:  {},
	PathMetrics: {},
}

// APIKeys holds the keys accepted on the catalog routes.
type APIKeys struct {
	keys [][]byte
}

// NewAPIKeys drops empty keys. Without any key left, requests are not checked.
func NewAPIKeys(keys []string) APIKeys {
	k := APIKeys{}
	for _, key := range keys {
		if key != "" {
			k.keys = append(k.keys, []byte(key))
		}
	}
	return k
}

// Enabled reports whether requests need a key.
func (k APIKeys) Enabled() bool { return len(k.keys) > 0 }

// Valid reports whether token is one of the keys. Every key is compared in
// constant time.
func (k APIKeys) Valid(token string) bool {
	match := 0
	for _, key := range k.keys {
		match |= subtle.ConstantTimeCompare(key, []byte(token))
	}
	return match == 1
}

// Middleware rejects catalog requests that carry no valid bearer token.
func (k APIKeys) Middleware(next http.Handler) http.Handler {
	if !k.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := publicPaths[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}
		token, problem := bearerToken(r)
		if problem == "" && !k.Valid(token) {
			problem = "invalid api key"
		}
		if problem != "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="appdex"`)
			writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, problem)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token, or describes what is wrong with the header.
func bearerToken(r *http.Request) (token, problem string) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", "missing authorization header"
	}
	scheme, token, _ := strings.Cut(auth, " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return "", "authorization header must use Bearer scheme"
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", "empty bearer token"
	}
	return token, ""
}
