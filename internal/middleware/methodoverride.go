package middleware

import (
	"net/http"
	"strings"
)

// MethodOverride rewrites POST requests carrying a _method form field
// into the verb they name, before routing sees them. HTML forms can
// only submit GET and POST, so edit/delete forms post with
// _method=PUT|DELETE.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			ct := r.Header.Get("Content-Type")
			if strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
				switch strings.ToUpper(r.PostFormValue("_method")) {
				case http.MethodPut:
					r.Method = http.MethodPut
				case http.MethodDelete:
					r.Method = http.MethodDelete
				}
			}
		}

		next.ServeHTTP(w, r)
	})
}
