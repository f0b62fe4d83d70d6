package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/handler"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/logging"
)

// Recovery converts a panicking handler into a 500 instead of tearing down
// the connection. http.ErrAbortHandler is re-raised untouched.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			logging.FromContext(r.Context()).Error("panic recovered",
				"panic", v,
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			handler.RespondAppError(w, handler.ErrInternalError, nil)
		}()
		next.ServeHTTP(w, r)
	})
}
