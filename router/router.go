package router

import (
	"fmt"
	"net/http"
	"strings"
)

// Router registers handlers for "METHOD /path" patterns. Path parameters
// use the :name syntax.
type Router interface {
	http.Handler
	Handle(pattern string, handler http.Handler)
	HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request))
	// Param returns the value of the named path parameter, or "".
	Param(req *http.Request, key string) string
}

// SplitPattern splits "METHOD /path" into its parts.
func SplitPattern(pattern string) (method, path string, err error) {
	method, path, ok := strings.Cut(strings.TrimSpace(pattern), " ")
	path = strings.TrimSpace(path)
	if !ok || method == "" || !strings.HasPrefix(path, "/") {
		return "", "", fmt.Errorf("invalid route pattern %q, want \"METHOD /path\"", pattern)
	}
	return strings.ToUpper(method), path, nil
}
