package httprouter

import (
	"net/http"

	"github.com/aquanorma/credentials/router"
	jshttprouter "github.com/julienschmidt/httprouter"
)

// Router implements router.Router on julienschmidt/httprouter.
type Router struct {
	rt *jshttprouter.Router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.rt.ServeHTTP(w, req)
}

// Handle panics on a malformed pattern or a conflicting route, as
// httprouter does.
func (r *Router) Handle(pattern string, handler http.Handler) {
	method, path, err := router.SplitPattern(pattern)
	if err != nil {
		panic(err)
	}
	r.rt.Handler(method, path, handler)
}

func (r *Router) HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	r.Handle(pattern, http.HandlerFunc(handler))
}

func (r *Router) Param(req *http.Request, key string) string {
	return jshttprouter.ParamsFromContext(req.Context()).ByName(key)
}

// New returns a router answering unknown routes and wrong methods with
// the given handlers. Nil keeps the httprouter defaults.
func New(notFound, methodNotAllowed http.Handler) router.Router {
	rt := jshttprouter.New()
	if notFound != nil {
		rt.NotFound = notFound
	}
	if methodNotAllowed != nil {
		rt.MethodNotAllowed = methodNotAllowed
	}
	return &Router{rt: rt}
}
