package providers

import (
	"fmt"
	"net/http"

	"github.com/KanoeWallet/Kanoe/internal/structures"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	GetRoutes() []structures.Route
}

// RouterProvider collects API routes in registration order. Each route is
// registered once per method; a second registration is a wiring bug.
type RouterProvider struct {
	routes []structures.Route
	seen   map[string]struct{}
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.handle(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.handle(http.MethodPost, url, handler)
}

func (rp *RouterProvider) handle(method, url string, handler http.Handler) {
	route := structures.Route{Method: method, Url: url}
	if _, dup := rp.seen[route.Pattern()]; dup {
		panic(fmt.Sprintf("router: %s registered twice", route.Pattern()))
	}
	rp.seen[route.Pattern()] = struct{}{}
	route.Handler = methodHandler(method, handler)
	rp.routes = append(rp.routes, route)
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{seen: make(map[string]struct{})}
}

// methodHandler guards handlers that are served outside a method-aware mux.
func methodHandler(method string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
