// Package api aggregates endpoint definitions from the repository adapters,
// applies the default cross-cutting policies (administrator permission check,
// free-text argument sanitization) and registers everything with the router
// under the versioned namespace.
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"dmapi/internal/pkg/jwt"
	"dmapi/internal/pkg/response"
	"dmapi/internal/pkg/sanitize"
)

// Namespace is the fixed versioned path prefix for every endpoint.
const Namespace = "dmr/v1"

type Registry struct {
	adapters []Adapter
	filters  []Filter
}

func NewRegistry(adapters ...Adapter) *Registry {
	return &Registry{adapters: adapters}
}

// AddFilter registers an extension hook run over the merged endpoint map
// before defaults are applied.
func (r *Registry) AddFilter(f Filter) {
	r.filters = append(r.filters, f)
}

// GetEndpoints merges every adapter's endpoints, runs the extension filters,
// then installs the default permission check and argument sanitizer wherever
// a definition does not bring its own.
func (r *Registry) GetEndpoints() Endpoints {
	endpoints := Endpoints{}
	for _, adapter := range r.adapters {
		for pattern, defs := range adapter.GetEndpoints() {
			endpoints[pattern] = defs
		}
	}

	for _, filter := range r.filters {
		endpoints = filter(endpoints)
	}

	for pattern, defs := range endpoints {
		for i := range defs {
			if defs[i].Allowed == nil {
				defs[i].Allowed = IsUserAllowed
			}
			for j := range defs[i].Args {
				if defs[i].Args[j].Sanitize == nil {
					defs[i].Args[j].Sanitize = SanitizeArg
				}
			}
		}
		endpoints[pattern] = defs
	}

	return endpoints
}

// RegisterEndpoints registers every endpoint with the router under the
// namespace. A malformed definition is a programming error; gin panics on
// conflicting patterns and that is intentional.
func (r *Registry) RegisterEndpoints(g *gin.RouterGroup) {
	ns := g.Group(Namespace)
	for pattern, defs := range r.GetEndpoints() {
		for _, def := range defs {
			ns.Handle(def.Method, pattern, r.wrap(def))
		}
	}
}

// IsUserAllowed is the default permission check: the resolved caller must
// hold the administrator capability.
func IsUserAllowed(c *gin.Context) bool {
	return c.GetString("role") == jwt.RoleAdministrator
}

// SanitizeArg is the default argument sanitizer: the value is treated as
// free text.
func SanitizeArg(value string) string {
	return sanitize.Text(value)
}

func (r *Registry) wrap(def EndpointDefinition) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !def.Allowed(c) {
			response.AbortError(c, http.StatusForbidden, "rest_forbidden", "Sorry, you are not allowed to do that.")
			return
		}
		if !checkArgs(c, def) {
			return
		}
		def.Handler(c)
	}
}

// checkArgs validates and sanitizes the declared path/query arguments before
// the handler body runs. Body arguments are bound and validated by the
// handlers' typed request structs. The raw URL is inspected directly: gin
// memoizes query values on first access, and the rewrite must land before
// the handler reads them.
func checkArgs(c *gin.Context, def EndpointDefinition) bool {
	query := c.Request.URL.Query()
	rewritten := false

	for _, arg := range def.Args {
		value, found := c.Params.Get(arg.Name)
		fromQuery := false
		if !found {
			if vs, ok := query[arg.Name]; ok && len(vs) > 0 {
				value = vs[0]
				found = true
				fromQuery = true
			}
		}

		if !found {
			if arg.Required && bodyless(def.Method) {
				response.Error(c, http.StatusBadRequest, "rest_invalid_param",
					fmt.Sprintf("Missing parameter(s): %s", arg.Name))
				return false
			}
			continue
		}

		if arg.Type == ArgInteger && !allDigits(value) {
			response.Error(c, http.StatusBadRequest, "rest_invalid_param",
				fmt.Sprintf("Invalid parameter(s): %s", arg.Name))
			return false
		}

		if fromQuery && arg.Sanitize != nil {
			if sanitized := arg.Sanitize(value); sanitized != value {
				query.Set(arg.Name, sanitized)
				rewritten = true
			}
		}
	}

	if rewritten {
		c.Request.URL.RawQuery = query.Encode()
	}
	return true
}

func bodyless(method string) bool {
	return method == http.MethodGet || method == http.MethodDelete
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
