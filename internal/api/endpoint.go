package api

import "github.com/gin-gonic/gin"

// Argument types understood by the registry's request validation.
const (
	ArgInteger = "integer"
	ArgString  = "string"
)

// Arg declares one request argument of an endpoint. Args without their own
// Sanitize func receive the registry default (free-text sanitization).
type Arg struct {
	Name        string
	Type        string
	Required    bool
	Description string
	Sanitize    func(string) string
}

// EndpointDefinition is one method+handler registration under a URL pattern.
// A nil Allowed func receives the registry default (administrator required).
type EndpointDefinition struct {
	Method  string
	Handler gin.HandlerFunc
	Allowed func(*gin.Context) bool
	Args    []Arg
}

// Endpoints maps a URL pattern to its method handlers. Adapters own disjoint
// patterns; on a collision the last registered adapter wins.
type Endpoints map[string][]EndpointDefinition

// Adapter is a repository adapter contributing endpoints to the registry.
type Adapter interface {
	GetEndpoints() Endpoints
}

// Filter is the open extension point: filters run over the merged endpoint
// map before defaults are applied and may add or modify entries.
type Filter func(Endpoints) Endpoints
