package sandbox

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

const bearerScheme = "bearer"

// authenticated marks an operation as requiring an access token.
var authenticated = []map[string][]string{{bearerScheme: {}}}

type viewerKey struct{}

// viewer returns the authenticated user ID, or 0 for anonymous requests.
func viewer(ctx context.Context) int64 {
	id, _ := ctx.Value(viewerKey{}).(int64)
	return id
}

// body is the output of every JSON operation.
type body[T any] struct {
	Body T
}

func respond[T any](v T, err error) (*body[T], error) {
	if err != nil {
		return nil, err
	}
	return &body[T]{Body: v}, nil
}

// PageInput selects a page of a list endpoint.
type PageInput struct {
	Page int `query:"page" minimum:"1" default:"1" doc:"Page number"`
}

// IDInput is a resource ID path parameter.
type IDInput struct {
	ID int64 `path:"id" doc:"Resource ID"`
}

// NewAPIConfig returns the huma configuration for the sandbox API.
func NewAPIConfig(version string) huma.Config {
	cfg := huma.DefaultConfig("HeroesAndMore Sandbox", version)
	cfg.CreateHooks = nil
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		bearerScheme: {Type: "http", Scheme: "bearer"},
	}
	return cfg
}

// RegisterRoutes registers every sandbox operation on api.
func RegisterRoutes(api huma.API, m *Market) {
	api.UseMiddleware(authenticate(api, m))

	RegisterAccountRoutes(api, NewAccountsHandler(m))
	RegisterListingRoutes(api, NewListingsHandler(m))
	RegisterBidRoutes(api, NewBidsHandler(m))
	RegisterOfferRoutes(api, NewOffersHandler(m))
	RegisterOrderRoutes(api, NewOrdersHandler(m))
	RegisterCollectionRoutes(api, NewCollectionsHandler(m))
}

// authenticate resolves the bearer token on every request that carries
// one. Operations marked authenticated reject anonymous requests.
func authenticate(api huma.API, m *Market) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")
		required := len(ctx.Operation().Security) > 0
		if header == "" && !required {
			next(ctx)
			return
		}

		userID, err := m.Authenticate(header)
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, err.Error())
			return
		}
		next(huma.WithValue(ctx, viewerKey{}, userID))
	}
}
