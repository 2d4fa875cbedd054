package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/hooklinehq/hookline/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	regulationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Regulation",
		Fields: graphql.Fields{
			"description": &graphql.Field{Type: graphql.String},
			"bag_limit":   &graphql.Field{Type: graphql.String},
		},
	})

	latestCatchType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LatestCatch",
		Fields: graphql.Fields{
			"species":     &graphql.Field{Type: graphql.String},
			"weight":      &graphql.Field{Type: graphql.String},
			"bait":        &graphql.Field{Type: graphql.String},
			"angler_name": &graphql.Field{Type: graphql.String},
			"occurred_at": &graphql.Field{Type: graphql.DateTime},
			"source":      &graphql.Field{Type: graphql.String},
		},
	})

	pinType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Pin",
		Fields: graphql.Fields{
			"catch_id": &graphql.Field{Type: graphql.String},
			"location": &graphql.Field{Type: geoPointType},
		},
	})

	spotType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Spot",
		Fields: graphql.Fields{
			"id":                        &graphql.Field{Type: graphql.String},
			"name":                      &graphql.Field{Type: graphql.String},
			"kind":                      &graphql.Field{Type: graphql.String},
			"from_static":               &graphql.Field{Type: graphql.Boolean},
			"location":                  &graphql.Field{Type: geoPointType},
			"species":                   &graphql.Field{Type: graphql.NewList(graphql.String)},
			"regulation":                &graphql.Field{Type: regulationType},
			"catch_count":               &graphql.Field{Type: graphql.Int},
			"latest_catch":              &graphql.Field{Type: latestCatchType},
			"pins":                      &graphql.Field{Type: graphql.NewList(pinType)},
			"aggregation_radius_meters": &graphql.Field{Type: graphql.Float},
		},
	})

	catchType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Catch",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.String},
			"species":        &graphql.Field{Type: graphql.String},
			"weight":         &graphql.Field{Type: graphql.String},
			"caption":        &graphql.Field{Type: graphql.String},
			"location_label": &graphql.Field{Type: graphql.String},
			"location":       &graphql.Field{Type: geoPointType},
			"angler_name":    &graphql.Field{Type: graphql.String},
			"captured_at":    &graphql.Field{Type: graphql.DateTime},
			"created_at":     &graphql.Field{Type: graphql.DateTime},
		},
	})

	rankedCatchType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RankedCatch",
		Fields: graphql.Fields{
			"catch_id":     &graphql.Field{Type: graphql.String},
			"angler_name":  &graphql.Field{Type: graphql.String},
			"weight_label": &graphql.Field{Type: graphql.String},
			"pounds":       &graphql.Field{Type: graphql.Float},
		},
	})

	leaderboardType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Leaderboard",
		Fields: graphql.Fields{
			"species": &graphql.Field{Type: graphql.String},
			"entries": &graphql.Field{Type: graphql.NewList(rankedCatchType)},
		},
	})

	speciesFilterType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SpeciesFilter",
		Fields: graphql.Fields{
			"species": &graphql.Field{Type: graphql.String},
			"visible": &graphql.Field{Type: graphql.Boolean},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"spots": &graphql.Field{
				Type:        graphql.NewList(spotType),
				Description: "Aggregated map spots: catalogue spots plus crowd-formed clusters",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Map.AggregatedSpots(p.Context)
				},
			},
			"spot": &graphql.Field{
				Type:        spotType,
				Description: "Get an aggregated spot by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Map.GetSpot(p.Context, id)
				},
			},
			"spotCatches": &graphql.Field{
				Type:        graphql.NewList(catchType),
				Description: "Catches pinned to an aggregated spot",
				Args: graphql.FieldConfigArgument{
					"spot_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					spotID := p.Args["spot_id"].(string)
					return deps.Map.SpotCatches(p.Context, spotID)
				},
			},
			"leaderboards": &graphql.Field{
				Type:        graphql.NewList(leaderboardType),
				Description: "Per-species heaviest-catch rankings for a spot",
				Args: graphql.FieldConfigArgument{
					"spot_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					spotID := p.Args["spot_id"].(string)
					return deps.Map.SpotLeaderboards(p.Context, spotID)
				},
			},
			"speciesFilters": &graphql.Field{
				Type:        graphql.NewList(speciesFilterType),
				Description: "Species filter toggles for the current map view",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filters, err := deps.Map.SpeciesFilters(p.Context, nil)
					if err != nil {
						return nil, err
					}
					var result []map[string]interface{}
					for species, visible := range filters {
						result = append(result, map[string]interface{}{
							"species": species,
							"visible": visible,
						})
					}
					return result, nil
				},
			},
			"recentCatches": &graphql.Field{
				Type:        graphql.NewList(catchType),
				Description: "Most recent catch reports",
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit := p.Args["limit"].(int)
					return deps.Catches.Recent(p.Context, limit)
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"reportCatch": &graphql.Field{
				Type:        catchType,
				Description: "Submit a new catch report",
				Args: graphql.FieldConfigArgument{
					"species":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"weight":      &graphql.ArgumentConfig{Type: graphql.String},
					"caption":     &graphql.ArgumentConfig{Type: graphql.String},
					"angler_name": &graphql.ArgumentConfig{Type: graphql.String},
					"lat":         &graphql.ArgumentConfig{Type: graphql.Float},
					"lng":         &graphql.ArgumentConfig{Type: graphql.Float},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rec := &domain.CatchRecord{
						Species: p.Args["species"].(string),
					}
					if w, ok := p.Args["weight"].(string); ok {
						rec.Weight = w
					}
					if caption, ok := p.Args["caption"].(string); ok {
						rec.Caption = caption
					}
					if name, ok := p.Args["angler_name"].(string); ok {
						rec.AnglerName = name
					}
					lat, latOK := p.Args["lat"].(float64)
					lng, lngOK := p.Args["lng"].(float64)
					if latOK && lngOK {
						rec.Location = &domain.GeoPoint{Lat: lat, Lng: lng}
					}
					if err := deps.Catches.ReportCatch(p.Context, rec); err != nil {
						return nil, err
					}
					return rec, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
