package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/anaizpurua/ekobide/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	poiType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PointOfInterest",
		Fields: graphql.Fields{
			"name":       &graphql.Field{Type: graphql.String},
			"category":   &graphql.Field{Type: graphql.String},
			"kind":       &graphql.Field{Type: graphql.String},
			"location":   &graphql.Field{Type: geoPointType},
			"eco_rating": &graphql.Field{Type: graphql.Int},
			"synthetic":  &graphql.Field{Type: graphql.Boolean},
		},
	})

	dayPlanType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DayPlan",
		Fields: graphql.Fields{
			"day":      &graphql.Field{Type: graphql.Int},
			"waypoint": &graphql.Field{Type: geoPointType},
			"activity": &graphql.Field{Type: poiType},
			"lunch":    &graphql.Field{Type: poiType},
			"lodging":  &graphql.Field{Type: poiType},
		},
	})

	geocodeResultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeocodeResult",
		Fields: graphql.Fields{
			"city":     &graphql.Field{Type: graphql.String},
			"location": &graphql.Field{Type: geoPointType},
		},
	})

	itineraryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Itinerary",
		Fields: graphql.Fields{
			"id":                &graphql.Field{Type: graphql.String},
			"source":            &graphql.Field{Type: geocodeResultType},
			"destination":       &graphql.Field{Type: geocodeResultType},
			"total_distance_km": &graphql.Field{Type: graphql.Float},
			"days":              &graphql.Field{Type: graphql.NewList(dayPlanType)},
		},
	})

	transportModeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TransportMode",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.String},
			"name":         &graphql.Field{Type: graphql.String},
			"kind":         &graphql.Field{Type: graphql.String},
			"grams_per_km": &graphql.Field{Type: graphql.Float},
			"description":  &graphql.Field{Type: graphql.String},
		},
	})

	carbonEstimateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CarbonEstimate",
		Fields: graphql.Fields{
			"mode":                   &graphql.Field{Type: transportModeType},
			"distance_km":            &graphql.Field{Type: graphql.Float},
			"passengers":             &graphql.Field{Type: graphql.Int},
			"grams_per_passenger":    &graphql.Field{Type: graphql.Float},
			"total_grams":            &graphql.Field{Type: graphql.Float},
			"savings_vs_worst_option": &graphql.Field{Type: graphql.Float},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"itineraries": &graphql.Field{
				Type:        graphql.NewList(itineraryType),
				Description: "List stored itineraries",
				Args: graphql.FieldConfigArgument{
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					offset := p.Args["offset"].(int)
					limit := p.Args["limit"].(int)
					items, _, err := deps.Itineraries.List(p.Context, offset, limit)
					return items, err
				},
			},
			"itinerary": &graphql.Field{
				Type:        itineraryType,
				Description: "Get an itinerary by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Itineraries.GetByID(p.Context, p.Args["id"].(string))
				},
			},
			"geocode": &graphql.Field{
				Type:        geocodeResultType,
				Description: "Resolve a place name to coordinates",
				Args: graphql.FieldConfigArgument{
					"place": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Itineraries.ResolveCity(p.Context, p.Args["place"].(string))
				},
			},
			"poisNearby": &graphql.Field{
				Type:        graphql.NewList(poiType),
				Description: "Classified points of interest around a location",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20000},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					center := domain.GeoPoint{
						Lat: p.Args["lat"].(float64),
						Lon: p.Args["lon"].(float64),
					}
					return deps.Itineraries.NearbyPOIs(p.Context, center, p.Args["radius"].(int))
				},
			},
			"transportModes": &graphql.Field{
				Type:        graphql.NewList(transportModeType),
				Description: "Transport modes ordered by emission factor",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Carbon.ListModes(p.Context)
				},
			},
			"carbonCompare": &graphql.Field{
				Type:        graphql.NewList(carbonEstimateType),
				Description: "Per-mode emission estimates over a distance",
				Args: graphql.FieldConfigArgument{
					"distance_km": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"passengers":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Carbon.Compare(p.Context,
						p.Args["distance_km"].(float64), p.Args["passengers"].(int))
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"generateItinerary": &graphql.Field{
				Type:        itineraryType,
				Description: "Generate and store a new itinerary",
				Args: graphql.FieldConfigArgument{
					"source":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"destination": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"days":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Itineraries.Generate(p.Context, domain.ItineraryRequest{
						SourceCity:      p.Args["source"].(string),
						DestinationCity: p.Args["destination"].(string),
						NumberOfDays:    p.Args["days"].(int),
					})
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
