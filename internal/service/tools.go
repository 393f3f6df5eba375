package service

import (
	"encoding/json"
	"strings"

	"hotelsearch/internal/errs"
	"hotelsearch/internal/utils"

	"github.com/xeipuuv/gojsonschema"
)

// ToolKind names a tool the model may invoke. The set is closed.
type ToolKind string

const (
	ToolSearchHotels     ToolKind = "search_hotels"
	ToolBookHotel        ToolKind = "book_hotel"
	ToolParseDate        ToolKind = "parse_date"
	ToolGetCurrentDate   ToolKind = "get_current_date"
	ToolUpdatePreference ToolKind = "update_preference"
	ToolGeocodeLocation  ToolKind = "geocode_location"
)

// ToolArgs is the typed input of one tool. Only the types in this file implement it.
type ToolArgs interface {
	Kind() ToolKind
	isToolArgs()
}

// SearchHotelsArgs runs the search pipeline with the collected preferences
type SearchHotelsArgs struct {
	MaxDistanceKm *float64 `json:"max_distance_km,omitempty"`
}

// BookHotelArgs books a hotel from the last search results
type BookHotelArgs struct {
	HotelName string `json:"hotel_name"`
}

// ParseDateArgs resolves a relative date expression
type ParseDateArgs struct {
	Expression string `json:"expression"`
}

// GetCurrentDateArgs takes no input
type GetCurrentDateArgs struct{}

// UpdatePreferenceArgs carries "field=value" pairs separated by commas
type UpdatePreferenceArgs struct {
	Updates string `json:"updates"`
}

// GeocodeLocationArgs resolves a place and stores it as the search location
type GeocodeLocationArgs struct {
	Location string `json:"location"`
}

func (SearchHotelsArgs) Kind() ToolKind     { return ToolSearchHotels }
func (BookHotelArgs) Kind() ToolKind        { return ToolBookHotel }
func (ParseDateArgs) Kind() ToolKind        { return ToolParseDate }
func (GetCurrentDateArgs) Kind() ToolKind   { return ToolGetCurrentDate }
func (UpdatePreferenceArgs) Kind() ToolKind { return ToolUpdatePreference }
func (GeocodeLocationArgs) Kind() ToolKind  { return ToolGeocodeLocation }

func (SearchHotelsArgs) isToolArgs()     {}
func (BookHotelArgs) isToolArgs()        {}
func (ParseDateArgs) isToolArgs()        {}
func (GetCurrentDateArgs) isToolArgs()   {}
func (UpdatePreferenceArgs) isToolArgs() {}
func (GeocodeLocationArgs) isToolArgs()  {}

type toolSpec struct {
	description string
	schema      map[string]interface{}
	newArgs     func() ToolArgs
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	s := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

var toolSpecs = map[ToolKind]toolSpec{
	ToolSearchHotels: {
		description: "Search hotels using the collected preferences. Only call once location, dates, adults and rooms are stored.",
		schema: objectSchema(map[string]interface{}{
			"max_distance_km": map[string]interface{}{
				"type":        "number",
				"minimum":     0.1,
				"maximum":     100,
				"description": "Maximum distance from the location in kilometers",
			},
		}),
		newArgs: func() ToolArgs { return &SearchHotelsArgs{} },
	},
	ToolBookHotel: {
		description: "Book a hotel from the most recent search results by its name.",
		schema: objectSchema(map[string]interface{}{
			"hotel_name": map[string]interface{}{"type": "string", "minLength": 1},
		}, "hotel_name"),
		newArgs: func() ToolArgs { return &BookHotelArgs{} },
	},
	ToolParseDate: {
		description: "Convert a date expression such as 'tomorrow', 'next friday' or 'in 3 days' to YYYY-MM-DD.",
		schema: objectSchema(map[string]interface{}{
			"expression": map[string]interface{}{"type": "string", "minLength": 1},
		}, "expression"),
		newArgs: func() ToolArgs { return &ParseDateArgs{} },
	},
	ToolGetCurrentDate: {
		description: "Get today's date as YYYY-MM-DD.",
		schema:      objectSchema(map[string]interface{}{}),
		newArgs:     func() ToolArgs { return &GetCurrentDateArgs{} },
	},
	ToolUpdatePreference: {
		description: "Store booking details given by the user. Input is 'field=value' pairs separated by commas. " +
			"Fields: city, latitude, longitude, check_in, check_out, nights, adults, rooms, children_age, currency_code. " +
			"Dates must be YYYY-MM-DD.",
		schema: objectSchema(map[string]interface{}{
			"updates": map[string]interface{}{
				"type":      "string",
				"minLength": 3,
				"pattern":   "=",
				"examples":  []string{"adults=2", "check_in=2025-06-01, nights=3"},
			},
		}, "updates"),
		newArgs: func() ToolArgs { return &UpdatePreferenceArgs{} },
	},
	ToolGeocodeLocation: {
		description: "Find the coordinates of a city or place and store it as the search location.",
		schema: objectSchema(map[string]interface{}{
			"location": map[string]interface{}{"type": "string", "minLength": 1},
		}, "location"),
		newArgs: func() ToolArgs { return &GeocodeLocationArgs{} },
	},
}

// toolOrder fixes the declaration order sent to the model
var toolOrder = []ToolKind{
	ToolUpdatePreference,
	ToolGeocodeLocation,
	ToolParseDate,
	ToolGetCurrentDate,
	ToolSearchHotels,
	ToolBookHotel,
}

// ToolDefinitions returns the function declarations for every tool
func ToolDefinitions() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(toolOrder))
	for _, kind := range toolOrder {
		spec := toolSpecs[kind]
		defs = append(defs, ToolDefinition{
			Type: "function",
			Function: FunctionDefinition{
				Name:        string(kind),
				Description: spec.description,
				Parameters:  spec.schema,
			},
		})
	}
	return defs
}

// ParseToolKind maps a tool name to its kind
func ParseToolKind(name string) (ToolKind, error) {
	kind := ToolKind(strings.TrimSpace(name))
	if _, ok := toolSpecs[kind]; !ok {
		return "", errs.Validation("unknown tool: %s", name)
	}
	return kind, nil
}

// DecodeToolCall validates a model tool call against its schema and returns typed arguments
func DecodeToolCall(call ToolCall) (ToolArgs, error) {
	kind, err := ParseToolKind(call.Function.Name)
	if err != nil {
		return nil, err
	}
	spec := toolSpecs[kind]

	document := map[string]interface{}{}
	if strings.TrimSpace(call.Function.Arguments) != "" {
		if err := utils.ParseLLMJSON(call.Function.Arguments, &document); err != nil {
			return nil, errs.Mark(errs.Wrapf(err, "arguments for %s", kind), errs.ErrValidation)
		}
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(spec.schema), gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, errs.Mark(errs.Wrapf(err, "validate arguments for %s", kind), errs.ErrValidation)
	}
	if !result.Valid() {
		problems := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			problems[i] = desc.String()
		}
		return nil, errs.Validation("invalid arguments for %s: %s", kind, strings.Join(problems, "; "))
	}

	raw, err := json.Marshal(document)
	if err != nil {
		return nil, errs.Wrap(err, "re-encode arguments")
	}
	args := spec.newArgs()
	if err := json.Unmarshal(raw, args); err != nil {
		return nil, errs.Mark(errs.Wrapf(err, "decode arguments for %s", kind), errs.ErrValidation)
	}
	return derefArgs(args), nil
}

// derefArgs returns the value form so callers can type-switch on plain structs
func derefArgs(args ToolArgs) ToolArgs {
	switch a := args.(type) {
	case *SearchHotelsArgs:
		return *a
	case *BookHotelArgs:
		return *a
	case *ParseDateArgs:
		return *a
	case *GetCurrentDateArgs:
		return *a
	case *UpdatePreferenceArgs:
		return *a
	case *GeocodeLocationArgs:
		return *a
	}
	return args
}
