package service

import (
	"testing"

	"hotelsearch/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolDefinitions(t *testing.T) {
	defs := ToolDefinitions()
	require.Len(t, defs, 6)

	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Function.Name
		assert.Equal(t, "function", d.Type)
		assert.Equal(t, "object", d.Function.Parameters["type"])
		assert.NotEmpty(t, d.Function.Description)
	}
	assert.Equal(t, []string{
		"update_preference", "geocode_location", "parse_date", "get_current_date", "search_hotels", "book_hotel",
	}, names)
}

func TestDecodeToolCall(t *testing.T) {
	tests := []struct {
		name string
		call ToolCall
		want ToolArgs
	}{
		{
			name: "update preference",
			call: toolCall("1", ToolUpdatePreference, `{"updates": "adults=2"}`),
			want: UpdatePreferenceArgs{Updates: "adults=2"},
		},
		{
			name: "arguments in a markdown fence",
			call: toolCall("2", ToolGeocodeLocation, "```json\n{\"location\": \"Paris\"}\n```"),
			want: GeocodeLocationArgs{Location: "Paris"},
		},
		{
			name: "empty arguments",
			call: toolCall("3", ToolGetCurrentDate, ""),
			want: GetCurrentDateArgs{},
		},
		{
			name: "optional distance",
			call: toolCall("4", ToolSearchHotels, `{"max_distance_km": 5}`),
			want: SearchHotelsArgs{MaxDistanceKm: ptr(5.0)},
		},
		{
			name: "no distance",
			call: toolCall("5", ToolSearchHotels, `{}`),
			want: SearchHotelsArgs{},
		},
		{
			name: "book",
			call: toolCall("6", ToolBookHotel, `{"hotel_name": "Hotel B"}`),
			want: BookHotelArgs{HotelName: "Hotel B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeToolCall(tt.call)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeToolCall_Invalid(t *testing.T) {
	tests := []struct {
		name string
		call ToolCall
	}{
		{"unknown tool", toolCall("1", ToolKind("cancel_booking"), `{}`)},
		{"missing required", toolCall("2", ToolBookHotel, `{}`)},
		{"wrong type", toolCall("3", ToolParseDate, `{"expression": 5}`)},
		{"distance too large", toolCall("4", ToolSearchHotels, `{"max_distance_km": 500}`)},
		{"updates without pairs", toolCall("5", ToolUpdatePreference, `{"updates": "two adults"}`)},
		{"not json", toolCall("6", ToolGeocodeLocation, `location is Paris`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeToolCall(tt.call)
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.ErrValidation))
		})
	}
}

func TestParseToolKind(t *testing.T) {
	kind, err := ParseToolKind(" book_hotel ")
	require.NoError(t, err)
	assert.Equal(t, ToolBookHotel, kind)

	_, err = ParseToolKind("BOOK_HOTEL")
	assert.Error(t, err)
}
