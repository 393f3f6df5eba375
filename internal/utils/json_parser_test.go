package utils

import (
	"testing"
)

func TestParseLLMJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name:  "Pure JSON",
			input: `{"field": "adults", "value": "2"}`,
			want: map[string]interface{}{
				"field": "adults",
				"value": "2",
			},
		},
		{
			name:  "JSON in markdown code block",
			input: "```json\n" + `{"expression": "next friday"}` + "\n```",
			want: map[string]interface{}{
				"expression": "next friday",
			},
		},
		{
			name:  "JSON with surrounding text",
			input: `Sure, calling the tool with {"location": "Paris", "limit": 1} now.`,
			want: map[string]interface{}{
				"location": "Paris",
				"limit":    float64(1),
			},
		},
		{
			name:  "JSON with trailing comma",
			input: `{"hotel_name": "Le Marais", "nights": 3,}`,
			want: map[string]interface{}{
				"hotel_name": "Le Marais",
				"nights":     float64(3),
			},
		},
		{
			name:  "JSON with unquoted keys",
			input: `{field: "city", value: "Lyon"}`,
			want: map[string]interface{}{
				"field": "city",
				"value": "Lyon",
			},
		},
		{
			name:    "Empty string",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "Invalid JSON",
			input:   "not json at all",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]interface{}
			err := ParseLLMJSON(tt.input, &got)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLLMJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseLLMJSON() got = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("ParseLLMJSON()[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestExtractFromMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "JSON code block with json tag",
			input: "```json\n{\"test\": true}\n```",
			want:  `{"test": true}`,
		},
		{
			name:  "JSON code block without tag",
			input: "```\n{\"test\": true}\n```",
			want:  `{"test": true}`,
		},
		{
			name:  "Code block that is not JSON",
			input: "```\nhello\n```",
			want:  "",
		},
		{
			name:  "No code block",
			input: `{"test": true}`,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractFromMarkdown(tt.input); got != tt.want {
				t.Errorf("extractFromMarkdown() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	tests := []struct {
		name  string
		input string
		open  rune
		close rune
		want  string
	}{
		{
			name:  "Nested objects with trailing text",
			input: `{"a": {"b": 2}} trailing`,
			open:  '{',
			close: '}',
			want:  `{"a": {"b": 2}}`,
		},
		{
			name:  "Braces inside strings",
			input: `{"text": "Hello {world}"}`,
			open:  '{',
			close: '}',
			want:  `{"text": "Hello {world}"}`,
		},
		{
			name:  "Array",
			input: `[1, [2, 3]]`,
			open:  '[',
			close: ']',
			want:  `[1, [2, 3]]`,
		},
		{
			name:  "Unbalanced",
			input: `{"a": 1`,
			open:  '{',
			close: '}',
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractBalanced(tt.input, tt.open, tt.close); got != tt.want {
				t.Errorf("extractBalanced() = %v, want %v", got, tt.want)
			}
		})
	}
}
