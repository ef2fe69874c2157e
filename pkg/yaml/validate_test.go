package yaml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/ktconf/pkg/yaml"
)

var testSchema = []byte(`{
	"type": "object",
	"properties": {
		"kind": {"type": "string"},
		"disabledRules": {
			"type": "array",
			"items": {"type": "string", "minLength": 1}
		},
		"experimentalRules": {"type": "boolean"},
		"watch": {
			"type": "object",
			"properties": {
				"debounce": {"type": "string"}
			},
			"required": ["debounce"]
		}
	},
	"required": ["kind"]
}`)

func TestNewValidator(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		errMsg     string
		schemaData []byte
		wantErr    bool
	}{
		"valid schema": {
			schemaData: testSchema,
		},
		"invalid json": {
			schemaData: []byte(`{"invalid": json}`),
			wantErr:    true,
			errMsg:     "unmarshal schema",
		},
		"invalid schema": {
			schemaData: []byte(`{"type": "invalid_type"}`),
			wantErr:    true,
			errMsg:     "compile schema",
		},
		"empty schema": {
			schemaData: []byte(`{}`),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			validator, err := yaml.NewValidator("test", tc.schemaData)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
				assert.Nil(t, validator)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, validator)
		})
	}
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	validator := yaml.MustNewValidator("test", testSchema)

	tcs := map[string]struct {
		data         any
		expectedPath string
		wantErr      bool
	}{
		"valid data": {
			data: map[string]any{
				"kind":              "ProjectConfiguration",
				"disabledRules":     []any{"no-wildcard-imports", "custom:foo"},
				"experimentalRules": true,
			},
		},
		"missing required field": {
			data:         map[string]any{"experimentalRules": true},
			wantErr:      true,
			expectedPath: "$",
		},
		"wrong type for experimental flag": {
			data: map[string]any{
				"kind":              "ProjectConfiguration",
				"experimentalRules": "yes",
			},
			wantErr:      true,
			expectedPath: "$.experimentalRules",
		},
		"empty rule identifier": {
			data: map[string]any{
				"kind":          "ProjectConfiguration",
				"disabledRules": []any{"indent", ""},
			},
			wantErr:      true,
			expectedPath: "$.disabledRules[1]",
		},
		"nested object missing field": {
			data: map[string]any{
				"kind":  "ProjectConfiguration",
				"watch": map[string]any{},
			},
			wantErr:      true,
			expectedPath: "$.watch",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := validator.Validate(tc.data)
			if !tc.wantErr {
				require.NoError(t, err)

				return
			}

			var validationErr *yaml.Error
			require.ErrorAs(t, err, &validationErr)
			require.NotNil(t, validationErr.Path)
			assert.Equal(t, tc.expectedPath, validationErr.Path.String())
		})
	}
}
