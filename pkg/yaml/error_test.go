package yaml_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/ktconf/pkg/yaml"
)

func TestError_Error(t *testing.T) {
	t.Parallel()

	source := []byte("kind: ProjectConfiguration\nexperimentalRules: maybe\ndisabledRules: []\n")

	tcs := map[string]struct {
		err      *yaml.Error
		contains []string
		want     string
	}{
		"without path": {
			err:  yaml.NewError(errors.New("value is required")),
			want: "value is required",
		},
		"with path and source": {
			err: yaml.NewError(
				errors.New("expected boolean"),
				yaml.WithPath(yaml.NewPathBuilder().Root().Child("experimentalRules").Build()),
				yaml.WithSource(source),
			),
			contains: []string{"[2:1] expected boolean:", "experimentalRules"},
		},
		"with path but no source": {
			err: yaml.NewError(
				errors.New("expected boolean"),
				yaml.WithPath(yaml.NewPathBuilder().Root().Child("experimentalRules").Build()),
			),
			want: "error at $.experimentalRules: expected boolean",
		},
		"nil error": {
			err:  &yaml.Error{},
			want: "",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := tc.err.Error()
			if tc.want != "" || len(tc.contains) == 0 {
				assert.Equal(t, tc.want, got)
			}
			for _, s := range tc.contains {
				assert.Contains(t, got, s)
			}
		})
	}
}

func TestErrorWrapper_Wrap(t *testing.T) {
	t.Parallel()

	source := []byte("kind: x\n")
	ew := yaml.NewErrorWrapper(yaml.WithSource(source))

	require.NoError(t, ew.Wrap(nil))

	plain := errors.New("plain")
	assert.Same(t, plain, ew.Wrap(plain))

	wrapped := ew.Wrap(yaml.NewError(errors.New("bad")))

	var yamlErr *yaml.Error
	require.ErrorAs(t, wrapped, &yamlErr)
	assert.Equal(t, source, yamlErr.Source)
}

func TestDecoder_Decode(t *testing.T) {
	t.Parallel()

	type doc struct {
		Kind string `json:"kind"`
	}

	tcs := map[string]struct {
		input   string
		want    doc
		wantErr bool
	}{
		"valid": {
			input: "kind: ProjectConfiguration\n",
			want:  doc{Kind: "ProjectConfiguration"},
		},
		"empty document": {
			input: "",
		},
		"unknown field": {
			input:   "kind: a\nunknown: b\n",
			wantErr: true,
		},
		"duplicate key": {
			input:   "kind: a\nkind: b\n",
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var got doc

			err := yaml.NewDecoder(bytes.NewReader([]byte(tc.input))).Decode(&got)
			if tc.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
