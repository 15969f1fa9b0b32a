package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want string
	}{
		{".py", "python"},
		{".pyi", "python"},
		{".cpp", ""},
		{".go", ""},
		{"", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.ext, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ForExtension(tt.ext))
		})
	}
}

func TestLanguagesRegistered(t *testing.T) {
	t.Parallel()

	py, ok := Languages["python"]
	require.True(t, ok, "python language not registered")
	assert.NotNil(t, py.NewParser())
	assert.NotNil(t, py.ExtractSignature)
	assert.NotNil(t, py.ExtractDocstring)
}

func TestGetDefinitionQuery(t *testing.T) {
	t.Parallel()

	q, err := Languages["python"].GetDefinitionQuery()
	require.NoError(t, err)
	assert.NotNil(t, q)
}

func TestUnquote(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		`"""doc"""`:  "doc",
		`r'''raw'''`: "raw",
		`"x"`:        "x",
		`'y'`:        "y",
		`""`:         "",
		`u'''a'''`:   "a",
	}
	for in, want := range cases {
		assert.Equal(t, want, unquote(in), in)
	}
}
