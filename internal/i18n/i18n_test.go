package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedLocales(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "es", "fr", "sw"}, c.Languages())
}

func TestMatch(t *testing.T) {
	c := MustLoad()

	tests := []struct {
		in   string
		want string
	}{
		{"", "en"},
		{"en", "en"},
		{"sw", "sw"},
		{"sw-KE", "sw"},
		{"fr-CA", "fr"},
		{"de", "en"},
		{"%%%", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Match(tt.in))
		})
	}
}

func TestT_FallbackAndSubstitution(t *testing.T) {
	c := newCatalog(map[string]map[string]string{
		"en": {
			"greet": "Hello {name}, {count} reports",
			"only":  "english only",
		},
		"sw": {
			"greet": "Habari {name}",
		},
	})

	assert.Equal(t, "Hello Amina, 3 reports", c.T("en", "greet", "name", "Amina", "count", 3))
	assert.Equal(t, "Habari Amina", c.T("sw", "greet", "name", "Amina"))
	assert.Equal(t, "english only", c.T("sw", "only"))
	assert.Equal(t, "missing.key", c.T("sw", "missing.key"))
	// нечетный хвост аргументов игнорируется
	assert.Equal(t, "Hello {name}, {count} reports", c.T("en", "greet", "name"))
}

func TestHas(t *testing.T) {
	c := MustLoad()

	assert.True(t, c.Has("en", "alert.level.watch"))
	assert.False(t, c.Has("sw", "alert.level.watch"))
	assert.True(t, c.Has("sw", "alert.level.warning"))
}
