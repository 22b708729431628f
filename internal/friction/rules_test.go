package friction

import (
	"testing"

	"github.com/agentx-labs/frictionless/internal/manifest"
	"github.com/stretchr/testify/assert"
)

func TestIsAutoInstallable(t *testing.T) {
	for _, name := range []string{"@types/node", "eslint-plugin-react", "babel-preset-env", "webpack-cli"} {
		assert.False(t, IsAutoInstallable(name), name)
	}
	for _, name := range []string{"lodash", "react", "eslint", "@babel/core", "webpack", "types"} {
		assert.True(t, IsAutoInstallable(name), name)
	}
}

func TestIsDevDependency(t *testing.T) {
	assert.True(t, IsDevDependency("jest-environment-jsdom"))
	assert.True(t, IsDevDependency("@types/react"))
	assert.True(t, IsDevDependency("ts-node"))
	assert.True(t, IsDevDependency("prettier-plugin-tailwindcss"))
	assert.False(t, IsDevDependency("react"))
	assert.False(t, IsDevDependency("lodash"))
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		name string
		want float64
	}{
		{"react", 0.9},
		{"vue", 0.9},
		{"express", 0.9},
		{"typescript", 0.9},
		{"@angular/core", 0.9},
		{"eslint-plugin-foo", 0.5},
		{"jest", 0.5},
		{"some-random-lib", 0.7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Severity(tt.name), tt.name)
	}
}

func TestSuggestions(t *testing.T) {
	info := &manifest.PackageInfo{
		Dependencies:    map[string]string{"lodash": "^4.0.0", "express": "^4.0.0"},
		DevDependencies: map[string]string{"jest": "^29.0.0"},
	}

	got := suggestions("npm install", "loadash", info)
	assert.Equal(t, []string{"npm install loadash", "Did you mean `lodash`?"}, got)

	got = suggestions("yarn add", "moment", nil)
	assert.Equal(t, []string{"yarn add moment", "dayjs", "date-fns"}, got)

	got = suggestions("", "lodash", info)
	assert.Equal(t, []string{"lodash-es", "ramda"}, got, "a declared name is not its own typo")
}

func TestAlternativesIsACopy(t *testing.T) {
	alts := Alternatives("lodash")
	alts[0] = "mutated"
	assert.Equal(t, "lodash-es", Alternatives("lodash")[0])
}
