package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/signadot/apidiff/format"
	"github.com/signadot/apidiff/policy"
	"github.com/signadot/apidiff/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
baseURL: mem://localhost/api
stage: prototype
descriptions: true
format: y
color: false
where: section == "prototypes"
`))
	require.NoError(t, err)
	assert.Equal(t, "mem://localhost/api", c.BaseURL)
	stage, ok := c.Stage()
	assert.True(t, ok)
	assert.Equal(t, format.PrototypeStage, stage)
	f, ok := c.Format()
	assert.True(t, ok)
	assert.Equal(t, report.YAMLFormat, f)
	require.NotNil(t, c.Color)
	assert.False(t, *c.Color)
	assert.Equal(t, policy.Policy{Descriptions: true}, c.Policy())
}

func TestParseErrors(t *testing.T) {
	var useCases = []struct {
		description string
		data        string
	}{
		{description: "stage", data: "stage: data\n"},
		{description: "format", data: "format: tony\n"},
		{description: "where", data: "where: 'name =='\n"},
		{description: "unknown field", data: "colour: true\n"},
		{description: "syntax", data: "full: [\n"},
	}
	for _, useCase := range useCases {
		_, err := Parse([]byte(useCase.data))
		assert.ErrorIs(t, err, ErrBadConfig, useCase.description)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	c, err := Load("")
	require.NoError(t, err)
	stage, ok := c.Stage()
	assert.False(t, ok)
	assert.Equal(t, format.PrototypeStage, stage)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrBadConfig)

	require.NoError(t, os.WriteFile(DefaultFile, []byte("full: true\n"), 0o644))
	c, err = Load("")
	require.NoError(t, err)
	assert.True(t, c.Policy().Admits(policy.FullDetail))
}
