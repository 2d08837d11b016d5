package graphql

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStringList(t *testing.T) {
	var v struct {
		A StringList `yaml:"a"`
		B StringList `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: one\nb: [x, z]\n"), &v))
	assert.Equal(t, StringList{"one"}, v.A)
	assert.Equal(t, StringList{"x", "z"}, v.B)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "a: one\nb:\n    - x\n    - z\n", string(out))

	assert.Error(t, yaml.Unmarshal([]byte("a: {k: v}\n"), &v))
}

func TestLoadGQLGenConfigMissing(t *testing.T) {
	cfg, err := LoadGQLGenConfig(filepath.Join(t.TempDir(), "gqlgen.yml"))
	require.NoError(t, err)
	assert.NotNil(t, cfg.Models)
	assert.Empty(t, cfg.SchemaFilename)
}

func TestInjectScalarBindings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gqlgen.yml")
	require.NoError(t, os.WriteFile(path, []byte(`schema: graph/*.graphql
exec:
  filename: graph/generated.go
models:
  ID:
    model: example.com/ids.ID
federation:
  filename: graph/federation.go
`), 0o644))

	cfg, err := LoadGQLGenConfig(path)
	require.NoError(t, err)
	cfg.InjectScalarBindings("graph/schema.graphql")
	cfg.InjectScalarBindings("graph/schema.graphql")
	assert.Equal(t, StringList{"graph/*.graphql", "graph/schema.graphql"}, cfg.SchemaFilename)
	assert.Equal(t, StringList{"example.com/ids.ID"}, cfg.Models["ID"].Model, "existing bindings are kept")
	assert.Equal(t, StringList{"github.com/99designs/gqlgen/graphql.String"}, cfg.Models["AWSJSON"].Model)

	require.NoError(t, SaveGQLGenConfig(path, cfg))
	saved, err := LoadGQLGenConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "graph/generated.go", saved.Exec.Filename)
	assert.Equal(t, map[string]any{"filename": "graph/federation.go"}, saved.Extra["federation"])
	assert.Equal(t, cfg.Models, saved.Models)
}
