package fetch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/signadot/apidiff/format"
	"github.com/signadot/apidiff/format/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

func runtimeSnapshot(version string, api int, stage string) string {
	return fmt.Sprintf(`{
  "application": "factorio",
  "stage": %q,
  "application_version": %q,
  "api_version": %d,
  "classes": [{"name": "LuaEntity", "order": 0, "description": "an entity"}],
  "events": [],
  "defines": [],
  "builtin_types": [{"name": "uint", "order": 0, "description": ""}],
  "concepts": [],
  "global_objects": [],
  "global_functions": []
}`, stage, version, api)
}

func upload(t *testing.T, fs afs.Service, URL, content string) {
	t.Helper()
	err := fs.Upload(context.Background(), URL, file.DefaultFileOsMode, bytes.NewReader([]byte(content)))
	require.NoError(t, err)
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runtime-api.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	var useCases = []struct {
		description string
		base        string
		ref         string
		expect      string
	}{
		{
			description: "version on default base",
			ref:         "1.1.110",
			expect:      "https://lua-api.factorio.com/1.1.110/runtime-api.json",
		},
		{
			description: "latest on custom base",
			base:        "mem://localhost/api",
			ref:         Latest,
			expect:      "mem://localhost/api/latest/runtime-api.json",
		},
		{
			description: "url",
			ref:         "https://example.com/x.json",
			expect:      "https://example.com/x.json",
		},
		{
			description: "existing file",
			ref:         path,
			expect:      "file://" + path,
		},
	}
	for _, useCase := range useCases {
		assert.Equal(t, useCase.expect, Resolve(useCase.base, format.RuntimeStage, useCase.ref), useCase.description)
	}
}

func TestLoadPair(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	base := "mem://localhost/apidiff/loadpair"
	upload(t, fs, base+"/1.1.100.json", runtimeSnapshot("1.1.100", 5, "runtime"))
	upload(t, fs, base+"/1.1.101.json", runtimeSnapshot("1.1.101", 5, "runtime"))
	upload(t, fs, base+"/proto.json", runtimeSnapshot("1.1.101", 5, "prototype"))
	upload(t, fs, base+"/old.json", runtimeSnapshot("0.18.0", 1, "runtime"))
	upload(t, fs, base+"/broken.json", `{"application": "factorio",`)

	var useCases = []struct {
		description string
		src, tgt    string
		expectErr   error
	}{
		{description: "compatible", src: "1.1.100.json", tgt: "1.1.101.json"},
		{description: "same", src: "1.1.101.json", tgt: "1.1.101.json"},
		{description: "reversed", src: "1.1.101.json", tgt: "1.1.100.json", expectErr: format.ErrVersionOrder},
		{description: "stage", src: "1.1.100.json", tgt: "proto.json", expectErr: format.ErrStageMismatch},
		{description: "api version", src: "old.json", tgt: "1.1.101.json", expectErr: format.ErrUnsupportedAPIVersion},
		{description: "missing", src: "1.1.100.json", tgt: "none.json", expectErr: ErrFetch},
		{description: "broken", src: "broken.json", tgt: "1.1.101.json", expectErr: ErrFetch},
	}
	l := New(fs)
	for _, useCase := range useCases {
		src, tgt, err := LoadPair[runtime.Doc](ctx, l, format.RuntimeStage, base+"/"+useCase.src, base+"/"+useCase.tgt)
		if useCase.expectErr != nil {
			assert.ErrorIs(t, err, useCase.expectErr, useCase.description)
			continue
		}
		require.NoError(t, err, useCase.description)
		assert.Equal(t, format.RuntimeStage, src.Head().Stage, useCase.description)
		assert.Contains(t, tgt.Doc.Classes, "LuaEntity", useCase.description)
		assert.NotEmpty(t, src.Raw, useCase.description)
	}
}

func TestLoadRuntime(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	URL := "mem://localhost/apidiff/load/runtime-api.json"
	upload(t, fs, URL, runtimeSnapshot("2.0.7", 6, "runtime"))

	s, err := New(fs).LoadRuntime(ctx, URL)
	require.NoError(t, err)
	assert.Equal(t, "2.0.7", s.Doc.ApplicationVersion)
	assert.Equal(t, "uint", s.Doc.BuiltinTypes["uint"].Name)

	_, err = New(fs).LoadPrototype(ctx, URL)
	assert.ErrorIs(t, err, format.ErrStageMismatch)
}
