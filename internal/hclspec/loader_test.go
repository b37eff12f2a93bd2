package hclspec

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avk/specpipe/internal/stage"
)

func writeManifest(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDir(t *testing.T) {
	t.Run("decodes stage blocks", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "catalog.hcl", `
stage "mcm" {
  command        = "mcm"
  flags          = ["plots", "verbose"]
  parallelizable = true
}

stage "filterer" {
  command        = "filterer"
  args           = ["--no-cache"]
  flags          = ["sims", "data", "transfer"]
  depends_on     = ["mcm"]
  parallelizable = true
}
`)

		specs, err := LoadDir(context.Background(), dir)
		require.NoError(t, err)

		want := []stage.Spec{
			{ID: "mcm", Command: "mcm", Flags: []string{"plots", "verbose"}, Parallelizable: true},
			{
				ID:             "filterer",
				Command:        "filterer",
				FixedArgs:      []string{"--no-cache"},
				Flags:          []string{"sims", "data", "transfer"},
				DependsOn:      []string{"mcm"},
				Parallelizable: true,
			},
		}
		if diff := cmp.Diff(want, specs); diff != "" {
			t.Errorf("specs mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("defaults the command to the stage id", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "catalog.hcl", `stage "pcler" {}`)

		specs, err := LoadDir(context.Background(), dir)
		require.NoError(t, err)
		require.Len(t, specs, 1)
		assert.Equal(t, "pcler", specs[0].Command)
	})

	t.Run("rejects unsupported attributes", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "catalog.hcl", `
stage "mcm" {
  retries = 3
}
`)
		_, err := LoadDir(context.Background(), dir)
		require.Error(t, err)
		assert.ErrorContains(t, err, `attribute "retries"`)
		assert.ErrorContains(t, err, "unsupported attribute")
	})

	t.Run("rejects wrongly typed attributes", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "catalog.hcl", `
stage "mcm" {
  parallelizable = "yes please"
}
`)
		_, err := LoadDir(context.Background(), dir)
		assert.ErrorContains(t, err, `attribute "parallelizable"`)
	})

	t.Run("returns nothing for a directory without manifests", func(t *testing.T) {
		specs, err := LoadDir(context.Background(), t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, specs)
	})

	t.Run("loaded specs build a registry", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "catalog.hcl", `
stage "mcm" {}
stage "filterer" {
  depends_on = ["mcm"]
}
`)
		specs, err := LoadDir(context.Background(), dir)
		require.NoError(t, err)

		reg, err := stage.NewRegistry(specs)
		require.NoError(t, err)
		assert.Equal(t, []string{"mcm", "filterer"}, reg.AllIDs())
	})
}
