package stage

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	t.Run("accepts a valid catalog", func(t *testing.T) {
		reg, err := NewRegistry([]Spec{
			{ID: "a", Command: "a"},
			{ID: "b", Command: "b", DependsOn: []string{"a"}},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, reg.Len())
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		_, err := NewRegistry([]Spec{{ID: "a"}, {ID: "a"}})
		assert.ErrorContains(t, err, `duplicate stage id "a"`)
	})

	t.Run("rejects empty ids", func(t *testing.T) {
		_, err := NewRegistry([]Spec{{Command: "a"}})
		assert.ErrorContains(t, err, "empty id")
	})

	t.Run("rejects unknown dependencies", func(t *testing.T) {
		_, err := NewRegistry([]Spec{{ID: "a", DependsOn: []string{"ghost"}}})
		assert.ErrorIs(t, err, ErrUnknownStage)
	})

	t.Run("rejects self dependencies", func(t *testing.T) {
		_, err := NewRegistry([]Spec{{ID: "a", DependsOn: []string{"a"}}})
		assert.ErrorContains(t, err, "depends on itself")
	})

	t.Run("rejects cycles", func(t *testing.T) {
		_, err := NewRegistry([]Spec{
			{ID: "a", DependsOn: []string{"c"}},
			{ID: "b", DependsOn: []string{"a"}},
			{ID: "c", DependsOn: []string{"b"}},
		})
		assert.ErrorContains(t, err, "dependency cycle")
	})
}

func TestResolve(t *testing.T) {
	reg, err := NewRegistry([]Spec{{ID: "mcm", Command: "mcm"}})
	require.NoError(t, err)

	t.Run("returns the spec for a known id", func(t *testing.T) {
		s, err := reg.Resolve("mcm")
		require.NoError(t, err)
		assert.Equal(t, "mcm", s.ID)
	})

	t.Run("fails for an unknown id", func(t *testing.T) {
		_, err := reg.Resolve("nope")
		assert.ErrorIs(t, err, ErrUnknownStage)
	})
}

func TestAllIDs(t *testing.T) {
	t.Run("orders dependencies before dependents", func(t *testing.T) {
		reg, err := NewRegistry([]Spec{
			{ID: "pcler", DependsOn: []string{"filterer"}},
			{ID: "filterer", DependsOn: []string{"mcm"}},
			{ID: "mcm"},
		})
		require.NoError(t, err)

		want := []string{"mcm", "filterer", "pcler"}
		if diff := cmp.Diff(want, reg.AllIDs()); diff != "" {
			t.Errorf("AllIDs mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("breaks ties by declaration order", func(t *testing.T) {
		reg, err := NewRegistry([]Spec{
			{ID: "b"},
			{ID: "a"},
			{ID: "c", DependsOn: []string{"b"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a", "c"}, reg.AllIDs())
	})

	t.Run("is stable across calls", func(t *testing.T) {
		reg, err := NewRegistry(Builtin())
		require.NoError(t, err)
		first := reg.AllIDs()
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, reg.AllIDs())
		}
	})
}

func TestAcceptsFlag(t *testing.T) {
	s := Spec{ID: "filterer", Flags: []string{"sims", "data", "transfer"}}
	assert.True(t, s.AcceptsFlag("transfer"))
	assert.False(t, s.AcceptsFlag("bogus_flag"))
}

func TestBuiltinCatalogIsValid(t *testing.T) {
	reg, err := NewRegistry(Builtin())
	require.NoError(t, err)
	assert.Equal(t, len(Builtin()), reg.Len())

	// mocker leads the canonical order; everything else sits downstream of it.
	assert.Equal(t, "mocker", reg.AllIDs()[0])
}
