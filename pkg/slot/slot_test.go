package slot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gridslot/pkg/errors"
	"github.com/matzehuels/gridslot/pkg/slot"
)

func TestSlotValidate(t *testing.T) {
	tests := []struct {
		name    string
		slot    slot.Slot
		wantErr bool
	}{
		{"unit", slot.New("sky", 1, 1, nil), false},
		{"wide", slot.New("logs", 3, 1, nil), false},
		{"zero width", slot.New("bad", 0, 1, nil), true},
		{"negative height", slot.New("bad", 1, -2, nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.slot.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidSlot))
		})
	}
}

func TestNewCopiesParams(t *testing.T) {
	params := slot.Params{"race": "troll"}
	s := slot.New("character", 1, 1, params)
	params["race"] = "elves"

	v, ok := s.Param("race")
	require.True(t, ok)
	assert.Equal(t, "troll", v)
}

func TestMatrixValidateReportsPosition(t *testing.T) {
	m := slot.Matrix{
		{slot.New("sky", 1, 1, nil)},
		{slot.New("sky", 1, 1, nil), slot.New("broken", 1, 0, nil)},
	}

	err := m.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidSlot))
	assert.Contains(t, err.Error(), "slot 1:1")
}

func TestMatrixCloneIsDeep(t *testing.T) {
	m := slot.Matrix{
		{slot.New("character", 1, 1, slot.Params{"race": "undead"})},
		{},
	}
	c := m.Clone()
	c[0][0].Params["race"] = "merfolk"
	c[1] = append(c[1], slot.New("sky", 1, 1, nil))

	assert.Equal(t, "undead", m[0][0].Params["race"])
	assert.Empty(t, m[1])
	assert.NotNil(t, c[1])
	assert.Equal(t, 2, c.Count())
	assert.Equal(t, 1, m.Count())
}

func TestMatrixAt(t *testing.T) {
	m := slot.Matrix{{slot.New("sky", 1, 1, nil)}}

	s, ok := m.At(0, 0)
	require.True(t, ok)
	assert.Equal(t, "sky", s.Kind)

	_, ok = m.At(0, 1)
	assert.False(t, ok)
	_, ok = m.At(-1, 0)
	assert.False(t, ok)
}

func TestRegistryBuild(t *testing.T) {
	reg := slot.Builtin()

	m, err := reg.Build([][]slot.Ref{
		{{Kind: "map"}, {Kind: "chart"}},
		{},
		{{Kind: "character", Params: slot.Params{"race": "troll"}}},
	})
	require.NoError(t, err)
	require.Len(t, m, 3)

	assert.Equal(t, 2, m[0][0].Width)
	assert.Equal(t, 2, m[0][0].Height)
	assert.Equal(t, 2, m[0][1].Width)
	assert.Equal(t, 1, m[0][1].Height)
	assert.Empty(t, m[1])
	assert.Equal(t, "troll", m[2][0].Params["race"])
}

func TestRegistryBuildUnknownKind(t *testing.T) {
	_, err := slot.Builtin().Build([][]slot.Ref{{{Kind: "nope"}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownKind))
	assert.Contains(t, err.Error(), "slot 0:0")
}

func TestRegistryRegister(t *testing.T) {
	reg, err := slot.NewRegistry()
	require.NoError(t, err)

	require.NoError(t, reg.Register(slot.Kind{Name: "banner", Width: 4, Height: 1}))
	w, h, err := reg.Footprint("banner")
	require.NoError(t, err)
	assert.Equal(t, 4, w)
	assert.Equal(t, 1, h)

	err = reg.Register(slot.Kind{Name: "flat", Width: 2, Height: 0})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidKind))

	err = reg.Register(slot.Kind{Name: "Bad Name", Width: 1, Height: 1})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidKind))

	assert.Equal(t, 1, reg.Len())
}

func TestRegistryKindsSorted(t *testing.T) {
	kinds := slot.Builtin().Kinds()
	require.NotEmpty(t, kinds)
	for i := 1; i < len(kinds); i++ {
		assert.Less(t, kinds[i-1].Name, kinds[i].Name)
	}
}

func TestRegistryCloneIsIndependent(t *testing.T) {
	reg := slot.Builtin()
	c := reg.Clone()
	require.NoError(t, c.Register(slot.Kind{Name: "extra", Width: 1, Height: 1}))

	_, ok := reg.Lookup("extra")
	assert.False(t, ok)
	_, ok = c.Lookup("extra")
	assert.True(t, ok)
}

func TestRefsRoundTrip(t *testing.T) {
	reg := slot.Builtin()
	refs := [][]slot.Ref{{{Kind: "sky"}, {Kind: "salmon"}}, {}}
	m, err := reg.Build(refs)
	require.NoError(t, err)

	back := slot.Refs(m)
	assert.Equal(t, "sky", back[0][0].Kind)
	assert.Equal(t, "salmon", back[0][1].Kind)
	assert.Empty(t, back[1])
}

func TestKindDisplayLabel(t *testing.T) {
	assert.Equal(t, "Map", slot.Kind{Name: "map", Label: "Map"}.DisplayLabel())
	assert.Equal(t, "map", slot.Kind{Name: "map"}.DisplayLabel())
}
