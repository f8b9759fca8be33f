package ui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/pem/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostItem(t *testing.T) {
	host := HostInfo{
		Instance: "HK-Alice",
		Address:  "10.0.0.5",
		Target:   "10.0.0.5:9100",
		City:     "Hong Kong",
		Code:     "HKG",
	}

	item := hostItem{host: host}

	t.Run("Title", func(t *testing.T) {
		assert.Equal(t, "HK-Alice", item.Title())
	})

	t.Run("Description", func(t *testing.T) {
		assert.Equal(t, "10.0.0.5:9100 | Hong Kong (HKG)", item.Description())
	})

	t.Run("FilterValue", func(t *testing.T) {
		filter := item.FilterValue()
		assert.Contains(t, filter, "HK-Alice")
		assert.Contains(t, filter, "10.0.0.5")
		assert.Contains(t, filter, "Hong Kong")
		assert.Contains(t, filter, "HKG")
	})
}

func TestHostItemWithoutInstance(t *testing.T) {
	item := hostItem{host: HostInfo{Address: "10.0.0.9"}}

	assert.Equal(t, "10.0.0.9", item.Title())
	assert.Equal(t, "10.0.0.9", item.Description())
}

func TestNewHostPickerModel(t *testing.T) {
	hosts := []HostInfo{
		{Instance: "HK-Alice", Address: "10.0.0.5"},
		{Instance: "JP-Tokyo", Address: "10.0.0.1"},
	}

	model := NewHostPickerModel(hosts)

	assert.Len(t, model.hosts, 2)
	assert.Nil(t, model.selected)
	assert.False(t, model.quitting)
}

func TestHostPickerModel_Enter(t *testing.T) {
	hosts := []HostInfo{
		{Instance: "HK-Alice", Address: "10.0.0.5"},
		{Instance: "JP-Tokyo", Address: "10.0.0.1"},
	}
	model := NewHostPickerModel(hosts)

	next, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	picked := next.(HostPickerModel).Selected()
	require.NotNil(t, picked)
	assert.Equal(t, "JP-Tokyo", picked.Instance)
	assert.Empty(t, next.View())
}

func TestHostPickerModel_Cancel(t *testing.T) {
	model := NewHostPickerModel([]HostInfo{{Instance: "HK-Alice", Address: "10.0.0.5"}})

	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, next.(HostPickerModel).Selected())
}

func TestPickHost_NoHosts(t *testing.T) {
	_, err := PickHost(nil, &bytes.Buffer{}, strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrValidate))
}
