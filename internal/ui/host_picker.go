package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/pem/internal/errors"
)

// HostInfo describes a monitored host offered by the picker.
type HostInfo struct {
	Instance string // Instance name, e.g. "HK-Alice"
	Address  string // Address passed to remove, e.g. "10.0.0.5"
	Target   string // Node exporter target, e.g. "10.0.0.5:9100"
	City     string
	Code     string
}

// hostItem implements list.Item for the Bubbles list component.
type hostItem struct {
	host HostInfo
}

func (i hostItem) Title() string {
	if i.host.Instance == "" {
		return i.host.Address
	}
	return i.host.Instance
}

func (i hostItem) Description() string {
	var parts []string

	if i.host.Target != "" {
		parts = append(parts, i.host.Target)
	} else {
		parts = append(parts, i.host.Address)
	}

	if i.host.City != "" {
		location := i.host.City
		if i.host.Code != "" {
			location += " (" + i.host.Code + ")"
		}
		parts = append(parts, location)
	}

	return strings.Join(parts, " | ")
}

func (i hostItem) FilterValue() string {
	return strings.Join([]string{i.host.Instance, i.host.Address, i.host.City, i.host.Code}, " ")
}

// HostPickerModel is a Bubble Tea model for selecting a host.
type HostPickerModel struct {
	list     list.Model
	hosts    []HostInfo
	selected *HostInfo
	quitting bool
	width    int
	height   int
}

// hostPickerKeyMap defines key bindings for the host picker.
type hostPickerKeyMap struct {
	Enter key.Binding
	Quit  key.Binding
}

var hostPickerKeys = hostPickerKeyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "cancel"),
	),
}

// NewHostPickerModel creates a new host picker model.
func NewHostPickerModel(hosts []HostInfo) HostPickerModel {
	items := make([]list.Item, len(hosts))
	for i, h := range hosts {
		items[i] = hostItem{host: h}
	}

	// Create list with custom delegate for styling
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color(string(ColorPrimary))).
		BorderForeground(lipgloss.Color(string(ColorSecondary)))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color(string(ColorMuted)))

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select a host to remove"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color(string(ColorPrimary))).
		Bold(true).
		Padding(0, 0, 1, 0)
	l.Styles.HelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(string(ColorMuted)))

	return HostPickerModel{
		list:   l,
		hosts:  hosts,
		width:  80,
		height: 15,
	}
}

// Init implements tea.Model.
func (m HostPickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m HostPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, hostPickerKeys.Enter):
			if item, ok := m.list.SelectedItem().(hostItem); ok {
				m.selected = &item.host
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, hostPickerKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m HostPickerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// Selected returns the selected host, or nil if cancelled.
func (m HostPickerModel) Selected() *HostInfo {
	return m.selected
}

// PickHost displays an interactive host picker and returns the selected host.
// Returns nil if the user cancels (ESC/q/Ctrl+C).
func PickHost(hosts []HostInfo, output io.Writer, input io.Reader) (*HostInfo, error) {
	if len(hosts) == 0 {
		return nil, errors.New(errors.ErrValidate, "No hosts to pick from", "Add one first with 'pem add'.")
	}

	model := NewHostPickerModel(hosts)

	p := tea.NewProgram(
		model,
		tea.WithOutput(output),
		tea.WithInput(input),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrValidate, "Host picker failed", "Pass the address instead: pem remove <ip>")
	}

	if m, ok := finalModel.(HostPickerModel); ok {
		return m.Selected(), nil
	}

	return nil, nil
}
