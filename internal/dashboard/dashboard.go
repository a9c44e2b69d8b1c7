// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package dashboard implements the "vibecraft watch" live status view: a
// small bubbletea program that polls the Client Bridge's connection
// state and renders it with lipgloss styling, refreshed on a timer.
//
// Grounded on the teacher's lib/ticketui package (lipgloss.NewStyle
// chains for row rendering, a tea.Tick-driven timer loop) but scaled
// down to a single-pane status readout rather than a full two-pane
// list/detail viewer — VibeCraft's dashboard has one thing to show:
// bridge health.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vibecraft/vibecraft/internal/clientbridge"
)

const pollInterval = 1 * time.Second

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("120")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// tickMsg drives the poll loop.
type tickMsg struct{}

// Model is the bubbletea model for "vibecraft watch".
type Model struct {
	bridge *clientbridge.Bridge
	width  int
}

// New builds a watch Model bound to a running Bridge.
func New(bridge *clientbridge.Bridge) Model {
	return Model{bridge: bridge}
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		return m, tick()
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("vibecraft bridge status"))
	b.WriteString("\n\n")

	state := m.bridge.State()
	stateValue := valueStyle.Render(string(state))
	if state == clientbridge.Ready {
		stateValue = okStyle.Render(string(state))
	} else if state == clientbridge.Disconnected {
		stateValue = warnStyle.Render(string(state))
	}
	row(&b, "state", stateValue)

	backoff := m.bridge.BackoffStatus()
	row(&b, "reconnects", valueStyle.Render(fmt.Sprintf("%d", backoff.Attempts)))
	if !backoff.LastFailure.IsZero() {
		row(&b, "last failure", valueStyle.Render(backoff.LastFailure.Format(time.RFC3339)))
	}

	row(&b, "worldedit", valueStyle.Render(fmt.Sprintf("%v", m.bridge.WorldEditAvailable())))

	caps := m.bridge.Capabilities()
	if len(caps) > 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("capabilities"))
		b.WriteString("\n")
		for k, v := range caps {
			b.WriteString(fmt.Sprintf("  %s: %v\n", k, v))
		}
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("press q to quit"))
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label))
	b.WriteString(value)
	b.WriteString("\n")
}
