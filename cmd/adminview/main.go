// Package main implements a small terminal viewer that polls a node's admin
// endpoint and renders its recovery and role status.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const pollInterval = 500 * time.Millisecond

// adminState mirrors raft.AdminState's wire shape without importing the
// raft package — this is a viewer of an HTTP surface, not a process
// embedding a Node.
type adminState struct {
	ID          string   `json:"id"`
	Role        string   `json:"role"`
	Status      string   `json:"status"`
	Term        uint64   `json:"term"`
	LastApplied uint64   `json:"last_applied"`
	CommitIndex uint64   `json:"commit_index"`
	LastIndex   uint64   `json:"last_index"`
	Peers       []string `json:"peers"`
	Err         string   `json:"error,omitempty"`
}

type uiStyles struct {
	dotHealthy  lipgloss.Style
	dotDegraded lipgloss.Style
	dotUnavail  lipgloss.Style
	header      lipgloss.Style
	label       lipgloss.Style
	value       lipgloss.Style
	roleLeader  lipgloss.Style
	roleFollow  lipgloss.Style
	errLine     lipgloss.Style
	footer      lipgloss.Style
}

var styles = uiStyles{
	dotHealthy:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
	dotDegraded: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
	dotUnavail:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
	label:       lipgloss.NewStyle().Faint(true),
	value:       lipgloss.NewStyle().Bold(true),
	roleLeader:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
	roleFollow:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	errLine:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	footer:      lipgloss.NewStyle().Faint(true),
}

type tickMsg time.Time

type stateMsg struct {
	state adminState
	ts    time.Time
	err   error
}

type model struct {
	addr     string
	client   *http.Client
	state    adminState
	ts       time.Time
	fetchErr error
}

func newModel(addr string) model {
	return model{addr: addr, client: &http.Client{Timeout: 2 * time.Second}}
}

func (m model) Init() tea.Cmd {
	return m.pollCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	case tickMsg:
		return m, m.pollCmd()
	case stateMsg:
		m.state = msg.state
		m.ts = msg.ts
		m.fetchErr = msg.err
		tickFn := func(t time.Time) tea.Msg { return tickMsg(t) }
		return m, tea.Tick(pollInterval, tickFn)
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString("  ")
	b.WriteString(styles.header.Render("consensus-lab admin view"))
	b.WriteString("  ")
	b.WriteString(styles.footer.Render(m.addr))
	b.WriteString("\n\n")

	if m.fetchErr != nil {
		b.WriteString("  ")
		b.WriteString(styles.dotUnavail.Render("●"))
		b.WriteString(" unreachable: ")
		b.WriteString(styles.errLine.Render(m.fetchErr.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString("  ")
		b.WriteString(renderStatusDot(m.state.Status))
		b.WriteString(" ")
		b.WriteString(styles.value.Render(m.state.ID))
		b.WriteString("  ")
		b.WriteString(renderRole(m.state.Role))
		b.WriteString("\n\n")

		b.WriteString(renderField("term", fmt.Sprint(m.state.Term)))
		b.WriteString(renderField("commit_index", fmt.Sprint(m.state.CommitIndex)))
		b.WriteString(renderField("last_applied", fmt.Sprint(m.state.LastApplied)))
		b.WriteString(renderField("last_index", fmt.Sprint(m.state.LastIndex)))
		b.WriteString(renderField("peers", strings.Join(m.state.Peers, ",")))
		if m.state.Err != "" {
			b.WriteString("\n")
			b.WriteString("  ")
			b.WriteString(styles.errLine.Render("node error: " + m.state.Err))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n  ")
	b.WriteString(styles.footer.Render(m.ts.Format(time.RFC3339) + "  (q to quit)"))
	b.WriteString("\n")
	return b.String()
}

func renderField(label, value string) string {
	return fmt.Sprintf("  %s %s\n", styles.label.Render(fmt.Sprintf("%-14s", label)), styles.value.Render(value))
}

func renderRole(role string) string {
	switch strings.ToLower(role) {
	case "leader":
		return styles.roleLeader.Render(role)
	case "follower":
		return styles.roleFollow.Render(role)
	default:
		return role
	}
}

func renderStatusDot(status string) string {
	switch status {
	case "healthy":
		return styles.dotHealthy.Render("●")
	case "degraded":
		return styles.dotDegraded.Render("●")
	default:
		return styles.dotUnavail.Render("●")
	}
}

func (m model) pollCmd() tea.Cmd {
	addr, client := m.addr, m.client
	return func() tea.Msg {
		state, err := fetchState(client, addr)
		return stateMsg{state: state, ts: time.Now(), err: err}
	}
}

func fetchState(client *http.Client, addr string) (adminState, error) {
	resp, err := client.Get(strings.TrimRight(addr, "/") + "/admin/state")
	if err != nil {
		return adminState{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return adminState{}, fmt.Errorf("admin endpoint returned %s", resp.Status)
	}

	var state adminState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return adminState{}, fmt.Errorf("decode admin state: %w", err)
	}
	return state, nil
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "node admin address")
	flag.Parse()

	p := tea.NewProgram(newModel(*addr))
	if _, err := p.Run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "adminview: %v\n", err)
		os.Exit(1)
	}
}
