package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wasmbridge/greet-bridge/greeting"
	"github.com/wasmbridge/greet-bridge/runtime"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	rt       *runtime.Runtime
	module   *runtime.Module
	instance *runtime.Instance
	spin     spinner.Model
	source   string
	result   string
	batch    string
	calls    int
	loading  bool
	working  bool
}

type loadedMsg struct {
	err      error
	rt       *runtime.Runtime
	module   *runtime.Module
	instance *runtime.Instance
	source   string
}

type callMsg struct {
	err    error
	result string
}

type batchMsg struct {
	err     error
	count   int
	elapsed time.Duration
}

func newInteractiveModel(wasmFile string) *interactiveModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &interactiveModel{
		spin:    s,
		loading: true,
		source:  wasmFile,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, loadCmd(m.source))
}

func loadCmd(wasmFile string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		guest, source, err := loadGuest(wasmFile)
		if err != nil {
			return loadedMsg{err: err}
		}

		rt, err := runtime.New(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		if err := rt.RegisterHost(greeting.New()); err != nil {
			rt.Close(ctx)
			return loadedMsg{err: err}
		}
		mod, err := rt.Load(ctx, guest)
		if err != nil {
			rt.Close(ctx)
			return loadedMsg{err: err}
		}
		inst, err := mod.Instantiate(ctx)
		if err != nil {
			rt.Close(ctx)
			return loadedMsg{err: err}
		}

		return loadedMsg{rt: rt, module: mod, instance: inst, source: source}
	}
}

func (m *interactiveModel) callCmd() tea.Cmd {
	inst := m.instance
	return func() tea.Msg {
		result, err := inst.CallString(context.Background(), "greet")
		return callMsg{result: result, err: err}
	}
}

// batchCmd runs 100 concurrent invocations, one instance per goroutine, and
// verifies every result matches the constant.
func (m *interactiveModel) batchCmd() tea.Cmd {
	mod := m.module
	return func() tea.Msg {
		ctx := context.Background()
		const goroutines = 100

		start := time.Now()
		errs := make([]error, goroutines)

		var wg sync.WaitGroup
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				inst, err := mod.Instantiate(ctx)
				if err != nil {
					errs[idx] = err
					return
				}
				defer inst.Close(ctx)
				got, err := inst.CallString(ctx, "greet")
				if err != nil {
					errs[idx] = err
					return
				}
				if got != greeting.Message {
					errs[idx] = fmt.Errorf("got %q, want %q", got, greeting.Message)
				}
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return batchMsg{err: err}
			}
		}
		return batchMsg{count: goroutines, elapsed: time.Since(start)}
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.rt != nil {
				m.rt.Close(context.Background())
			}
			return m, tea.Quit
		case "enter":
			if m.loading || m.working || m.instance == nil {
				return m, nil
			}
			return m, m.callCmd()
		case "c":
			if m.loading || m.working || m.module == nil {
				return m, nil
			}
			m.working = true
			return m, tea.Batch(m.spin.Tick, m.batchCmd())
		}

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.rt = msg.rt
		m.module = msg.module
		m.instance = msg.instance
		m.source = msg.source
		return m, m.callCmd()

	case callMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.result = msg.result
		m.calls++
		return m, nil

	case batchMsg:
		m.working = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.batch = fmt.Sprintf("%d concurrent calls, all equal, %s", msg.count, msg.elapsed.Round(time.Microsecond))
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.working {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) View() string {
	s := titleStyle.Render("greet-bridge") + "\n\n"

	if m.loading {
		return s + m.spin.View() + " loading guest...\n"
	}

	if m.err != nil {
		s += errorStyle.Render("error: "+m.err.Error()) + "\n\n"
	}

	s += infoStyle.Render("guest: "+m.source) + "\n"
	if m.result != "" {
		s += fmt.Sprintf("greet() = %s\n", resultStyle.Render(fmt.Sprintf("%q", m.result)))
		s += infoStyle.Render(fmt.Sprintf("calls: %d", m.calls)) + "\n"
	}
	if m.working {
		s += m.spin.View() + " running concurrent batch...\n"
	} else if m.batch != "" {
		s += infoStyle.Render(m.batch) + "\n"
	}

	s += "\n" + helpStyle.Render("enter: call again • c: 100 concurrent calls • q: quit") + "\n"
	return s
}

func runInteractive(wasmFile string) error {
	p := tea.NewProgram(newInteractiveModel(wasmFile))
	_, err := p.Run()
	return err
}
