package cli

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	conversation "github.com/koscakluka/pullstring-core/core"
	"github.com/koscakluka/pullstring-core/core/audio"
	"github.com/koscakluka/pullstring-core/core/responses"
)

const chatHelp = "enter send • ctrl+t push to talk • /event /goto /activity /get /set /timed • esc quit"

type responseMsg struct {
	response *responses.Response
}

type timedResponseMsg struct{}

// programSender delivers messages to the program once it runs.
type programSender struct {
	program atomic.Pointer[tea.Program]
}

func (s *programSender) send(msg tea.Msg) {
	if program := s.program.Load(); program != nil {
		program.Send(msg)
	}
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat interactively, by text or push-to-talk",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sender := &programSender{}
		timer := newTimedResponseTimer(func() { sender.send(timedResponseMsg{}) })

		r, started, err := newRunner(ctx, cfg, conversation.WithTimedResponseCallback(timer.Schedule))
		if err != nil {
			return err
		}
		defer r.Close()
		defer timer.Cancel()

		// Listeners can run inside Update for calls that fail locally.
		r.forwardTo(func(response *responses.Response) {
			go sender.send(responseMsg{response: response})
		})

		model := newChatModel(ctx, r, timer)
		model.lines = append(model.lines, renderResponse(started, 0)...)

		program := tea.NewProgram(model, tea.WithAltScreen())
		sender.program.Store(program)

		final, err := program.Run()
		if m, ok := final.(chatModel); ok {
			m.close()
		}
		return err
	},
}

type chatModel struct {
	ctx    context.Context
	runner *runner
	timer  *timedResponseTimer

	input    textinput.Model
	viewport viewport.Model
	ready    bool
	width    int
	lines    []string

	capture   audio.Capture
	recording bool
}

func newChatModel(ctx context.Context, r *runner, timer *timedResponseTimer) chatModel {
	input := textinput.New()
	input.Placeholder = "Say something..."
	input.Prompt = "> "
	input.CharLimit = 500
	input.Focus()

	return chatModel{
		ctx:    ctx,
		runner: r,
		timer:  timer,
		input:  input,
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := max(msg.Height-3, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.input.Width = max(msg.Width-4, 1)
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlT:
			m.toggleRecording()
			return m, nil
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line != "" {
				m.submit(line)
			}
			return m, nil
		}

	case responseMsg:
		m.append(renderResponse(msg.response, m.width)...)

	case timedResponseMsg:
		m.runner.conv.CheckForTimedResponse(m.ctx)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m chatModel) View() string {
	if !m.ready {
		return "Connecting..."
	}

	status := hintStyle.Render(chatHelp)
	if m.recording {
		status = errorStyle.Render("● recording, ctrl+t to send")
	}
	return fmt.Sprintf("%s\n%s\n%s", m.viewport.View(), m.input.View(), status)
}

func (m *chatModel) submit(line string) {
	m.timer.Cancel()
	m.append(renderUser("you", line, m.width))

	if err := parseChatInput(line).run(m.ctx, m.runner.conv); err != nil {
		m.append(errorStyle.Render(err.Error()))
	}
}

func (m *chatModel) toggleRecording() {
	if m.recording {
		if err := m.capture.StopCapture(); err != nil {
			m.append(errorStyle.Render(fmt.Sprintf("failed to stop recording: %v", err)))
		}
		m.runner.conv.EndAudio()
		m.recording = false
		return
	}

	if m.capture == nil {
		capture, err := newCapture(cfg)
		if err != nil {
			m.append(errorStyle.Render(fmt.Sprintf("failed to open microphone: %v", err)))
			return
		}
		m.capture = capture
	}

	m.timer.Cancel()
	conv := m.runner.conv
	conv.StartAudio(m.ctx)
	if err := m.capture.StartCapture(m.ctx, conv.AddAudio); err != nil {
		conv.EndAudio()
		m.append(errorStyle.Render(fmt.Sprintf("failed to start recording: %v", err)))
		return
	}
	m.recording = true
}

func (m *chatModel) append(lines ...string) {
	m.lines = append(m.lines, lines...)
	m.refresh()
}

func (m *chatModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

func (m chatModel) close() {
	if m.capture == nil {
		return
	}
	if m.recording {
		m.capture.StopCapture()
		m.runner.conv.EndAudio()
	}
	m.capture.Close()
}

// chatCommand is one line typed into the chat. A line starting with a
// slash names an operation, anything else is text.
type chatCommand struct {
	name string
	args []string
	text string
}

func parseChatInput(line string) chatCommand {
	if !strings.HasPrefix(line, "/") {
		return chatCommand{text: line}
	}

	fields := strings.Fields(strings.TrimPrefix(line, "/"))
	if len(fields) == 0 {
		return chatCommand{text: line}
	}
	return chatCommand{name: fields[0], args: fields[1:]}
}

func (c chatCommand) run(ctx context.Context, conv *conversation.Conversation) error {
	switch c.name {
	case "":
		conv.SendText(ctx, c.text)
	case "event":
		if len(c.args) == 0 {
			return fmt.Errorf("usage: /event <name> [param=value...]")
		}
		parameters, err := parseParameters(c.args[1:])
		if err != nil {
			return err
		}
		conv.SendEvent(ctx, c.args[0], parameters)
	case "goto":
		if len(c.args) != 1 {
			return fmt.Errorf("usage: /goto <response-id>")
		}
		conv.GoTo(ctx, c.args[0])
	case "activity":
		if len(c.args) != 1 {
			return fmt.Errorf("usage: /activity <name-or-id>")
		}
		conv.SendActivity(ctx, c.args[0])
	case "get":
		if len(c.args) == 0 {
			return fmt.Errorf("usage: /get <name...>")
		}
		conv.GetEntities(ctx, c.args)
	case "set":
		entities, err := parseEntities(c.args)
		if err != nil {
			return err
		}
		if len(entities) == 0 {
			return fmt.Errorf("usage: /set <name=value...>")
		}
		conv.SetEntities(ctx, entities)
	case "timed":
		conv.CheckForTimedResponse(ctx)
	default:
		return fmt.Errorf("unknown command /%s", c.name)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

