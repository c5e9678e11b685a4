package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/koscakluka/pullstring-core/core/responses"
)

var (
	characterStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	behaviorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)

	entityStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// renderResponse formats a response as display lines wrapped to width.
func renderResponse(response *responses.Response, width int) []string {
	if !response.Status.Success {
		return []string{errorStyle.Render(fmt.Sprintf("error %d: %s", response.Status.Code, response.Status.Message))}
	}

	var lines []string
	if response.ASRHypothesis != "" {
		lines = append(lines, renderUser("heard", response.ASRHypothesis, width))
	}

	for _, output := range response.Outputs {
		switch typed := output.(type) {
		case responses.Dialog:
			character := typed.Character
			if character == "" {
				character = "..."
			}
			lines = append(lines, wrap(characterStyle.Render(character+":")+" "+typed.Text, width))
		case responses.Behavior:
			lines = append(lines, behaviorStyle.Render(renderBehavior(typed)))
		}
	}

	for _, entity := range response.Entities {
		lines = append(lines, entityStyle.Render(renderEntity(entity)))
	}
	return lines
}

func renderUser(label, text string, width int) string {
	return wrap(userStyle.Render(label+":")+" "+text, width)
}

func renderBehavior(behavior responses.Behavior) string {
	if len(behavior.Parameters) == 0 {
		return fmt.Sprintf("[%s]", behavior.Name)
	}

	names := make([]string, 0, len(behavior.Parameters))
	for name := range behavior.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	parameters := make([]string, 0, len(names))
	for _, name := range names {
		parameters = append(parameters, name+"="+behavior.Parameters[name].String())
	}
	return fmt.Sprintf("[%s %s]", behavior.Name, strings.Join(parameters, " "))
}

func renderEntity(entity responses.Entity) string {
	return fmt.Sprintf("%s (%s) = %v", responses.EntityName(entity), responses.EntityTypeOf(entity), responses.EntityValue(entity))
}

func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}
