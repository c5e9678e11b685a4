package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/koscakluka/pullstring-core/internal/sessions"
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("62"))

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage remembered conversations",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remembered conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sessions.Open(cfg.SessionDB)
		if err != nil {
			return err
		}
		defer store.Close()

		stored, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(stored) == 0 {
			fmt.Println(hintStyle.Render("No remembered conversations."))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, headerStyle.Render("PROJECT")+"\t"+headerStyle.Render("PARTICIPANT")+"\t"+headerStyle.Render("CONVERSATION")+"\t"+headerStyle.Render("UPDATED"))
		for _, session := range stored {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", session.Project, session.ParticipantID, session.ConversationID, session.UpdatedAt.Format(time.DateTime))
		}
		return w.Flush()
	},
}

var sessionsForgetCmd = &cobra.Command{
	Use:   "forget [project]",
	Short: "Forget the conversation with a project",
	Long:  `Forget the conversation with a project, the configured one if none is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project := cfg.Project
		if len(args) == 1 {
			project = args[0]
		}
		if project == "" {
			return fmt.Errorf("no project given")
		}

		store, err := sessions.Open(cfg.SessionDB)
		if err != nil {
			return err
		}
		defer store.Close()

		return store.Forget(cmd.Context(), project)
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd, sessionsForgetCmd)
	rootCmd.AddCommand(sessionsCmd)
}
