package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koscakluka/pullstring-core/core/responses"
)

var sayCmd = &cobra.Command{
	Use:   "say <text>",
	Short: "Send a line of text and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		return runOnce(cmd.Context(), func(ctx context.Context, r *runner) (*responses.Response, error) {
			return r.call(ctx, func() { r.conv.SendText(ctx, text) })
		})
	},
}

var activityCmd = &cobra.Command{
	Use:   "activity <name-or-id>",
	Short: "Trigger an activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd.Context(), func(ctx context.Context, r *runner) (*responses.Response, error) {
			return r.call(ctx, func() { r.conv.SendActivity(ctx, args[0]) })
		})
	},
}

var eventCmd = &cobra.Command{
	Use:   "event <name> [param=value...]",
	Short: "Send an event with optional parameters",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parameters, err := parseParameters(args[1:])
		if err != nil {
			return err
		}
		return runOnce(cmd.Context(), func(ctx context.Context, r *runner) (*responses.Response, error) {
			return r.call(ctx, func() { r.conv.SendEvent(ctx, args[0], parameters) })
		})
	},
}

var gotoCmd = &cobra.Command{
	Use:   "goto <response-id>",
	Short: "Jump to a response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd.Context(), func(ctx context.Context, r *runner) (*responses.Response, error) {
			return r.call(ctx, func() { r.conv.GoTo(ctx, args[0]) })
		})
	},
}

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "Read or write entity values",
}

var entitiesGetCmd = &cobra.Command{
	Use:   "get <name...>",
	Short: "Print the values of entities",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd.Context(), func(ctx context.Context, r *runner) (*responses.Response, error) {
			return r.call(ctx, func() { r.conv.GetEntities(ctx, args) })
		})
	},
}

var entitiesSetCmd = &cobra.Command{
	Use:   "set <name=value...>",
	Short: "Set entity values",
	Long: `Set entity values. Values that are valid JSON keep their JSON type, so
score=3 sets a counter, done=true a flag and items='["a","b"]' a list.
Anything else sets a label.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entities, err := parseEntities(args)
		if err != nil {
			return err
		}
		return runOnce(cmd.Context(), func(ctx context.Context, r *runner) (*responses.Response, error) {
			return r.call(ctx, func() { r.conv.SetEntities(ctx, entities) })
		})
	},
}

// runOnce starts the conversation, runs a single call and prints both
// responses.
func runOnce(ctx context.Context, call func(context.Context, *runner) (*responses.Response, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}

	r, started, err := newRunner(ctx, cfg)
	if started != nil {
		printResponse(started)
	}
	if err != nil {
		return err
	}
	defer r.Close()

	response, err := call(ctx, r)
	if response != nil {
		printResponse(response)
	}
	return err
}

func printResponse(response *responses.Response) {
	for _, line := range renderResponse(response, 0) {
		fmt.Fprintln(os.Stdout, line)
	}
}

func init() {
	entitiesCmd.AddCommand(entitiesGetCmd, entitiesSetCmd)
	rootCmd.AddCommand(sayCmd, activityCmd, eventCmd, gotoCmd, entitiesCmd)
}
