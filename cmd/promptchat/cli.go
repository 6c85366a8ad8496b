package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func executeCLI() error {
	return buildRootCommand().Execute()
}

func buildRootCommand() *cobra.Command {
	var showVersion bool

	root := &cobra.Command{
		Use:   "promptchat",
		Short: "Multi-turn chat service with swappable generation backends",
		Long: strings.TrimSpace(`promptchat manages conversational sessions between clients and
local text-generation backends.

Use CLI commands to onboard, chat locally, run the HTTP gateway, and inspect
models and sessions.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				printVersion()
				return nil
			}
			_ = cmd.Help()
			return fmt.Errorf("a subcommand is required")
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.Flags().BoolVarP(&showVersion, "version", "v", false, "Show build/version metadata")

	root.AddCommand(newOnboardCommand())
	root.AddCommand(newChatCommand())
	root.AddCommand(newServeCommand())
	root.AddCommand(newStatusCommand())
	root.AddCommand(newModelsCommand())
	root.AddCommand(newSessionsCommand())
	root.AddCommand(newVersionCommand())

	return root
}

func runLegacyWithArgs(args []string, fn func()) error {
	original := os.Args
	os.Args = append([]string{original[0]}, args...)
	defer func() {
		os.Args = original
	}()
	fn()
	return nil
}

func newOnboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "onboard",
		Short:   "Initialize ~/.promptchat config",
		Long:    "Create the default configuration file for a new promptchat installation.",
		Example: "  promptchat onboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"onboard"}, onboard)
		},
	}
}

func newChatCommand() *cobra.Command {
	var (
		message string
		session string
		model   string
		task    string
		debug   bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a model locally (CLI mode)",
		Long:  "Run an interactive chat session or send a one-shot message without the HTTP gateway.",
		Example: strings.Join([]string{
			"  promptchat chat",
			"  promptchat chat -m \"こんにちは\"",
			"  promptchat chat --model tinyllama -m \"Hello\"",
			"  promptchat chat --task image_prompt_generation -m \"ダンススタジオの画像のプロンプトを作成してください\"",
		}, "\n"),
		RunE: func(cmd *cobra.Command, args []string) error {
			legacyArgs := []string{"chat"}
			if debug {
				legacyArgs = append(legacyArgs, "--debug")
			}
			if strings.TrimSpace(message) != "" {
				legacyArgs = append(legacyArgs, "--message", message)
			}
			if strings.TrimSpace(session) != "" {
				legacyArgs = append(legacyArgs, "--session", session)
			}
			if strings.TrimSpace(model) != "" {
				legacyArgs = append(legacyArgs, "--model", model)
			}
			if strings.TrimSpace(task) != "" {
				legacyArgs = append(legacyArgs, "--task", task)
			}
			return runLegacyWithArgs(legacyArgs, chatCmd)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "One-shot message to send")
	cmd.Flags().StringVarP(&session, "session", "s", "", "Session id for continuity")
	cmd.Flags().StringVar(&model, "model", "", "Model key (see 'promptchat models')")
	cmd.Flags().StringVar(&task, "task", "", "Task type override (general, image_prompt_generation, image_prompt_improvement)")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	return cmd
}

func newServeCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP gateway + session janitor",
		Long:    "Start the REST API, the session cleanup scheduler, and the quality verdict log.",
		Example: "  promptchat serve --debug",
		RunE: func(cmd *cobra.Command, args []string) error {
			legacyArgs := []string{"serve"}
			if debug {
				legacyArgs = append(legacyArgs, "--debug")
			}
			return runLegacyWithArgs(legacyArgs, serveCmd)
		},
	}

	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show configuration and runtime readiness",
		Example: "  promptchat status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"status"}, statusCmd)
		},
	}
}

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "models",
		Short:   "List the chat model catalog",
		Example: "  promptchat models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"models"}, modelsCmd)
		},
	}
}

func newSessionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "sessions",
		Short:   "List active sessions on a running gateway",
		Example: "  promptchat sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegacyWithArgs([]string{"sessions"}, sessionsCmd)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Show build/version metadata",
		Example: "  promptchat version",
		RunE: func(cmd *cobra.Command, args []string) error {
			printVersion()
			return nil
		},
	}
}
