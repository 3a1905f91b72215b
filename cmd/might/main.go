package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/christopherklint97/might/internal/config"
	"github.com/christopherklint97/might/internal/credentials"
	"github.com/christopherklint97/might/internal/flow"
	"github.com/christopherklint97/might/internal/mite"
	"github.com/christopherklint97/might/internal/tui"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "might",
	Short:         "Log time to mite from the terminal",
	Long:          "might asks for a customer, project, service, hours and a note, then creates the time entry in mite.",
	Args:          cobra.NoArgs,
	RunE:          runLog,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's time entries",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects with their customers",
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Store the mite API key in the system keyring",
	Args:  cobra.NoArgs,
	RunE:  runAuth,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open config file in your editor",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Write debug logs to stderr")
	authCmd.Flags().Bool("delete", false, "Remove the stored API key")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newClient loads the config and resolves the API key. Failing here means
// no request has been sent yet.
func newClient(cmd *cobra.Command) (*config.Config, *mite.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	apiKey, err := credentials.Resolve(cfg)
	if err != nil {
		return nil, nil, err
	}

	client := mite.NewClient(apiKey, mite.Options{
		BaseURL: cfg.Mite.BaseURL,
		Version: version,
		Timeout: cfg.Timeout(),
		Logger:  newLogger(cmd),
	})
	return cfg, client, nil
}

func runLog(cmd *cobra.Command, args []string) error {
	cfg, client, err := newClient(cmd)
	if err != nil {
		return err
	}

	prompter := tui.NewPrompter(tui.Options{PageSize: cfg.Prompt.PageSize})
	f := flow.New(client, prompter, cmd.OutOrStdout(), flow.Options{
		DefaultHours: cfg.Prompt.DefaultHours,
		Logger:       newLogger(cmd),
	})

	err = f.Run(cmd.Context())
	if errors.Is(err, tui.ErrCanceled) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Canceled, nothing was logged.")
		return nil
	}
	return err
}

func runStatus(cmd *cobra.Command, args []string) error {
	_, client, err := newClient(cmd)
	if err != nil {
		return err
	}

	entries, err := client.ListTimeEntries(cmd.Context(), "today")
	if err != nil {
		return err
	}

	flow.RenderDay(cmd.OutOrStdout(), entries)
	return nil
}

func runProjects(cmd *cobra.Command, args []string) error {
	_, client, err := newClient(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	customers, err := client.ListCustomers(ctx)
	if err != nil {
		return err
	}
	projects, err := client.ListProjects(ctx)
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Found %d projects:\n\n", len(projects))
	flow.RenderProjects(cmd.OutOrStdout(), customers, projects)
	return nil
}

func runAuth(cmd *cobra.Command, args []string) error {
	if del, _ := cmd.Flags().GetBool("delete"); del {
		if err := credentials.Delete(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "API key removed from keyring.")
		return nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), "mite API key: ")
	key, err := readSecret()
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("reading API key: %w", err)
	}

	if err := credentials.Store(key); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "API key stored in keyring.")
	return nil
}

// readSecret reads a line from stdin without echo when stdin is a terminal.
func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.WriteDefault(configPath); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Opening %s with %s...\n", configPath, editor)

	c := exec.CommandContext(cmd.Context(), editor, configPath)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := c.Run(); err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Could not open editor. Config file is at: %s\n", configPath)
	}
	return nil
}
