package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/rileyhilliard/pem/internal/errors"
	"github.com/rileyhilliard/pem/internal/ui"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	addIPFlag           string
	addNameFlag         string
	addCodeFlag         string
	addCityFlag         string
	addIPv6Flag         bool
	addIPv6AddressFlag  string
	addAuthUserFlag     string
	addAuthPasswordFlag string
	addNoAuthFlag       bool
	removeYesFlag       bool
	removePickFlag      bool
)

// addCmd registers a host in all three files
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Start monitoring a host",
	Long: `Add a host to the Prometheus scrape config and the blackbox target lists,
then restart Prometheus.

Anything not passed as a flag is asked for interactively. With --ip, --name,
--code and --city all set, no questions are asked.

Examples:
  pem add
  pem add --ip 192.168.1.1 --name HK-Alice --code HKG --city "Hong Kong"
  pem add --ip 192.168.1.1:9101 --name HK-Alice --code HKG --city "Hong Kong" \
      --ipv6-address 2001:db8::1 --auth-user prom --auth-password s3cret`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(os.Stdin, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return runAdd(cmd.Context(), app, AddInput{
			IP:           addIPFlag,
			Name:         addNameFlag,
			Code:         addCodeFlag,
			City:         addCityFlag,
			MonitorIPv6:  addIPv6Flag,
			IPv6Address:  addIPv6AddressFlag,
			AuthUser:     addAuthUserFlag,
			AuthPassword: addAuthPasswordFlag,
			NoAuth:       addNoAuthFlag,
		})
	},
}

// removeCmd deletes every trace of a host
var removeCmd = &cobra.Command{
	Use:     "remove [ip]",
	Aliases: []string{"rm"},
	Short:   "Stop monitoring a host",
	Long: `Remove a host from the Prometheus scrape config and the blackbox target
lists, then restart Prometheus.

The address may carry a port. Without one, every target on that IP is removed.

Examples:
  pem remove 192.168.1.1
  pem remove 192.168.1.1:9101 --yes
  pem remove --pick`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(os.Stdin, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return runRemove(cmd.Context(), app, args, removePickFlag, removeYesFlag)
	},
}

// listCmd shows the monitored hosts
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List monitored hosts",
	Long: `Show every host found in the Prometheus scrape config and the blackbox
target lists, and flag hosts missing from any of them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(os.Stdin, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return app.ListHosts()
	},
}

// menuCmd opens the interactive menu, same as running pem with no command
var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Open the interactive menu",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return menuCommand(cmd)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for pem.

Examples:
  # Bash
  pem completion bash > /etc/bash_completion.d/pem

  # Zsh
  pem completion zsh > "${fpath[1]}/_pem"

  # Fish
  pem completion fish > ~/.config/fish/completions/pem.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrValidate,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// add command flags
	addCmd.Flags().StringVar(&addIPFlag, "ip", "", "host IPv4 address, optionally with :port")
	addCmd.Flags().StringVar(&addNameFlag, "name", "", "instance name, e.g. HK-Alice")
	addCmd.Flags().StringVar(&addCodeFlag, "code", "", "airport or location code, e.g. HKG")
	addCmd.Flags().StringVar(&addCityFlag, "city", "", "city the host is in")
	addCmd.Flags().BoolVar(&addIPv6Flag, "ipv6", false, "monitor the host over IPv6 too")
	addCmd.Flags().StringVar(&addIPv6AddressFlag, "ipv6-address", "", "IPv6 address for the IPv6 target list (implies --ipv6)")
	addCmd.Flags().StringVar(&addAuthUserFlag, "auth-user", "", "basic auth username for blackbox_exporter")
	addCmd.Flags().StringVar(&addAuthPasswordFlag, "auth-password", "", "basic auth password for blackbox_exporter")
	addCmd.Flags().BoolVar(&addNoAuthFlag, "no-auth", false, "don't ask about basic auth")
	addCmd.MarkFlagsMutuallyExclusive("no-auth", "auth-user")
	addCmd.MarkFlagsMutuallyExclusive("no-auth", "auth-password")

	// remove command flags
	removeCmd.Flags().BoolVarP(&removeYesFlag, "yes", "y", false, "don't ask for confirmation")
	removeCmd.Flags().BoolVar(&removePickFlag, "pick", false, "choose the host from a list")

	// Register all commands
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(completionCmd)
}

// runAdd asks for whatever in is missing, then adds the host. Values given
// up front are checked before any question is asked.
func runAdd(ctx context.Context, app *App, in AddInput) error {
	if in.IPv6Address != "" {
		in.MonitorIPv6 = true
	}
	if err := checkFlagValues(in); err != nil {
		return err
	}

	if !in.Complete() {
		if err := app.Prompt.CompleteAdd(&in); err != nil {
			return cancelled(app, err)
		}
	}

	return app.AddHost(ctx, in.Request())
}

func checkFlagValues(in AddInput) error {
	if in.IP != "" {
		if err := checkIPv4(in.IP); err != nil {
			return err
		}
	}
	if err := validateIPv6Input(in.IPv6Address); err != nil {
		return errors.New(errors.ErrValidate,
			fmt.Sprintf("'%s' isn't a valid IPv6 address", in.IPv6Address),
			"Use a form like 2001:db8::1.")
	}
	if in.Name != "" {
		if err := validateInstanceInput(in.Name); err != nil {
			return errors.New(errors.ErrValidate, "Invalid instance name: "+err.Error(), "Pick a name like HK-Alice.")
		}
	}
	return nil
}

// runRemove resolves which host to remove, confirms, then removes it.
func runRemove(ctx context.Context, app *App, args []string, pick, yes bool) error {
	var host string
	switch {
	case len(args) == 1:
		host = args[0]
	case pick:
		hosts, err := app.Hosts()
		if err != nil {
			return err
		}
		choice, err := app.Prompt.PickHost(pickerHosts(hosts, app.Cfg.Ports.Node))
		if err != nil {
			return cancelled(app, err)
		}
		if choice == nil {
			printNote(app.Out, "Cancelled.")
			return nil
		}
		host = choice.Address
	default:
		addr, err := app.Prompt.RemoveAddress()
		if err != nil {
			return cancelled(app, err)
		}
		host = addr
	}

	if err := checkIPv4(host); err != nil {
		return err
	}

	if !yes && !app.DryRun {
		ok, err := app.Prompt.Confirm(fmt.Sprintf("Remove %s from all monitoring files?", host))
		if err != nil {
			return cancelled(app, err)
		}
		if !ok {
			printNote(app.Out, "Cancelled.")
			return nil
		}
	}

	return app.RemoveHost(ctx, host)
}

// menuCommand opens the interactive menu.
func menuCommand(cmd *cobra.Command) error {
	app, err := newApp(os.Stdin, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ui.PrintHeader(app.Out, ui.HeaderInfo{
		Version: formatVersion(version),
		Config:  app.Cfg.PrometheusConfig,
		Restart: app.Activator.Describe(),
	})
	return runMenu(cmd.Context(), app)
}

// runMenu loops until the operator quits. Errors from a single action are
// shown and the menu comes back, except errors that make every further
// action fail too (a missing or broken file, unusable settings).
func runMenu(ctx context.Context, app *App) error {
	for {
		choice, err := app.Prompt.MenuChoice()
		if err != nil {
			return err
		}

		switch choice {
		case choiceAdd:
			err = runAdd(ctx, app, AddInput{})
		case choiceRemove:
			err = runRemove(ctx, app, nil, false, false)
		case choiceList:
			err = app.ListHosts()
		default:
			return nil
		}

		if err != nil {
			if errors.IsFatal(err) {
				return err
			}
			fmt.Fprint(app.Out, renderError(err))
		}
		fmt.Fprintln(app.Out)
	}
}

// cancelled turns a backed-out prompt into a note. Other errors pass through.
func cancelled(app *App, err error) error {
	if stderrors.Is(err, errCancelled) {
		printNote(app.Out, "Cancelled.")
		return nil
	}
	return err
}
