package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/wilbur182/marquee/internal/features"
)

func newFlagsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flags",
		Short: "Inspect and change feature flags",
	}
	cmd.AddCommand(
		newFlagsListCommand(opts),
		newFlagsGetCommand(opts),
		newFlagsSetCommand(opts),
		newFlagsUnsetCommand(opts),
	)
	return cmd
}

func newFlagsListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List feature flags and their effective values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts, false)
			if err != nil {
				return err
			}
			defer e.Close()

			fmt.Fprintln(cmd.OutOrStdout(), flagTable(e.manager))
			return nil
		},
	}
}

// flagTable renders every flag the manager knows about.
func flagTable(m *features.Manager) string {
	known := make(map[string]features.Feature)
	for _, f := range features.ListAll() {
		known[f.Name] = f
	}
	values := m.List()

	rows := make([][]string, 0, len(values))
	for _, name := range m.Names() {
		def, desc := "-", "(not a built-in flag)"
		if f, ok := known[name]; ok {
			def = strconv.FormatBool(f.Default)
			desc = f.Description
		}
		rows = append(rows, []string{name, strconv.FormatBool(values[name]), def, desc})
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("FLAG", "ENABLED", "DEFAULT", "DESCRIPTION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		String()
}

func newFlagsGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <flag>",
		Short: "Print a flag's effective value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts, false)
			if err != nil {
				return err
			}
			defer e.Close()

			name := args[0]
			if !features.IsKnownFeature(name) {
				e.logger.Warn("unknown feature flag", "flag", name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.manager.IsEnabled(name))
			return nil
		},
	}
}

func newFlagsSetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <flag> <true|false>",
		Short: "Persist a flag value to the flag store, or the config file without one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			enabled, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q for %s: want true or false", args[1], name)
			}

			e, err := setup(opts, false)
			if err != nil {
				return err
			}
			defer e.Close()

			if !features.IsKnownFeature(name) {
				e.logger.Warn("setting unknown feature flag", "flag", name)
			}
			if err := e.manager.SetEnabled(name, enabled); err != nil {
				return fmt.Errorf("set %s: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %t\n", name, enabled)
			return nil
		},
	}
}

func newFlagsUnsetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unset <flag>",
		Short: "Remove a persisted flag value so the flag falls back to config or its default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts, false)
			if err != nil {
				return err
			}
			defer e.Close()

			name := args[0]
			if err := e.manager.Unset(name); err != nil {
				return fmt.Errorf("unset %s: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %t\n", name, e.manager.IsEnabled(name))
			return nil
		},
	}
}
