package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wilbur182/marquee/internal/carousel"
	"github.com/wilbur182/marquee/internal/config"
	"github.com/wilbur182/marquee/internal/styles"
)

func newStyleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "style",
		Short: "Show or change the saved carousel style",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the saved style",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cfg.UI.Carousel.Style)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List available styles",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				for _, s := range carousel.Styles() {
					marker := " "
					if s.String() == cfg.UI.Carousel.Style {
						marker = "*"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %-6s %s\n", marker, s, styles.GetTheme(s).DisplayName)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:       "set <light|dark|white>",
			Short:     "Save the style used at startup",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"light", "dark", "white"},
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := carousel.ParseStyle(args[0])
				if err != nil {
					return err
				}
				if err := config.SaveStyle(s.String()); err != nil {
					return fmt.Errorf("save style: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "style = %s\n", s)
				return nil
			},
		},
	)
	return cmd
}
