// Command convitectl runs bulk imports, exports and password hashing
// against the configured database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gravadigital/convite-api/internal/auth"
	"github.com/gravadigital/convite-api/internal/config"
	"github.com/gravadigital/convite-api/internal/importer"
	"github.com/gravadigital/convite-api/internal/logger"
	"github.com/gravadigital/convite-api/internal/services"
	"github.com/gravadigital/convite-api/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "convitectl",
		Short:        "Manage the wedding invitation data from the command line",
		SilenceUsage: true,
	}

	root.AddCommand(newImportCmd(), newExportCmd(), newHashPasswordCmd())
	return root
}

// withServices opens the configured storage for one command run
func withServices(fn func(*services.Services) error) error {
	cfg := config.Load()
	logger.Initialize(cfg.Server.LogLevel)

	factory, err := storage.FromConfig(cfg)
	if err != nil {
		return err
	}
	store, err := factory.CreateContainer(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(services.New(cfg, services.Dependencies{Storage: store}))
}

func newImportCmd() *cobra.Command {
	var mappings []string

	cmd := &cobra.Command{
		Use:       "import invitees|rsvps FILE",
		Short:     "Import a .xlsx, .xls or .csv sheet",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"invitees", "rsvps"},
		RunE: func(cmd *cobra.Command, args []string) error {
			override, err := importer.ParseOverride(mappings)
			if err != nil {
				return err
			}

			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			return withServices(func(svc *services.Services) error {
				var summary *services.ImportSummary
				switch args[0] {
				case "invitees":
					summary, err = svc.Invitees.Import(cmd.Context(), args[1], f, override)
				case "rsvps":
					summary, err = svc.RSVPs.Import(cmd.Context(), args[1], f, override)
				default:
					return fmt.Errorf("unknown collection %q, expected invitees or rsvps", args[0])
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Mapping: %s\n", summary.Mapping)
				fmt.Fprintf(out, "Imported %d rows, skipped %d\n", summary.Imported, len(summary.Skipped))
				for _, s := range summary.Skipped {
					fmt.Fprintf(out, "  line %d: %s\n", s.Line, s.Reason)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVar(&mappings, "map", nil, "Force a column for a field, as field=header (repeatable)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:       "export rsvps|invitees|gifts",
		Short:     "Write a CSV or PDF report",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"rsvps", "invitees", "gifts"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			return withServices(func(svc *services.Services) error {
				rendered, err := svc.Reports.Render(cmd.Context(), w, services.ReportOptions{Kind: args[0], Format: format})
				if err != nil {
					return err
				}
				if out != "" && out != "-" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%s)\n", out, rendered.ContentType)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "Report format: csv or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password PASSWORD",
		Short: "Print the bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
