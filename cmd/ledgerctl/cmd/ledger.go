package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verifica el balance del diario y los asientos de cada documento",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.container.Accounting.Verify(cmd.Context(), systemActor)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.OK {
				return fmt.Errorf("el diario tiene inconsistencias")
			}
			return nil
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Totales del diario por cuenta",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.container.Accounting.Summary(cmd.Context(), systemActor, f.query())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	f.register(cmd)
	return cmd
}

func newBackfillCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Registra los asientos faltantes de facturas, pagos y comprobantes",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.container.Accounting.Backfill(cmd.Context(), systemActor)
			if err != nil {
				return err
			}
			a.log.Info().Int("posted", out.Count).Msg("backfill terminado")
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		f   filterFlags
		out string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exporta el diario filtrado a Excel",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.container.Accounting.ExportXLSX(cmd.Context(), systemActor, f.query())
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", out, len(data))
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "diario.xlsx", "archivo de salida")
	return cmd
}
