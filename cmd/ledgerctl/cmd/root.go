// Package cmd comandos de ledgerctl: mantenimiento del diario contable desde la terminal.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/ProjectLedger-api/internal/application/dto"
	"github.com/jhoicas/ProjectLedger-api/internal/bootstrap"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/pkg/config"
	"github.com/jhoicas/ProjectLedger-api/pkg/logger"
)

// systemActor identidad con la que opera el CLI (acceso total).
var systemActor = entity.Actor{ID: "ledgerctl", Role: entity.RoleSuperAdmin, Name: "ledgerctl"}

// app estado compartido por los subcomandos, creado en PersistentPreRunE.
type app struct {
	container *bootstrap.Container
	log       *logger.Logger
}

// NewRootCmd arma el árbol de comandos. La configuración sale de las mismas
// variables de entorno que el servidor (STORE_DRIVER, DB_*, STORE_FIXTURE...).
func NewRootCmd() *cobra.Command {
	var (
		debug bool
		a     app
	)
	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Mantenimiento del diario contable de proyectos",
		Long: `ledgerctl consulta y mantiene el diario contable de doble partida.

Ejemplos:
  ledgerctl verify
  ledgerctl summary --project p1 --start 2026-01-01 --end 2026-03-31
  ledgerctl backfill
  ledgerctl export --out diario.xlsx`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			level := cfg.App.LogLevel
			if debug {
				level = "debug"
			}
			// stdout queda para la salida JSON de los comandos
			a.log = logger.New(logger.Config{Env: cfg.App.Env, Level: level, Service: "ledgerctl", Out: cmd.ErrOrStderr()})
			a.container, err = bootstrap.New(cmd.Context(), cfg, a.log)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.container != nil {
				a.container.Close()
			}
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "log en nivel debug")

	root.AddCommand(
		newVerifyCmd(&a),
		newSummaryCmd(&a),
		newBackfillCmd(&a),
		newExportCmd(&a),
	)
	return root
}

// Execute punto de entrada de main.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// filterFlags filtros comunes de summary y export.
type filterFlags struct {
	project     string
	start       string
	end         string
	txType      string
	accountType string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.project, "project", "", "id del proyecto")
	cmd.Flags().StringVar(&f.start, "start", "", "fecha inicial YYYY-MM-DD")
	cmd.Flags().StringVar(&f.end, "end", "", "fecha final YYYY-MM-DD")
	cmd.Flags().StringVar(&f.txType, "type", "", "tipo de transacción")
	cmd.Flags().StringVar(&f.accountType, "account", "", "tipo de cuenta")
}

func (f *filterFlags) query() dto.EntryQuery {
	return dto.EntryQuery{
		ProjectID:       f.project,
		TransactionType: f.txType,
		AccountType:     f.accountType,
		StartDate:       f.start,
		EndDate:         f.end,
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
