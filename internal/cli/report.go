package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/jhoicas/stock-ledger-api/internal/application/analytics"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	infrapdf "github.com/jhoicas/stock-ledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/xmlexport"
)

// newStockReportUseCase registra todos los formatos de exportación.
func newStockReportUseCase(title string, products repository.ProductRepository, stock repository.StockEntryRepository) *analytics.StockReportUseCase {
	return analytics.NewStockReportUseCase(products, stock).
		WithRenderer(analytics.FormatPDF, infrapdf.NewStockReportRenderer(title, language.BrazilianPortuguese)).
		WithRenderer(analytics.FormatXML, xmlexport.NewStockReportRenderer(2))
}

func newReportCmd(e *env) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Exporta el reporte de stock (json, xml o pdf)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			supported := []string{analytics.FormatJSON, analytics.FormatPDF, analytics.FormatXML}
			if !slices.Contains(supported, format) {
				return fmt.Errorf("formato %q no soportado (%v)", format, supported)
			}

			pool, err := e.pool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := newStockReportUseCase(e.cfg.App.Name, postgres.NewProductRepository(pool), postgres.NewStockEntryRepository(pool))
			body, _, err := uc.Export(cmd.Context(), format)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(out, body, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", out, err)
			}
			e.log.Info().Str("file", out).Str("format", format).Int("bytes", len(body)).Msg("reporte exportado")
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", analytics.FormatJSON, "json | xml | pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "archivo de salida (por defecto stdout)")
	return cmd
}
