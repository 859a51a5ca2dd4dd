// Package analytics contiene los casos de uso de agregación sobre el stock:
// valor total, cantidades, costos promedio y el reporte exportable.
package analytics

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// Formatos de exportación. FormatJSON siempre está disponible; los demás se registran con WithRenderer.
const (
	FormatJSON = "json"
	FormatPDF  = "pdf"
	FormatXML  = "xml"
)

// StockReportUseCase calcula los agregados del stock. Todo se calcula en cada llamada;
// no hay caché. Report colapsa llamadas concurrentes en una sola lectura (singleflight).
type StockReportUseCase struct {
	productRepo repository.ProductRepository
	stockRepo   repository.StockEntryRepository
	renderers   map[string]ReportRenderer
	group       singleflight.Group
	now         func() time.Time
}

// NewStockReportUseCase construye el caso de uso.
func NewStockReportUseCase(productRepo repository.ProductRepository, stockRepo repository.StockEntryRepository) *StockReportUseCase {
	return &StockReportUseCase{
		productRepo: productRepo,
		stockRepo:   stockRepo,
		renderers:   map[string]ReportRenderer{FormatJSON: jsonRenderer{}},
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithRenderer registra un formato de exportación.
func (uc *StockReportUseCase) WithRenderer(format string, r ReportRenderer) *StockReportUseCase {
	uc.renderers[strings.ToLower(format)] = r
	return uc
}

// Formats lista los formatos registrados, ordenados.
func (uc *StockReportUseCase) Formats() []string {
	out := make([]string, 0, len(uc.renderers))
	for f := range uc.renderers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// TotalStockValue = Σ cantidad × precio de costo sobre todos los registros.
func (uc *StockReportUseCase) TotalStockValue(ctx context.Context) (*dto.TotalValueResponse, error) {
	vals, err := uc.stockRepo.ListValuations(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.TotalValueResponse{TotalValue: ledger.TotalValue(vals)}, nil
}

// TotalQuantity = Σ cantidad sobre todos los registros.
func (uc *StockReportUseCase) TotalQuantity(ctx context.Context) (*dto.TotalQuantityResponse, error) {
	vals, err := uc.stockRepo.ListValuations(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.TotalQuantityResponse{TotalQuantity: ledger.TotalQuantity(vals)}, nil
}

// QuantityFor devuelve la cantidad del par. Sin registro devuelve 0, igual que un
// registro vacío: el llamador no puede distinguirlos.
func (uc *StockReportUseCase) QuantityFor(ctx context.Context, productID, companyID string) (*dto.QuantityResponse, error) {
	entry, err := uc.stockRepo.GetByPair(ctx, productID, companyID)
	if err != nil {
		return nil, err
	}
	res := &dto.QuantityResponse{ProductID: productID, CompanyID: companyID}
	if entry != nil {
		res.Quantity = entry.Quantity
	}
	return res, nil
}

// ProductAverageCost devuelve el precio de costo del producto (no es un promedio ponderado).
func (uc *StockReportUseCase) ProductAverageCost(ctx context.Context, productID string) (*dto.AverageCostResponse, error) {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return &dto.AverageCostResponse{ProductID: p.ID, AverageCost: p.CostPrice}, nil
}

// CatalogAverageCost media aritmética de los precios de costo del catálogo; 0 si está vacío.
func (uc *StockReportUseCase) CatalogAverageCost(ctx context.Context) (*dto.AverageCostResponse, error) {
	products, err := uc.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.AverageCostResponse{AverageCost: ledger.AverageCost(products)}, nil
}

// Report arma la foto completa del stock. Llamadas simultáneas comparten la misma lectura.
// La lectura compartida no se cancela con el ctx de quien la inició; cada llamador deja
// de esperar cuando termina su propio ctx.
func (uc *StockReportUseCase) Report(ctx context.Context) (*dto.StockReport, error) {
	shared := context.WithoutCancel(ctx)
	ch := uc.group.DoChan("stock-report", func() (interface{}, error) {
		return uc.buildReport(shared)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*dto.StockReport), nil
	}
}

// Export genera el reporte en el formato pedido y devuelve los bytes con su content type.
func (uc *StockReportUseCase) Export(ctx context.Context, format string) ([]byte, string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatJSON
	}
	r, ok := uc.renderers[format]
	if !ok {
		return nil, "", domain.NewValidationError("format", "oneof="+strings.Join(uc.Formats(), " "))
	}
	report, err := uc.Report(ctx)
	if err != nil {
		return nil, "", err
	}
	body, err := r.Render(report)
	if err != nil {
		return nil, "", err
	}
	return body, r.ContentType(), nil
}

func (uc *StockReportUseCase) buildReport(ctx context.Context) (*dto.StockReport, error) {
	// Las dos lecturas son independientes: en paralelo.
	var (
		vals     []*entity.StockValuation
		products []*entity.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vals, err = uc.stockRepo.ListValuations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = uc.productRepo.ListAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lines := make([]dto.StockReportLine, 0, len(vals))
	for _, v := range vals {
		lines = append(lines, dto.StockReportLine{
			ProductID:   v.ProductID,
			ProductName: v.ProductName,
			CompanyID:   v.CompanyID,
			CompanyName: v.CompanyName,
			Quantity:    v.Quantity,
			CostPrice:   v.CostPrice,
			Value:       v.Value(),
		})
	}
	return &dto.StockReport{
		GeneratedAt:        uc.now(),
		Lines:              lines,
		TotalQuantity:      ledger.TotalQuantity(vals),
		TotalValue:         ledger.TotalValue(vals),
		CatalogAverageCost: ledger.AverageCost(products),
		ProductCount:       len(products),
	}, nil
}

type jsonRenderer struct{}

func (jsonRenderer) Render(report *dto.StockReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

func (jsonRenderer) ContentType() string { return "application/json" }
