package analytics_test

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/analytics"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
)

// seedCatalog crea p1 (costo 10, qty 2 en c1) y p2 (costo 20, qty 1 en c1).
func seedCatalog(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	now := time.Now()
	require.NoError(t, s.Companies().Create(ctx, &entity.Company{ID: "c1", Name: "ACME", TaxID: "11222333000181", CreatedAt: now}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", Name: "Arroz", CostPrice: decimal.NewFromInt(10), SalePrice: decimal.NewFromInt(12), CreatedAt: now}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p2", Name: "Café", CostPrice: decimal.NewFromInt(20), SalePrice: decimal.NewFromInt(25), CreatedAt: now.Add(time.Millisecond)}))
	_, err := s.StockEntries().CreateIfAbsent(ctx, &entity.StockEntry{ID: "e1", ProductID: "p1", CompanyID: "c1", Quantity: 2})
	require.NoError(t, err)
	_, err = s.StockEntries().CreateIfAbsent(ctx, &entity.StockEntry{ID: "e2", ProductID: "p2", CompanyID: "c1", Quantity: 1})
	require.NoError(t, err)
	return s
}

func TestTotalStockValue(t *testing.T) {
	s := seedCatalog(t)
	uc := analytics.NewStockReportUseCase(s.Products(), s.StockEntries())

	res, err := uc.TotalStockValue(context.Background())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40).Equal(res.TotalValue), "got %s", res.TotalValue)

	qty, err := uc.TotalQuantity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), qty.TotalQuantity)
}

func TestQuantityFor_CeroSinRegistro(t *testing.T) {
	s := seedCatalog(t)
	uc := analytics.NewStockReportUseCase(s.Products(), s.StockEntries())

	res, err := uc.QuantityFor(context.Background(), "p1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Quantity)

	res, err = uc.QuantityFor(context.Background(), "p1", "otra")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Quantity)
}

func TestAverageCost(t *testing.T) {
	s := seedCatalog(t)
	uc := analytics.NewStockReportUseCase(s.Products(), s.StockEntries())

	res, err := uc.CatalogAverageCost(context.Background())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(15).Equal(res.AverageCost))

	one, err := uc.ProductAverageCost(context.Background(), "p2")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20).Equal(one.AverageCost))

	_, err = uc.ProductAverageCost(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCatalogAverageCost_Vacio(t *testing.T) {
	s := memory.NewStore()
	uc := analytics.NewStockReportUseCase(s.Products(), s.StockEntries())

	res, err := uc.CatalogAverageCost(context.Background())
	require.NoError(t, err)
	assert.True(t, res.AverageCost.IsZero())
}

func TestReport_Totales(t *testing.T) {
	s := seedCatalog(t)
	uc := analytics.NewStockReportUseCase(s.Products(), s.StockEntries())

	r, err := uc.Report(context.Background())
	require.NoError(t, err)
	require.Len(t, r.Lines, 2)
	assert.Equal(t, "Arroz", r.Lines[0].ProductName)
	assert.True(t, decimal.NewFromInt(20).Equal(r.Lines[0].Value))
	assert.Equal(t, int64(3), r.TotalQuantity)
	assert.True(t, decimal.NewFromInt(40).Equal(r.TotalValue))
	assert.Equal(t, 2, r.ProductCount)
}

func TestExport_JSONYFormatoDesconocido(t *testing.T) {
	s := seedCatalog(t)
	uc := analytics.NewStockReportUseCase(s.Products(), s.StockEntries())

	body, ct, err := uc.Export(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "application/json", ct)
	var decoded dto.StockReport
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Len(t, decoded.Lines, 2)

	_, _, err = uc.Export(context.Background(), "csv")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type stubRenderer struct{}

func (stubRenderer) Render(r *dto.StockReport) ([]byte, error) {
	return []byte(r.TotalValue.String()), nil
}
func (stubRenderer) ContentType() string { return "text/plain" }

func TestExport_RendererRegistrado(t *testing.T) {
	s := seedCatalog(t)
	uc := analytics.NewStockReportUseCase(s.Products(), s.StockEntries()).WithRenderer("TXT", stubRenderer{})

	body, ct, err := uc.Export(context.Background(), "txt")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", ct)
	assert.Equal(t, "40", string(body))
	assert.Equal(t, []string{"json", "txt"}, uc.Formats())
}

// slowStock cuenta las lecturas y las demora para que las llamadas se solapen.
type slowStock struct {
	repository.StockEntryRepository
	calls   atomic.Int64
	release chan struct{}
}

func (s *slowStock) ListValuations(ctx context.Context) ([]*entity.StockValuation, error) {
	s.calls.Add(1)
	<-s.release
	return s.StockEntryRepository.ListValuations(ctx)
}

func TestReport_LlamadasConcurrentesComparten(t *testing.T) {
	s := seedCatalog(t)
	stock := &slowStock{StockEntryRepository: s.StockEntries(), release: make(chan struct{})}
	uc := analytics.NewStockReportUseCase(s.Products(), stock)

	const callers = 10
	var wg sync.WaitGroup
	results := make([]*dto.StockReport, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := uc.Report(context.Background())
			assert.NoError(t, err)
			results[i] = r
		}(i)
	}
	// dar tiempo a que todos entren al grupo antes de liberar la lectura
	require.Eventually(t, func() bool { return stock.calls.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(stock.release)
	wg.Wait()

	assert.LessOrEqual(t, stock.calls.Load(), int64(callers))
	assert.Less(t, stock.calls.Load(), int64(callers), "singleflight debe colapsar al menos una llamada")
	for _, r := range results {
		require.NotNil(t, r)
		assert.True(t, decimal.NewFromInt(40).Equal(r.TotalValue))
	}

	// sin caché: una llamada posterior vuelve a leer
	before := stock.calls.Load()
	_, err := uc.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before+1, stock.calls.Load())
}

// ctxStock espera a release o a que ctx termine, como haría el driver.
type ctxStock struct {
	repository.StockEntryRepository
	calls   atomic.Int64
	release chan struct{}
}

func (s *ctxStock) ListValuations(ctx context.Context) ([]*entity.StockValuation, error) {
	s.calls.Add(1)
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.StockEntryRepository.ListValuations(ctx)
}

func TestReport_CancelarUnLlamadorNoAfectaALosDemas(t *testing.T) {
	s := seedCatalog(t)
	stock := &ctxStock{StockEntryRepository: s.StockEntries(), release: make(chan struct{})}
	uc := analytics.NewStockReportUseCase(s.Products(), stock)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := uc.Report(ctxA)
		errA <- err
	}()
	require.Eventually(t, func() bool { return stock.calls.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		report *dto.StockReport
		err    error
	}
	resB := make(chan result, 1)
	go func() {
		r, err := uc.Report(context.Background())
		resB <- result{r, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("el llamador cancelado debe volver sin esperar la lectura")
	}

	close(stock.release)
	select {
	case r := <-resB:
		require.NoError(t, r.err)
		require.NotNil(t, r.report)
		assert.True(t, decimal.NewFromInt(40).Equal(r.report.TotalValue))
	case <-time.After(time.Second):
		t.Fatal("el segundo llamador no recibió el reporte")
	}
	assert.Equal(t, int64(1), stock.calls.Load())
}
