package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/analytics"
	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/xmlexport"
	apphttp "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
	"golang.org/x/crypto/bcrypt"
)

// newAPI arma el router completo sobre el almacenamiento en memoria.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	return newAPIWithTx(t, nil)
}

// newAPIWithTx como newAPI; tx reemplaza el TxRunner del ledger si no es nil.
func newAPIWithTx(t *testing.T, tx ledger.TxRunner) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	if tx == nil {
		tx = memory.NewTxRunner(store)
	}
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		CompanyUC: usecase.NewCompanyUseCase(store.Companies()),
		ProductUC: usecase.NewProductUseCase(store.Products()),
		LedgerUC: ledger.NewLedgerUseCase(
			tx, store.Products(), store.Companies(), store.Movements(),
		),
		StockUC: analytics.NewStockReportUseCase(store.Products(), store.StockEntries()).
			WithRenderer(analytics.FormatXML, xmlexport.NewStockReportRenderer(0)),
		AuthUC: auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}).WithBcryptCost(bcrypt.MinCost),
		JWTSecret: testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

type catalog struct {
	product, companyA, companyB string
}

func seedCatalog(t *testing.T, app *fiber.App, admin string) catalog {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/products", admin, fiber.Map{"name": "Café", "cost_price": "10", "sale_price": "12"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	p := decode[dto.ProductResponse](t, resp)

	resp = call(t, app, http.MethodPost, "/api/companies", admin, fiber.Map{"name": "ACME", "tax_id": "11.222.333/0001-81"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	a := decode[dto.CompanyResponse](t, resp)

	resp = call(t, app, http.MethodPost, "/api/companies", admin, fiber.Map{"name": "Beta", "tax_id": "11444777000161"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	b := decode[dto.CompanyResponse](t, resp)

	return catalog{product: p.ID, companyA: a.ID, companyB: b.ID}
}

func TestCompanies_AltaYValidaciones(t *testing.T) {
	app := newAPI(t)
	admin := tokenForRole(t, "admin")

	resp := call(t, app, http.MethodPost, "/api/companies", admin, fiber.Map{"name": "ACME", "tax_id": "11.222.333/0001-81"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.CompanyResponse](t, resp)
	assert.Equal(t, "11222333000181", created.TaxID)

	resp = call(t, app, http.MethodPost, "/api/companies", admin, fiber.Map{"name": "Otra", "tax_id": "11222333000181"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/companies", admin, fiber.Map{"name": "Mala", "tax_id": "11.222.333/0001-82"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Equal(t, "cnpj", errBody.Fields["tax_id"])

	resp = call(t, app, http.MethodPost, "/api/companies", tokenForRole(t, "user"), fiber.Map{"name": "ACME", "tax_id": "11444777000161"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/companies/"+created.ID, tokenForRole(t, "user"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodDelete, "/api/companies/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = call(t, app, http.MethodDelete, "/api/companies/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestLedger_FlujoCompleto(t *testing.T) {
	app := newAPI(t)
	admin, user := tokenForRole(t, "admin"), tokenForRole(t, "user")
	cat := seedCatalog(t, app, admin)
	movePath := "/api/products/" + cat.product + "/movements"

	resp := call(t, app, http.MethodPost, movePath, user, fiber.Map{"company_id": cat.companyA, "quantity": 10, "is_addition": true})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := decode[dto.MovementResponse](t, resp)
	assert.True(t, first.Created)
	assert.Equal(t, 10, first.Entry.Quantity)

	resp = call(t, app, http.MethodPost, movePath, user, fiber.Map{"company_id": cat.companyA, "quantity": 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 7, decode[dto.MovementResponse](t, resp).Entry.Quantity)

	resp = call(t, app, http.MethodPost, movePath, user, fiber.Map{"company_id": cat.companyA, "quantity": 100})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, resp).Code)

	resp = call(t, app, http.MethodPost, movePath, user, fiber.Map{"company_id": cat.companyA, "quantity": 0, "is_addition": true})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/products/"+cat.product+"/transfers", user,
		fiber.Map{"from_company_id": cat.companyA, "to_company_id": cat.companyB, "quantity": 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tr := decode[dto.TransferResponse](t, resp)
	assert.Equal(t, 2, tr.From.Quantity)
	assert.Equal(t, 5, tr.To.Quantity)

	resp = call(t, app, http.MethodGet, "/api/products/"+cat.product+"/companies/"+cat.companyB+"/quantity", user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, decode[dto.QuantityResponse](t, resp).Quantity)

	resp = call(t, app, http.MethodGet, "/api/stock/total-quantity", user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(7), decode[dto.TotalQuantityResponse](t, resp).TotalQuantity)

	resp = call(t, app, http.MethodGet, "/api/stock/total-value", user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "70", decode[dto.TotalValueResponse](t, resp).TotalValue.String())

	resp = call(t, app, http.MethodGet, "/api/stock/average-cost", user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "10", decode[dto.AverageCostResponse](t, resp).AverageCost.String())

	resp = call(t, app, http.MethodGet, "/api/stock/movements?product_id="+cat.product, user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	journal := decode[dto.StockMovementListResponse](t, resp)
	// opening, out, transfer_out, transfer_in
	assert.Len(t, journal.Items, 4)
}

func TestLedger_LoteFallaConIndice(t *testing.T) {
	app := newAPI(t)
	admin := tokenForRole(t, "admin")
	cat := seedCatalog(t, app, admin)

	resp := call(t, app, http.MethodPost, "/api/products/"+cat.product+"/movements", admin,
		fiber.Map{"company_id": cat.companyA, "quantity": 10, "is_addition": true})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/products/movements/batch", admin, fiber.Map{"items": []fiber.Map{
		{"product_id": cat.product, "company_id": cat.companyA, "quantity": 4},
		{"product_id": cat.product, "company_id": cat.companyB, "quantity": 1, "is_addition": true},
		{"product_id": cat.product, "company_id": cat.companyA, "quantity": 1},
	}})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	res := decode[dto.BatchMovementResult](t, resp)
	assert.False(t, res.Success)
	require.NotNil(t, res.FailedIndex)
	assert.Equal(t, 1, *res.FailedIndex)
	require.Len(t, res.Applied, 1)
	assert.Equal(t, 6, res.Applied[0].Quantity)

	resp = call(t, app, http.MethodPost, "/api/products/movements/batch", admin, fiber.Map{"items": []fiber.Map{
		{"product_id": cat.product, "company_id": cat.companyA, "quantity": 2},
	}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.BatchMovementResult](t, resp).Success)
}

func TestStock_ProductoInexistenteYFormatos(t *testing.T) {
	app := newAPI(t)
	user := tokenForRole(t, "user")
	cat := seedCatalog(t, app, tokenForRole(t, "admin"))

	resp := call(t, app, http.MethodGet, "/api/products/00000000-0000-0000-0000-00000000dead/average-cost", user, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "PRODUCT_NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)

	resp = call(t, app, http.MethodGet, "/api/products/"+cat.product+"/average-cost", user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "10", decode[dto.AverageCostResponse](t, resp).AverageCost.String())

	resp = call(t, app, http.MethodGet, "/api/stock/report?format=xml", user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xml")
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/stock/report", user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[dto.StockReport](t, resp)
	assert.Equal(t, 1, report.ProductCount)

	resp = call(t, app, http.MethodGet, "/api/stock/report?format=csv", user, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[dto.ErrorResponse](t, resp).Fields, "format")
}

func TestAuth_RegistroYLogin(t *testing.T) {
	app := newAPI(t)

	resp := call(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{"username": "ana", "password": "secreto123"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "user", decode[dto.UserResponse](t, resp).Role)

	resp = call(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{"username": "ana", "password": "secreto123"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{"username": "root", "password": "secreto123", "role": "admin"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{"username": "ana", "password": "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{"username": "ana", "password": "secreto123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)

	resp = call(t, app, http.MethodGet, "/api/products", "Bearer "+login.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestLedger_LoteValidaIdsAntesDeEscribir(t *testing.T) {
	app := newAPI(t)
	admin := tokenForRole(t, "admin")
	cat := seedCatalog(t, app, admin)

	resp := call(t, app, http.MethodPost, "/api/products/"+cat.product+"/movements", admin,
		fiber.Map{"company_id": cat.companyA, "quantity": 10, "is_addition": true})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/products/movements/batch", admin, fiber.Map{"items": []fiber.Map{
		{"product_id": cat.product, "company_id": cat.companyA, "quantity": 4},
		{"product_id": cat.product, "company_id": "no-es-uuid", "quantity": 1},
	}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	res := decode[dto.BatchMovementResult](t, resp)
	assert.False(t, res.Success)
	require.NotNil(t, res.FailedIndex)
	assert.Equal(t, 1, *res.FailedIndex)
	assert.Empty(t, res.Applied)
	assert.Contains(t, res.Error, "company_id")

	// el primer elemento válido no se aplicó
	resp = call(t, app, http.MethodGet, "/api/products/"+cat.product+"/companies/"+cat.companyA+"/quantity", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 10, decode[dto.QuantityResponse](t, resp).Quantity)
}

type brokenTxRunner struct{}

func (brokenTxRunner) Run(context.Context, func(repository.StockEntryRepository, repository.StockMovementRepository) error) error {
	return errors.New("pgx: conexión rechazada por 10.0.0.7:5432")
}

func TestLedger_LoteErrorInternoOcultaDetalle(t *testing.T) {
	app := newAPIWithTx(t, brokenTxRunner{})
	admin := tokenForRole(t, "admin")
	cat := seedCatalog(t, app, admin)

	resp := call(t, app, http.MethodPost, "/api/products/movements/batch", admin, fiber.Map{"items": []fiber.Map{
		{"product_id": cat.product, "company_id": cat.companyA, "quantity": 1, "is_addition": true},
	}})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	res := decode[dto.BatchMovementResult](t, resp)
	require.NotNil(t, res.FailedIndex)
	assert.Equal(t, 0, *res.FailedIndex)
	assert.Equal(t, "error interno", res.Error)
	assert.NotContains(t, res.Error, "10.0.0.7")
}
