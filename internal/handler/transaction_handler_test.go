package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"go-warehouse-ledger/internal/model"
	"go-warehouse-ledger/internal/repository"
	"go-warehouse-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type handlerFixture struct {
	app      *fiber.App
	db       *gorm.DB
	customer model.Customer
	product  model.Product
	user     model.User
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&model.Customer{}, &model.Product{}, &model.CustomerProduct{},
		&model.Driver{}, &model.Transaction{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	user := model.User{Email: "op@example.com", FullName: "Operator"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	customer := model.Customer{Name: "Acme Trading"}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	product := model.Product{Name: "Cement 50kg", CurrentPrice: 800, Unit: "bag"}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	ledger := service.NewLedgerService(
		repository.NewTransactionRepo(db),
		repository.NewProductRepo(db),
		repository.NewCustomerRepo(db),
		repository.NewDriverRepo(db),
		repository.NewCustomerProductRepo(db),
		db, nil,
	)
	h := NewTransactionHandler(ledger)

	app := fiber.New()
	// Stand-in for the auth middleware
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", user.ID.String())
		return c.Next()
	})
	app.Post("/transactions", h.CreateTransaction)
	app.Get("/transactions", h.GetTransactions)
	app.Get("/transactions/:id", h.GetTransaction)
	app.Put("/transactions/:id", h.UpdateTransaction)
	app.Post("/transactions/:id/reverse", h.ReverseTransaction)

	return &handlerFixture{app: app, db: db, customer: customer, product: product, user: user}
}

func (f *handlerFixture) request(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func decodeData(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body.Data
}

func TestCreateTransactionEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	resp := f.request(t, "POST", "/transactions", fiber.Map{
		"type":        "OUT",
		"product_id":  f.product.ID,
		"customer_id": f.customer.ID,
		"quantity":    3,
	})
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	data := decodeData(t, resp)
	if data["price"].(float64) != 800 {
		t.Fatalf("expected snapshot price 800, got %v", data["price"])
	}
	if data["total_amount"].(float64) != 2400 {
		t.Fatalf("expected total 2400, got %v", data["total_amount"])
	}
}

func TestCreateTransactionRejectsBadPayload(t *testing.T) {
	f := newHandlerFixture(t)

	resp := f.request(t, "POST", "/transactions", fiber.Map{
		"type":        "SIDEWAYS",
		"product_id":  f.product.ID,
		"customer_id": f.customer.ID,
		"quantity":    1,
	})
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for bad type, got %d", resp.StatusCode)
	}
}

func TestReverseTransactionEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	created := decodeData(t, f.request(t, "POST", "/transactions", fiber.Map{
		"type":        "OUT",
		"product_id":  f.product.ID,
		"customer_id": f.customer.ID,
		"quantity":    2,
	}))
	txID := created["id"].(string)

	// Reason is mandatory.
	resp := f.request(t, "POST", "/transactions/"+txID+"/reverse", fiber.Map{})
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 without reason, got %d", resp.StatusCode)
	}

	resp = f.request(t, "POST", "/transactions/"+txID+"/reverse", fiber.Map{"reason": "wrong product"})
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data := decodeData(t, resp)
	if data["is_reversed"] != true {
		t.Fatal("expected is_reversed true")
	}
	if data["reversed_by"].(string) != f.user.ID.String() {
		t.Fatalf("expected reversal stamped with acting user, got %v", data["reversed_by"])
	}

	// Unknown id is a 404.
	resp = f.request(t, "POST", "/transactions/00000000-0000-0000-0000-000000000001/reverse", fiber.Map{"reason": "x"})
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetTransactionsEndpointPaginates(t *testing.T) {
	f := newHandlerFixture(t)

	for i := 0; i < 3; i++ {
		f.request(t, "POST", "/transactions", fiber.Map{
			"type":        "OUT",
			"product_id":  f.product.ID,
			"customer_id": f.customer.ID,
			"quantity":    i + 1,
		})
	}

	resp := f.request(t, "GET", "/transactions?page=1&page_size=2", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body model.PaginatedTransactions
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 3 || body.TotalPages != 2 || len(body.Data) != 2 {
		t.Fatalf("pagination: total=%d pages=%d rows=%d", body.Total, body.TotalPages, len(body.Data))
	}

	resp = f.request(t, "GET", "/transactions?customer_id=not-a-uuid", nil)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for bad filter, got %d", resp.StatusCode)
	}
}
