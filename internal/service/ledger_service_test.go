package service

import (
	"errors"
	"fmt"
	"testing"

	"go-warehouse-ledger/internal/model"
	"go-warehouse-ledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
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
	return db
}

type ledgerFixture struct {
	db       *gorm.DB
	svc      LedgerService
	customer model.Customer
	product  model.Product
	user     model.User
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	db := setupTestDB(t, t.Name())

	user := model.User{Email: "op@example.com", FullName: "Operator"}
	if err := user.SetPassword("secret"); err != nil {
		t.Fatalf("hash password: %v", err)
	}
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

	svc := NewLedgerService(
		repository.NewTransactionRepo(db),
		repository.NewProductRepo(db),
		repository.NewCustomerRepo(db),
		repository.NewDriverRepo(db),
		repository.NewCustomerProductRepo(db),
		db, nil,
	)

	return &ledgerFixture{db: db, svc: svc, customer: customer, product: product, user: user}
}

func (f *ledgerFixture) record(t *testing.T, txType model.TransactionType, qty float64, price *float64, date string) *model.Transaction {
	t.Helper()
	tx, err := f.svc.RecordTransaction(&RecordTransactionRequest{
		Type:       txType,
		ProductID:  f.product.ID,
		CustomerID: f.customer.ID,
		Quantity:   qty,
		Price:      price,
		Date:       date,
	}, f.user.ID.String())
	if err != nil {
		t.Fatalf("record transaction: %v", err)
	}
	return tx
}

func ptr(v float64) *float64 { return &v }

func TestRecordTransactionResolvesPrice(t *testing.T) {
	f := newLedgerFixture(t)

	// No override, no explicit price: falls back to the product price.
	tx := f.record(t, model.TxOut, 2, nil, "")
	if tx.Price != 800 {
		t.Fatalf("expected product price 800, got %g", tx.Price)
	}

	// Negotiated override wins over the product price.
	override := model.CustomerProduct{CustomerID: f.customer.ID, ProductID: f.product.ID, Price: 750}
	if err := f.db.Create(&override).Error; err != nil {
		t.Fatalf("seed override: %v", err)
	}
	tx = f.record(t, model.TxOut, 2, nil, "")
	if tx.Price != 750 {
		t.Fatalf("expected override price 750, got %g", tx.Price)
	}

	// Explicit price wins over everything.
	tx = f.record(t, model.TxOut, 2, ptr(700), "")
	if tx.Price != 700 {
		t.Fatalf("expected explicit price 700, got %g", tx.Price)
	}
}

func TestRecordTransactionValidation(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.svc.RecordTransaction(&RecordTransactionRequest{
		Type:       model.TxOut,
		ProductID:  f.product.ID,
		CustomerID: f.customer.ID,
		Quantity:   0,
	}, f.user.ID.String())
	if err == nil {
		t.Fatal("expected error for zero quantity")
	}

	_, err = f.svc.RecordTransaction(&RecordTransactionRequest{
		Type:       model.TxOut,
		ProductID:  uuid.New(),
		CustomerID: f.customer.ID,
		Quantity:   1,
	}, f.user.ID.String())
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	_, err = f.svc.RecordTransaction(&RecordTransactionRequest{
		Type:       model.TxOut,
		ProductID:  f.product.ID,
		CustomerID: uuid.New(),
		Quantity:   1,
	}, f.user.ID.String())
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestCustomerDebtOnlyCountsUnpaidActiveOut(t *testing.T) {
	f := newLedgerFixture(t)

	// Unpaid OUT entries count toward debt: 6*800 = 4800.
	f.record(t, model.TxOut, 6, nil, "")

	// Paid OUT does not count.
	paid := f.record(t, model.TxOut, 2, nil, "")
	isPaid := true
	if _, err := f.svc.UpdateTransaction(paid.ID, &UpdateTransactionRequest{Paid: &isPaid}, f.user.ID.String()); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	// IN entries never count.
	f.record(t, model.TxIn, 5, nil, "")

	// Reversed OUT does not count.
	reversed := f.record(t, model.TxOut, 3, nil, "")
	if _, err := f.svc.ReverseTransaction(reversed.ID, "wrong customer", f.user.ID.String()); err != nil {
		t.Fatalf("reverse: %v", err)
	}

	debt, err := f.svc.GetCustomerDebt(f.customer.ID)
	if err != nil {
		t.Fatalf("get debt: %v", err)
	}
	if debt != 4800 {
		t.Fatalf("expected debt 4800, got %g", debt)
	}
}

func TestGetCustomerDebtUnknownCustomer(t *testing.T) {
	f := newLedgerFixture(t)

	if _, err := f.svc.GetCustomerDebt(uuid.New()); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestReverseTransactionIsIdempotent(t *testing.T) {
	f := newLedgerFixture(t)
	tx := f.record(t, model.TxOut, 4, nil, "")

	first, err := f.svc.ReverseTransaction(tx.ID, "typo in quantity", f.user.ID.String())
	if err != nil {
		t.Fatalf("first reverse: %v", err)
	}
	if !first.IsReversed || first.ReversedAt == nil || first.ReversedBy == nil {
		t.Fatal("expected reversal stamp after first reverse")
	}
	if first.ReversedReason != "typo in quantity" {
		t.Fatalf("unexpected reason %q", first.ReversedReason)
	}

	// A second reversal is a no-op: the original stamp survives.
	second, err := f.svc.ReverseTransaction(tx.ID, "another reason", f.user.ID.String())
	if err != nil {
		t.Fatalf("second reverse: %v", err)
	}
	if second.ReversedReason != "typo in quantity" {
		t.Fatalf("expected original reason to survive, got %q", second.ReversedReason)
	}
	if !second.ReversedAt.Equal(*first.ReversedAt) {
		t.Fatal("expected reversal timestamp to be unchanged")
	}

	// The row stays visible in history with its original amounts.
	got, err := f.svc.GetTransactionByID(tx.ID)
	if err != nil {
		t.Fatalf("get after reverse: %v", err)
	}
	if got.Quantity != 4 || got.TotalAmount != 4*800 {
		t.Fatalf("expected reversed row to keep amounts, got qty=%g total=%g", got.Quantity, got.TotalAmount)
	}
}

func TestReverseUnknownTransaction(t *testing.T) {
	f := newLedgerFixture(t)

	if _, err := f.svc.ReverseTransaction(uuid.New(), "oops", f.user.ID.String()); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestQueryTransactionsPagination(t *testing.T) {
	f := newLedgerFixture(t)
	for i := 0; i < 5; i++ {
		f.record(t, model.TxOut, float64(i+1), nil, "")
	}

	page1, err := f.svc.QueryTransactions(repository.TransactionQuery{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("query page 1: %v", err)
	}
	if page1.Total != 5 || page1.TotalPages != 3 || len(page1.Data) != 2 {
		t.Fatalf("page 1: total=%d pages=%d rows=%d", page1.Total, page1.TotalPages, len(page1.Data))
	}
	// Insertion order: first recorded entry comes first.
	if page1.Data[0].Quantity != 1 || page1.Data[1].Quantity != 2 {
		t.Fatalf("expected insertion order, got %g then %g", page1.Data[0].Quantity, page1.Data[1].Quantity)
	}

	page3, err := f.svc.QueryTransactions(repository.TransactionQuery{Page: 3, PageSize: 2})
	if err != nil {
		t.Fatalf("query page 3: %v", err)
	}
	if len(page3.Data) != 1 || page3.Data[0].Quantity != 5 {
		t.Fatalf("expected last page with one row, got %d rows", len(page3.Data))
	}

	// Beyond the last page: empty data, counts intact.
	page4, err := f.svc.QueryTransactions(repository.TransactionQuery{Page: 4, PageSize: 2})
	if err != nil {
		t.Fatalf("query page 4: %v", err)
	}
	if len(page4.Data) != 0 || page4.Total != 5 {
		t.Fatalf("expected empty page beyond range, got %d rows total=%d", len(page4.Data), page4.Total)
	}

	// Defaults kick in for missing pagination values.
	defaults, err := f.svc.QueryTransactions(repository.TransactionQuery{})
	if err != nil {
		t.Fatalf("query defaults: %v", err)
	}
	if defaults.Page != 1 || defaults.PageSize != 10 || len(defaults.Data) != 5 {
		t.Fatalf("defaults: page=%d size=%d rows=%d", defaults.Page, defaults.PageSize, len(defaults.Data))
	}
}

func TestQueryTransactionsFiltersAreConjunctive(t *testing.T) {
	f := newLedgerFixture(t)

	other := model.Customer{Name: "Beta Logistics"}
	if err := f.db.Create(&other).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	f.record(t, model.TxOut, 1, nil, "2024-03-01T09:00:00Z")
	f.record(t, model.TxOut, 2, nil, "2024-03-15T09:00:00Z")
	f.record(t, model.TxIn, 3, nil, "2024-03-15T10:00:00Z")
	f.record(t, model.TxOut, 4, nil, "2024-04-02T09:00:00Z")

	// Same window, different customer.
	if _, err := f.svc.RecordTransaction(&RecordTransactionRequest{
		Type:       model.TxOut,
		ProductID:  f.product.ID,
		CustomerID: other.ID,
		Quantity:   9,
		Date:       "2024-03-20T09:00:00Z",
	}, f.user.ID.String()); err != nil {
		t.Fatalf("record for other customer: %v", err)
	}

	result, err := f.svc.QueryTransactions(repository.TransactionQuery{
		StartDate:  "2024-03-01",
		EndDate:    "2024-03-31T23:59:59Z",
		CustomerID: &f.customer.ID,
		Type:       model.TxOut,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 matches, got %d", result.Total)
	}
	for _, row := range result.Data {
		if row.Type != model.TxOut || row.CustomerID != f.customer.ID {
			t.Fatalf("filter leaked: type=%s customer=%s", row.Type, row.CustomerID)
		}
	}
}

func TestUpdateTransactionPatchesFields(t *testing.T) {
	f := newLedgerFixture(t)
	tx := f.record(t, model.TxOut, 2, nil, "2024-05-01T08:00:00Z")

	qty := 7.0
	notes := "corrected count"
	updated, err := f.svc.UpdateTransaction(tx.ID, &UpdateTransactionRequest{
		Quantity: &qty,
		Notes:    &notes,
	}, f.user.ID.String())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Quantity != 7 || updated.Notes != "corrected count" {
		t.Fatalf("patch not applied: qty=%g notes=%q", updated.Quantity, updated.Notes)
	}
	// Untouched fields survive.
	if updated.Price != 800 || updated.Date != "2024-05-01T08:00:00Z" {
		t.Fatalf("unexpected side effect: price=%g date=%s", updated.Price, updated.Date)
	}

	if _, err := f.svc.UpdateTransaction(tx.ID, &UpdateTransactionRequest{DriverID: &f.product.ID}, f.user.ID.String()); !errors.Is(err, ErrDriverNotFound) {
		t.Fatalf("expected ErrDriverNotFound, got %v", err)
	}
}
