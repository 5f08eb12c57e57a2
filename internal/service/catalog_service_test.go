package service

import (
	"errors"
	"testing"

	"go-warehouse-ledger/internal/model"
	"go-warehouse-ledger/internal/repository"

	"github.com/google/uuid"
)

func newCatalogService(f *ledgerFixture) CatalogService {
	return NewCatalogService(
		repository.NewProductRepo(f.db),
		repository.NewCustomerProductRepo(f.db),
		repository.NewCustomerRepo(f.db),
		repository.NewTransactionRepo(f.db),
		nil,
	)
}

func TestDeleteProductBlockedByActiveTransactions(t *testing.T) {
	f := newLedgerFixture(t)
	catalog := newCatalogService(f)
	userID := f.user.ID.String()

	tx := f.record(t, model.TxOut, 1, nil, "")

	ok, err := catalog.CanDeleteProduct(f.product.ID)
	if err != nil {
		t.Fatalf("can delete: %v", err)
	}
	if ok {
		t.Fatal("expected delete to be blocked while transactions reference the product")
	}
	if err := catalog.DeleteProduct(f.product.ID, userID); !errors.Is(err, ErrProductHasTransactions) {
		t.Fatalf("expected ErrProductHasTransactions, got %v", err)
	}

	// Reversing the last referencing transaction lifts the block.
	if _, err := f.svc.ReverseTransaction(tx.ID, "entry error", userID); err != nil {
		t.Fatalf("reverse: %v", err)
	}
	ok, err = catalog.CanDeleteProduct(f.product.ID)
	if err != nil {
		t.Fatalf("can delete after reverse: %v", err)
	}
	if !ok {
		t.Fatal("expected delete to be allowed after reversal")
	}
	if err := catalog.DeleteProduct(f.product.ID, userID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := repository.NewProductRepo(f.db).FindByID(f.product.ID); err == nil {
		t.Fatal("expected product to be gone after delete")
	}
}

func TestDeleteUnknownProduct(t *testing.T) {
	f := newLedgerFixture(t)
	catalog := newCatalogService(f)

	if err := catalog.DeleteProduct(uuid.New(), f.user.ID.String()); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductScopedToCustomer(t *testing.T) {
	f := newLedgerFixture(t)
	catalog := newCatalogService(f)
	userID := f.user.ID.String()

	scoped := &model.Product{Name: "Custom Mix", CurrentPrice: 1200, CustomerID: &f.customer.ID}
	if err := catalog.CreateProduct(scoped, userID); err != nil {
		t.Fatalf("create scoped product: %v", err)
	}

	products, err := catalog.GetProductsByCustomer(f.customer.ID)
	if err != nil {
		t.Fatalf("list by customer: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Custom Mix" {
		t.Fatalf("expected only the scoped product, got %d", len(products))
	}

	// Scoping to an unknown customer is rejected.
	bogus := uuid.New()
	err = catalog.CreateProduct(&model.Product{Name: "Orphan", CustomerID: &bogus}, userID)
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestPriceOverrideLifecycle(t *testing.T) {
	f := newLedgerFixture(t)
	catalog := newCatalogService(f)
	userID := f.user.ID.String()

	override := &model.CustomerProduct{CustomerID: f.customer.ID, ProductID: f.product.ID, Price: 720}
	if err := catalog.AddOverride(override, userID); err != nil {
		t.Fatalf("add override: %v", err)
	}

	overrides, err := catalog.GetOverridesByCustomer(f.customer.ID)
	if err != nil {
		t.Fatalf("list overrides: %v", err)
	}
	if len(overrides) != 1 || overrides[0].Price != 720 {
		t.Fatalf("unexpected overrides: %+v", overrides)
	}

	updated, err := catalog.UpdateOverride(override.ID, 680, userID)
	if err != nil {
		t.Fatalf("update override: %v", err)
	}
	if updated.Price != 680 {
		t.Fatalf("expected price 680, got %g", updated.Price)
	}

	if _, err := catalog.UpdateOverride(override.ID, -1, userID); err == nil {
		t.Fatal("expected error for negative price")
	}

	if err := catalog.DeleteOverride(override.ID, userID); err != nil {
		t.Fatalf("delete override: %v", err)
	}
	if err := catalog.DeleteOverride(override.ID, userID); !errors.Is(err, ErrOverrideNotFound) {
		t.Fatalf("expected ErrOverrideNotFound, got %v", err)
	}
}

func TestAddOverrideRequiresExistingPair(t *testing.T) {
	f := newLedgerFixture(t)
	catalog := newCatalogService(f)
	userID := f.user.ID.String()

	err := catalog.AddOverride(&model.CustomerProduct{CustomerID: uuid.New(), ProductID: f.product.ID, Price: 10}, userID)
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
	err = catalog.AddOverride(&model.CustomerProduct{CustomerID: f.customer.ID, ProductID: uuid.New(), Price: 10}, userID)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
