package service

import (
	"errors"
	"testing"

	"go-warehouse-ledger/internal/model"
	"go-warehouse-ledger/internal/repository"

	"github.com/google/uuid"
)

func newCustomerService(f *ledgerFixture) CustomerService {
	return NewCustomerService(
		repository.NewCustomerRepo(f.db),
		repository.NewTransactionRepo(f.db),
		f.db,
	)
}

func TestCustomerResponsesCarryComputedDebt(t *testing.T) {
	f := newLedgerFixture(t)
	customers := newCustomerService(f)

	f.record(t, model.TxOut, 3, nil, "") // 3*800 unpaid

	got, err := customers.GetCustomerByID(f.customer.ID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if got.Debt != 2400 {
		t.Fatalf("expected debt 2400, got %g", got.Debt)
	}

	all, err := customers.GetAllCustomers()
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(all) != 1 || all[0].Debt != 2400 {
		t.Fatalf("expected one customer with debt 2400, got %+v", all)
	}
}

func TestDeleteCustomerCascadesToScopedCatalog(t *testing.T) {
	f := newLedgerFixture(t)
	customers := newCustomerService(f)
	userID := f.user.ID.String()

	scoped := model.Product{Name: "Special Blend", CurrentPrice: 900, CustomerID: &f.customer.ID}
	if err := f.db.Create(&scoped).Error; err != nil {
		t.Fatalf("seed scoped product: %v", err)
	}
	override := model.CustomerProduct{CustomerID: f.customer.ID, ProductID: f.product.ID, Price: 700}
	if err := f.db.Create(&override).Error; err != nil {
		t.Fatalf("seed override: %v", err)
	}
	tx := f.record(t, model.TxOut, 2, nil, "")

	if err := customers.DeleteCustomer(f.customer.ID, userID); err != nil {
		t.Fatalf("delete customer: %v", err)
	}

	// Customer, its scoped products, and its overrides are gone.
	if _, err := repository.NewCustomerRepo(f.db).FindByID(f.customer.ID); err == nil {
		t.Fatal("expected customer to be gone")
	}
	if _, err := repository.NewProductRepo(f.db).FindByID(scoped.ID); err == nil {
		t.Fatal("expected scoped product to be gone")
	}
	if _, err := repository.NewCustomerProductRepo(f.db).FindByID(override.ID); err == nil {
		t.Fatal("expected override to be gone")
	}

	// Ledger history is never touched: the transaction row survives with its
	// now-orphaned customer reference.
	survivor, err := repository.NewTransactionRepo(f.db).FindByID(tx.ID)
	if err != nil {
		t.Fatalf("expected transaction to survive, got %v", err)
	}
	if survivor.CustomerID != f.customer.ID {
		t.Fatal("expected transaction to keep its customer reference")
	}

	// Global catalog entries not scoped to the customer are untouched.
	if _, err := repository.NewProductRepo(f.db).FindByID(f.product.ID); err != nil {
		t.Fatalf("expected shared product to survive, got %v", err)
	}
}

func TestDeleteUnknownCustomer(t *testing.T) {
	f := newLedgerFixture(t)
	customers := newCustomerService(f)

	if err := customers.DeleteCustomer(uuid.New(), f.user.ID.String()); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestCreateCustomerRequiresName(t *testing.T) {
	f := newLedgerFixture(t)
	customers := newCustomerService(f)

	if err := customers.CreateCustomer(&model.Customer{Phone: "123"}, f.user.ID.String()); err == nil {
		t.Fatal("expected validation error for missing name")
	}
}

func TestUpdateCustomer(t *testing.T) {
	f := newLedgerFixture(t)
	customers := newCustomerService(f)

	updated, err := customers.UpdateCustomer(f.customer.ID, &model.Customer{Name: "Acme Renamed", Phone: "555"}, f.user.ID.String())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Acme Renamed" || updated.Phone != "555" {
		t.Fatalf("update not applied: %+v", updated)
	}
}
