package repository

import (
	"time"

	"go-warehouse-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionQuery is an AND-conjunction of optional history filters plus
// 1-based pagination. Date bounds are inclusive ISO-8601 strings compared
// lexicographically, like the rest of the ledger.
type TransactionQuery struct {
	StartDate  string
	EndDate    string
	UserID     *uuid.UUID
	ProductID  *uuid.UUID
	DriverID   *uuid.UUID
	CustomerID *uuid.UUID
	Type       model.TransactionType
	Page       int
	PageSize   int
}

// DailyMovement aggregates in/out amounts per calendar day for charts.
type DailyMovement struct {
	Date     string  `json:"date"`
	Inbound  float64 `json:"inbound"`
	Outbound float64 `json:"outbound"`
}

type TransactionRepository interface {
	Create(tx *gorm.DB, t *model.Transaction) error
	Update(t *model.Transaction) error
	FindByID(id uuid.UUID) (*model.Transaction, error)
	Query(q TransactionQuery) ([]model.Transaction, int64, error)

	// SumCustomerDebt recomputes the customer's outstanding debt from the
	// live transaction set: unpaid, non-reversed OUT entries only.
	SumCustomerDebt(customerID uuid.UUID) (float64, error)
	// SumOutstandingDebt is the same sum across all customers.
	SumOutstandingDebt() (float64, error)
	// CountActiveByProduct counts non-reversed transactions referencing the
	// product; a positive count blocks product deletion.
	CountActiveByProduct(productID uuid.UUID) (int64, error)
	// SumAmountByDatePrefix totals non-reversed amounts of one type whose
	// date starts with the given prefix (a day or a month).
	SumAmountByDatePrefix(txType model.TransactionType, prefix string) (float64, error)
	GetDailyMovement(days int) ([]DailyMovement, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(tx *gorm.DB, t *model.Transaction) error {
	return tx.Create(t).Error
}

func (r *transactionRepo) Update(t *model.Transaction) error {
	return r.db.Save(t).Error
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.Preload("Product").Preload("Customer").Preload("Driver").Preload("User").
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepo) Query(q TransactionQuery) ([]model.Transaction, int64, error) {
	base := r.db.Model(&model.Transaction{})

	if q.StartDate != "" {
		base = base.Where("date >= ?", q.StartDate)
	}
	if q.EndDate != "" {
		base = base.Where("date <= ?", q.EndDate)
	}
	if q.UserID != nil {
		base = base.Where("user_id = ?", *q.UserID)
	}
	if q.ProductID != nil {
		base = base.Where("product_id = ?", *q.ProductID)
	}
	if q.DriverID != nil {
		base = base.Where("driver_id = ?", *q.DriverID)
	}
	if q.CustomerID != nil {
		base = base.Where("customer_id = ?", *q.CustomerID)
	}
	if q.Type != "" {
		base = base.Where("type = ?", q.Type)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactions []model.Transaction
	err := base.
		Preload("Product").Preload("Customer").Preload("Driver").Preload("User").
		Order("created_at ASC, id ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

func (r *transactionRepo) SumCustomerDebt(customerID uuid.UUID) (float64, error) {
	var debt float64
	err := r.db.Model(&model.Transaction{}).
		Where("customer_id = ? AND type = ? AND paid = ? AND is_reversed = ?",
			customerID, model.TxOut, false, false).
		Select("COALESCE(SUM(quantity * price), 0)").
		Scan(&debt).Error
	return debt, err
}

func (r *transactionRepo) SumOutstandingDebt() (float64, error) {
	var debt float64
	err := r.db.Model(&model.Transaction{}).
		Where("type = ? AND paid = ? AND is_reversed = ?", model.TxOut, false, false).
		Select("COALESCE(SUM(quantity * price), 0)").
		Scan(&debt).Error
	return debt, err
}

func (r *transactionRepo) CountActiveByProduct(productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Transaction{}).
		Where("product_id = ? AND is_reversed = ?", productID, false).
		Count(&count).Error
	return count, err
}

func (r *transactionRepo) SumAmountByDatePrefix(txType model.TransactionType, prefix string) (float64, error) {
	var total float64
	err := r.db.Model(&model.Transaction{}).
		Where("type = ? AND is_reversed = ? AND date LIKE ?", txType, false, prefix+"%").
		Select("COALESCE(SUM(quantity * price), 0)").
		Scan(&total).Error
	return total, err
}

func (r *transactionRepo) GetDailyMovement(days int) ([]DailyMovement, error) {
	since := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	rows, err := r.db.Model(&model.Transaction{}).
		Select(`
			substr(date, 1, 10) as day,
			COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity * price ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity * price ELSE 0 END), 0) as outbound
		`).
		Where("is_reversed = ? AND substr(date, 1, 10) >= ?", false, since).
		Group("substr(date, 1, 10)").
		Order("day ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []DailyMovement
	for rows.Next() {
		var data DailyMovement
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, nil
}
