package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nexyn/foods-api/internal/domains/orders/domain"
	"github.com/nexyn/foods-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the order ledger in PostgreSQL using GORM-mapped
// columns.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed ledger. The caller owns the DB
// lifecycle and schema migration.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID             string    `gorm:"primaryKey;column:id;size:64"`
	FoodID         string    `gorm:"column:food_id;size:64;index"`
	FoodName       string    `gorm:"column:food_name"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents"`
	Quantity       int       `gorm:"column:quantity"`
	Buyer          string    `gorm:"column:buyer;index"`
	PurchasedAt    time.Time `gorm:"column:purchased_at;index"`
}

func (orderRecord) TableName() string { return "orders" }

func newOrderRecord(o *domain.Order) orderRecord {
	return orderRecord{
		ID:             o.ID,
		FoodID:         o.FoodID,
		FoodName:       o.FoodName,
		UnitPriceCents: o.UnitPriceCents,
		Quantity:       o.Quantity,
		Buyer:          o.Buyer,
		PurchasedAt:    o.PurchasedAt,
	}
}

func toDomain(rec *orderRecord) *domain.Order {
	return &domain.Order{
		ID:             rec.ID,
		FoodID:         rec.FoodID,
		FoodName:       rec.FoodName,
		UnitPriceCents: rec.UnitPriceCents,
		Quantity:       rec.Quantity,
		Buyer:          rec.Buyer,
		PurchasedAt:    rec.PurchasedAt,
	}
}

// Insert appends a committed purchase, assigning the ledger id and timestamp.
func (r *Repository) Insert(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := newOrderRecord(order)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.PurchasedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateID
		}
		return nil, err
	}
	return toDomain(&record), nil
}

// GetByID fetches a ledger entry by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return toDomain(&record), nil
}

// ListByBuyer returns the buyer's orders, most recent first.
func (r *Repository) ListByBuyer(ctx context.Context, buyer string) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("buyer = ?", buyer).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "purchased_at"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
		Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.Order, 0, len(records))
	for i := range records {
		list = append(list, toDomain(&records[i]))
	}
	return list, nil
}

// Delete removes a ledger entry by identifier.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&orderRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres repository not configured")
	}
	return nil
}
