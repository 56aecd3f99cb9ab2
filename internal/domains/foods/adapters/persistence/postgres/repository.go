package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nexyn/foods-api/internal/domains/foods/domain"
	"github.com/nexyn/foods-api/internal/domains/foods/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists food listings in PostgreSQL using GORM-mapped columns.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed catalog. The caller owns the DB
// lifecycle and schema migration.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type foodRecord struct {
	ID            string         `gorm:"primaryKey;column:id;size:64"`
	Name          string         `gorm:"column:name;index"`
	Category      string         `gorm:"column:category;index"`
	PriceCents    int64          `gorm:"column:price_cents"`
	Origin        string         `gorm:"column:origin"`
	Description   string         `gorm:"column:description"`
	ImageURL      string         `gorm:"column:image_url"`
	Ingredients   pq.StringArray `gorm:"column:ingredients;type:text[]"`
	Quantity      int            `gorm:"column:quantity"`
	PurchaseCount int64          `gorm:"column:purchase_count;index"`
	Owner         string         `gorm:"column:owner;index"`
	OwnerName     string         `gorm:"column:owner_name"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
}

func (foodRecord) TableName() string { return "foods" }

func newFoodRecord(f *domain.Food) foodRecord {
	return foodRecord{
		ID:            f.ID,
		Name:          f.Name,
		Category:      f.Category,
		PriceCents:    f.PriceCents,
		Origin:        f.Origin,
		Description:   f.Description,
		ImageURL:      f.ImageURL,
		Ingredients:   pq.StringArray(f.Ingredients),
		Quantity:      f.Quantity,
		PurchaseCount: f.PurchaseCount,
		Owner:         f.Owner,
		OwnerName:     f.OwnerName,
	}
}

func toDomain(rec *foodRecord) *domain.Food {
	return &domain.Food{
		ID:            rec.ID,
		Name:          rec.Name,
		Category:      rec.Category,
		PriceCents:    rec.PriceCents,
		Origin:        rec.Origin,
		Description:   rec.Description,
		ImageURL:      rec.ImageURL,
		Ingredients:   append([]string(nil), rec.Ingredients...),
		Quantity:      rec.Quantity,
		PurchaseCount: rec.PurchaseCount,
		Owner:         rec.Owner,
		OwnerName:     rec.OwnerName,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

// Create inserts a new listing and assigns its id.
func (r *Repository) Create(ctx context.Context, food *domain.Food) (*domain.Food, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := newFoodRecord(food)
	record.ID = uuid.NewString()
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// Update overwrites the mutable columns of a listing. Owner and the purchase
// counter are deliberately not part of the column set: ownership is fixed at
// creation and the counter only moves through DecrementStock/RestoreStock.
func (r *Repository) Update(ctx context.Context, food *domain.Food) (*domain.Food, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := newFoodRecord(food)
	result := r.db.WithContext(ctx).
		Model(&foodRecord{}).
		Where("id = ?", food.ID).
		Updates(map[string]any{
			"name":        record.Name,
			"category":    record.Category,
			"price_cents": record.PriceCents,
			"origin":      record.Origin,
			"description": record.Description,
			"image_url":   record.ImageURL,
			"ingredients": record.Ingredients,
			"quantity":    record.Quantity,
			"owner_name":  record.OwnerName,
			"updated_at":  gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, food.ID)
}

// GetByID fetches a listing by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Food, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record foodRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return toDomain(&record), nil
}

// List returns all listings ordered by the validated sort options. The sort
// column comes from the ports allow-list, never from raw caller input.
func (r *Repository) List(ctx context.Context, opts ports.ListOptions) ([]*domain.Food, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []foodRecord
	if err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: sortColumn(opts.SortBy)}, Desc: opts.Descending}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return recordsToDomain(records), nil
}

// TopByPurchases returns the most purchased listings, ties broken by id.
func (r *Repository) TopByPurchases(ctx context.Context, limit int) ([]*domain.Food, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []foodRecord
	if err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "purchase_count"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return recordsToDomain(records), nil
}

// ListByOwner returns the listings created by the given principal.
func (r *Repository) ListByOwner(ctx context.Context, owner string) ([]*domain.Food, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []foodRecord
	if err := r.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "name"}}).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return recordsToDomain(records), nil
}

// Delete removes a listing by identifier.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&foodRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// DecrementStock subtracts quantity and bumps the purchase counter in a
// single guarded UPDATE. The quantity condition rides in the statement
// itself, so concurrent purchasers of the same listing serialize on the row
// and the stock can never go negative regardless of how many server
// processes share the database.
func (r *Repository) DecrementStock(ctx context.Context, id string, quantity int) (*domain.Food, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).
		Model(&foodRecord{}).
		Where("id = ? AND quantity >= ?", id, quantity).
		Updates(map[string]any{
			"quantity":       gorm.Expr("quantity - ?", quantity),
			"purchase_count": gorm.Expr("purchase_count + 1"),
			"updated_at":     gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Zero rows either means the listing is gone or the stock ran
		// out; re-read to report which.
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ports.ErrInsufficientStock
	}
	return r.GetByID(ctx, id)
}

// RestoreStock compensates a decrement whose downstream recording failed.
func (r *Repository) RestoreStock(ctx context.Context, id string, quantity int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&foodRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quantity":       gorm.Expr("quantity + ?", quantity),
			"purchase_count": gorm.Expr("purchase_count - 1"),
			"updated_at":     gorm.Expr("NOW()"),
		})
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

func recordsToDomain(records []foodRecord) []*domain.Food {
	list := make([]*domain.Food, 0, len(records))
	for i := range records {
		list = append(list, toDomain(&records[i]))
	}
	return list
}

func sortColumn(field ports.SortField) string {
	if field == ports.SortByPrice {
		return "price_cents"
	}
	if field == "" {
		return "name"
	}
	return string(field)
}
