package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace
// adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&foodRecord{},
		&orderRecord{},
	)
}

// Food schema mirrors the foods Postgres adapter.
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

// Order schema mirrors the orders Postgres adapter.
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
