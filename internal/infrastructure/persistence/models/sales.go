package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// The models below map tables owned by the surrounding point-of-sale
// application. This service only reads them; migrations never create them.
// Tests use them with AutoMigrate to stand the tables up in SQLite.

// UserModel is the slice of users needed to resolve a seller's role
type UserModel struct {
	ID     string `gorm:"type:varchar(64);primary_key"`
	RoleID *int64
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ProductModel is the slice of products needed for planning
type ProductModel struct {
	ID            string          `gorm:"type:varchar(64);primary_key"`
	Name          string          `gorm:"type:varchar(200);not null"`
	StockQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// SaleStatusCompleted is the only sale status counted by revenue and consumption
const SaleStatusCompleted = "completed"

// SaleModel is the slice of sales needed for planning windows
type SaleModel struct {
	ID        string    `gorm:"type:varchar(64);primary_key"`
	Status    string    `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// SaleItemModel is one line of a sale
type SaleItemModel struct {
	ID         string          `gorm:"type:varchar(64);primary_key"`
	SaleID     string          `gorm:"type:varchar(64);not null;index"`
	ProductID  string          `gorm:"type:varchar(64);not null;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}
