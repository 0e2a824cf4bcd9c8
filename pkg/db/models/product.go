package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a catalog entry. Shop products carry an inventory row
// when stock is limited; restaurant dishes never do.
type Product struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string         `gorm:"column:name;not null"`
	Description *string        `gorm:"column:description"`
	Category    *string        `gorm:"column:category"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	PriceFCFA   int            `gorm:"column:price_fcfa;not null"`
	IsLimited   bool           `gorm:"column:is_limited;not null;default:false"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true"`
	ImageURL    *string        `gorm:"column:image_url"`
	Inventory   *InventoryItem `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
