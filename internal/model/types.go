// Package model defines the catalog entities used by the service.
package model

import "github.com/shopspring/decimal"

// Identity is the store-assigned key shared by every entity.
// Zero means the record has not been persisted yet.
type Identity struct {
	ID int64 `json:"id" gorm:"primaryKey;autoIncrement"`
}

// Key returns the identity value.
func (i *Identity) Key() int64 { return i.ID }

// SetKey overwrites the identity value. Only gateways call it.
func (i *Identity) SetKey(id int64) { i.ID = id }

// Keyed is implemented by pointers to every entity through the embedded Identity.
type Keyed interface {
	Key() int64
	SetKey(id int64)
}

// Category groups products and sub-categories.
type Category struct {
	Identity
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// TableName maps Category to its table.
func (Category) TableName() string { return "categories" }

// SubCategory belongs to a Category. CategoryID is not checked for existence.
type SubCategory struct {
	Identity
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CategoryID  *int64  `json:"categoryId" gorm:"not null;index"`
}

func (SubCategory) TableName() string { return "sub_categories" }

// Product is a sellable item listed under a Category.
type Product struct {
	Identity
	Name        *string `json:"name"`
	Description *string `json:"description" gorm:"type:text"`
	Summary     *string `json:"summary" gorm:"type:text"`
	Cover       *string `json:"cover"`
	CategoryID  *int64  `json:"categoryId" gorm:"not null;index"`
}

func (Product) TableName() string { return "products" }

// ProductAttribute is one variant value (a color, a size) of a Product.
type ProductAttribute struct {
	Identity
	Value     *string        `json:"value"`
	Type      *AttributeType `json:"type" gorm:"type:varchar(16)"`
	ProductID *int64         `json:"productId" gorm:"not null;index"`
}

func (ProductAttribute) TableName() string { return "product_attributes" }

// ProductsSku is a stock keeping unit: a product in one size and color with
// its own price and quantity on hand.
type ProductsSku struct {
	Identity
	ProductID        *int64           `json:"productId" gorm:"not null;index"`
	SizeAttributeID  *int64           `json:"sizeAttributeId"`
	ColorAttributeID *int64           `json:"colorAttributeId"`
	Sku              *string          `json:"sku"`
	Price            *decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	Quantity         *int64           `json:"quantity"`
}

func (ProductsSku) TableName() string { return "products_skus" }

// All returns one zero value of every entity, in migration order.
func All() []any {
	return []any{&Category{}, &SubCategory{}, &Product{}, &ProductAttribute{}, &ProductsSku{}}
}

// Ptr returns a pointer to v. It keeps patch literals short.
func Ptr[T any](v T) *T { return &v }
