package service

import (
	"github.com/fairyhunter13/smartmarket-catalog/internal/model"
	"github.com/fairyhunter13/smartmarket-catalog/internal/store"
)

// Entity names.
const (
	EntityCategory         = "category"
	EntitySubCategory      = "sub_category"
	EntityProduct          = "product"
	EntityProductAttribute = "product_attribute"
	EntityProductsSku      = "products_sku"
)

// Catalog bundles one Service per entity.
type Catalog struct {
	Categories        *Service[model.Category]
	SubCategories     *Service[model.SubCategory]
	Products          *Service[model.Product]
	ProductAttributes *Service[model.ProductAttribute]
	ProductsSkus      *Service[model.ProductsSku]
}

// NewCatalog builds the services over the repositories of st.
func NewCatalog(st *store.Store, opts ...Option) *Catalog {
	return &Catalog{
		Categories:        New(EntityCategory, st.Categories, opts...),
		SubCategories:     New(EntitySubCategory, st.SubCategories, opts...),
		Products:          New(EntityProduct, st.Products, opts...),
		ProductAttributes: New(EntityProductAttribute, st.ProductAttributes, opts...),
		ProductsSkus:      New(EntityProductsSku, st.ProductsSkus, opts...),
	}
}
