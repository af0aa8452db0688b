package domain

import (
	"encoding/json"
	"time"
)

// Language is one configured locale of the marketplace. Exactly one language
// carries the Default flag; only the default locale's translated fields are
// required at validation time.
type Language struct {
	ID        int64     `json:"id"`
	Locale    string    `json:"locale"`
	Title     string    `json:"title"`
	Img       *string   `json:"img,omitempty"`
	Default   bool      `json:"default"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Translation holds one locale's values for a translatable record.
type Translation struct {
	Locale      string `json:"locale"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Category is a catalog category. Categories nest through ParentID; the API
// recomposes the flat table into a tree on read.
type Category struct {
	ID           int64         `json:"id"`
	ParentID     *int64        `json:"parent_id,omitempty"`
	Img          *string       `json:"img,omitempty"`
	Active       bool          `json:"active"`
	Translations []Translation `json:"translations,omitempty"`
	Children     []Category    `json:"children,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Brand is a product brand.
type Brand struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Img       *string   `json:"img,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Unit is a sellable unit of measure (e.g., piece, kg). Position controls
// whether the unit label renders before or after the quantity.
type Unit struct {
	ID           int64         `json:"id"`
	Active       bool          `json:"active"`
	Position     string        `json:"position"` // "before" or "after"
	Translations []Translation `json:"translations,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Extra group types determine how an ExtraValue's raw Value is interpreted.
const (
	ExtraTypeText  = "text"
	ExtraTypeColor = "color"
	ExtraTypeImage = "image"
)

// ExtraGroup is an attribute category (e.g., Size) whose values combine into
// stock variants.
type ExtraGroup struct {
	ID           int64         `json:"id"`
	Type         string        `json:"type"`
	Active       bool          `json:"active"`
	Translations []Translation `json:"translations,omitempty"`
}

// ExtraValue is one selectable option of an ExtraGroup. Value is free text,
// a hex color, or an image reference depending on the group's type.
type ExtraValue struct {
	ID      int64  `json:"id"`
	GroupID int64  `json:"extra_group_id"`
	Value   string `json:"value"`
}

// Stock is one SKU row: exactly one extra value per selected group (or none,
// for the implicit default variant) with its own price and quantity. Tax is
// inherited from the parent product and read-only per row.
type Stock struct {
	ID         int64        `json:"id"`
	ProductID  int64        `json:"product_id"`
	Price      float64      `json:"price"`
	Quantity   int64        `json:"quantity"`
	SKU        string       `json:"sku"`
	Tax        float64      `json:"tax"`
	TotalPrice float64      `json:"total_price"`
	Addons     []int64      `json:"addons,omitempty"`
	Extras     []ExtraValue `json:"extras,omitempty"`
}

// Product is a catalog product with per-locale translations and a stock
// variant collection.
type Product struct {
	ID           int64         `json:"id"`
	ShopID       int64         `json:"shop_id"`
	CategoryID   *int64        `json:"category_id,omitempty"`
	BrandID      *int64        `json:"brand_id,omitempty"`
	UnitID       *int64        `json:"unit_id,omitempty"`
	Interval     int32         `json:"interval"`
	Tax          float64       `json:"tax"`
	Images       []string      `json:"images"`
	Active       bool          `json:"active"`
	Translations []Translation `json:"translations,omitempty"`
	Stocks       []Stock       `json:"stocks,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ProductEdit is a candidate update to a product, as submitted from an edit
// form. It is compared against the last-approved record to decide whether the
// change routes through the moderation workflow.
type ProductEdit struct {
	CategoryID   *int64        `json:"category_id,omitempty"`
	BrandID      *int64        `json:"brand_id,omitempty"`
	UnitID       *int64        `json:"unit_id,omitempty"`
	Interval     int32         `json:"interval"`
	Images       []string      `json:"images"`
	Translations []Translation `json:"translations"`
}

// Shop is a seller's storefront. AutoApprove, when set, overrides the global
// product_auto_approve setting for this shop's product edits.
type Shop struct {
	ID           int64         `json:"id"`
	UserID       int64         `json:"user_id"`
	Logo         *string       `json:"logo,omitempty"`
	Phone        *string       `json:"phone,omitempty"`
	AutoApprove  *bool         `json:"auto_approve,omitempty"`
	Open         bool          `json:"open"`
	Translations []Translation `json:"translations,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Request statuses for the moderation workflow.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusDeclined = "declined"
)

// Request is a proposed edit to a catalog record awaiting admin moderation.
// Data holds the serialized ProductEdit (or stock payload) to apply on
// approval.
type Request struct {
	ID        string          `json:"id"`
	ModelID   int64           `json:"model_id"`
	ModelType string          `json:"model_type"`
	Data      json.RawMessage `json:"data"`
	Status    string          `json:"status"`
	CreatedBy int64           `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SettingProductAutoApprove is the global flag consulted when a shop has no
// per-shop override.
const SettingProductAutoApprove = "product_auto_approve"

// Setting is one global key/value settings row.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
