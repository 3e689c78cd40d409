package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email       string     `gorm:"type:text;not null" json:"email"` // UNIQUE lower(email) создаётся в миграции
	Password    string     `gorm:"type:text;not null" json:"-"`     // bcrypt hash
	FirstName   string     `gorm:"type:text;not null" json:"first_name"`
	LastName    string     `gorm:"type:text;not null" json:"last_name"`
	IsActive    bool       `gorm:"not null" json:"is_active"`
	IsStaff     bool       `gorm:"not null;index" json:"is_staff"`
	IsSuperuser bool       `gorm:"not null" json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now();index" json:"date_joined"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_categories_name" json:"name"`
	Slug      string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_categories_slug" json:"slug"`
	Image     *string   `gorm:"type:text" json:"image,omitempty"` // object path in media storage
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`

	Products []Product `gorm:"foreignKey:CategoryID;-:migration" json:"-"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}

type Product struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Slug        string     `gorm:"type:varchar(255);not null;uniqueIndex:ux_products_slug" json:"slug"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`

	Category *Category       `gorm:"foreignKey:CategoryID;-:migration" json:"category,omitempty"`
	Variants []ProductVariant `gorm:"foreignKey:ProductID;-:migration" json:"variants,omitempty"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = slug.Make(p.Name)
	}
	return nil
}

type ProductVariant struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:ux_variants_product_color" json:"product_id"`
	Color          string          `gorm:"type:varchar(100);not null;uniqueIndex:ux_variants_product_color" json:"color"`
	ModelNumber    *string         `gorm:"type:varchar(100);uniqueIndex:ux_variants_model_number" json:"model_number,omitempty"`
	Price          decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Stock          int32           `gorm:"not null" json:"stock"` // знаковый: политика backorder допускает уход в минус
	Image          string          `gorm:"type:text;not null" json:"image"`
	SecondaryImage *string         `gorm:"type:text" json:"secondary_image,omitempty"`
	VideoURL       *string         `gorm:"type:text" json:"video_url,omitempty"`
	CreatedAt      time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null;default:now()" json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID;-:migration" json:"product,omitempty"`
}

func (ProductVariant) TableName() string { return "product_variants" }

// Cart belongs either to a user or to an anonymous session key.
type Cart struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	SessionKey *string    `gorm:"type:varchar(40);index" json:"-"`
	CreatedAt  time.Time  `gorm:"not null;default:now();index" json:"created_at"`

	Items []CartItem `gorm:"foreignKey:CartID;-:migration" json:"items,omitempty"`
}

func (Cart) TableName() string { return "carts" }

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_cart_items_cart_variant" json:"cart_id"`
	VariantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_cart_items_cart_variant;index" json:"variant_id"`
	Quantity  int32     `gorm:"type:int;not null" json:"quantity"` // CHECK (quantity >= 1) в миграции
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`

	Variant *ProductVariant `gorm:"foreignKey:VariantID;-:migration" json:"variant,omitempty"`
}

func (CartItem) TableName() string { return "cart_items" }

// LineTotal uses the variant price as loaded; Variant must be preloaded.
func (ci *CartItem) LineTotal() decimal.Decimal {
	if ci.Variant == nil {
		return decimal.Zero
	}
	return ci.Variant.Price.Mul(decimal.NewFromInt32(ci.Quantity))
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusSending   OrderStatus = "sending"
	OrderStatusCompleted OrderStatus = "completed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusSending, OrderStatusCompleted:
		return true
	}
	return false
}

// ShippingAddress is stored inline on the order as a snapshot.
type ShippingAddress struct {
	FullName     string `gorm:"type:varchar(255);not null" json:"full_name"`
	AddressLine1 string `gorm:"type:varchar(255);not null" json:"address_line1"`
	AddressLine2 string `gorm:"type:varchar(255);not null;default:''" json:"address_line2"`
	City         string `gorm:"type:varchar(100);not null" json:"city"`
	State        string `gorm:"type:varchar(100);not null" json:"state"`
	PostalCode   string `gorm:"type:varchar(20);not null" json:"postal_code"`
	Country      string `gorm:"type:varchar(100);not null" json:"country"`
	Phone        string `gorm:"type:varchar(20);not null" json:"phone"`
}

type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      *uuid.UUID      `gorm:"type:uuid;index" json:"user_id,omitempty"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	IsPaid      bool            `gorm:"not null" json:"is_paid"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Shipping    ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping"`
	CreatedAt   time.Time       `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;default:now()" json:"updated_at"`

	User  *User       `gorm:"foreignKey:UserID;-:migration" json:"user,omitempty"`
	Items []OrderItem `gorm:"foreignKey:OrderID;-:migration" json:"items,omitempty"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	VariantID *uuid.UUID      `gorm:"type:uuid;index" json:"variant_id,omitempty"`
	Quantity  int32           `gorm:"type:int;not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"` // цена на момент заказа
	CreatedAt time.Time       `gorm:"not null;default:now()" json:"created_at"`

	Variant *ProductVariant `gorm:"foreignKey:VariantID;-:migration" json:"variant,omitempty"`
}

func (OrderItem) TableName() string { return "order_items" }

func (oi *OrderItem) LineTotal() decimal.Decimal {
	return oi.Price.Mul(decimal.NewFromInt32(oi.Quantity))
}
