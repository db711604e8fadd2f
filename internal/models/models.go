package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"type:text;not null;uniqueIndex" json:"username"`
	Password  string `gorm:"type:text;not null" json:"-"`
	FirstName string `gorm:"type:text;not null;default:''" json:"firstName"`
	LastName  string `gorm:"type:text;not null;default:''" json:"lastName"`
	Role      Role   `gorm:"type:text;not null;default:'user';check:chk_users_role,role IN ('admin','user')" json:"role"`
	Active    bool   `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// DisplayName: имя и фамилия, если заданы, иначе логин.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Username
	}
}

type Permission struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Label          string `gorm:"type:text;not null" json:"label"`
	Category       string `gorm:"type:text;not null;index" json:"category"`
	Description    string `gorm:"type:text;not null;default:''" json:"description"`
	DefaultEnabled bool   `gorm:"not null" json:"defaultEnabled"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Permission) TableName() string { return "permissions" }

type UserPermission struct {
	UserID       uint `gorm:"primaryKey"`
	PermissionID uint `gorm:"primaryKey;index"`

	User       *User       `gorm:"constraint:OnDelete:CASCADE"`
	Permission *Permission `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
}

func (UserPermission) TableName() string { return "user_permissions" }

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text;not null;default:''" json:"description"`
	Active      bool   `gorm:"not null;index" json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Category) TableName() string { return "categories" }

type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"type:text;not null;index" json:"name"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null;check:chk_products_price,price > 0" json:"price"`
	Description   string          `gorm:"type:text;not null;default:''" json:"description"`
	Image         string          `gorm:"type:text;not null;default:''" json:"image"`
	StockQuantity int             `gorm:"not null;default:0;check:chk_products_stock,stock_quantity >= 0" json:"stockQuantity"`
	TrackStock    bool            `gorm:"not null" json:"trackStock"`
	Active        bool            `gorm:"not null;index" json:"active"`
	CategoryID    uint            `gorm:"not null;index" json:"categoryId"`

	Category *Category `gorm:"constraint:OnDelete:RESTRICT" json:"category,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

type Client struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"type:text;not null;index" json:"name"`
	Phone   string `gorm:"type:text;not null;default:''" json:"phone"`
	Address string `gorm:"type:text;not null;default:''" json:"address"`
	Active  bool   `gorm:"not null;index" json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Client) TableName() string { return "clients" }

type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusUnpaid    OrderStatus = "unpaid"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	AmountPaid decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"amountPaid"`
	Change     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"change"`
	Status     OrderStatus     `gorm:"type:text;not null;default:'completed';index;check:chk_orders_status,status IN ('completed','unpaid','cancelled')" json:"status"`
	Note       *string         `gorm:"type:text" json:"note"`
	IsUnpaid   bool            `gorm:"not null" json:"isUnpaid"`
	CreatorID  uint            `gorm:"not null;index" json:"creatorId"`
	ClientID   uint            `gorm:"not null;index" json:"clientId"`

	Creator *User       `gorm:"foreignKey:CreatorID;constraint:OnDelete:RESTRICT" json:"-"`
	Client  *Client     `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Items   []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"` // каскад на позиции

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"orderId"`
	ProductID uint            `gorm:"not null;index" json:"productId"`
	Quantity  int             `gorm:"not null;check:chk_order_items_quantity,quantity > 0" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`

	Product *Product `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

func (OrderItem) TableName() string { return "order_items" }

type Spent struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Title     string          `gorm:"type:text;not null" json:"title"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null;check:chk_spents_amount,amount > 0" json:"amount"`
	Note      *string         `gorm:"type:text" json:"note"`
	CreatorID uint            `gorm:"not null;index" json:"creatorId"`

	Creator *User `gorm:"foreignKey:CreatorID;constraint:OnDelete:RESTRICT" json:"-"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Spent) TableName() string { return "spents" }

// SchemaMigration хранит запись о применённой версии схемы.
type SchemaMigration struct {
	ID        string    `gorm:"primaryKey;type:text"`
	AppliedAt time.Time `gorm:"not null"`
}

func (SchemaMigration) TableName() string { return "schema_migrations" }
