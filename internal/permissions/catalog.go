package permissions

import "pos-service/internal/models"

const (
	ProductsView   = "products.view"
	ProductsCreate = "products.create"
	ProductsEdit   = "products.edit"
	ProductsDelete = "products.delete"

	CategoriesView   = "categories.view"
	CategoriesCreate = "categories.create"
	CategoriesEdit   = "categories.edit"
	CategoriesDelete = "categories.delete"

	OrdersView   = "orders.view"
	OrdersCreate = "orders.create"
	OrdersEdit   = "orders.edit"
	OrdersDelete = "orders.delete"

	ClientsView   = "clients.view"
	ClientsCreate = "clients.create"
	ClientsEdit   = "clients.edit"
	ClientsDelete = "clients.delete"

	SpentsView   = "spents.view"
	SpentsCreate = "spents.create"
	SpentsEdit   = "spents.edit"
	SpentsDelete = "spents.delete"

	ReportsSales     = "reports.sales"
	ReportsInventory = "reports.inventory"
	ReportsFinancial = "reports.financial"

	UsersView   = "users.view"
	UsersCreate = "users.create"
	UsersEdit   = "users.edit"
	UsersDelete = "users.delete"
)

var catalog = []models.Permission{
	{Name: ProductsView, Label: "View Products", Category: "Products", Description: "Can view product list and details", DefaultEnabled: true},
	{Name: ProductsCreate, Label: "Create Products", Category: "Products", Description: "Can create new products"},
	{Name: ProductsEdit, Label: "Edit Products", Category: "Products", Description: "Can edit existing products and stock"},
	{Name: ProductsDelete, Label: "Delete Products", Category: "Products", Description: "Can delete and restore products"},

	{Name: CategoriesView, Label: "View Categories", Category: "Categories", Description: "Can view category list and details", DefaultEnabled: true},
	{Name: CategoriesCreate, Label: "Create Categories", Category: "Categories", Description: "Can create new categories"},
	{Name: CategoriesEdit, Label: "Edit Categories", Category: "Categories", Description: "Can edit existing categories"},
	{Name: CategoriesDelete, Label: "Delete Categories", Category: "Categories", Description: "Can delete and restore categories"},

	{Name: OrdersView, Label: "View Orders", Category: "Orders", Description: "Can view order list and details", DefaultEnabled: true},
	{Name: OrdersCreate, Label: "Create Orders", Category: "Orders", Description: "Can create new orders", DefaultEnabled: true},
	{Name: OrdersEdit, Label: "Edit Orders", Category: "Orders", Description: "Can edit existing orders"},
	{Name: OrdersDelete, Label: "Delete Orders", Category: "Orders", Description: "Can cancel/delete orders"},

	{Name: ClientsView, Label: "View Clients", Category: "Clients", Description: "Can view client list and details", DefaultEnabled: true},
	{Name: ClientsCreate, Label: "Create Clients", Category: "Clients", Description: "Can create new clients", DefaultEnabled: true},
	{Name: ClientsEdit, Label: "Edit Clients", Category: "Clients", Description: "Can edit existing clients"},
	{Name: ClientsDelete, Label: "Delete Clients", Category: "Clients", Description: "Can delete and restore clients"},

	{Name: SpentsView, Label: "View Expenses", Category: "Expenses", Description: "Can view expense list and details", DefaultEnabled: true},
	{Name: SpentsCreate, Label: "Create Expenses", Category: "Expenses", Description: "Can record new expenses"},
	{Name: SpentsEdit, Label: "Edit Expenses", Category: "Expenses", Description: "Can edit existing expenses"},
	{Name: SpentsDelete, Label: "Delete Expenses", Category: "Expenses", Description: "Can delete expenses"},

	{Name: ReportsSales, Label: "Sales Reports", Category: "Reports", Description: "Can view sales reports"},
	{Name: ReportsInventory, Label: "Inventory Reports", Category: "Reports", Description: "Can view inventory reports"},
	{Name: ReportsFinancial, Label: "Financial Reports", Category: "Reports", Description: "Can view financial reports"},

	{Name: UsersView, Label: "View Users", Category: "Users", Description: "Can view user list and details", DefaultEnabled: true},
	{Name: UsersCreate, Label: "Create Users", Category: "Users", Description: "Can create new users"},
	{Name: UsersEdit, Label: "Edit Users", Category: "Users", Description: "Can edit existing users"},
	{Name: UsersDelete, Label: "Delete Users", Category: "Users", Description: "Can delete users"},
}

// Catalog возвращает копию каталога прав, который засевается в базу при старте.
func Catalog() []models.Permission {
	out := make([]models.Permission, len(catalog))
	copy(out, catalog)
	return out
}

func Known(name string) bool {
	for _, p := range catalog {
		if p.Name == name {
			return true
		}
	}
	return false
}
