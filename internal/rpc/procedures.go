package rpc

import (
	mw "pos-service/internal/middleware"
	"pos-service/internal/permissions"
	"pos-service/internal/service"
)

type Services struct {
	Auth        *service.AuthService
	Categories  *service.CategoryService
	Products    *service.ProductService
	Clients     *service.ClientService
	Orders      *service.OrderService
	Spents      *service.SpentService
	Users       *service.UserService
	Permissions *service.PermissionService
	Reports     *service.ReportService
}

// Procedures собирает полный каталог процедур, доступных клиенту.
func Procedures(s Services) []Procedure {
	return []Procedure{
		Proc("auth.register", mw.Public(), s.Auth.Register),
		Proc("auth.login", mw.Public(), s.Auth.Login),
		Proc("auth.refresh", mw.Public(), s.Auth.Refresh),
		NoInput("auth.me", mw.Authenticated(), s.Auth.Me),

		NoInput("categories.getAll", mw.Permission(permissions.CategoriesView), s.Categories.GetAll),
		Proc("categories.getById", mw.Permission(permissions.CategoriesView), s.Categories.GetByID),
		Proc("categories.create", mw.Permission(permissions.CategoriesCreate), s.Categories.Create),
		Proc("categories.update", mw.Permission(permissions.CategoriesEdit), s.Categories.Update),
		Proc("categories.delete", mw.Permission(permissions.CategoriesDelete), s.Categories.Delete),
		Proc("categories.restore", mw.Permission(permissions.CategoriesDelete), s.Categories.Restore),

		NoInput("products.getAll", mw.Permission(permissions.ProductsView), s.Products.GetAll),
		Proc("products.getByCategory", mw.Permission(permissions.ProductsView), s.Products.GetByCategory),
		Proc("products.getById", mw.Permission(permissions.ProductsView), s.Products.GetByID),
		Proc("products.create", mw.Permission(permissions.ProductsCreate), s.Products.Create),
		Proc("products.update", mw.Permission(permissions.ProductsEdit), s.Products.Update),
		Proc("products.delete", mw.Permission(permissions.ProductsDelete), s.Products.Delete),
		Proc("products.restore", mw.Permission(permissions.ProductsDelete), s.Products.Restore),
		Proc("products.updateStock", mw.Permission(permissions.ProductsEdit), s.Products.UpdateStock),

		NoInput("clients.getAll", mw.Permission(permissions.ClientsView), s.Clients.GetAll),
		Proc("clients.getById", mw.Permission(permissions.ClientsView), s.Clients.GetByID),
		Proc("clients.create", mw.Permission(permissions.ClientsCreate), s.Clients.Create),
		Proc("clients.update", mw.Permission(permissions.ClientsEdit), s.Clients.Update),
		Proc("clients.delete", mw.Permission(permissions.ClientsDelete), s.Clients.Delete),
		Proc("clients.restore", mw.Permission(permissions.ClientsDelete), s.Clients.Restore),

		Proc("orders.getAll", mw.Permission(permissions.OrdersView), s.Orders.GetAll),
		Proc("orders.getById", mw.Permission(permissions.OrdersView), s.Orders.GetByID),
		Proc("orders.create", mw.Permission(permissions.OrdersCreate), s.Orders.Create),
		Proc("orders.update", mw.Permission(permissions.OrdersEdit), s.Orders.Update),
		Proc("orders.cancel", mw.Permission(permissions.OrdersDelete), s.Orders.Cancel),

		Proc("spents.getAll", mw.Permission(permissions.SpentsView), s.Spents.GetAll),
		Proc("spents.getById", mw.Permission(permissions.SpentsView), s.Spents.GetByID),
		Proc("spents.create", mw.Permission(permissions.SpentsCreate), s.Spents.Create),
		Proc("spents.update", mw.Permission(permissions.SpentsEdit), s.Spents.Update),
		Proc("spents.delete", mw.Permission(permissions.SpentsDelete), s.Spents.Delete),

		NoInput("users.getAll", mw.Admin(), s.Users.GetAll),
		Proc("users.create", mw.Admin(), s.Users.Create),
		Proc("users.getPermissions", mw.Authenticated(), s.Users.GetPermissions),
		Proc("users.updateUserPermissions", mw.Admin(), s.Users.UpdatePermissions),

		NoInput("permissions.getAll", mw.Admin(), s.Permissions.GetAll),

		Proc("reports.summary", mw.Permission(permissions.ReportsSales), s.Reports.Summary),
	}
}

// NewCatalog собирает реестр и сверяет права с каталогом.
func NewCatalog(s Services) (*Registry, error) {
	reg := NewRegistry()
	reg.Register(Procedures(s)...)
	if err := reg.Validate(permissions.Known); err != nil {
		return nil, err
	}
	return reg, nil
}
