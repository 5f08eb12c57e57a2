package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-warehouse-ledger/internal/handler"
	"go-warehouse-ledger/internal/middleware"
	"go-warehouse-ledger/internal/model"
	"go-warehouse-ledger/internal/repository"
	"go-warehouse-ledger/internal/service"
	"go-warehouse-ledger/internal/ws"
	"go-warehouse-ledger/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Customer{}, &model.Product{}, &model.CustomerProduct{},
		&model.Driver{}, &model.Transaction{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency injection (wiring layers)
	customerRepo := repository.NewCustomerRepo(db)
	productRepo := repository.NewProductRepo(db)
	overrideRepo := repository.NewCustomerProductRepo(db)
	driverRepo := repository.NewDriverRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	ledgerService := service.NewLedgerService(txRepo, productRepo, customerRepo, driverRepo, overrideRepo, db, wsHub)
	catalogService := service.NewCatalogService(productRepo, overrideRepo, customerRepo, txRepo, wsHub)
	customerService := service.NewCustomerService(customerRepo, txRepo, db)
	driverService := service.NewDriverService(driverRepo)
	dashService := service.NewDashboardService(txRepo)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	txHandler := handler.NewTransactionHandler(ledgerService)
	productHandler := handler.NewProductHandler(catalogService)
	customerHandler := handler.NewCustomerHandler(customerService, ledgerService)
	driverHandler := handler.NewDriverHandler(driverService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Warehouse Ledger v1.0",
	})

	// Middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/movement", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetDailyMovement)

	// Customers
	protected.Get("/customers", customerHandler.GetCustomers)
	protected.Get("/customers/:id", customerHandler.GetCustomer)
	protected.Get("/customers/:id/debt", customerHandler.GetCustomerDebt)
	protected.Post("/customers", middleware.RequirePrivilege("customer:create"), customerHandler.CreateCustomer)
	protected.Put("/customers/:id", middleware.RequirePrivilege("customer:update"), customerHandler.UpdateCustomer)
	protected.Delete("/customers/:id", middleware.RequirePrivilege("customer:delete"), customerHandler.DeleteCustomer)

	// Customer-scoped catalog and price overrides
	protected.Get("/customers/:id/products", productHandler.GetCustomerProducts)
	protected.Get("/customers/:id/product-prices", productHandler.GetOverrides)
	protected.Post("/customers/:id/product-prices", middleware.RequirePrivilege("product:update"), productHandler.AddOverride)
	protected.Put("/product-prices/:id", middleware.RequirePrivilege("product:update"), productHandler.UpdateOverride)
	protected.Delete("/product-prices/:id", middleware.RequirePrivilege("product:update"), productHandler.DeleteOverride)

	// Products
	protected.Get("/products", productHandler.GetProducts)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), productHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), productHandler.DeleteProduct)

	// Drivers
	protected.Get("/drivers", driverHandler.GetDrivers)
	protected.Get("/drivers/:id", driverHandler.GetDriver)
	protected.Post("/drivers", middleware.RequirePrivilege("driver:create"), driverHandler.CreateDriver)
	protected.Put("/drivers/:id", middleware.RequirePrivilege("driver:update"), driverHandler.UpdateDriver)
	protected.Delete("/drivers/:id", middleware.RequirePrivilege("driver:delete"), driverHandler.DeleteDriver)

	// Transactions (no hard delete: reversal is the delete)
	protected.Get("/transactions", middleware.RequirePrivilege("transaction:view"), txHandler.GetTransactions)
	protected.Get("/transactions/:id", middleware.RequirePrivilege("transaction:view"), txHandler.GetTransaction)
	protected.Post("/transactions", middleware.RequirePrivilege("transaction:create"), txHandler.CreateTransaction)
	protected.Put("/transactions/:id", middleware.RequirePrivilege("transaction:update"), txHandler.UpdateTransaction)
	protected.Post("/transactions/:id/reverse", middleware.RequirePrivilege("transaction:reverse"), txHandler.ReverseTransaction)

	// User management
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Roles
	protected.Get("/roles", roleHandler.GetRoles)

	// Privileges (list all available)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	allPrivileges, _ := privilegeRepo.FindAll()

	// ADMIN gets all privileges
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		db.Model(&adminRole).Association("Privileges").Replace(allPrivileges)
		log.Println("ADMIN role assigned all privileges")
	}

	// OPERATOR gets everything except user management and reversals
	operatorRole, err := roleRepo.FindByCode(model.RoleOperator)
	if err == nil && len(operatorRole.Privileges) == 0 {
		operatorPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			switch p.Code {
			case "user:create", "user:update", "user:delete", "user:update_privilege", "transaction:reverse":
				continue
			}
			operatorPrivileges = append(operatorPrivileges, p)
		}
		db.Model(&operatorRole).Association("Privileges").Replace(operatorPrivileges)
		log.Println("OPERATOR role assigned limited privileges")
	}

	// VIEWER gets view-only privileges
	viewerRole, err := roleRepo.FindByCode(model.RoleViewer)
	if err == nil && len(viewerRole.Privileges) == 0 {
		viewerPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			switch p.Code {
			case "customer:view", "product:view", "driver:view", "transaction:view", "dashboard:view", "user:view":
				viewerPrivileges = append(viewerPrivileges, p)
			}
		}
		db.Model(&viewerRole).Association("Privileges").Replace(viewerPrivileges)
		log.Println("VIEWER role assigned view privileges")
	}

	// Default admin user
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		adminRole, _ := roleRepo.FindByCode(model.RoleAdmin)

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Administrator",
			PhoneNumber: "",
			RoleID:      &adminRole.ID,
			IsActive:    true,
			Privileges:  adminRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin@example.com / admin123 (ADMIN)")
		}
	}
}
