package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-inventory-ledger/internal/handler"
	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/internal/ws"
	"go-inventory-ledger/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	db.AutoMigrate(
		&model.Supplier{},
		&model.Product{},
		&model.StockTransaction{},
		&model.ReorderPoint{},
		&model.User{},
		&model.Privilege{},
		&model.Role{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	ledgerRepo := repository.NewLedgerRepo(db)
	reorderRepo := repository.NewReorderRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	ledgerService := service.NewLedgerService(ledgerRepo, wsHub)
	alertService := service.NewAlertService(reorderRepo, productRepo)
	invService := service.NewInventoryService(productRepo, ledgerService, wsHub)
	supplierService := service.NewSupplierService(supplierRepo)
	dashService := service.NewDashboardService(productRepo, ledgerRepo, alertService)
	importService := service.NewImportExportService(productRepo, ledgerService)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	invHandler := handler.NewInventoryHandler(invService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	stockHandler := handler.NewStockHandler(ledgerService)
	alertHandler := handler.NewAlertHandler(alertService)
	dashHandler := handler.NewDashboardHandler(dashService)
	importHandler := handler.NewImportExportHandler(importService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Inventory Ledger v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard Routes
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetStockMovement)

	// Product Routes
	protected.Get("/products", invHandler.GetProducts)
	protected.Get("/products/:id", invHandler.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), invHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), invHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), invHandler.DeleteProduct)

	// Supplier Routes
	protected.Get("/suppliers", supplierHandler.GetSuppliers)
	protected.Get("/suppliers/:id", supplierHandler.GetSupplier)
	protected.Post("/suppliers", middleware.RequirePrivilege("supplier:create"), supplierHandler.CreateSupplier)
	protected.Put("/suppliers/:id", middleware.RequirePrivilege("supplier:update"), supplierHandler.UpdateSupplier)
	protected.Delete("/suppliers/:id", middleware.RequirePrivilege("supplier:delete"), supplierHandler.DeleteSupplier)

	// Stock Ledger Routes (every quantity change goes through here)
	protected.Post("/products/:id/stock", middleware.RequirePrivilege("stock:adjust"), stockHandler.AdjustStock)
	protected.Post("/stock/bulk-adjust", middleware.RequirePrivilege("stock:adjust"), stockHandler.BulkAdjust)
	protected.Get("/products/:id/history", middleware.RequirePrivilege("stock:view"), stockHandler.GetHistory)
	protected.Get("/products/:id/history/stats", middleware.RequirePrivilege("stock:view"), stockHandler.GetHistoryStats)
	protected.Get("/transactions", middleware.RequirePrivilege("stock:view"), stockHandler.GetTransactions)
	protected.Get("/transactions/:id", middleware.RequirePrivilege("stock:view"), stockHandler.GetTransaction)

	// Reorder Alert Routes
	protected.Get("/alerts", middleware.RequirePrivilege("reorder:view"), alertHandler.GetAlerts)
	protected.Get("/products/:id/alert", middleware.RequirePrivilege("reorder:view"), alertHandler.GetProductAlert)
	protected.Put("/products/:id/reorder-point", middleware.RequirePrivilege("reorder:configure"), alertHandler.ConfigureReorderPoint)
	protected.Post("/reorder-points/seed-defaults", middleware.RequirePrivilege("reorder:configure"), alertHandler.SeedDefaults)

	// CSV Import/Export Routes
	protected.Post("/import/products", middleware.RequirePrivilege("data:import"), importHandler.ImportProducts)
	protected.Get("/export/products", middleware.RequirePrivilege("data:export"), importHandler.ExportProducts)

	// User Management Routes
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)

	// Privileges Route (list all available privileges)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route
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

	// 8. Graceful Shutdown
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

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// ADMIN gets ALL privileges
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		db.Model(&adminRole).Association("Privileges").Replace(allPrivileges)
		log.Println("ADMIN role assigned all privileges")
	}

	// MANAGER gets everything except user management
	managerRole, err := roleRepo.FindByCode(model.RoleManager)
	if err == nil && len(managerRole.Privileges) == 0 {
		managerPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if p.Code != "user:create" && p.Code != "user:update" && p.Code != "user:delete" && p.Code != "user:update_privilege" {
				managerPrivileges = append(managerPrivileges, p)
			}
		}
		db.Model(&managerRole).Association("Privileges").Replace(managerPrivileges)
		log.Println("MANAGER role assigned inventory privileges")
	}

	// EMPLOYEE gets the basic operations subset
	employeeRole, err := roleRepo.FindByCode(model.RoleEmployee)
	if err == nil && len(employeeRole.Privileges) == 0 {
		allowed := map[string]bool{}
		for _, code := range model.EmployeePrivileges {
			allowed[code] = true
		}
		employeePrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if allowed[p.Code] {
				employeePrivileges = append(employeePrivileges, p)
			}
		}
		db.Model(&employeeRole).Association("Privileges").Replace(employeePrivileges)
		log.Println("EMPLOYEE role assigned basic privileges")
	}

	// 4. Create default admin user with ADMIN role
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
