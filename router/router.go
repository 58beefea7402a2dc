package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-order-api/controllers"
	"github.com/yeremiapane/restaurant-order-api/middlewares"
	"github.com/yeremiapane/restaurant-order-api/models"
	"github.com/yeremiapane/restaurant-order-api/services"
	"gorm.io/gorm"
)

type Options struct {
	DB               *gorm.DB
	Orders           *services.OrderService
	CORSAllowOrigins []string
	// RateLimiter nil berarti tanpa pembatasan
	RateLimiter *middlewares.RateLimiter
}

func SetupRouter(opts Options) *gin.Engine {
	if opts.Orders == nil {
		opts.Orders = services.NewOrderService(opts.DB)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.CORSAllowOrigins))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.RateLimit())
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	authCtrl := controllers.NewAuthController(opts.DB)
	customerCtrl := controllers.NewCustomerController(opts.DB)
	restaurantCtrl := controllers.NewRestaurantController(opts.DB)
	tableCtrl := controllers.NewTableController(opts.DB)
	menuCtrl := controllers.NewMenuController(opts.DB)
	categoryCtrl := controllers.NewMenuCategoryController(opts.DB)
	staffCtrl := controllers.NewStaffController(opts.DB)
	orderCtrl := controllers.NewOrderController(opts.Orders)
	adminCtrl := controllers.NewAdminController(opts.Orders)

	staffRoles := []models.Role{models.RoleSuperAdmin, models.RoleRestaurantAdmin, models.RoleStaff}
	adminRoles := []models.Role{models.RoleSuperAdmin, models.RoleRestaurantAdmin}

	api := r.Group("/api/v1")
	{
		// Public
		api.POST("/auth/login", middlewares.NewStrictRateLimiter(), authCtrl.Login)
		api.POST("/auth/customer", customerCtrl.CreateSession)
		api.GET("/restaurants/:restaurant_id", restaurantCtrl.GetRestaurant)
		api.GET("/restaurants/:restaurant_id/menu", menuCtrl.GetAllMenus)
		api.GET("/restaurants/:restaurant_id/categories", categoryCtrl.GetAllCategories)
		api.GET("/tables/:table_id", tableCtrl.GetTable)

		auth := api.Group("")
		auth.Use(middlewares.AuthMiddleware())
		{
			auth.GET("/auth/me", authCtrl.Me)
			auth.POST("/auth/logout", authCtrl.Logout)
			auth.POST("/auth/register", middlewares.RequireRoles(adminRoles...), authCtrl.Register)

			auth.POST("/restaurants", middlewares.RequireRoles(models.RoleSuperAdmin), restaurantCtrl.CreateRestaurant)
			auth.PUT("/restaurants/:restaurant_id", middlewares.RequireRoles(adminRoles...), restaurantCtrl.UpdateRestaurant)
			auth.GET("/restaurants/:restaurant_id/stats", middlewares.RequireRoles(staffRoles...), adminCtrl.GetDashboardStats)
			auth.POST("/restaurants/:restaurant_id/tables", middlewares.RequireRoles(adminRoles...), tableCtrl.CreateTable)
			auth.GET("/restaurants/:restaurant_id/tables", middlewares.RequireRoles(staffRoles...), tableCtrl.GetAllTables)
			auth.PUT("/tables/:table_id", middlewares.RequireRoles(adminRoles...), tableCtrl.UpdateTable)
			auth.DELETE("/tables/:table_id", middlewares.RequireRoles(adminRoles...), tableCtrl.DeleteTable)
			auth.GET("/restaurants/:restaurant_id/staff", middlewares.RequireRoles(adminRoles...), staffCtrl.ListStaff)
			auth.PUT("/restaurants/:restaurant_id/staff/:user_id", middlewares.RequireRoles(adminRoles...), staffCtrl.UpdateStaff)
			auth.DELETE("/restaurants/:restaurant_id/staff/:user_id", middlewares.RequireRoles(adminRoles...), staffCtrl.DeleteStaff)
			auth.POST("/restaurants/:restaurant_id/menu", middlewares.RequireRoles(adminRoles...), menuCtrl.CreateMenu)
			auth.POST("/restaurants/:restaurant_id/categories", middlewares.RequireRoles(adminRoles...), categoryCtrl.CreateCategory)
			auth.PATCH("/menu/:menu_id", middlewares.RequireRoles(staffRoles...), menuCtrl.UpdateMenu)

			orders := auth.Group("/orders")
			{
				orders.POST("", middlewares.RequireRoles(models.RoleCustomer, models.RoleSuperAdmin), orderCtrl.CreateOrder)
				orders.GET("/restaurant/:restaurant_id", middlewares.RequireRoles(staffRoles...), orderCtrl.ListRestaurantOrders)
				orders.GET("/table/:table_id", orderCtrl.ListTableOrders)
				orders.GET("/:order_id", orderCtrl.GetOrderByID)
				orders.GET("/:order_id/history", orderCtrl.GetOrderHistory)
				orders.PUT("/:order_id/status", middlewares.RequireRoles(staffRoles...), orderCtrl.UpdateOrderStatus)
				orders.DELETE("/:order_id", orderCtrl.CancelOrder)
			}
		}
	}

	r.GET("/ws/kds", middlewares.WebSocketAuthMiddleware(), controllers.KDSHandler(opts.CORSAllowOrigins))

	return r
}
