package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyshkit/wyshkit-golang/internal/handlers"
	"github.com/wyshkit/wyshkit-golang/internal/middleware"
)

// CORSMiddleware allows the storefront dev server to talk to the API with
// credentials and the Authorization header.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "http://localhost:5173")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// Preflight requests stop here.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(CORSMiddleware())

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		v1.POST("/register/customer", h.RegisterCustomer)
		v1.POST("/register/partner", h.RegisterPartner)
		v1.POST("/login", h.Login)

		// --- Public Catalog & Pricing Routes ---
		v1.GET("/products/search", h.SearchProducts)
		v1.GET("/products/:id", h.GetProduct)
		v1.GET("/products/:id/quote", h.GetProductQuote)
		v1.POST("/quote", h.GetQuote)

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware(h.DB))
		{
			// --- Notification Routes ---
			auth.GET("/notifications", h.GetMyNotifications)
			auth.PUT("/notifications/:id/read", h.MarkNotificationAsRead)

			// --- AI Gift Messages ---
			auth.POST("/gift-messages/suggest", h.SuggestGiftMessage)
		}

		// --- Customer-Only Routes ---
		customer := v1.Group("/")
		customer.Use(middleware.AuthMiddleware(h.DB))
		customer.Use(middleware.CustomerMiddleware(h.DB))
		{
			customer.GET("/cart", h.GetCart)
			customer.POST("/cart/items", h.AddToCart)
			customer.PUT("/cart/items/:itemId", h.UpdateCartItem)
			customer.DELETE("/cart/items/:itemId", h.DeleteCartItem)

			customer.POST("/checkout", h.Checkout)
			customer.GET("/orders", h.GetMyOrders)
			customer.GET("/orders/:orderId", h.GetOrderDetails)

			customer.POST("/orders/:orderId/items/:itemId/preview/approve", h.ApprovePreview)
			customer.POST("/orders/:orderId/items/:itemId/preview/revision", h.RequestRevision)
		}

		// --- Partner-Only Routes ---
		partner := v1.Group("/partner")
		partner.Use(middleware.AuthMiddleware(h.DB))
		partner.Use(middleware.PartnerMiddleware(h.DB))
		{
			partner.POST("/products", h.CreateProduct)
			partner.GET("/products", h.GetMyProducts)
			partner.PUT("/products/:id", h.UpdateProduct)
			partner.DELETE("/products/:id", h.DeleteProduct)

			partner.GET("/orders", h.GetPartnerOrders)
			partner.POST("/orders/:orderId/accept", h.AcceptOrder)
			partner.PUT("/orders/:orderId/status", h.UpdateOrderStatus)
			partner.POST("/orders/:orderId/items/:itemId/preview", h.UploadPreview)

			partner.GET("/dashboard", h.GetPartnerDashboard)
		}

		// --- Admin-Only Routes ---
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(h.DB))
		admin.Use(middleware.AdminMiddleware(h.DB))
		{
			admin.GET("/partners/pending", h.GetPendingPartners)
			admin.PUT("/partners/:id/approve", h.ApprovePartner)
			admin.PUT("/users/:id/suspend", h.SuspendUser)

			admin.GET("/products/pending", h.GetPendingProducts)
			admin.PUT("/products/:id/approve", h.ApproveProduct)
			admin.PUT("/products/:id/reject", h.RejectProduct)

			admin.GET("/settings/fees", h.GetFeeSettings)
			admin.PUT("/settings/delivery-fees", h.UpdateDeliveryFeeSettings)
			admin.PUT("/settings/platform-fees", h.UpdatePlatformFeeSettings)
			admin.PUT("/settings/surge", h.UpdateSurgeConditions)
			admin.PUT("/settings/maintenance", h.SetMaintenanceMode)

			admin.POST("/commission-rules", h.CreateCommissionRule)
			admin.PUT("/commission-rules/:id/deactivate", h.DeactivateCommissionRule)
			admin.POST("/commission-overrides", h.CreateVendorCommissionOverride)
			admin.POST("/commission-preview", h.PreviewCommission)
		}
	}

	return router
}
