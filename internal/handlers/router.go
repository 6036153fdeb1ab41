package handlers

import (
	"net/http"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

// Router bundles the handlers mounted by NewRouter. WhatsApp is optional.
type Router struct {
	Storefront *StorefrontHandler
	Cart       *CartHandler
	Orders     *OrderHandler
	Admin      *AdminHandler
	WhatsApp   *WhatsAppHandler
	Auth       services.AuthService
}

func NewRouter(r Router) *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if r.WhatsApp != nil {
		router.POST("/api/whatsapp/webhook", r.WhatsApp.HandleWebhook)
	}

	api := router.Group("/api")
	{
		api.GET("/categories", r.Storefront.ListCategories)
		api.GET("/categories/:slug", r.Storefront.GetCategory)
		api.GET("/products", r.Storefront.ListProducts)
		api.GET("/products/featured", r.Storefront.FeaturedProducts)
		api.GET("/products/:slug", r.Storefront.GetProduct)
		api.GET("/districts", r.Storefront.ListDistricts)
		api.GET("/sliders", r.Storefront.ListSliders)
		api.GET("/features", r.Storefront.ListFeatures)

		api.GET("/cart", r.Cart.GetCart)
		api.POST("/cart", r.Cart.AddItem)
		api.PUT("/cart", r.Cart.UpdateItem)
		api.DELETE("/cart", r.Cart.RemoveItem)

		api.POST("/orders", r.Orders.PlaceOrder)
		api.POST("/checkout", r.Orders.Checkout)
		api.GET("/orders/:number", r.Orders.TrackOrder)
	}

	router.POST("/api/admin/login", r.Admin.Login)

	admin := router.Group("/api/admin", AdminAuth(r.Auth))
	{
		admin.GET("/categories", r.Admin.ListCategories)
		admin.GET("/categories/:id", r.Admin.GetCategory)
		admin.POST("/categories", r.Admin.CreateCategory)
		admin.PUT("/categories/:id", r.Admin.UpdateCategory)
		admin.PATCH("/categories/:id", r.Admin.UpdateCategory)
		admin.DELETE("/categories/:id", r.Admin.DeleteCategory)

		admin.GET("/products", r.Admin.ListProducts)
		admin.GET("/products/:id", r.Admin.GetProduct)
		admin.POST("/products", r.Admin.CreateProduct)
		admin.PUT("/products/:id", r.Admin.UpdateProduct)
		admin.PATCH("/products/:id", r.Admin.UpdateProduct)
		admin.DELETE("/products/:id", r.Admin.DeleteProduct)

		admin.GET("/districts", r.Admin.ListDistricts)
		admin.GET("/districts/:id", r.Admin.GetDistrict)
		admin.POST("/districts", r.Admin.CreateDistrict)
		admin.PUT("/districts/:id", r.Admin.UpdateDistrict)
		admin.PATCH("/districts/:id", r.Admin.UpdateDistrict)
		admin.DELETE("/districts/:id", r.Admin.DeleteDistrict)

		admin.GET("/customers", r.Admin.ListCustomers)
		admin.GET("/customers/:id", r.Admin.GetCustomer)
		admin.POST("/customers", r.Admin.CreateCustomer)
		admin.PUT("/customers/:id", r.Admin.UpdateCustomer)
		admin.PATCH("/customers/:id", r.Admin.UpdateCustomer)
		admin.DELETE("/customers/:id", r.Admin.DeleteCustomer)

		admin.GET("/sliders", r.Admin.ListSliders)
		admin.GET("/sliders/:id", r.Admin.GetSlider)
		admin.POST("/sliders", r.Admin.CreateSlider)
		admin.PUT("/sliders/:id", r.Admin.UpdateSlider)
		admin.PATCH("/sliders/:id", r.Admin.UpdateSlider)
		admin.DELETE("/sliders/:id", r.Admin.DeleteSlider)

		admin.GET("/features", r.Admin.ListFeatures)
		admin.GET("/features/:id", r.Admin.GetFeature)
		admin.POST("/features", r.Admin.CreateFeature)
		admin.PUT("/features/:id", r.Admin.UpdateFeature)
		admin.PATCH("/features/:id", r.Admin.UpdateFeature)
		admin.DELETE("/features/:id", r.Admin.DeleteFeature)

		admin.GET("/orders", r.Orders.ListOrders)
		admin.GET("/orders/:id", r.Orders.GetOrder)
		admin.PATCH("/orders/:id", r.Orders.UpdateOrder)
		admin.DELETE("/orders/:id", r.Orders.CancelOrder)
	}

	return router
}
