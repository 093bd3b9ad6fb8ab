package main

import (
	"net/http"

	"bitbucket.org/mmdatafocus/quotes_backend/models"
	"github.com/gin-gonic/gin"
)

// Catalog administration: products, pricing tiers, variations, add-ons
// and the customer book behind the quoting flow.

func registerCatalogRoutes(api *gin.RouterGroup) {
	products := api.Group("/products")
	products.GET("", paginateProductsHandler())
	products.POST("", createProductHandler())
	products.GET("/categories", productCategoriesHandler())
	products.POST("/import", importProductsHandler())
	products.GET("/:id", getProductHandler())
	products.PUT("/:id", updateProductHandler())
	products.DELETE("/:id", deleteProductHandler())
	products.PUT("/:id/active", toggleProductHandler())
	products.GET("/:id/tiers", getProductTiersHandler())
	products.PUT("/:id/tiers", replaceProductTiersHandler())
	products.GET("/:id/variations", getVariationsHandler())
	products.POST("/:id/variations", createVariationHandler())
	products.GET("/:id/addons", getAddonsHandler())
	products.POST("/:id/addons", createAddonHandler())

	variations := api.Group("/variations")
	variations.PUT("/:id", updateVariationHandler())
	variations.DELETE("/:id", deleteVariationHandler())
	variations.PUT("/:id/active", toggleVariationHandler())

	addons := api.Group("/addons")
	addons.PUT("/:id", updateAddonHandler())
	addons.DELETE("/:id", deleteAddonHandler())
	addons.PUT("/:id/active", toggleAddonHandler())

	customers := api.Group("/customers")
	customers.GET("", paginateCustomersHandler())
	customers.POST("", createCustomerHandler())
	customers.GET("/all", listAllCustomersHandler())
	customers.GET("/:id", getCustomerHandler())
	customers.PUT("/:id", updateCustomerHandler())
	customers.DELETE("/:id", deleteCustomerHandler())
	customers.PUT("/:id/active", toggleCustomerHandler())
}

func paginateProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, after := pageParams(c)
		connection, err := models.PaginateProduct(c.Request.Context(), limit, after,
			queryString(c, "name"), queryString(c, "category"),
			queryBool(c, "isActive"), queryBool(c, "displayInWidget"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, connection)
	}
}

func createProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewProduct
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		product, err := models.CreateProduct(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, product)
	}
}

func getProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		product, err := models.GetProductWithChildren(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, product)
	}
}

func updateProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewProduct
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		product, err := models.UpdateProduct(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, product)
	}
}

func deleteProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		product, err := models.DeleteProduct(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, product)
	}
}

func toggleProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var body struct {
			IsActive *bool `json:"isActive" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "isActive is required"})
			return
		}
		product, err := models.ToggleActiveProduct(c.Request.Context(), id, *body.IsActive)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, product)
	}
}

func productCategoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := models.GetProductCategories(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, categories)
	}
}

func importProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		if fileHeader.Size > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
			return
		}
		defer file.Close()

		message, err := models.ImportProductsFromXlsx(c.Request.Context(), fileHeader.Filename, file)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, gin.H{"message": message})
	}
}

func getProductTiersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		tiers, err := models.GetPricingTiers(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, tiers)
	}
}

func replaceProductTiersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var body struct {
			Tiers []*models.NewPricingTier `json:"tiers" binding:"required,dive"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tiers, err := models.ReplaceProductTiers(c.Request.Context(), id, body.Tiers)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, tiers)
	}
}

func getVariationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		variations, err := models.GetVariations(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, variations)
	}
}

func createVariationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewVariation
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		variation, err := models.CreateVariation(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, variation)
	}
}

func updateVariationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewVariation
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		variation, err := models.UpdateVariation(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, variation)
	}
}

func deleteVariationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		variation, err := models.DeleteVariation(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, variation)
	}
}

func toggleVariationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var body struct {
			IsActive *bool `json:"isActive" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "isActive is required"})
			return
		}
		variation, err := models.ToggleActiveVariation(c.Request.Context(), id, *body.IsActive)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, variation)
	}
}

func getAddonsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		addons, err := models.GetAddons(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, addons)
	}
}

func createAddonHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewAddon
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		addon, err := models.CreateAddon(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, addon)
	}
}

func updateAddonHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewAddon
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		addon, err := models.UpdateAddon(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, addon)
	}
}

func deleteAddonHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		addon, err := models.DeleteAddon(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, addon)
	}
}

func toggleAddonHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var body struct {
			IsActive *bool `json:"isActive" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "isActive is required"})
			return
		}
		addon, err := models.ToggleActiveAddon(c.Request.Context(), id, *body.IsActive)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, addon)
	}
}

func paginateCustomersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, after := pageParams(c)
		var source *models.QuoteSource
		if raw := queryString(c, "source"); raw != nil {
			value := models.QuoteSource(*raw)
			source = &value
		}
		connection, err := models.PaginateCustomer(c.Request.Context(), limit, after,
			queryString(c, "name"), queryString(c, "phone"), queryString(c, "email"),
			source, queryBool(c, "isActive"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, connection)
	}
}

func createCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewCustomer
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		customer, err := models.CreateCustomer(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, customer)
	}
}

func listAllCustomersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		customers, err := models.ListAllCustomer(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, customers)
	}
}

func getCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		customer, err := models.GetCustomer(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, customer)
	}
}

func updateCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewCustomer
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		customer, err := models.UpdateCustomer(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, customer)
	}
}

func deleteCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		customer, err := models.DeleteCustomer(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, customer)
	}
}

func toggleCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var body struct {
			IsActive *bool `json:"isActive" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "isActive is required"})
			return
		}
		customer, err := models.ToggleActiveCustomer(c.Request.Context(), id, *body.IsActive)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, customer)
	}
}
