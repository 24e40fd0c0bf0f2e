package handler

import (
	"net/http"

	"shopit/storefront-service/internal/app/storefront/entity"
	"shopit/storefront-service/internal/app/storefront/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ProductHandler struct {
	productService service.ProductServiceInterface
	pageSize       int
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductServiceInterface, pageSize int) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		pageSize:       pageSize,
		validator:      validator.New(),
	}
}

// GetProducts GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	filter, err := ParseProductFilter(c.Request.URL.Query(), h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.productService.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":                 true,
		"products":                page.Products,
		"products_count":          page.ProductsCount,
		"filtered_products_count": page.FilteredProductsCount,
		"res_per_page":            page.ResPerPage,
		"page":                    page.Page,
	})
}

// GetAdminProducts GET /admin/products
func (h *ProductHandler) GetAdminProducts(c *gin.Context) {
	products, err := h.productService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

// CreateProduct POST /admin/product/new
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	principal, _ := currentPrincipal(c)

	var req entity.CreateProductRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "product": product})
}

// GetProduct GET /product/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

// UpdateProduct PUT /admin/product/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req entity.UpdateProductRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

// DeleteProduct DELETE /admin/product/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product is deleted."})
}

// UpsertReview PUT /review
func (h *ProductHandler) UpsertReview(c *gin.Context) {
	principal, _ := currentPrincipal(c)

	var req entity.ReviewRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	if _, err := h.productService.UpsertReview(c.Request.Context(), principal, &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetReviews GET /reviews?id=
func (h *ProductHandler) GetReviews(c *gin.Context) {
	productID := c.Query("id")
	if productID == "" {
		abortWithError(c, http.StatusBadRequest, "id is required")
		return
	}

	reviews, err := h.productService.GetReviews(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
}

// DeleteReview DELETE /reviews?productId=&id=
func (h *ProductHandler) DeleteReview(c *gin.Context) {
	principal, _ := currentPrincipal(c)

	productID, reviewID := c.Query("productId"), c.Query("id")
	if productID == "" || reviewID == "" {
		abortWithError(c, http.StatusBadRequest, "productId and id are required")
		return
	}

	if _, err := h.productService.DeleteReview(c.Request.Context(), principal, productID, reviewID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
