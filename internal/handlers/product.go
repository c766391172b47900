package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/glowist/glowist-backend/internal/repos"
	"github.com/glowist/glowist-backend/internal/services"
)

type ProductHandler struct {
	productService services.ProductService
}

func NewProductHandler(productService services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (ph *ProductHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	filter := repos.ProductFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Limit:    limit,
	}
	products, err := ph.productService.List(c.Request.Context(), filter)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_products_failed", err)
		return
	}
	RespondOK(c, products)
}

func (ph *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_product_id", err)
		return
	}
	product, err := ph.productService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "load_product_failed", err)
		return
	}
	if product == nil {
		RespondError(c, http.StatusNotFound, "product_not_found", errors.New("product not found"))
		return
	}
	RespondOK(c, product)
}

func (ph *ProductHandler) Create(c *gin.Context) {
	var input services.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	product, err := ph.productService.Create(c.Request.Context(), input)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_product_failed", err)
		return
	}
	RespondOK(c, product)
}

func (ph *ProductHandler) Companies(c *gin.Context) {
	companies, err := ph.productService.Companies(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_companies_failed", err)
		return
	}
	RespondOK(c, companies)
}
