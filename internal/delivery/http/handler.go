package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/beanery/storefront/internal/domain"
	"github.com/beanery/storefront/internal/i18n"
	"github.com/beanery/storefront/internal/infrastructure/catalogapi"
	"github.com/beanery/storefront/internal/usecase"
	"github.com/gin-gonic/gin"
)

// CatalogUsecase is the product side of the storefront
type CatalogUsecase interface {
	ViewProduct(ctx context.Context, req usecase.ViewRequest) (*usecase.ProductView, error)
}

// CartUsecase manages session carts
type CartUsecase interface {
	CreateCart(ctx context.Context) (*domain.Cart, error)
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID string, req domain.AddToCartRequest, lang domain.Language, client usecase.ClientInfo) (*domain.Cart, []domain.Notice, error)
	UpdateQuantity(ctx context.Context, cartID, lineID string, quantity int) (*domain.Cart, []domain.Notice, error)
	RemoveItem(ctx context.Context, cartID, lineID string) (*domain.Cart, error)
}

// AdminUsecase is the back-office catalog editor
type AdminUsecase interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	SaveProduct(ctx context.Context, id string, product domain.Product) (*domain.Product, error)
}

// Authenticator checks admin credentials and tokens
type Authenticator interface {
	Login(username, password string) (string, time.Time, error)
	Validate(token string) (string, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog       CatalogUsecase
	carts         CartUsecase
	admin         AdminUsecase
	catalogSource string
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog CatalogUsecase, carts CartUsecase, admin AdminUsecase, catalogSource string) *Handler {
	return &Handler{
		catalog:       catalog,
		carts:         carts,
		admin:         admin,
		catalogSource: catalogSource,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "beanery-storefront",
		"version": "1.0.0",
		"catalog": h.catalogSource,
	})
}

// GetProduct returns the product page state. Facet query parameters select a
// variation; without them the initial selection is used.
func (h *Handler) GetProduct(c *gin.Context) {
	var sel domain.Selection
	if err := c.ShouldBindQuery(&sel); err != nil {
		h.badRequest(c, err)
		return
	}

	req := h.viewRequest(c)
	if !sel.IsEmpty() {
		req.Selection = &sel
	}
	h.renderProduct(c, req)
}

// ResolveVariant resolves a selection posted as JSON
func (h *Handler) ResolveVariant(c *gin.Context) {
	var sel domain.Selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		h.badRequest(c, err)
		return
	}

	req := h.viewRequest(c)
	req.Selection = &sel
	h.renderProduct(c, req)
}

func (h *Handler) viewRequest(c *gin.Context) usecase.ViewRequest {
	return usecase.ViewRequest{
		ProductID: c.Param("id"),
		Lang:      translatorFrom(c).Lang(),
		Client:    clientInfo(c),
	}
}

func (h *Handler) renderProduct(c *gin.Context, req usecase.ViewRequest) {
	view, err := h.catalog.ViewProduct(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}

	view.Notices = translatorFrom(c).Notices(view.Notices)
	c.JSON(http.StatusOK, view)
}

// CreateCart starts an empty cart
func (h *Handler) CreateCart(c *gin.Context) {
	cart, err := h.carts.CreateCart(c.Request.Context())
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cart": cart})
}

// GetCart returns a cart
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.carts.GetCart(c.Request.Context(), c.Param("cartId"))
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// AddCartItem resolves a selection and adds it to the cart
func (h *Handler) AddCartItem(c *gin.Context) {
	var req domain.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	t := translatorFrom(c)
	cart, notices, err := h.carts.AddItem(c.Request.Context(), c.Param("cartId"), req, t.Lang(), clientInfo(c))
	if err != nil {
		h.respondError(c, err, notices)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "notices": t.Notices(notices)})
}

// UpdateQuantityRequest is the body of a cart line update
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// UpdateCartItem sets the quantity of a cart line
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	cart, notices, err := h.carts.UpdateQuantity(c.Request.Context(), c.Param("cartId"), c.Param("lineId"), *req.Quantity)
	if err != nil {
		h.respondError(c, err, notices)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "notices": translatorFrom(c).Notices(notices)})
}

// RemoveCartItem deletes a cart line
func (h *Handler) RemoveCartItem(c *gin.Context) {
	cart, err := h.carts.RemoveItem(c.Request.Context(), c.Param("cartId"), c.Param("lineId"))
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// LoginRequest is the admin login body
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin exchanges credentials for a bearer token
func AdminLogin(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
			return
		}

		token, expires, err := auth.Login(req.Username, req.Password)
		if err != nil {
			log.Printf("[ADMIN] Failed login for %q from %s", req.Username, c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": domain.ErrUnauthorized.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "expiresAt": expires.UTC()})
	}
}

// AdminListProducts returns the writable catalog
func (h *Handler) AdminListProducts(c *gin.Context) {
	products, err := h.admin.ListProducts(c.Request.Context())
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// AdminSaveProduct creates or replaces a product. The body goes through the
// same ingestion mapping as upstream data, legacy facet keys included.
func (h *Handler) AdminSaveProduct(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.badRequest(c, err)
		return
	}

	product, err := catalogapi.MapDraft(body)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	saved, err := h.admin.SaveProduct(c.Request.Context(), c.Param("id"), *product)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	log.Printf("[ADMIN] %s saved product %q", c.GetString(adminSubjectKey), saved.ID)
	c.JSON(http.StatusOK, gin.H{"product": saved})
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid_request",
		"message": err.Error(),
	})
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error, notices []domain.Notice) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}

	body := gin.H{
		"error":   code,
		"message": err.Error(),
	}
	if status == http.StatusServiceUnavailable {
		body["status"] = "unavailable"
		if !hasNotice(notices, domain.NoticeCatalogUnavailable) {
			notices = append(notices, domain.Notice{Level: domain.NoticeError, Code: domain.NoticeCatalogUnavailable})
		}
	}
	if len(notices) > 0 {
		body["notices"] = translatorFrom(c).Notices(notices)
	}
	c.JSON(status, body)
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, domain.ErrCartLineNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, domain.ErrInvalidDiscount):
		return http.StatusUnprocessableEntity, "invalid_discount"
	case errors.Is(err, domain.ErrDuplicateVariant):
		return http.StatusConflict, "duplicate_variant"
	case errors.Is(err, domain.ErrNoMatchingVariant):
		return http.StatusUnprocessableEntity, "no_matching_variant"
	case errors.Is(err, domain.ErrOutOfStock):
		return http.StatusConflict, "out_of_stock"
	case errors.Is(err, domain.ErrCatalogUnavailable),
		errors.Is(err, domain.ErrUpstreamFailure):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, domain.ErrCatalogReadOnly):
		return http.StatusNotImplemented, "read_only"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func hasNotice(notices []domain.Notice, code domain.NoticeCode) bool {
	for _, n := range notices {
		if n.Code == code {
			return true
		}
	}
	return false
}

// translatorFrom returns the request translator set by LanguageMiddleware
func translatorFrom(c *gin.Context) i18n.Translator {
	if v, ok := c.Get(translatorKey); ok {
		if t, ok := v.(i18n.Translator); ok {
			return t
		}
	}
	return i18n.New(domain.LanguageEnglish)
}

// clientInfo collects the metadata forwarded with conversion events
func clientInfo(c *gin.Context) usecase.ClientInfo {
	clientID := c.GetHeader("X-Client-ID")
	if clientID == "" {
		if cookie, err := c.Cookie("_ga"); err == nil {
			clientID = cookie
		}
	}
	return usecase.ClientInfo{
		ID:        clientID,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		PageURL:   c.Request.Referer(),
	}
}
