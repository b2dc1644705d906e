package api

import (
	"context"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/service"
	"storefront/internal/state"
	"storefront/internal/util"
	"storefront/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const readinessTimeout = 2 * time.Second

// Options are the handler settings taken from configuration
type Options struct {
	AssetBaseURL  string
	SessionCookie string
	AuthCookie    string
}

// ReadinessCheck reports whether a dependency can serve requests
type ReadinessCheck func(ctx context.Context) error

// Handler contains HTTP handlers
type Handler struct {
	products *service.ProductService
	cart     *service.CartService
	orders   *service.OrderService
	registry *state.Registry
	sessions sessions.Store
	verifier *TokenVerifier
	opts     Options
	checks   map[string]ReadinessCheck
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	products *service.ProductService,
	cart *service.CartService,
	orders *service.OrderService,
	registry *state.Registry,
	sessionStore sessions.Store,
	verifier *TokenVerifier,
	opts Options,
) *Handler {
	return &Handler{
		products: products,
		cart:     cart,
		orders:   orders,
		registry: registry,
		sessions: sessionStore,
		verifier: verifier,
		opts:     opts,
		checks:   make(map[string]ReadinessCheck),
		logger:   util.GetLogger(),
	}
}

// AddReadinessCheck registers a dependency probed by /ready
func (h *Handler) AddReadinessCheck(name string, check ReadinessCheck) {
	h.checks[name] = check
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(template.Must(view.Templates()))

	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(prometheusMiddleware())
	router.Use(loggerMiddleware(h.logger))

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pages := router.Group("/", h.sessionMiddleware(), h.authMiddleware())
	{
		pages.GET("/products/:id", h.getProduct)
		pages.POST("/products/:id/cart", h.addToCart)
		pages.GET("/cart", h.getCart)
	}

	admin := pages.Group("/admin", h.requireAdmin())
	{
		admin.GET("/orders/:id", h.getOrder)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck probes every registered dependency
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	failed := gin.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not ready",
			"details": failed,
			"time":    time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"sessions": h.registry.Len(),
		"time":     time.Now().Unix(),
	})
}

// getProduct renders the product page for the selection in the query string
func (h *Handler) getProduct(c *gin.Context) {
	productID, ok := h.pathID(c, "Product not found.")
	if !ok {
		return
	}

	sel := selection(c.GetQuery)
	quantity := service.ParseQuantity(c.DefaultQuery("quantity", "1"))

	product, err := h.products.Load(c.Request.Context(), storeFrom(c), productID)
	if err != nil {
		h.renderError(c, err, "Product")
		return
	}

	page := view.NewProductPage(product, sel, quantity, h.opts.AssetBaseURL)
	if page.Unavailable != "" {
		util.VariantUnavailableTotal.Inc()
	}
	h.render(c, http.StatusOK, view.ProductTemplate, page)
}

// addToCart handles the add-to-cart form and redirects to the cart
func (h *Handler) addToCart(c *gin.Context) {
	productID, ok := h.pathID(c, "Product not found.")
	if !ok {
		return
	}

	st := storeFrom(c)
	sel := selection(c.GetPostForm)
	quantity := service.ParseQuantity(c.PostForm("quantity"))

	admission, product, err := h.cart.Admit(c.Request.Context(), st, service.AdmissionRequest{
		ProductID: productID,
		Selection: sel,
		Quantity:  quantity,
	})
	if err != nil {
		if product == nil {
			h.renderError(c, err, "Product")
			return
		}
		page := view.NewProductPage(product, sel, quantity, h.opts.AssetBaseURL)
		if msg := apperr.PublicMessage(err); msg != page.Unavailable {
			page.Error = msg
		}
		h.render(c, apperr.HTTPStatus(err), view.ProductTemplate, page)
		return
	}

	if wantsJSON(c) {
		after := st.State()
		c.JSON(http.StatusCreated, gin.H{
			"item": admission.Item,
			"cart": view.NewCartPage(admission.Mode, after.ActiveCart(), h.opts.AssetBaseURL),
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

// getCart renders the cart that matches the session's auth state
func (h *Handler) getCart(c *gin.Context) {
	s := storeFrom(c).State()
	mode := models.CartModeGuest
	if s.Auth.LoggedIn() {
		mode = models.CartModeAuthenticated
	}
	h.render(c, http.StatusOK, view.CartTemplate, view.NewCartPage(mode, s.ActiveCart(), h.opts.AssetBaseURL))
}

// getOrder renders the admin order page
func (h *Handler) getOrder(c *gin.Context) {
	orderID, ok := h.pathID(c, "Order not found.")
	if !ok {
		return
	}

	order, err := h.orders.Load(c.Request.Context(), storeFrom(c), service.ViewRequest{
		OrderID:   orderID,
		RequestID: requestID(c),
		ClientIP:  c.ClientIP(),
	})
	if err != nil {
		h.renderError(c, err, "Order")
		return
	}

	page := view.NewOrderPage(order).WithViews(h.orders.RecentViews(c.Request.Context(), orderID))
	h.render(c, http.StatusOK, view.OrderTemplate, page)
}

func (h *Handler) pathID(c *gin.Context, notFound string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.renderError(c, apperr.NotFoundErr(notFound), "")
		return 0, false
	}
	return id, true
}

// selection reads color and size; a field that is absent stays unset.
func selection(get func(string) (string, bool)) catalog.Selection {
	var sel catalog.Selection
	if v, ok := get("color"); ok {
		sel.Color = catalog.Choose(v)
	}
	if v, ok := get("size"); ok {
		sel.Size = catalog.Choose(v)
	}
	return sel
}
