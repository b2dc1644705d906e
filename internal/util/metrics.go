package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProductViewsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_product_views_total",
		Help: "Total number of product pages rendered",
	})

	VariantUnavailableTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_variant_unavailable_total",
		Help: "Total number of color/size selections that matched no variant",
	})

	CartAdmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_admissions_total",
		Help: "Total number of add-to-cart attempts",
	}, []string{"mode", "result"})

	OrderViewsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_admin_order_views_total",
		Help: "Total number of admin order pages rendered",
	})

	FetchesSupersededTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_fetches_superseded_total",
		Help: "Fetch results discarded because a newer request for the same session won",
	}, []string{"slice"})

	ProductCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_product_cache_total",
		Help: "Product cache lookups by result",
	}, []string{"result"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_active_sessions",
		Help: "Number of sessions with live state",
	})

	BackendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_backend_request_duration_seconds",
		Help:    "Latency of backend API calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
