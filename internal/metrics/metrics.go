// Package metrics объявляет метрики Prometheus приложения.
// Все метрики регистрируются в глобальном реестре при импорте пакета.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sweetshop"

// Значения метки result.
const (
	ResultOK           = "ok"
	ResultError        = "error"
	ResultForbidden    = "forbidden"
	ResultNotFound     = "not_found"
	ResultInvalid      = "invalid"
	ResultInsufficient = "insufficient"
	ResultRejected     = "rejected"
	ResultHit          = "hit"
	ResultMiss         = "miss"
)

// InventoryOperationsTotal считает вызовы сервиса склада.
// Метки:
//   - operation: list, search, get, create, update, delete, purchase, restock
//   - result: ok, invalid, forbidden, not_found, insufficient, error
var InventoryOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_operations_total",
		Help:      "Total number of inventory operations by result.",
	},
	[]string{"operation", "result"},
)

// StockUnitsTotal считает проданные и поступившие единицы товара.
// Метка direction: purchased или restocked.
var StockUnitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_units_total",
		Help:      "Total number of stock units moved by purchases and restocks.",
	},
	[]string{"direction"},
)

// LowStockEventsTotal считает события о малом остатке; result: ok или error.
var LowStockEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "low_stock_events_total",
		Help:      "Total number of low-stock notifications by publish result.",
	},
	[]string{"result"},
)

// CacheRequestsTotal считает обращения к кешу карточек; result: hit, miss, error.
var CacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Total number of sweet cache lookups by result.",
	},
	[]string{"result"},
)

// AuthAttemptsTotal считает регистрации и входы.
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts by result.",
	},
	[]string{"action", "result"},
)

// HTTPRequestDuration время обработки HTTP-запроса по шаблону маршрута.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by method, route pattern and status code.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)
