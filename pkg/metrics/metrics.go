package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus метрик сервиса
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbPoolOpen      prometheus.Gauge
	dbPoolInUse     prometheus.Gauge
	dbPoolIdle      prometheus.Gauge
	dbPoolWaitCount prometheus.Gauge

	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheEvictions *prometheus.CounterVec
	cacheEntries   prometheus.Gauge
}

// New создает и регистрирует метрики в default registry.
// serviceName добавляется как константный label ко всем метрикам.
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "path"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),

		dbPoolOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open database connections",
			ConstLabels: constLabels,
		}),
		dbPoolInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of database connections in use",
			ConstLabels: constLabels,
		}),
		dbPoolIdle: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle database connections",
			ConstLabels: constLabels,
		}),
		dbPoolWaitCount: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_cache_hits_total",
			Help:        "Total number of availability cache hits",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_cache_misses_total",
			Help:        "Total number of availability cache misses",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		cacheEvictions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_cache_evictions_total",
			Help:        "Total number of availability cache evictions",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		cacheEntries: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "availability_cache_entries",
			Help:        "Current number of availability cache entries",
			ConstLabels: constLabels,
		}),
	}
}

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет gauge метрики состояния connection pool
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	m.dbPoolOpen.Set(float64(stats.OpenConnections))
	m.dbPoolInUse.Set(float64(stats.InUse))
	m.dbPoolIdle.Set(float64(stats.Idle))
	m.dbPoolWaitCount.Set(float64(stats.WaitCount))
}

// IncCacheHit увеличивает счетчик попаданий в кэш
func (m *Metrics) IncCacheHit(kind string) {
	m.cacheHits.WithLabelValues(kind).Inc()
}

// IncCacheMiss увеличивает счетчик промахов кэша
func (m *Metrics) IncCacheMiss(kind string) {
	m.cacheMisses.WithLabelValues(kind).Inc()
}

// AddCacheEvictions увеличивает счетчик вытеснений из кэша
func (m *Metrics) AddCacheEvictions(reason string, n int) {
	m.cacheEvictions.WithLabelValues(reason).Add(float64(n))
}

// SetCacheEntries обновляет gauge текущего размера кэша
func (m *Metrics) SetCacheEntries(n int) {
	m.cacheEntries.Set(float64(n))
}
