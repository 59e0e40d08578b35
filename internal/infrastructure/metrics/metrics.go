// Package metrics implementa ports.Metrics con contadores Prometheus.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/autogest-api/internal/application/ports"
)

const namespace = "autogest"

var _ ports.Metrics = (*Metrics)(nil)

// Metrics contadores de negocio y HTTP registrados en un registry propio.
type Metrics struct {
	registry *prometheus.Registry

	VehicleEvents     *prometheus.CounterVec
	Logins            *prometheus.CounterVec
	DocumentsRendered *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
}

// New crea y registra las métricas. Cada llamada usa un registry nuevo, de modo que
// los tests pueden construir varias instancias sin colisiones de registro.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		VehicleEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vehicle_events_total",
			Help:      "Transiciones del ciclo de vida de vehículos.",
		}, []string{"event"}), // created, registered, sold, deleted
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Intentos de login por resultado.",
		}, []string{"result"}), // ok, invalid, throttled
		DocumentsRendered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_rendered_total",
			Help:      "Documentos RENAVE generados por tipo.",
		}, []string{"kind"}), // pdf, xml
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método y código de estado.",
		}, []string{"method", "status"}),
	}
}

// VehicleEvent implementa ports.Metrics.
func (m *Metrics) VehicleEvent(event string) { m.VehicleEvents.WithLabelValues(event).Inc() }

// Login implementa ports.Metrics.
func (m *Metrics) Login(result string) { m.Logins.WithLabelValues(result).Inc() }

// DocumentRendered implementa ports.Metrics.
func (m *Metrics) DocumentRendered(kind string) { m.DocumentsRendered.WithLabelValues(kind).Inc() }

// HTTPRequest cuenta una petición terminada.
func (m *Metrics) HTTPRequest(method string, status int) {
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Handler expone el registry en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry devuelve el registry subyacente.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
