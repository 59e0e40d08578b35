package ports

// Eventos del ciclo de vida de vehículos reportados a métricas.
const (
	EventVehicleCreated    = "created"
	EventVehicleRegistered = "registered"
	EventVehicleSold       = "sold"
	EventVehicleDeleted    = "deleted"
)

// Resultados de login reportados a métricas.
const (
	LoginOK        = "ok"
	LoginInvalid   = "invalid"
	LoginThrottled = "throttled"
)

// Metrics es el puerto de observabilidad que consumen los casos de uso.
// La implementación Prometheus vive en infrastructure/metrics.
type Metrics interface {
	VehicleEvent(event string)
	Login(result string)
	DocumentRendered(kind string)
}

// NopMetrics descarta todo; útil en tests y en la CLI.
type NopMetrics struct{}

func (NopMetrics) VehicleEvent(string)     {}
func (NopMetrics) Login(string)            {}
func (NopMetrics) DocumentRendered(string) {}
