package dto

import "github.com/shopspring/decimal"

// DashboardDTO respuesta de GET /api/dashboard.
// Contadores y sumas calculados sobre el mismo conjunto de vehículos (ver analytics.DashboardScope),
// de modo que InStockCount + SoldCount == TotalVehicles.
type DashboardDTO struct {
	CompanyID          string          `json:"company_id,omitempty"` // vacío = todas las empresas (MASTER)
	Scope              string          `json:"scope"`
	TotalVehicles      int             `json:"total_vehicles"`
	InStockCount       int             `json:"in_stock"`
	SoldCount          int             `json:"sold"`
	RegisteredCount    int             `json:"registered"`
	TotalDeclaredValue decimal.Decimal `json:"total_declared_value"`

	// Métricas complementarias
	InStockDeclaredValue decimal.Decimal `json:"in_stock_declared_value"`
	TotalSaleValue       decimal.Decimal `json:"total_sale_value"`
}
