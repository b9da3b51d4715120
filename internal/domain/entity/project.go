package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project proyecto de servicios: un líder (factura y paga) y un dueño/cliente (paga facturas).
type Project struct {
	ID             string
	Name           string
	ProjectLeadID  string
	ProjectOwnerID string           // vacío si el proyecto aún no tiene cliente asignado
	RatePerHour    *decimal.Decimal // tarifa de facturación al cliente; nil = no definida
	Status         string           // active, completed, on_hold
	CreatedAt      time.Time
}

// DeveloperAssignment asignación desarrollador-proyecto con su tarifa por hora.
type DeveloperAssignment struct {
	ID          string
	DeveloperID string
	ProjectID   string
	HourlyRate  decimal.Decimal
	CreatedAt   time.Time
}
