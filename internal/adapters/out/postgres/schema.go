package postgres

import (
	"fmt"

	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/postgres/shipmentrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the orders and shipments tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&orderrepo.OrderDTO{}, &shipmentrepo.ShipmentDTO{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
