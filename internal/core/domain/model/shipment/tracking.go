package shipment

import (
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
)

const trackingPrefix = "SHIP"

// NewTrackingNumber returns SHIP-<unix millis>-<8 upper-case hex digits>. The
// random suffix makes collisions unlikely; the unique index on the shipments
// table makes them impossible.
func NewTrackingNumber(now time.Time) string {
	suffix := strings.ToUpper(kernel.NewUUID().String()[:8])
	return fmt.Sprintf("%s-%d-%s", trackingPrefix, now.UnixMilli(), suffix)
}
