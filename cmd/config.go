package cmd

// Config carries everything the composition root needs to wire the
// application: database connection settings, the HTTP listen port, the
// dispatch defaults and the auto-assign schedule.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// DefaultWarehouseAddress is the pickup used for orders created without
	// an explicit pickup location.
	DefaultWarehouseAddress string

	// WarehouseLat and WarehouseLng anchor the address resolver. Every
	// synthesized coordinate stays within a few kilometers of this point.
	WarehouseLat float64
	WarehouseLng float64

	// BatchAssignTimeout bounds one dispatch pass, e.g. "1m".
	BatchAssignTimeout string

	// AutoAssignCron is the cron spec (with seconds) of the periodic
	// dispatch pass. Empty means the built-in default.
	AutoAssignCron string
}
