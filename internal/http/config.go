package http

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog  CatalogService
	Database Pinger

	// Optional, nil disables the corresponding feature
	Auditor     CatalogAuditor
	AuditReader AuditReader
	TaskQueue   TaskQueue

	// APIPrefix is prepended to every catalog route, e.g. "/api".
	APIPrefix string

	// Rate limiting per client IP, 0 disables it
	RateLimitRPS   float64
	RateLimitBurst int

	// AuditRetentionDays is used by manually triggered audit cleanups.
	AuditRetentionDays int

	// Application info
	Version string
}
