package constants

// Base Routes
const (
	RootPath    = "/"
	HealthPath  = "/health"
	VersionPath = "/version"
	MetricsPath = "/metrics"
)

// Authentication Routes
const (
	RegisterPath       = "/register"
	LoginPath          = "/login"
	ForgotPasswordPath = "/forgot-password"
	ResetPasswordPath  = "/reset-password/{" + ParamUserID + "}/{" + ParamResetToken + "}"
)
