package config

// EnvPrefix scopes every environment variable consumed by the app.
const EnvPrefix = "PHOTOSHARE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "PHOTOSHARE_DB_DSN"
	EnvDBHost = "PHOTOSHARE_DB_HOST"
	EnvDBUser = "PHOTOSHARE_DB_USER"
	EnvDBName = "PHOTOSHARE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
