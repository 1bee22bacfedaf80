package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "KANCHAN"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "KANCHAN_APP_ENV"
	EnvDBDSN  = "KANCHAN_DB_DSN"
	EnvDBHost = "KANCHAN_DB_HOST"
	EnvDBUser = "KANCHAN_DB_USER"
	EnvDBName = "KANCHAN_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
