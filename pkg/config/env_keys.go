package config

// EnvPrefix is passed to envconfig; individual keys carry the full name so the
// prefix only matters for variables without an explicit tag.
const EnvPrefix = "AGRIMARKET"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "AGRIMARKET_APP_ENV"
	EnvPort                   = "AGRIMARKET_APP_PORT"
	EnvDBDSN                  = "AGRIMARKET_DB_DSN"
	EnvDBHost                 = "AGRIMARKET_DB_HOST"
	EnvDBUser                 = "AGRIMARKET_DB_USER"
	EnvDBName                 = "AGRIMARKET_DB_NAME"
	EnvRedisURL               = "AGRIMARKET_REDIS_URL"
	EnvJWTSecret              = "AGRIMARKET_JWT_SECRET"
	EnvJWTIssuer              = "AGRIMARKET_JWT_ISSUER"
	EnvJWTExpMins             = "AGRIMARKET_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "AGRIMARKET_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
