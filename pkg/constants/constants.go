package constants

type ContextKey string

const (
	AppKey       ContextKey = "app"
	PoolKey      ContextKey = "pool"
	TxKey        ContextKey = "tx"
	TenantIDKey  ContextKey = "tenant_id"
	UserKey      ContextKey = "user"
	ParamsKey    ContextKey = "params"
	LoggerKey    ContextKey = "logger"
	RequestStart ContextKey = "request_start"
)
