package container

import (
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// Store kinds accepted by Options.Store.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreRedis    = "redis"
)

// Click delivery modes accepted by Options.ClickDelivery.
const (
	ClickDeliveryInline = "inline"
	ClickDeliveryStream = "stream"
)

// Options holds the service configuration. Every field can be set by flag or
// by its SERVICE_* environment variable.
type Options struct {
	Port          int    `default:"3000"                                                help:"Port to listen on"                                       short:"p"`
	BaseURL       string `default:""                                                    help:"Public base URL of short links (default http://localhost:<port>)"`
	Store         string `default:"memory"                                              help:"Link store: memory, postgres, sqlite or redis"          short:"s"`
	DatabaseURL   string `default:"postgres://localhost:5432/tinylink?sslmode=disable" help:"PostgreSQL connection URL"`
	DBMaxConns    int    `default:"10"                                                  help:"Maximum PostgreSQL pool connections"`
	SQLitePath    string `default:"tinylink.db"                                         help:"SQLite database file"`
	RedisAddr     string `default:"localhost:6379"                                      help:"Redis server address"                                    short:"r"`
	CacheTTL      int    `default:"0"                                                   help:"Seconds to cache redirect targets in Redis, 0 disables"`
	ClickDelivery string `default:"inline"                                              help:"Click accounting: inline or stream"`
	MaxAttempts   int    `default:"5"                                                   help:"Generated code draws before giving up"`
	LogFormat     string `default:"console"                                             help:"Log format: console or json"`
	ConsumerGroup string `default:"tinylink-clicks"                                     help:"Redis stream consumer group of the click consumer"`
}

// PublicBaseURL returns the configured base URL or a localhost default.
func (o *Options) PublicBaseURL() string {
	if o.BaseURL != "" {
		return strings.TrimRight(o.BaseURL, "/")
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}

// NewLogger builds a console (development) or JSON (production) logger.
func NewLogger(format string) (*zap.Logger, error) {
	switch format {
	case "json":
		return zap.NewProduction()
	case "console", "":
		return zap.NewDevelopment()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// LoggerPackage provides the process logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		return NewLogger(opts.LogFormat)
	})
}

// RedisConn owns the shared Redis client.
type RedisConn struct {
	Client *redis.Client
}

// Shutdown closes the client.
func (c *RedisConn) Shutdown() error {
	return c.Client.Close()
}

// RedisPackage provides the Redis client. It is only dialed when a component
// that needs Redis is resolved.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*RedisConn, error) {
		opts := do.MustInvoke[*Options](i)

		client := redis.NewClient(&redis.Options{
			Addr:         opts.RedisAddr,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})

		return &RedisConn{Client: client}, nil
	})
}
