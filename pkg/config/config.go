package config

import (
	"time"
)

type DB struct {
	Url             string        `envconfig:"URL"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"1h"`
	AutoMigrate     bool          `envconfig:"AUTO_MIGRATE" default:"true"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"720h"`
}

// Session controls the server-side login record created alongside each token.
type Session struct {
	TTL time.Duration `envconfig:"TTL" default:"720h"`
}

type Auth struct {
	Jwt     *Jwt     `envconfig:"JWT"`
	Session *Session `envconfig:"SESSION"`
}

type Redis struct {
	URL          string        `envconfig:"URL" default:""`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:""`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

//revive:disable
type ECPay struct {
	MerchantID string `envconfig:"MERCHANT_ID"`
	HashKey    string `envconfig:"HASH_KEY"`
	HashIV     string `envconfig:"HASH_IV"`
	// ApiUrl overrides the AIO checkout endpoint picked from Sandbox.
	ApiUrl  string `envconfig:"API_URL"`
	Sandbox bool   `envconfig:"SANDBOX" default:"true"`
}

type ExchangeRate struct {
	ApiKey       string        `envconfig:"API_KEY"`
	ApiUrl       string        `envconfig:"API_URL" default:"https://v6.exchangerate-api.com/v6"`
	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	CacheTTL     time.Duration `envconfig:"CACHE_TTL" default:"1h"`
	CachePrefix  string        `envconfig:"CACHE_PREFIX" default:"exr:rate:"`
	FallbackRate float64       `envconfig:"FALLBACK_RATE" default:"30"`
}

//revive:enable

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[astroapi]"`
}

type Server struct {
	Scheme          string        `envconfig:"SCHEME" default:"http"`
	Host            string        `envconfig:"HOST" default:"localhost"`
	Port            int           `envconfig:"PORT" default:"3000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type App struct {
	Env string `envconfig:"APP_ENV" default:"development"`
	// PublicBaseURL is the externally reachable origin used in gateway
	// callback and redirect URLs.
	PublicBaseURL string        `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:3000"`
	Server        *Server       `envconfig:"SERVER"`
	Log           *Log          `envconfig:"LOG"`
	DB            *DB           `envconfig:"DATABASE"`
	Auth          *Auth         `envconfig:"AUTH"`
	Redis         *Redis        `envconfig:"REDIS"`
	RateLimit     *RateLimit    `envconfig:"RATE_LIMIT"`
	ECPay         *ECPay        `envconfig:"ECPAY"`
	ExchangeRate  *ExchangeRate `envconfig:"EXCHANGE_RATE"`
}
