package structures

import (
	"net/http"
	"time"
)

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	Driver       string        `yaml:"driver" validate:"required|in:file,sqlite"`
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Driver  string        `yaml:"driver"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// BillingConfig describes the subscription controller identity and where payments land.
type BillingConfig struct {
	Period            time.Duration `yaml:"period"`
	ControllerAddress string        `yaml:"controllerAddress" validate:"required"`
	PaymentHolder     string        `yaml:"paymentHolder" validate:"required"`
}

type DistributorConfig struct {
	Address      string `yaml:"address" validate:"required"`
	EscrowWallet string `yaml:"escrowWallet" validate:"required"`
}

type RolesConfig struct {
	Admin  string `yaml:"admin" validate:"required"`
	Server string `yaml:"server" validate:"required"`
}

type DevelopmentConfig struct {
	Enabled      bool   `yaml:"enabled"`
	StableToken  string `yaml:"stableToken"`
	StableSupply string `yaml:"stableSupply"`
}

type PlanLimitsConfig struct {
	SuccessorsMaxCount   uint64 `yaml:"successorsMaxCount"`
	InheritancesMaxCount uint64 `yaml:"inheritancesMaxCount"`
	TokensMaxCount       uint64 `yaml:"tokensMaxCount"`
	StableMaxSum         string `yaml:"stableMaxSum"`
	MaxWalletsCount      uint64 `yaml:"maxWalletsCount"`
}

// PlanConfig is a seed catalog entry. Price and StableMaxSum are decimal strings
// in token base units. An empty PayToken falls back to the development stable token.
type PlanConfig struct {
	Title    string           `yaml:"title"`
	PayToken string           `yaml:"payToken"`
	Price    string           `yaml:"price"`
	Limits   PlanLimitsConfig `yaml:"limits"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server            `yaml:"webServer"`
	Persistence Persistence       `yaml:"persistence"`
	Logger      LoggerConfig      `yaml:"logger"`
	Cache       CacheConfig       `yaml:"cache"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Billing     BillingConfig     `yaml:"billing"`
	Distributor DistributorConfig `yaml:"distributor"`
	Roles       RolesConfig       `yaml:"roles"`
	Development DevelopmentConfig `yaml:"development"`
	Plans       []PlanConfig      `yaml:"plans"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Method  string
	Url     string
	Handler http.Handler
}

// Pattern is the ServeMux pattern for the route, e.g. "GET /plans".
func (r Route) Pattern() string {
	return r.Method + " " + r.Url
}
