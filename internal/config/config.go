package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mbeoliero/threadly/pkg/constant"
)

// Config holds all configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Lifecycle LifecycleConfig `mapstructure:"lifecycle"`
	Layout    LayoutConfig    `mapstructure:"layout"`
	Seed      SeedConfig      `mapstructure:"seed"`
	Emoji     EmojiConfig     `mapstructure:"emoji"`
	IdGen     IdGenConfig     `mapstructure:"idgen"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	HTTPPort       int      `mapstructure:"http_port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LifecycleConfig holds the simulated acknowledgement delays
type LifecycleConfig struct {
	DeliveredDelay time.Duration `mapstructure:"delivered_delay"`
	SeenDelay      time.Duration `mapstructure:"seen_delay"`
}

// LayoutConfig holds the responsive layout thresholds
type LayoutConfig struct {
	Breakpoint int `mapstructure:"breakpoint"`
	ListWidth  int `mapstructure:"list_width"`
}

// SeedConfig points at the initial conversation data
type SeedConfig struct {
	Path string `mapstructure:"path"`
}

// EmojiConfig holds the reaction palette offered to the UI
type EmojiConfig struct {
	Palette []string `mapstructure:"palette"`
}

// IdGenConfig holds message id generator settings
type IdGenConfig struct {
	MachineId uint16 `mapstructure:"machine_id"`
}

// WebSocketConfig holds WebSocket configuration
type WebSocketConfig struct {
	MaxConnNum       int64         `mapstructure:"max_conn_num"`
	MaxMessageSize   int64         `mapstructure:"max_message_size"`
	WriteWait        time.Duration `mapstructure:"write_wait"`
	PongWait         time.Duration `mapstructure:"pong_wait"`
	PingPeriod       time.Duration `mapstructure:"ping_period"`
	PushChannelSize  int           `mapstructure:"push_channel_size"`
	WriteChannelSize int           `mapstructure:"write_channel_size"`
}

// Load loads configuration from file. A .env file in the working directory is
// read first; THREADLY_* environment variables override file values.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("threadly")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.SetDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills zero values
func (cfg *Config) SetDefaults() {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "debug"
	}
	if cfg.Lifecycle.DeliveredDelay == 0 {
		cfg.Lifecycle.DeliveredDelay = constant.DeliveredDelay
	}
	if cfg.Lifecycle.SeenDelay == 0 {
		cfg.Lifecycle.SeenDelay = constant.SeenDelay
	}
	if cfg.Layout.Breakpoint == 0 {
		cfg.Layout.Breakpoint = constant.DefaultBreakpoint
	}
	if cfg.Layout.ListWidth == 0 {
		cfg.Layout.ListWidth = constant.DefaultListWidth
	}
	if cfg.IdGen.MachineId == 0 {
		cfg.IdGen.MachineId = 1
	}
	if cfg.WebSocket.MaxConnNum == 0 {
		cfg.WebSocket.MaxConnNum = 1000
	}
	if cfg.WebSocket.MaxMessageSize == 0 {
		cfg.WebSocket.MaxMessageSize = 4096
	}
	if cfg.WebSocket.WriteWait == 0 {
		cfg.WebSocket.WriteWait = 10 * time.Second
	}
	if cfg.WebSocket.PongWait == 0 {
		cfg.WebSocket.PongWait = 30 * time.Second
	}
	if cfg.WebSocket.PingPeriod == 0 {
		cfg.WebSocket.PingPeriod = 27 * time.Second
	}
	if cfg.WebSocket.PushChannelSize == 0 {
		cfg.WebSocket.PushChannelSize = 1024
	}
	if cfg.WebSocket.WriteChannelSize == 0 {
		cfg.WebSocket.WriteChannelSize = 256
	}
}
