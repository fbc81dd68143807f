package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT,default=3000" validate:"min=1,max=65535"`
	LogLevel        string        `env:"LOG_LEVEL,default=info" validate:"oneof=trace debug info warn error"`
	LogFormat       string        `env:"LOG_FORMAT,default=console" validate:"oneof=console json"`
	StaticDir       string        `env:"STATIC_DIR,default=./public"`
	AllowedOrigins  string        `env:"ALLOWED_ORIGINS,default=*"`
	SendBufferSize  int           `env:"SEND_BUFFER_SIZE,default=256" validate:"min=1"`
	MaxMessageSize  int           `env:"MAX_MESSAGE_SIZE,default=65536" validate:"min=512"`
	WriteWait       time.Duration `env:"WRITE_WAIT,default=10s" validate:"gt=0"`
	PongWait        time.Duration `env:"PONG_WAIT,default=60s" validate:"min=1s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s" validate:"gt=0"`
}

var validate = validator.New()

// Load reads an optional .env file, then the process environment. A
// missing .env is fine; an unreadable or malformed one is an error. Values
// already present in the environment win over the .env file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: .env: %w", err)
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Origins splits ALLOWED_ORIGINS on commas. An empty result means any
// origin, same as "*".
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
