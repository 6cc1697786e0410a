package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"CORS_ORIGIN" envDefault:"*"`
	}

	Database struct {
		URL         string `env:"DATABASE_URL,required"`
		AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR" envDefault:""`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`

		// TTL of cached accounts, seconds
		AccountTTL int `env:"ACCOUNT_CACHE_TTL" envDefault:"300"`
	}

	Telegram struct {
		BotToken string `env:"BOT_TOKEN,required"`

		// Chat that receives withdrawal notifications
		CreatorID int64 `env:"CREATOR_ID" envDefault:"0"`
	}
}

func MustLoad() *Config {
	// .env is optional; in production the variables are set directly
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
