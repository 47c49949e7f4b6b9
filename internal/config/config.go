package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"time"
)

type Config struct {
	Env        string `yaml:"env" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	DBUser     string `yaml:"db_user" env-required:"true"`
	DBPassword string `yaml:"db_password" env-required:"false"`
	DBHost     string `yaml:"db_host" env-default:"localhost"`
	DBPort     int    `yaml:"db_port" env-default:"3306"`
	DBName     string `yaml:"db_name" env-required:"true"`
	ParseTime  bool   `yaml:"parse_time" env-default:"true"`

	RefDataPath string `yaml:"refdata_path" env-default:"./config/refdata.yaml"`

	Scheduling Scheduling `yaml:"scheduling"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout"  env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout"  env-default:"60s"`
}

type Scheduling struct {
	// SetupTimeHours is charged when consecutive tasks on one line need different specs.
	SetupTimeHours int `yaml:"setup_time_hours" env-default:"1"`
	HorizonDays    int `yaml:"horizon_days" env-default:"7"`
	// DefaultRate is units per hour for lines without an own rate.
	DefaultRate int `yaml:"default_rate" env-default:"1000"`
}

func MustConfig() *Config {
	var cfg Config
	path := "./config/local.yaml"

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
