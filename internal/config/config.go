package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"8080"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8081"`
	Redis      Redis  `yaml:"redis"`
	Stacks     Stacks `yaml:"stacks"`
	Wallet     Wallet `yaml:"wallet"`
}

type Redis struct {
	Host            string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port            string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	CacheTTLSeconds int    `yaml:"cache-ttl-seconds" env:"CACHE_TTL_SECONDS" env-default:"5"`
}

type Stacks struct {
	CoreAPIURL      string `yaml:"core-api-url" env:"STACKS_CORE_API_URL" env-default:"https://api.testnet.hiro.so"`
	ContractAddress string `yaml:"contract-address" env:"CONTRACT_ADDRESS" env-default:"ST1B95HGVJ45TG1970HCTCVZMZJYVAMJ4VV8SZGRC"`
	ContractName    string `yaml:"contract-name" env:"CONTRACT_NAME" env-default:"tic-tac-toe-v2"`
}

type Wallet struct {
	BridgeURL string `yaml:"bridge-url" env:"WALLET_BRIDGE_URL"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Redis) CacheTTL() time.Duration {
	return time.Duration(that.CacheTTLSeconds) * time.Second
}
