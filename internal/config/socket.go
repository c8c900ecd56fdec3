package config

import "time"

type Socket struct {
	ListenAddress string        `env:"SOCKET_LISTEN_ADDRESS,notEmpty"`
	WriteTimeout  time.Duration `env:"SOCKET_WRITE_TIMEOUT" envDefault:"10s"`
}
