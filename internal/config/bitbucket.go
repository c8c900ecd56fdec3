package config

import "time"

type Bitbucket struct {
	BaseURL      string        `env:"BITBUCKET_BASE_URL,notEmpty"`
	TeamName     string        `env:"BITBUCKET_TEAM_NAME,notEmpty"`
	Username     string        `env:"BITBUCKET_USERNAME,notEmpty"`
	Password     string        `env:"BITBUCKET_PASSWORD,notEmpty"`
	FetchTimeout time.Duration `env:"BITBUCKET_FETCH_TIMEOUT" envDefault:"10s"`
}
