package nats

import (
	"time"

	"github.com/nats-io/nats.go"
)

type Config struct {
	Enabled       bool   `split_words:"true" default:"false"`
	URL           string `split_words:"true" default:"nats://127.0.0.1:4222"`
	Name          string `split_words:"true" default:"orderbot"`
	SubjectPrefix string `split_words:"true" default:"orderbot.outbound"`
	DialTimeout   int    `split_words:"true" default:"5"`
	MaxReconnects int    `split_words:"true" default:"10"`
}

func (c *Config) New() (*nats.Conn, error) {
	return nats.Connect(c.URL,
		nats.Name(c.Name),
		nats.Timeout(time.Duration(c.DialTimeout)*time.Second),
		nats.MaxReconnects(c.MaxReconnects),
	)
}

func (c *Config) MustNew() *nats.Conn {
	nc, err := c.New()
	if err != nil {
		panic(err)
	}

	return nc
}
