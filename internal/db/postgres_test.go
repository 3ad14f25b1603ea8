package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_DSN(t *testing.T) {
	cfg := Config{Host: "db", User: "app", Password: "pw", Name: "records"}

	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=records sslmode=disable", cfg.DSN())

	cfg.Port = 6543
	cfg.SSLMode = "require"
	assert.Equal(t, "host=db port=6543 user=app password=pw dbname=records sslmode=require", cfg.DSN())
}

func TestConnect_MissingSettings(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no host", Config{User: "u", Password: "p", Name: "n"}},
		{"no user", Config{Host: "h", Password: "p", Name: "n"}},
		{"no password", Config{Host: "h", User: "u", Name: "n"}},
		{"no name", Config{Host: "h", User: "u", Password: "p"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Connect(context.Background(), tt.cfg)
			assert.Error(t, err)
		})
	}
}
