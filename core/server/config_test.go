package server_test

import (
	"testing"

	"courtside/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Addr(t *testing.T) {
	tests := []struct {
		name string
		port string
		want string
	}{
		{"Plain", "8080", ":8080"},
		{"WithColon", ":9090", ":9090"},
		{"Spaces", " 3000 ", ":3000"},
		{"Empty", "", ":8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Port: tt.port}
			assert.Equal(t, tt.want, c.Addr())
		})
	}
}

func TestConfig_AdminEnabled(t *testing.T) {
	assert.False(t, server.Config{}.AdminEnabled())
	assert.False(t, server.Config{ApiKey: "   "}.AdminEnabled())
	assert.True(t, server.Config{ApiKey: "secret"}.AdminEnabled())
}
