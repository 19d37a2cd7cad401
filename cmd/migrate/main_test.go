package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunRejectsBadArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		dsn  string
		want string
	}{
		{"missing dsn", []string{"up"}, "", "DB_DSN is required"},
		{"no command", nil, "postgres://localhost/db", "usage"},
		{"unknown command", []string{"sideways"}, "postgres://localhost/db", `unknown command "sideways"`},
		{"bad steps", []string{"down", "zero"}, "postgres://localhost/db", `invalid steps "zero"`},
		{"negative steps", []string{"down", "-2"}, "postgres://localhost/db", `invalid steps "-2"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args, tt.dsn)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
