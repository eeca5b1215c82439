// Package cliutil holds the env-driven bootstrap helpers shared by
// every command in cmd/, grounded on the teacher's single-binary
// requireEnv/getEnvOrDefault idiom and factored out once a second
// binary needed the same two functions.
package cliutil

import (
	"fmt"
	"os"
)

// RequireEnv reads a required environment variable or exits the
// process with a clear message — every cmd/ binary fails fast on
// missing configuration rather than limping along with zero values.
func RequireEnv(name string) string {
	v := os.Getenv(name)
	if v == "" {
		fmt.Fprintf(os.Stderr, "%s is required\n", name)
		os.Exit(1)
	}
	return v
}

// GetEnvOrDefault reads an environment variable, falling back to def
// when unset or empty.
func GetEnvOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
