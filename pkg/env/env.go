package env

import "os"

// Get reads an environment variable, treating empty the same as unset.
func Get(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	return v
}
