package main

import (
	"os"
	"testing"
)

// TestMain clears the variables loadConfig reads so a developer's shell or
// .env cannot change the expected defaults.
func TestMain(m *testing.M) {
	for _, key := range []string{"PORT", "CHROME_PATH", "SESSION_SECRET"} {
		_ = os.Unsetenv(key)
	}
	os.Exit(m.Run())
}
