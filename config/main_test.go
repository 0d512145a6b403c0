package config

import (
	"fmt"
	"os"
	"testing"
)

// TestMain refuses to run the config tests unless GO_ENV=test
func TestMain(m *testing.M) {
	if env := os.Getenv("GO_ENV"); env != "test" {
		fmt.Fprintf(os.Stderr, "\n"+
			"SAFETY CHECK FAILED: config tests must run with GO_ENV=test (current GO_ENV: %q)\n"+
			"Run them with:\n"+
			"    make test\n"+
			"    GO_ENV=test go test ./...\n\n", env)
		os.Exit(1)
	}

	os.Exit(m.Run())
}
