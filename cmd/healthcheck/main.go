package main

import (
	"net/http"
	"os"
	"time"

	"github.com/momoworks/webos/internal/constants"
)

// Container healthcheck probe. Exits 0 when the backend answers its version
// endpoint, 1 otherwise.
func main() {
	base := os.Getenv("WEBOS_HEALTHCHECK_URL")
	if base == "" {
		base = "http://127.0.0.1:8080"
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(base + constants.RouteVersion)
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
	os.Exit(0)
}
