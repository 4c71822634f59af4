// Package integration exercises a running exprc server. Start one with
//
//	exprc serve --port=8787 --grpc-port=8788
//
// and point EXPRC_URL and EXPRC_GRPC_ADDR at it. Tests skip when no server
// answers.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// testServer holds the base URL of a running exprc instance for tests.
var testServer string

// grpcAddr holds the gRPC address of the same instance.
var grpcAddr string

func init() {
	testServer = os.Getenv("EXPRC_URL")
	if testServer == "" {
		testServer = "http://localhost:8787"
	}
	// Ensure the URL has a scheme.
	if !strings.HasPrefix(testServer, "http://") && !strings.HasPrefix(testServer, "https://") {
		testServer = "http://" + testServer
	}

	grpcAddr = os.Getenv("EXPRC_GRPC_ADDR")
	if grpcAddr == "" {
		grpcAddr = "localhost:8788"
	}
}

// requireServer skips the test when no server is reachable.
func requireServer(t *testing.T) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(apiURL("sessions"))
	if err != nil {
		t.Skipf("no exprc server at %s: %v", testServer, err)
	}
	resp.Body.Close()
}

// apiURL builds a full URL for the given API path.
func apiURL(path string) string {
	return strings.TrimRight(testServer, "/") + "/v1/" + path
}

var idCounter int64

// uniqueID returns a session ID that does not collide across test runs.
func uniqueID(prefix string) string {
	n := atomic.AddInt64(&idCounter, 1)
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano()%1_000_000, n)
}

// doJSON sends a JSON request and decodes the JSON response.
func doJSON(t *testing.T, method, url string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var r io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("HTTP error: %v", err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return resp.StatusCode, result
}

// createSession creates a session and returns its ID.
func createSession(t *testing.T, prefix, radix string) string {
	t.Helper()
	id := uniqueID(prefix)

	code, result := doJSON(t, http.MethodPost, apiURL("sessions")+"?sessionId="+id, map[string]string{"radix": radix})
	if code != http.StatusOK {
		t.Fatalf("createSession failed with status %d: %v", code, result)
	}
	return id
}

// executeLines posts source to the session and returns its results.
func executeLines(t *testing.T, id, source string) []map[string]interface{} {
	t.Helper()

	code, result := doJSON(t, http.MethodPost, apiURL("sessions/"+id+"/lines"), map[string]string{"source": source})
	if code != http.StatusOK {
		t.Fatalf("executeLines failed with status %d: %v", code, result)
	}

	raw, _ := result["results"].([]interface{})
	lines := make([]map[string]interface{}, len(raw))
	for i, r := range raw {
		lines[i], _ = r.(map[string]interface{})
	}
	return lines
}
