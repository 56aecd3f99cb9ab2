//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "foods-api"
	ConsumerName = "storefront"

	StateCatalogBaseline = "catalog baseline"
	StateFoodExists      = "food listing ramen-101 exists"
	StateFoodMissing     = "no food listing ghost-404"
	StateTopFoodsSeeded  = "catalog seeded with purchased listings"
)

const (
	ExistingFoodID = "ramen-101"
	MissingFoodID  = "ghost-404"
)

const (
	exampleFoodName  = "Tonkotsu Ramen"
	exampleOwner     = "chef@example.pact"
	exampleOwnerName = "Aki"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleFoodPayload provides stable test data for pact interactions.
func ExampleFoodPayload() map[string]any {
	return map[string]any{
		"id":             ExistingFoodID,
		"name":           exampleFoodName,
		"category":       "Japanese",
		"price_cents":    1250,
		"quantity":       10,
		"purchase_count": 3,
		"owner":          exampleOwner,
		"owner_name":     exampleOwnerName,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
