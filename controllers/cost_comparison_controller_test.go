package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestCostComparisonMalformedIDReturnsBadRequest(t *testing.T) {
	app := fiber.New()
	ctl := NewCostComparisonController(nil)
	app.Get("/cost-comparisons/request/:requestId", ctl.GetByRequest)
	app.Post("/cost-comparisons/:id/submit", ctl.Submit)
	app.Get("/cost-comparisons/:id/export", ctl.ExportExcel)

	// Malformed IDs are rejected before any query runs, never surfaced
	// as a database error.
	tests := []struct {
		method string
		url    string
	}{
		{"GET", "/cost-comparisons/request/not-a-number"},
		{"POST", "/cost-comparisons/not-a-number/submit"},
		{"GET", "/cost-comparisons/not-a-number/export"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.url, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s %s: %v", tt.method, tt.url, err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("%s %s: expected 400, got %d", tt.method, tt.url, resp.StatusCode)
		}
	}
}
