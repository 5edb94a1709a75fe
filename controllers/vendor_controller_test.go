package controllers

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestCreateVendorRequiresCodeAndName(t *testing.T) {
	app := fiber.New()
	ctl := NewVendorController(nil)
	app.Post("/vendors", ctl.CreateVendor)

	req := httptest.NewRequest("POST", "/vendors", strings.NewReader(`{"vendor_name":"Shree Traders"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for missing vendor_code, got %d", resp.StatusCode)
	}
}

func TestCreateVendorParsesBodyPerRequest(t *testing.T) {
	app := fiber.New()
	ctl := NewVendorController(nil)
	app.Post("/vendors", ctl.CreateVendor)

	// Concurrent requests each get their own parse target; run under the
	// race detector this fails if handlers share one.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"vendor_name":"Vendor %d"}`, i)
			req := httptest.NewRequest("POST", "/vendors", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			if err != nil {
				t.Error(err)
				return
			}
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Errorf("expected 400 for missing vendor_code, got %d", resp.StatusCode)
			}
		}(i)
	}
	wg.Wait()
}
