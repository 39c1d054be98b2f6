package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	testApp    *app
	testRouter *gin.Engine
)

// TestMain sets up the test environment
func TestMain(m *testing.M) {
	// Set gin to test mode
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	testApp = &app{store: newMemStore(), log: log}
	testRouter = testApp.routes("http://localhost:3000")

	os.Exit(m.Run())
}

// cleanupTestData resets the store to an empty state
func cleanupTestData() error {
	testApp.store = newMemStore()
	return nil
}

// makeRequest helper function for making HTTP requests to the test router
func makeRequest(method, url string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	testRouter.ServeHTTP(recorder, req)

	return recorder
}

// makeJSONRequest marshals the body and makes the request
func makeJSONRequest(t *testing.T, method, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}
	return makeRequest(method, url, bytes.NewBuffer(data))
}

// parseJSONResponse helper function to parse JSON response
func parseJSONResponse(recorder *httptest.ResponseRecorder, target interface{}) error {
	return json.Unmarshal(recorder.Body.Bytes(), target)
}

// assertStatusCode helper function to assert HTTP status code
func assertStatusCode(t *testing.T, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Errorf("Expected status code %d, got %d", expected, actual)
	}
}

// assertNoError helper function to assert no error occurred
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

// createViaAPI posts the body and returns the created document ID
func createViaAPI(t *testing.T, url string, body map[string]interface{}) string {
	t.Helper()
	resp := makeJSONRequest(t, "POST", url, body)
	if resp.Code != 201 {
		t.Fatalf("Failed to create fixture at %s: status %d, body %s", url, resp.Code, resp.Body.String())
	}

	var created map[string]interface{}
	if err := parseJSONResponse(resp, &created); err != nil {
		t.Fatalf("Failed to parse create response: %v", err)
	}

	id, ok := created["id"].(string)
	if !ok || id == "" {
		t.Fatalf("Create response missing id: %s", resp.Body.String())
	}
	return id
}

// createTestProperty creates a test property and returns the ID
func createTestProperty(t *testing.T, name, state string) string {
	t.Helper()
	return createViaAPI(t, "/api/properties", map[string]interface{}{
		"name": name,
		"address": map[string]interface{}{
			"street":   "100 Main St",
			"city":     "Midland",
			"state":    state,
			"zip_code": "79701",
		},
	})
}

// createTestCompany creates a test company and returns the ID
func createTestCompany(t *testing.T, name string) string {
	t.Helper()
	return createViaAPI(t, "/api/companies", map[string]interface{}{
		"name": name,
	})
}

// createTestAccount creates a test account and returns the ID
func createTestAccount(t *testing.T, name, accountType, bankName, status string, balance float64) string {
	t.Helper()
	return createViaAPI(t, "/api/accounts", map[string]interface{}{
		"name":           name,
		"account_type":   accountType,
		"account_number": "ACC-001",
		"status":         status,
		"balance":        balance,
		"bank_name":      bankName,
	})
}

// createTestTransaction creates a test transaction and returns the ID
func createTestTransaction(t *testing.T, propertyID, companyID, date string, amount float64) string {
	t.Helper()
	return createViaAPI(t, "/api/transactions", map[string]interface{}{
		"property_id":      propertyID,
		"company_id":       companyID,
		"transaction_date": date,
		"amount":           amount,
	})
}

// createTestOwnership creates a current ownership record and returns the ID
func createTestOwnership(t *testing.T, propertyID, companyID string, percentage float64) string {
	t.Helper()
	return createViaAPI(t, "/api/company-ownership", map[string]interface{}{
		"property_id":   propertyID,
		"company_id":    companyID,
		"percentage":    percentage,
		"interest_type": "working",
		"date_from":     "2020-01-01",
	})
}

// createTestEntry creates a test entry and returns the ID
func createTestEntry(t *testing.T, title string, transactionIDs []string) string {
	t.Helper()
	if transactionIDs == nil {
		transactionIDs = []string{}
	}
	return createViaAPI(t, "/api/entries", map[string]interface{}{
		"title":           title,
		"transaction_ids": transactionIDs,
		"entry_date":      "2024-01-31",
		"entry_type":      "monthly",
		"status":          "draft",
	})
}
