package main

import (
	"net/http"
	"testing"
)

// TestCreatePropertyValidation tests proper validation for createProperty endpoint
func TestCreatePropertyValidation(t *testing.T) {
	assertNoError(t, cleanupTestData())

	t.Run("should fail with missing name", func(t *testing.T) {
		resp := makeJSONRequest(t, "POST", "/api/properties", map[string]interface{}{
			"address": map[string]interface{}{
				"street": "100 Main St", "city": "Midland", "state": "TX", "zip_code": "79701",
			},
		})
		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		if errorResp["error"] != "The 'name' field is mandatory and cannot be empty" {
			t.Errorf("Unexpected error message: %v", errorResp["error"])
		}
	})

	t.Run("should fail with empty name", func(t *testing.T) {
		resp := makeJSONRequest(t, "POST", "/api/properties", map[string]interface{}{
			"name": "   ",
			"address": map[string]interface{}{
				"street": "100 Main St", "city": "Midland", "state": "TX", "zip_code": "79701",
			},
		})
		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("should fail with missing address", func(t *testing.T) {
		resp := makeJSONRequest(t, "POST", "/api/properties", map[string]interface{}{
			"name": "Smith Ranch",
		})
		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})
}

// TestCreateTransactionValidation tests proper validation for createTransaction endpoint
func TestCreateTransactionValidation(t *testing.T) {
	assertNoError(t, cleanupTestData())

	propertyID := createTestProperty(t, "Smith Ranch", "TX")
	companyID := createTestCompany(t, "Apache Corp")

	t.Run("should fail with missing amount", func(t *testing.T) {
		resp := makeJSONRequest(t, "POST", "/api/transactions", map[string]interface{}{
			"property_id":      propertyID,
			"company_id":       companyID,
			"transaction_date": "2024-03-15",
		})
		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		if errorResp["error"] != "The 'amount' field is mandatory and cannot be empty" {
			t.Errorf("Unexpected error message: %v", errorResp["error"])
		}
	})

	t.Run("should fail with non-numeric amount", func(t *testing.T) {
		resp := makeJSONRequest(t, "POST", "/api/transactions", map[string]interface{}{
			"property_id":      propertyID,
			"company_id":       companyID,
			"transaction_date": "2024-03-15",
			"amount":           "a lot",
		})
		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		if errorResp["error"] != "amount must be a valid number" {
			t.Errorf("Unexpected error message: %v", errorResp["error"])
		}
	})

	t.Run("should fail when property does not exist", func(t *testing.T) {
		resp := makeJSONRequest(t, "POST", "/api/transactions", map[string]interface{}{
			"property_id":      "bbbbbbbbbbbbbbbbbbbbbbbb",
			"company_id":       companyID,
			"transaction_date": "2024-03-15",
			"amount":           100.0,
		})
		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		if errorResp["error"] != "Property with ID 'bbbbbbbbbbbbbbbbbbbbbbbb' does not exist in the database" {
			t.Errorf("Unexpected error message: %v", errorResp["error"])
		}
	})

	t.Run("should fail when company does not exist", func(t *testing.T) {
		resp := makeJSONRequest(t, "POST", "/api/transactions", map[string]interface{}{
			"property_id":      propertyID,
			"company_id":       "cccccccccccccccccccccccc",
			"transaction_date": "2024-03-15",
			"amount":           100.0,
		})
		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		if errorResp["error"] != "Company with ID 'cccccccccccccccccccccccc' does not exist in the database" {
			t.Errorf("Unexpected error message: %v", errorResp["error"])
		}
	})

	t.Run("should fail with malformed date", func(t *testing.T) {
		resp := makeJSONRequest(t, "POST", "/api/transactions", map[string]interface{}{
			"property_id":      propertyID,
			"company_id":       companyID,
			"transaction_date": "03/15/2024",
			"amount":           100.0,
		})
		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		if errorResp["error"] != "Invalid date format. Use ISO format (YYYY-MM-DD)" {
			t.Errorf("Unexpected error message: %v", errorResp["error"])
		}
	})
}

// TestCreateOwnershipValidation tests proper validation for createOwnership endpoint
func TestCreateOwnershipValidation(t *testing.T) {
	assertNoError(t, cleanupTestData())

	propertyID := createTestProperty(t, "Smith Ranch", "TX")
	companyID := createTestCompany(t, "Apache Corp")

	base := func() map[string]interface{} {
		return map[string]interface{}{
			"property_id":   propertyID,
			"company_id":    companyID,
			"percentage":    50.0,
			"interest_type": "working",
			"date_from":     "2020-01-01",
		}
	}

	t.Run("should fail with percentage above 100", func(t *testing.T) {
		body := base()
		body["percentage"] = 150.0
		resp := makeJSONRequest(t, "POST", "/api/company-ownership", body)
		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		if errorResp["error"] != "Percentage must be a valid number between 0 and 100" {
			t.Errorf("Unexpected error message: %v", errorResp["error"])
		}
	})

	t.Run("should fail with negative percentage", func(t *testing.T) {
		body := base()
		body["percentage"] = -1.0
		resp := makeJSONRequest(t, "POST", "/api/company-ownership", body)
		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("should accept boundary percentages", func(t *testing.T) {
		for _, p := range []float64{0, 100} {
			body := base()
			body["percentage"] = p
			resp := makeJSONRequest(t, "POST", "/api/company-ownership", body)
			assertStatusCode(t, http.StatusCreated, resp.Code)
		}
	})

	t.Run("should fail with invalid interest type", func(t *testing.T) {
		body := base()
		body["interest_type"] = "overriding"
		resp := makeJSONRequest(t, "POST", "/api/company-ownership", body)
		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		if errorResp["error"] != "Interest type must be either 'working' or 'royalty'" {
			t.Errorf("Unexpected error message: %v", errorResp["error"])
		}
	})

	t.Run("should reject date_to on current owner", func(t *testing.T) {
		body := base()
		body["is_current_owner"] = true
		body["date_to"] = "2023-01-01"
		resp := makeJSONRequest(t, "POST", "/api/company-ownership", body)
		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("should require date_to on historical owner", func(t *testing.T) {
		body := base()
		body["is_current_owner"] = false
		resp := makeJSONRequest(t, "POST", "/api/company-ownership", body)
		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		if errorResp["error"] != "date_to is required for a historical owner" {
			t.Errorf("Unexpected error message: %v", errorResp["error"])
		}
	})

	t.Run("should reject date_to before date_from", func(t *testing.T) {
		body := base()
		body["is_current_owner"] = false
		body["date_to"] = "2019-01-01"
		resp := makeJSONRequest(t, "POST", "/api/company-ownership", body)
		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		if errorResp["error"] != "date_to must be after date_from" {
			t.Errorf("Unexpected error message: %v", errorResp["error"])
		}
	})
}

// TestCreateEntryValidation tests proper validation for createEntry endpoint
func TestCreateEntryValidation(t *testing.T) {
	assertNoError(t, cleanupTestData())

	base := func() map[string]interface{} {
		return map[string]interface{}{
			"title":           "January close",
			"transaction_ids": []string{},
			"entry_date":      "2024-01-31",
			"entry_type":      "monthly",
			"status":          "draft",
		}
	}

	t.Run("should fail with missing title", func(t *testing.T) {
		body := base()
		delete(body, "title")
		resp := makeJSONRequest(t, "POST", "/api/entries", body)
		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		if errorResp["error"] != "Missing required field: title" {
			t.Errorf("Unexpected error message: %v", errorResp["error"])
		}
	})

	t.Run("should fail with invalid entry type", func(t *testing.T) {
		body := base()
		body["entry_type"] = "weekly"
		resp := makeJSONRequest(t, "POST", "/api/entries", body)
		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		if errorResp["error"] != "Invalid entry_type. Must be one of: monthly, quarterly, annual, custom" {
			t.Errorf("Unexpected error message: %v", errorResp["error"])
		}
	})

	t.Run("should fail with invalid status", func(t *testing.T) {
		body := base()
		body["status"] = "bogus"
		resp := makeJSONRequest(t, "POST", "/api/entries", body)
		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		if errorResp["error"] != "Invalid status. Must be one of: draft, submitted, approved, rejected" {
			t.Errorf("Unexpected error message: %v", errorResp["error"])
		}
	})
}

// TestInvalidObjectIDs tests ID parsing across endpoints
func TestInvalidObjectIDs(t *testing.T) {
	assertNoError(t, cleanupTestData())

	t.Run("should reject malformed ID on get", func(t *testing.T) {
		resp := makeRequest("GET", "/api/properties/not-an-id", nil)
		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("should 404 on well-formed unknown ID", func(t *testing.T) {
		resp := makeRequest("GET", "/api/properties/aaaaaaaaaaaaaaaaaaaaaaaa", nil)
		assertStatusCode(t, http.StatusNotFound, resp.Code)
	})
}
