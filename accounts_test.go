package main

import (
	"net/http"
	"testing"
)

// TestAccountCRUD tests the account lifecycle
func TestAccountCRUD(t *testing.T) {
	assertNoError(t, cleanupTestData())

	id := createTestAccount(t, "Operating", "checking", "Frost Bank", "active", 1500.50)

	t.Run("should fetch created account", func(t *testing.T) {
		resp := makeRequest("GET", "/api/accounts/"+id, nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var account Account
		assertNoError(t, parseJSONResponse(resp, &account))
		if account.Balance != 1500.50 {
			t.Errorf("Expected balance 1500.50, got %v", account.Balance)
		}
		if account.Status != AccountStatusActive {
			t.Errorf("Expected active status, got %q", account.Status)
		}
	})

	t.Run("should reject invalid status", func(t *testing.T) {
		resp := makeJSONRequest(t, "POST", "/api/accounts", map[string]interface{}{
			"name":           "Savings",
			"account_type":   "savings",
			"account_number": "ACC-002",
			"status":         "frozen",
			"balance":        10.0,
		})
		assertStatusCode(t, http.StatusBadRequest, resp.Code)

		var errorResp map[string]interface{}
		assertNoError(t, parseJSONResponse(resp, &errorResp))
		if errorResp["error"] != "Status must be either 'active' or 'inactive'" {
			t.Errorf("Unexpected error message: %v", errorResp["error"])
		}
	})

	t.Run("should reject invalid status on update", func(t *testing.T) {
		resp := makeJSONRequest(t, "PUT", "/api/accounts/"+id, map[string]interface{}{
			"status": "frozen",
		})
		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("should update balance", func(t *testing.T) {
		resp := makeJSONRequest(t, "PUT", "/api/accounts/"+id, map[string]interface{}{
			"balance": 2000.0,
		})
		assertStatusCode(t, http.StatusOK, resp.Code)

		resp = makeRequest("GET", "/api/accounts/"+id, nil)
		var account Account
		assertNoError(t, parseJSONResponse(resp, &account))
		if account.Balance != 2000.0 {
			t.Errorf("Expected balance 2000, got %v", account.Balance)
		}
	})

	t.Run("should delete account", func(t *testing.T) {
		resp := makeRequest("DELETE", "/api/accounts/"+id, nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		resp = makeRequest("GET", "/api/accounts/"+id, nil)
		assertStatusCode(t, http.StatusNotFound, resp.Code)
	})
}

// TestAccountQueries tests the account list views and total balance
func TestAccountQueries(t *testing.T) {
	assertNoError(t, cleanupTestData())

	createTestAccount(t, "Operating", "checking", "Frost Bank", "active", 100.0)
	createTestAccount(t, "Reserve", "savings", "Frost Bank", "active", 250.0)
	createTestAccount(t, "Old payroll", "checking", "Chase", "inactive", 50.0)

	t.Run("should list accounts by type", func(t *testing.T) {
		resp := makeRequest("GET", "/api/accounts/type/checking", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var accounts []Account
		assertNoError(t, parseJSONResponse(resp, &accounts))
		if len(accounts) != 2 {
			t.Errorf("Expected 2 checking accounts, got %d", len(accounts))
		}
	})

	t.Run("should list accounts by bank", func(t *testing.T) {
		resp := makeRequest("GET", "/api/accounts/bank/Chase", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var accounts []Account
		assertNoError(t, parseJSONResponse(resp, &accounts))
		if len(accounts) != 1 || accounts[0].Name != "Old payroll" {
			t.Errorf("Expected only the Chase account, got %v", accounts)
		}
	})

	t.Run("should split active and inactive", func(t *testing.T) {
		resp := makeRequest("GET", "/api/accounts/active", nil)
		var active []Account
		assertNoError(t, parseJSONResponse(resp, &active))
		if len(active) != 2 {
			t.Errorf("Expected 2 active accounts, got %d", len(active))
		}

		resp = makeRequest("GET", "/api/accounts/inactive", nil)
		var inactive []Account
		assertNoError(t, parseJSONResponse(resp, &inactive))
		if len(inactive) != 1 {
			t.Errorf("Expected 1 inactive account, got %d", len(inactive))
		}
	})

	t.Run("should total all balances", func(t *testing.T) {
		resp := makeRequest("GET", "/api/accounts/total-balance", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var totals map[string]float64
		assertNoError(t, parseJSONResponse(resp, &totals))
		if totals["total_balance"] != 400.0 {
			t.Errorf("Expected total 400, got %v", totals["total_balance"])
		}
	})

	t.Run("should total balances by type and bank", func(t *testing.T) {
		resp := makeRequest("GET", "/api/accounts/total-balance?account_type=checking", nil)
		var totals map[string]float64
		assertNoError(t, parseJSONResponse(resp, &totals))
		if totals["total_balance"] != 150.0 {
			t.Errorf("Expected checking total 150, got %v", totals["total_balance"])
		}

		resp = makeRequest("GET", "/api/accounts/total-balance?bank_name=Frost+Bank", nil)
		assertNoError(t, parseJSONResponse(resp, &totals))
		if totals["total_balance"] != 350.0 {
			t.Errorf("Expected Frost Bank total 350, got %v", totals["total_balance"])
		}
	})
}
