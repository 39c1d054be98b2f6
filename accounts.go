package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// Account handler functions

type accountRequest struct {
	Name          *string  `json:"name"`
	AccountType   *string  `json:"account_type"`
	AccountNumber *string  `json:"account_number"`
	Status        *string  `json:"status"`
	Balance       *float64 `json:"balance"`
	BankName      *string  `json:"bank_name"`
	Description   *string  `json:"description"`
}

func validateAccountStatus(status string) error {
	switch AccountStatus(status) {
	case AccountStatusActive, AccountStatusInactive:
		return nil
	}
	return validationErrorf("Status must be either 'active' or 'inactive'")
}

func validateAccountCreate(req accountRequest) error {
	required := []struct {
		name    string
		present bool
	}{
		{"name", req.Name != nil && strings.TrimSpace(*req.Name) != ""},
		{"account_type", req.AccountType != nil && *req.AccountType != ""},
		{"account_number", req.AccountNumber != nil && *req.AccountNumber != ""},
		{"status", req.Status != nil},
		{"balance", req.Balance != nil},
	}
	for _, field := range required {
		if !field.present {
			return errMandatory(field.name)
		}
	}
	return validateAccountStatus(*req.Status)
}

// @Summary List accounts
// @Tags accounts
// @Produce json
// @Success 200 {array} Account "List of accounts"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/accounts [get]
func (a *app) getAccounts(c *gin.Context) {
	docs, err := a.store.GetAll(c.Request.Context(), collAccounts)
	if err != nil {
		a.respondError(c, err, "Error fetching accounts")
		return
	}

	accounts, err := decodeDocuments[Account](docs)
	if err != nil {
		a.respondError(c, err, "Error fetching accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// @Summary Get account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} Account "Account"
// @Failure 404 {object} map[string]interface{} "Account not found"
// @Router /api/accounts/{id} [get]
func (a *app) getAccount(c *gin.Context) {
	id, err := parseObjectID("account", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error fetching account")
		return
	}

	doc, err := a.store.Get(c.Request.Context(), collAccounts, id)
	if err != nil {
		a.respondError(c, err, "Error fetching account")
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	var account Account
	if err := fromDocument(doc, &account); err != nil {
		a.respondError(c, err, "Error fetching account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (a *app) listAccounts(c *gin.Context, filter bson.M) {
	docs, err := a.store.Search(c.Request.Context(), collAccounts, filter)
	if err != nil {
		a.respondError(c, err, "Error fetching accounts")
		return
	}

	accounts, err := decodeDocuments[Account](docs)
	if err != nil {
		a.respondError(c, err, "Error fetching accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// @Summary List accounts by type
// @Tags accounts
// @Produce json
// @Param type path string true "Account type"
// @Success 200 {array} Account "List of accounts"
// @Router /api/accounts/type/{type} [get]
func (a *app) getAccountsByType(c *gin.Context) {
	a.listAccounts(c, bson.M{"account_type": c.Param("type")})
}

// @Summary List accounts by bank
// @Tags accounts
// @Produce json
// @Param bank path string true "Bank name"
// @Success 200 {array} Account "List of accounts"
// @Router /api/accounts/bank/{bank} [get]
func (a *app) getAccountsByBank(c *gin.Context) {
	a.listAccounts(c, bson.M{"bank_name": c.Param("bank")})
}

// @Summary List active accounts
// @Tags accounts
// @Produce json
// @Success 200 {array} Account "List of active accounts"
// @Router /api/accounts/active [get]
func (a *app) getActiveAccounts(c *gin.Context) {
	a.listAccounts(c, bson.M{"status": string(AccountStatusActive)})
}

// @Summary List inactive accounts
// @Tags accounts
// @Produce json
// @Success 200 {array} Account "List of inactive accounts"
// @Router /api/accounts/inactive [get]
func (a *app) getInactiveAccounts(c *gin.Context) {
	a.listAccounts(c, bson.M{"status": string(AccountStatusInactive)})
}

// @Summary Get total balance
// @Description Sum of balances across all accounts, optionally restricted to one account type or bank
// @Tags accounts
// @Produce json
// @Param account_type query string false "Account type"
// @Param bank_name query string false "Bank name"
// @Success 200 {object} map[string]interface{} "Total balance"
// @Router /api/accounts/total-balance [get]
func (a *app) getTotalBalance(c *gin.Context) {
	filter := bson.M{}
	if accountType := c.Query("account_type"); accountType != "" {
		filter["account_type"] = accountType
	}
	if bankName := c.Query("bank_name"); bankName != "" {
		filter["bank_name"] = bankName
	}

	docs, err := a.store.Search(c.Request.Context(), collAccounts, filter)
	if err != nil {
		a.respondError(c, err, "Error calculating total balance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_balance": sumField(docs, "balance")})
}

// @Summary Create account
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body accountRequest true "Account data"
// @Success 201 {object} map[string]interface{} "Created"
// @Failure 400 {object} map[string]interface{} "Validation failure"
// @Router /api/accounts [post]
func (a *app) createAccount(c *gin.Context) {
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	if err := validateAccountCreate(req); err != nil {
		a.respondError(c, err, "Error creating account")
		return
	}

	account := Account{
		Name:          *req.Name,
		AccountType:   *req.AccountType,
		AccountNumber: *req.AccountNumber,
		Status:        AccountStatus(*req.Status),
		Balance:       *req.Balance,
		BankName:      req.BankName,
		Description:   req.Description,
		CreatedAt:     now(),
	}

	doc, err := toDocument(account)
	if err != nil {
		a.respondError(c, err, "Error creating account")
		return
	}

	id, err := a.store.Create(c.Request.Context(), collAccounts, doc)
	if err != nil {
		a.respondError(c, err, "Error creating account")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.Hex(), "message": "Account created successfully"})
}

// @Summary Update account
// @Description Update the supplied fields of an account; only supplied fields are re-validated
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param account body accountRequest true "Fields to update"
// @Success 200 {object} map[string]interface{} "Updated"
// @Failure 400 {object} map[string]interface{} "Validation failure"
// @Failure 404 {object} map[string]interface{} "Account not found"
// @Router /api/accounts/{id} [put]
func (a *app) updateAccount(c *gin.Context) {
	id, err := parseObjectID("account", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error updating account")
		return
	}

	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.AccountType != nil {
		set["account_type"] = *req.AccountType
	}
	if req.AccountNumber != nil {
		set["account_number"] = *req.AccountNumber
	}
	if req.Status != nil {
		if err := validateAccountStatus(*req.Status); err != nil {
			a.respondError(c, err, "Error updating account")
			return
		}
		set["status"] = *req.Status
	}
	if req.Balance != nil {
		set["balance"] = *req.Balance
	}
	if req.BankName != nil {
		set["bank_name"] = *req.BankName
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	matched, _, err := a.store.Update(c.Request.Context(), collAccounts, id, bson.M{"$set": set})
	if err != nil {
		a.respondError(c, err, "Error updating account")
		return
	}
	if matched == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account updated successfully"})
}

// @Summary Delete account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} map[string]interface{} "Deleted"
// @Failure 404 {object} map[string]interface{} "Account not found"
// @Router /api/accounts/{id} [delete]
func (a *app) deleteAccount(c *gin.Context) {
	id, err := parseObjectID("account", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error deleting account")
		return
	}

	deleted, err := a.store.Delete(c.Request.Context(), collAccounts, id)
	if err != nil {
		a.respondError(c, err, "Error deleting account")
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
