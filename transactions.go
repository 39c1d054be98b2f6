package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// Transaction handler functions

type transactionRequest struct {
	PropertyID              *string  `json:"property_id"`
	CompanyID               *string  `json:"company_id"`
	TransactionDate         *string  `json:"transaction_date"`
	Amount                  *float64 `json:"amount"`
	MerchandiseTransacted   *string  `json:"merchandise_transacted"`
	AmountOfMerchTransacted *float64 `json:"amount_of_merch_transacted"`
	MerchandiseType         *string  `json:"merchandise_type"`
	BarrelsOfOil            *float64 `json:"barrels_of_oil"`
	Service                 *string  `json:"service"`
}

// transactionTotalFields whitelists the numeric fields /total may sum.
var transactionTotalFields = map[string]bool{
	"amount":                     true,
	"amount_of_merch_transacted": true,
	"barrels_of_oil":             true,
}

func (a *app) requirePropertyExists(c *gin.Context, hex string) error {
	id, err := parseObjectID("property", hex)
	if err != nil {
		return err
	}
	exists, err := documentExists(c.Request.Context(), a.store, collProperties, id)
	if err != nil {
		return err
	}
	if !exists {
		return validationErrorf("Property with ID '%s' does not exist in the database", hex)
	}
	return nil
}

func (a *app) requireCompanyExists(c *gin.Context, hex string) error {
	id, err := parseObjectID("company", hex)
	if err != nil {
		return err
	}
	exists, err := documentExists(c.Request.Context(), a.store, collCompanies, id)
	if err != nil {
		return err
	}
	if !exists {
		return validationErrorf("Company with ID '%s' does not exist in the database", hex)
	}
	return nil
}

// @Summary List transactions
// @Description List transactions, optionally filtered by property, company, merchandise type, date range or amount range
// @Tags transactions
// @Produce json
// @Param property_id query string false "Property ID"
// @Param company_id query string false "Company ID"
// @Param merchandise_type query string false "Merchandise type"
// @Param start_date query string false "Earliest transaction date (inclusive)"
// @Param end_date query string false "Latest transaction date (inclusive)"
// @Param min_amount query number false "Minimum amount (inclusive)"
// @Param max_amount query number false "Maximum amount (inclusive)"
// @Success 200 {array} Transaction "List of transactions"
// @Failure 400 {object} map[string]interface{} "Invalid filter"
// @Router /api/transactions [get]
func (a *app) getTransactions(c *gin.Context) {
	filter := bson.M{}
	if hex := c.Query("property_id"); hex != "" {
		id, err := parseObjectID("property", hex)
		if err != nil {
			a.respondError(c, err, "Error fetching transactions")
			return
		}
		filter["property_id"] = id
	}
	if hex := c.Query("company_id"); hex != "" {
		id, err := parseObjectID("company", hex)
		if err != nil {
			a.respondError(c, err, "Error fetching transactions")
			return
		}
		filter["company_id"] = id
	}
	if merchType := c.Query("merchandise_type"); merchType != "" {
		filter["merchandise_type"] = merchType
	}

	dateRange := bson.M{}
	if start := c.Query("start_date"); start != "" {
		from, err := parseDate(start)
		if err != nil {
			a.respondError(c, err, "Error fetching transactions")
			return
		}
		dateRange["$gte"] = from
	}
	if end := c.Query("end_date"); end != "" {
		to, err := parseDate(end)
		if err != nil {
			a.respondError(c, err, "Error fetching transactions")
			return
		}
		dateRange["$lte"] = to
	}
	if len(dateRange) > 0 {
		filter["transaction_date"] = dateRange
	}

	amountRange := bson.M{}
	if min := c.Query("min_amount"); min != "" {
		v, err := parseNumber("min_amount", min)
		if err != nil {
			a.respondError(c, err, "Error fetching transactions")
			return
		}
		amountRange["$gte"] = v
	}
	if max := c.Query("max_amount"); max != "" {
		v, err := parseNumber("max_amount", max)
		if err != nil {
			a.respondError(c, err, "Error fetching transactions")
			return
		}
		amountRange["$lte"] = v
	}
	if len(amountRange) > 0 {
		filter["amount"] = amountRange
	}

	docs, err := a.store.Search(c.Request.Context(), collTransactions, filter)
	if err != nil {
		a.respondError(c, err, "Error fetching transactions")
		return
	}

	transactions, err := decodeDocuments[Transaction](docs)
	if err != nil {
		a.respondError(c, err, "Error fetching transactions")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} Transaction "Transaction"
// @Failure 404 {object} map[string]interface{} "Transaction not found"
// @Router /api/transactions/{id} [get]
func (a *app) getTransaction(c *gin.Context) {
	id, err := parseObjectID("transaction", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error fetching transaction")
		return
	}

	doc, err := a.store.Get(c.Request.Context(), collTransactions, id)
	if err != nil {
		a.respondError(c, err, "Error fetching transaction")
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	var transaction Transaction
	if err := fromDocument(doc, &transaction); err != nil {
		a.respondError(c, err, "Error fetching transaction")
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// @Summary Total transacted for a property
// @Description Sum a numeric transaction field across all transactions of one property
// @Tags transactions
// @Produce json
// @Param property_id path string true "Property ID"
// @Param field query string false "Field to sum (amount, amount_of_merch_transacted or barrels_of_oil)" default(amount)
// @Success 200 {object} map[string]interface{} "Total"
// @Failure 400 {object} map[string]interface{} "Invalid field"
// @Router /api/transactions/total/{property_id} [get]
func (a *app) getTransactionTotal(c *gin.Context) {
	id, err := parseObjectID("property", c.Param("property_id"))
	if err != nil {
		a.respondError(c, err, "Error calculating transaction total")
		return
	}

	field := c.DefaultQuery("field", "amount")
	if !transactionTotalFields[field] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid field. Must be one of: amount, amount_of_merch_transacted, barrels_of_oil"})
		return
	}

	docs, err := a.store.Search(c.Request.Context(), collTransactions, bson.M{"property_id": id})
	if err != nil {
		a.respondError(c, err, "Error calculating transaction total")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"property_id": id.Hex(),
		"field":       field,
		"total":       sumField(docs, field),
	})
}

// @Summary Create transaction
// @Description Record a transaction; the referenced property and company must already exist
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body transactionRequest true "Transaction data"
// @Success 201 {object} map[string]interface{} "Created"
// @Failure 400 {object} map[string]interface{} "Validation failure"
// @Router /api/transactions [post]
func (a *app) createTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	required := []struct {
		name    string
		present bool
	}{
		{"property_id", req.PropertyID != nil && *req.PropertyID != ""},
		{"company_id", req.CompanyID != nil && *req.CompanyID != ""},
		{"transaction_date", req.TransactionDate != nil && *req.TransactionDate != ""},
		{"amount", req.Amount != nil},
	}
	for _, field := range required {
		if !field.present {
			a.respondError(c, errMandatory(field.name), "Error creating transaction")
			return
		}
	}

	if err := a.requirePropertyExists(c, *req.PropertyID); err != nil {
		a.respondError(c, err, "Error creating transaction")
		return
	}
	if err := a.requireCompanyExists(c, *req.CompanyID); err != nil {
		a.respondError(c, err, "Error creating transaction")
		return
	}

	propertyID, _ := parseObjectID("property", *req.PropertyID)
	companyID, _ := parseObjectID("company", *req.CompanyID)
	transactionDate, err := parseDate(*req.TransactionDate)
	if err != nil {
		a.respondError(c, err, "Error creating transaction")
		return
	}

	transaction := Transaction{
		PropertyID:              propertyID,
		CompanyID:               companyID,
		TransactionDate:         transactionDate,
		Amount:                  *req.Amount,
		MerchandiseTransacted:   req.MerchandiseTransacted,
		AmountOfMerchTransacted: req.AmountOfMerchTransacted,
		MerchandiseType:         req.MerchandiseType,
		BarrelsOfOil:            req.BarrelsOfOil,
		Service:                 req.Service,
		CreatedAt:               now(),
	}

	doc, err := toDocument(transaction)
	if err != nil {
		a.respondError(c, err, "Error creating transaction")
		return
	}

	id, err := a.store.Create(c.Request.Context(), collTransactions, doc)
	if err != nil {
		a.respondError(c, err, "Error creating transaction")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.Hex(), "message": "Transaction created successfully"})
}

// @Summary Update transaction
// @Description Update the supplied fields of a transaction; changed references are re-checked for existence
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param transaction body transactionRequest true "Fields to update"
// @Success 200 {object} map[string]interface{} "Updated"
// @Failure 400 {object} map[string]interface{} "Validation failure"
// @Failure 404 {object} map[string]interface{} "Transaction not found"
// @Router /api/transactions/{id} [put]
func (a *app) updateTransaction(c *gin.Context) {
	id, err := parseObjectID("transaction", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error updating transaction")
		return
	}

	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	set := bson.M{}
	if req.PropertyID != nil {
		if err := a.requirePropertyExists(c, *req.PropertyID); err != nil {
			a.respondError(c, err, "Error updating transaction")
			return
		}
		propertyID, _ := parseObjectID("property", *req.PropertyID)
		set["property_id"] = propertyID
	}
	if req.CompanyID != nil {
		if err := a.requireCompanyExists(c, *req.CompanyID); err != nil {
			a.respondError(c, err, "Error updating transaction")
			return
		}
		companyID, _ := parseObjectID("company", *req.CompanyID)
		set["company_id"] = companyID
	}
	if req.TransactionDate != nil {
		transactionDate, err := parseDate(*req.TransactionDate)
		if err != nil {
			a.respondError(c, err, "Error updating transaction")
			return
		}
		set["transaction_date"] = transactionDate
	}
	if req.Amount != nil {
		set["amount"] = *req.Amount
	}
	if req.MerchandiseTransacted != nil {
		set["merchandise_transacted"] = *req.MerchandiseTransacted
	}
	if req.AmountOfMerchTransacted != nil {
		set["amount_of_merch_transacted"] = *req.AmountOfMerchTransacted
	}
	if req.MerchandiseType != nil {
		set["merchandise_type"] = *req.MerchandiseType
	}
	if req.BarrelsOfOil != nil {
		set["barrels_of_oil"] = *req.BarrelsOfOil
	}
	if req.Service != nil {
		set["service"] = *req.Service
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	matched, _, err := a.store.Update(c.Request.Context(), collTransactions, id, bson.M{"$set": set})
	if err != nil {
		a.respondError(c, err, "Error updating transaction")
		return
	}
	if matched == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction updated successfully"})
}

// @Summary Delete transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} map[string]interface{} "Deleted"
// @Failure 404 {object} map[string]interface{} "Transaction not found"
// @Router /api/transactions/{id} [delete]
func (a *app) deleteTransaction(c *gin.Context) {
	id, err := parseObjectID("transaction", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error deleting transaction")
		return
	}

	deleted, err := a.store.Delete(c.Request.Context(), collTransactions, id)
	if err != nil {
		a.respondError(c, err, "Error deleting transaction")
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
