package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Entry handler functions

type entryRequest struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	TransactionIDs []string `json:"transaction_ids"`
	EntryDate      *string  `json:"entry_date"`
	EntryType      *string  `json:"entry_type"`
	Status         *string  `json:"status"`
	Posted         *bool    `json:"posted"`
}

func validateEntryType(value string) error {
	switch EntryType(value) {
	case EntryTypeMonthly, EntryTypeQuarterly, EntryTypeAnnual, EntryTypeCustom:
		return nil
	}
	return validationErrorf("Invalid entry_type. Must be one of: monthly, quarterly, annual, custom")
}

func validateEntryStatus(value string) error {
	switch EntryStatus(value) {
	case EntryStatusDraft, EntryStatusSubmitted, EntryStatusApproved, EntryStatusRejected:
		return nil
	}
	return validationErrorf("Invalid status. Must be one of: draft, submitted, approved, rejected")
}

func parseTransactionIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, hex := range hexes {
		id, err := parseObjectID("transaction", hex)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// @Summary List entries
// @Description List entries, optionally filtered by type, status or entry date range
// @Tags entries
// @Produce json
// @Param type query string false "Entry type"
// @Param status query string false "Entry status"
// @Param start_date query string false "Earliest entry date (inclusive)"
// @Param end_date query string false "Latest entry date (inclusive)"
// @Success 200 {array} Entry "List of entries"
// @Failure 400 {object} map[string]interface{} "Invalid filter"
// @Router /api/entries [get]
func (a *app) getEntries(c *gin.Context) {
	filter := bson.M{}
	if entryType := c.Query("type"); entryType != "" {
		if err := validateEntryType(entryType); err != nil {
			a.respondError(c, err, "Error fetching entries")
			return
		}
		filter["entry_type"] = entryType
	}
	if status := c.Query("status"); status != "" {
		if err := validateEntryStatus(status); err != nil {
			a.respondError(c, err, "Error fetching entries")
			return
		}
		filter["status"] = status
	}

	dateRange := bson.M{}
	if start := c.Query("start_date"); start != "" {
		from, err := parseDate(start)
		if err != nil {
			a.respondError(c, err, "Error fetching entries")
			return
		}
		dateRange["$gte"] = from
	}
	if end := c.Query("end_date"); end != "" {
		to, err := parseDate(end)
		if err != nil {
			a.respondError(c, err, "Error fetching entries")
			return
		}
		dateRange["$lte"] = to
	}
	if len(dateRange) > 0 {
		filter["entry_date"] = dateRange
	}

	docs, err := a.store.Search(c.Request.Context(), collEntries, filter)
	if err != nil {
		a.respondError(c, err, "Error fetching entries")
		return
	}

	entries, err := decodeDocuments[Entry](docs)
	if err != nil {
		a.respondError(c, err, "Error fetching entries")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// @Summary Get entry
// @Description Get one entry; pass include_transactions=true to expand its transaction documents inline
// @Tags entries
// @Produce json
// @Param id path string true "Entry ID"
// @Param include_transactions query boolean false "Expand transactions"
// @Success 200 {object} Entry "Entry"
// @Failure 404 {object} map[string]interface{} "Entry not found"
// @Router /api/entries/{id} [get]
func (a *app) getEntry(c *gin.Context) {
	id, err := parseObjectID("entry", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error fetching entry")
		return
	}

	doc, err := a.store.Get(c.Request.Context(), collEntries, id)
	if err != nil {
		a.respondError(c, err, "Error fetching entry")
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	var entry Entry
	if err := fromDocument(doc, &entry); err != nil {
		a.respondError(c, err, "Error fetching entry")
		return
	}

	if c.Query("include_transactions") != "true" {
		c.JSON(http.StatusOK, entry)
		return
	}

	expanded := EntryWithTransactions{Entry: entry, Transactions: []Transaction{}}
	for _, txID := range entry.TransactionIDs {
		txDoc, err := a.store.Get(c.Request.Context(), collTransactions, txID)
		if err != nil {
			a.respondError(c, err, "Error fetching entry")
			return
		}
		// Transactions deleted since being linked are skipped.
		if txDoc == nil {
			continue
		}
		var tx Transaction
		if err := fromDocument(txDoc, &tx); err != nil {
			a.respondError(c, err, "Error fetching entry")
			return
		}
		expanded.Transactions = append(expanded.Transactions, tx)
	}
	c.JSON(http.StatusOK, expanded)
}

// @Summary Create entry
// @Description Create an entry grouping transactions for a reporting period
// @Tags entries
// @Accept json
// @Produce json
// @Param entry body entryRequest true "Entry data"
// @Success 201 {object} map[string]interface{} "Created"
// @Failure 400 {object} map[string]interface{} "Validation failure"
// @Router /api/entries [post]
func (a *app) createEntry(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	required := []struct {
		name    string
		present bool
	}{
		{"title", req.Title != nil && strings.TrimSpace(*req.Title) != ""},
		{"transaction_ids", req.TransactionIDs != nil},
		{"entry_date", req.EntryDate != nil && *req.EntryDate != ""},
		{"entry_type", req.EntryType != nil && *req.EntryType != ""},
		{"status", req.Status != nil && *req.Status != ""},
	}
	for _, field := range required {
		if !field.present {
			a.respondError(c, validationErrorf("Missing required field: %s", field.name), "Error creating entry")
			return
		}
	}

	if err := validateEntryType(*req.EntryType); err != nil {
		a.respondError(c, err, "Error creating entry")
		return
	}
	if err := validateEntryStatus(*req.Status); err != nil {
		a.respondError(c, err, "Error creating entry")
		return
	}

	transactionIDs, err := parseTransactionIDs(req.TransactionIDs)
	if err != nil {
		a.respondError(c, err, "Error creating entry")
		return
	}
	entryDate, err := parseDate(*req.EntryDate)
	if err != nil {
		a.respondError(c, err, "Error creating entry")
		return
	}

	entry := Entry{
		Title:          *req.Title,
		Description:    req.Description,
		TransactionIDs: transactionIDs,
		EntryDate:      entryDate,
		EntryType:      EntryType(*req.EntryType),
		Status:         EntryStatus(*req.Status),
		Posted:         req.Posted,
		CreatedAt:      now(),
	}

	doc, err := toDocument(entry)
	if err != nil {
		a.respondError(c, err, "Error creating entry")
		return
	}

	id, err := a.store.Create(c.Request.Context(), collEntries, doc)
	if err != nil {
		a.respondError(c, err, "Error creating entry")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.Hex(), "message": "Entry created successfully"})
}

// @Summary Update entry
// @Description Update the supplied fields of an entry
// @Tags entries
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param entry body entryRequest true "Fields to update"
// @Success 200 {object} map[string]interface{} "Updated"
// @Failure 400 {object} map[string]interface{} "Validation failure"
// @Failure 404 {object} map[string]interface{} "Entry not found"
// @Router /api/entries/{id} [put]
func (a *app) updateEntry(c *gin.Context) {
	id, err := parseObjectID("entry", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error updating entry")
		return
	}

	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	set := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.TransactionIDs != nil {
		transactionIDs, err := parseTransactionIDs(req.TransactionIDs)
		if err != nil {
			a.respondError(c, err, "Error updating entry")
			return
		}
		set["transaction_ids"] = transactionIDs
	}
	if req.EntryDate != nil {
		entryDate, err := parseDate(*req.EntryDate)
		if err != nil {
			a.respondError(c, err, "Error updating entry")
			return
		}
		set["entry_date"] = entryDate
	}
	if req.EntryType != nil {
		if err := validateEntryType(*req.EntryType); err != nil {
			a.respondError(c, err, "Error updating entry")
			return
		}
		set["entry_type"] = *req.EntryType
	}
	if req.Status != nil {
		if err := validateEntryStatus(*req.Status); err != nil {
			a.respondError(c, err, "Error updating entry")
			return
		}
		set["status"] = *req.Status
	}
	if req.Posted != nil {
		set["posted"] = *req.Posted
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	matched, _, err := a.store.Update(c.Request.Context(), collEntries, id, bson.M{"$set": set})
	if err != nil {
		a.respondError(c, err, "Error updating entry")
		return
	}
	if matched == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry updated successfully"})
}

// @Summary Delete entry
// @Tags entries
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} map[string]interface{} "Deleted"
// @Failure 404 {object} map[string]interface{} "Entry not found"
// @Router /api/entries/{id} [delete]
func (a *app) deleteEntry(c *gin.Context) {
	id, err := parseObjectID("entry", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error deleting entry")
		return
	}

	deleted, err := a.store.Delete(c.Request.Context(), collEntries, id)
	if err != nil {
		a.respondError(c, err, "Error deleting entry")
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted successfully"})
}

// @Summary Add transaction to entry
// @Description Link a transaction to an entry. The transaction list behaves as a set, so adding an already linked transaction is a no-op.
// @Tags entries
// @Produce json
// @Param id path string true "Entry ID"
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} map[string]interface{} "Added"
// @Failure 404 {object} map[string]interface{} "Entry not found"
// @Router /api/entries/{id}/transactions/{transaction_id} [post]
func (a *app) addTransactionToEntry(c *gin.Context) {
	id, err := parseObjectID("entry", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error adding transaction to entry")
		return
	}
	txID, err := parseObjectID("transaction", c.Param("transaction_id"))
	if err != nil {
		a.respondError(c, err, "Error adding transaction to entry")
		return
	}

	matched, modified, err := a.store.Update(c.Request.Context(), collEntries, id, bson.M{
		"$addToSet": bson.M{"transaction_ids": txID},
	})
	if err != nil {
		a.respondError(c, err, "Error adding transaction to entry")
		return
	}
	if matched == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Transaction added to entry successfully",
		"modified": modified,
	})
}

// @Summary Remove transaction from entry
// @Description Unlink a transaction from an entry. Removing a transaction that is not linked is a no-op.
// @Tags entries
// @Produce json
// @Param id path string true "Entry ID"
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} map[string]interface{} "Removed"
// @Failure 404 {object} map[string]interface{} "Entry not found"
// @Router /api/entries/{id}/transactions/{transaction_id} [delete]
func (a *app) removeTransactionFromEntry(c *gin.Context) {
	id, err := parseObjectID("entry", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error removing transaction from entry")
		return
	}
	txID, err := parseObjectID("transaction", c.Param("transaction_id"))
	if err != nil {
		a.respondError(c, err, "Error removing transaction from entry")
		return
	}

	matched, modified, err := a.store.Update(c.Request.Context(), collEntries, id, bson.M{
		"$pull": bson.M{"transaction_ids": txID},
	})
	if err != nil {
		a.respondError(c, err, "Error removing transaction from entry")
		return
	}
	if matched == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Transaction removed from entry successfully",
		"modified": modified,
	})
}
