package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// Company ownership handler functions

type ownershipRequest struct {
	PropertyID     *string  `json:"property_id"`
	CompanyID      *string  `json:"company_id"`
	Percentage     *float64 `json:"percentage"`
	InterestType   *string  `json:"interest_type"`
	WellType       *string  `json:"well_type"`
	Notes          *string  `json:"notes"`
	IsCurrentOwner *bool    `json:"is_current_owner"`
	DateFrom       *string  `json:"date_from"`
	DateTo         *string  `json:"date_to"`
}

func validatePercentage(p float64) error {
	if p < 0 || p > 100 {
		return validationErrorf("Percentage must be a valid number between 0 and 100")
	}
	return nil
}

func validateInterestType(value string) error {
	switch InterestType(value) {
	case InterestTypeWorking, InterestTypeRoyalty:
		return nil
	}
	return validationErrorf("Interest type must be either 'working' or 'royalty'")
}

// @Summary List ownership records
// @Description List company ownership records, optionally filtered by property, company, interest type, well type or percentage range
// @Tags company-ownership
// @Produce json
// @Param property_id query string false "Property ID"
// @Param company_id query string false "Company ID"
// @Param interest_type query string false "Interest type (working or royalty)"
// @Param well_type query string false "Well type"
// @Param min_percentage query number false "Minimum percentage (inclusive)"
// @Param max_percentage query number false "Maximum percentage (inclusive)"
// @Success 200 {array} CompanyOwnership "List of ownership records"
// @Failure 400 {object} map[string]interface{} "Invalid filter"
// @Router /api/company-ownership [get]
func (a *app) getOwnerships(c *gin.Context) {
	filter := bson.M{}
	if hex := c.Query("property_id"); hex != "" {
		id, err := parseObjectID("property", hex)
		if err != nil {
			a.respondError(c, err, "Error fetching ownership records")
			return
		}
		filter["property_id"] = id
	}
	if hex := c.Query("company_id"); hex != "" {
		id, err := parseObjectID("company", hex)
		if err != nil {
			a.respondError(c, err, "Error fetching ownership records")
			return
		}
		filter["company_id"] = id
	}
	if interestType := c.Query("interest_type"); interestType != "" {
		if err := validateInterestType(interestType); err != nil {
			a.respondError(c, err, "Error fetching ownership records")
			return
		}
		filter["interest_type"] = interestType
	}
	if wellType := c.Query("well_type"); wellType != "" {
		filter["well_type"] = wellType
	}

	percentageRange := bson.M{}
	if min := c.Query("min_percentage"); min != "" {
		v, err := parseNumber("min_percentage", min)
		if err != nil {
			a.respondError(c, err, "Error fetching ownership records")
			return
		}
		percentageRange["$gte"] = v
	}
	if max := c.Query("max_percentage"); max != "" {
		v, err := parseNumber("max_percentage", max)
		if err != nil {
			a.respondError(c, err, "Error fetching ownership records")
			return
		}
		percentageRange["$lte"] = v
	}
	if len(percentageRange) > 0 {
		filter["percentage"] = percentageRange
	}

	a.listOwnerships(c, filter)
}

func (a *app) listOwnerships(c *gin.Context, filter bson.M) {
	docs, err := a.store.Search(c.Request.Context(), collOwnerships, filter)
	if err != nil {
		a.respondError(c, err, "Error fetching ownership records")
		return
	}

	ownerships, err := decodeDocuments[CompanyOwnership](docs)
	if err != nil {
		a.respondError(c, err, "Error fetching ownership records")
		return
	}
	c.JSON(http.StatusOK, ownerships)
}

// @Summary Get ownership record
// @Tags company-ownership
// @Produce json
// @Param id path string true "Ownership record ID"
// @Success 200 {object} CompanyOwnership "Ownership record"
// @Failure 404 {object} map[string]interface{} "Ownership record not found"
// @Router /api/company-ownership/{id} [get]
func (a *app) getOwnership(c *gin.Context) {
	id, err := parseObjectID("ownership", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error fetching ownership record")
		return
	}

	doc, err := a.store.Get(c.Request.Context(), collOwnerships, id)
	if err != nil {
		a.respondError(c, err, "Error fetching ownership record")
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ownership record not found"})
		return
	}

	var ownership CompanyOwnership
	if err := fromDocument(doc, &ownership); err != nil {
		a.respondError(c, err, "Error fetching ownership record")
		return
	}
	c.JSON(http.StatusOK, ownership)
}

// @Summary List current ownership records
// @Description List ownership records whose owner still holds the interest, optionally for one property
// @Tags company-ownership
// @Produce json
// @Param property_id query string false "Property ID"
// @Success 200 {array} CompanyOwnership "List of current ownership records"
// @Router /api/company-ownership/current [get]
func (a *app) getCurrentOwnerships(c *gin.Context) {
	filter := bson.M{"is_current_owner": true}
	if hex := c.Query("property_id"); hex != "" {
		id, err := parseObjectID("property", hex)
		if err != nil {
			a.respondError(c, err, "Error fetching ownership records")
			return
		}
		filter["property_id"] = id
	}
	a.listOwnerships(c, filter)
}

// @Summary List historical ownership records
// @Description List ownership records whose interest has ended, optionally for one property
// @Tags company-ownership
// @Produce json
// @Param property_id query string false "Property ID"
// @Success 200 {array} CompanyOwnership "List of historical ownership records"
// @Router /api/company-ownership/historical [get]
func (a *app) getHistoricalOwnerships(c *gin.Context) {
	filter := bson.M{"is_current_owner": false}
	if hex := c.Query("property_id"); hex != "" {
		id, err := parseObjectID("property", hex)
		if err != nil {
			a.respondError(c, err, "Error fetching ownership records")
			return
		}
		filter["property_id"] = id
	}
	a.listOwnerships(c, filter)
}

// @Summary List ownership records overlapping a date range
// @Description List ownership records whose holding period overlaps [start_date, end_date]. Current records overlap when they started on or before end_date; historical records additionally must not have ended before start_date.
// @Tags company-ownership
// @Produce json
// @Param start_date query string true "Range start (inclusive)"
// @Param end_date query string true "Range end (inclusive)"
// @Success 200 {array} CompanyOwnership "List of overlapping ownership records"
// @Failure 400 {object} map[string]interface{} "Missing or invalid dates"
// @Router /api/company-ownership/range [get]
func (a *app) getOwnershipsInDateRange(c *gin.Context) {
	start := c.Query("start_date")
	end := c.Query("end_date")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both start_date and end_date are required"})
		return
	}

	from, err := parseDate(start)
	if err != nil {
		a.respondError(c, err, "Error fetching ownership records")
		return
	}
	to, err := parseDate(end)
	if err != nil {
		a.respondError(c, err, "Error fetching ownership records")
		return
	}

	filter := bson.M{"$or": []bson.M{
		{
			"is_current_owner": true,
			"date_from":        bson.M{"$lte": to},
		},
		{
			"is_current_owner": false,
			"date_from":        bson.M{"$lte": to},
			"date_to":          bson.M{"$gte": from},
		},
	}}
	a.listOwnerships(c, filter)
}

// @Summary Total ownership percentage for a property
// @Description Sum the current ownership percentages held in one property
// @Tags company-ownership
// @Produce json
// @Param property_id path string true "Property ID"
// @Success 200 {object} map[string]interface{} "Total percentage"
// @Router /api/company-ownership/total/{property_id} [get]
func (a *app) getTotalOwnershipPercentage(c *gin.Context) {
	id, err := parseObjectID("property", c.Param("property_id"))
	if err != nil {
		a.respondError(c, err, "Error calculating total ownership")
		return
	}

	docs, err := a.store.Search(c.Request.Context(), collOwnerships, bson.M{
		"property_id":      id,
		"is_current_owner": true,
	})
	if err != nil {
		a.respondError(c, err, "Error calculating total ownership")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"property_id":      id.Hex(),
		"total_percentage": sumField(docs, "percentage"),
	})
}

// @Summary Create ownership record
// @Description Record a company's interest in a property. Current records are open-ended; historical records need a date_to after date_from.
// @Tags company-ownership
// @Accept json
// @Produce json
// @Param ownership body ownershipRequest true "Ownership data"
// @Success 201 {object} map[string]interface{} "Created"
// @Failure 400 {object} map[string]interface{} "Validation failure"
// @Router /api/company-ownership [post]
func (a *app) createOwnership(c *gin.Context) {
	var req ownershipRequest
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
		{"percentage", req.Percentage != nil},
		{"interest_type", req.InterestType != nil && *req.InterestType != ""},
		{"date_from", req.DateFrom != nil && *req.DateFrom != ""},
	}
	for _, field := range required {
		if !field.present {
			a.respondError(c, errMandatory(field.name), "Error creating ownership record")
			return
		}
	}

	if err := a.requirePropertyExists(c, *req.PropertyID); err != nil {
		a.respondError(c, err, "Error creating ownership record")
		return
	}
	if err := a.requireCompanyExists(c, *req.CompanyID); err != nil {
		a.respondError(c, err, "Error creating ownership record")
		return
	}
	if err := validatePercentage(*req.Percentage); err != nil {
		a.respondError(c, err, "Error creating ownership record")
		return
	}
	if err := validateInterestType(*req.InterestType); err != nil {
		a.respondError(c, err, "Error creating ownership record")
		return
	}

	dateFrom, err := parseDate(*req.DateFrom)
	if err != nil {
		a.respondError(c, err, "Error creating ownership record")
		return
	}

	isCurrent := true
	if req.IsCurrentOwner != nil {
		isCurrent = *req.IsCurrentOwner
	}

	var dateTo *time.Time
	if isCurrent {
		if req.DateTo != nil && *req.DateTo != "" {
			a.respondError(c, validationErrorf("date_to must not be set for a current owner"), "Error creating ownership record")
			return
		}
	} else {
		if req.DateTo == nil || *req.DateTo == "" {
			a.respondError(c, validationErrorf("date_to is required for a historical owner"), "Error creating ownership record")
			return
		}
		parsed, err := parseDate(*req.DateTo)
		if err != nil {
			a.respondError(c, err, "Error creating ownership record")
			return
		}
		if !parsed.After(dateFrom) {
			a.respondError(c, validationErrorf("date_to must be after date_from"), "Error creating ownership record")
			return
		}
		dateTo = &parsed
	}

	propertyID, _ := parseObjectID("property", *req.PropertyID)
	companyID, _ := parseObjectID("company", *req.CompanyID)

	ownership := CompanyOwnership{
		PropertyID:     propertyID,
		CompanyID:      companyID,
		Percentage:     *req.Percentage,
		InterestType:   InterestType(*req.InterestType),
		WellType:       req.WellType,
		Notes:          req.Notes,
		IsCurrentOwner: isCurrent,
		DateFrom:       dateFrom,
		DateTo:         dateTo,
		CreatedAt:      now(),
	}

	doc, err := toDocument(ownership)
	if err != nil {
		a.respondError(c, err, "Error creating ownership record")
		return
	}

	id, err := a.store.Create(c.Request.Context(), collOwnerships, doc)
	if err != nil {
		a.respondError(c, err, "Error creating ownership record")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.Hex(), "message": "Ownership record created successfully"})
}

// @Summary Update ownership record
// @Description Update the supplied fields of an ownership record; supplied fields are validated individually and changed references re-checked
// @Tags company-ownership
// @Accept json
// @Produce json
// @Param id path string true "Ownership record ID"
// @Param ownership body ownershipRequest true "Fields to update"
// @Success 200 {object} map[string]interface{} "Updated"
// @Failure 400 {object} map[string]interface{} "Validation failure"
// @Failure 404 {object} map[string]interface{} "Ownership record not found"
// @Router /api/company-ownership/{id} [put]
func (a *app) updateOwnership(c *gin.Context) {
	id, err := parseObjectID("ownership", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error updating ownership record")
		return
	}

	var req ownershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	set := bson.M{}
	unset := bson.M{}
	if req.PropertyID != nil {
		if err := a.requirePropertyExists(c, *req.PropertyID); err != nil {
			a.respondError(c, err, "Error updating ownership record")
			return
		}
		propertyID, _ := parseObjectID("property", *req.PropertyID)
		set["property_id"] = propertyID
	}
	if req.CompanyID != nil {
		if err := a.requireCompanyExists(c, *req.CompanyID); err != nil {
			a.respondError(c, err, "Error updating ownership record")
			return
		}
		companyID, _ := parseObjectID("company", *req.CompanyID)
		set["company_id"] = companyID
	}
	if req.Percentage != nil {
		if err := validatePercentage(*req.Percentage); err != nil {
			a.respondError(c, err, "Error updating ownership record")
			return
		}
		set["percentage"] = *req.Percentage
	}
	if req.InterestType != nil {
		if err := validateInterestType(*req.InterestType); err != nil {
			a.respondError(c, err, "Error updating ownership record")
			return
		}
		set["interest_type"] = *req.InterestType
	}
	if req.WellType != nil {
		set["well_type"] = *req.WellType
	}
	if req.Notes != nil {
		set["notes"] = *req.Notes
	}
	if req.DateFrom != nil {
		dateFrom, err := parseDate(*req.DateFrom)
		if err != nil {
			a.respondError(c, err, "Error updating ownership record")
			return
		}
		set["date_from"] = dateFrom
	}
	if req.IsCurrentOwner != nil {
		set["is_current_owner"] = *req.IsCurrentOwner
		if *req.IsCurrentOwner {
			// Reverting to current ownership clears any closing date.
			unset["date_to"] = ""
		}
	}
	if req.DateTo != nil && *req.DateTo != "" {
		if req.IsCurrentOwner != nil && *req.IsCurrentOwner {
			a.respondError(c, validationErrorf("date_to must not be set for a current owner"), "Error updating ownership record")
			return
		}
		dateTo, err := parseDate(*req.DateTo)
		if err != nil {
			a.respondError(c, err, "Error updating ownership record")
			return
		}
		set["date_to"] = dateTo
		delete(unset, "date_to")
	}
	if len(set) == 0 && len(unset) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	matched, _, err := a.store.Update(c.Request.Context(), collOwnerships, id, update)
	if err != nil {
		a.respondError(c, err, "Error updating ownership record")
		return
	}
	if matched == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ownership record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ownership record updated successfully"})
}

// @Summary Delete ownership record
// @Tags company-ownership
// @Produce json
// @Param id path string true "Ownership record ID"
// @Success 200 {object} map[string]interface{} "Deleted"
// @Failure 404 {object} map[string]interface{} "Ownership record not found"
// @Router /api/company-ownership/{id} [delete]
func (a *app) deleteOwnership(c *gin.Context) {
	id, err := parseObjectID("ownership", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error deleting ownership record")
		return
	}

	deleted, err := a.store.Delete(c.Request.Context(), collOwnerships, id)
	if err != nil {
		a.respondError(c, err, "Error deleting ownership record")
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ownership record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ownership record deleted successfully"})
}
