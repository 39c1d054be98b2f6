package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// Company handler functions

type companyRequest struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	ContactInfo *ContactInfo `json:"contact_info"`
}

// @Summary List companies
// @Description Retrieve all companies, optionally filtered by a case-insensitive name substring
// @Tags companies
// @Produce json
// @Param name query string false "Name substring"
// @Success 200 {array} Company "List of companies"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/companies [get]
func (a *app) getCompanies(c *gin.Context) {
	filter := bson.M{}
	if name := c.Query("name"); name != "" {
		filter["name"] = substringMatch(name)
	}

	docs, err := a.store.Search(c.Request.Context(), collCompanies, filter)
	if err != nil {
		a.respondError(c, err, "Error fetching companies")
		return
	}

	companies, err := decodeDocuments[Company](docs)
	if err != nil {
		a.respondError(c, err, "Error fetching companies")
		return
	}
	c.JSON(http.StatusOK, companies)
}

// @Summary Get company
// @Tags companies
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} Company "Company"
// @Failure 404 {object} map[string]interface{} "Company not found"
// @Router /api/companies/{id} [get]
func (a *app) getCompany(c *gin.Context) {
	id, err := parseObjectID("company", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error fetching company")
		return
	}

	doc, err := a.store.Get(c.Request.Context(), collCompanies, id)
	if err != nil {
		a.respondError(c, err, "Error fetching company")
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	var company Company
	if err := fromDocument(doc, &company); err != nil {
		a.respondError(c, err, "Error fetching company")
		return
	}
	c.JSON(http.StatusOK, company)
}

// @Summary Create company
// @Tags companies
// @Accept json
// @Produce json
// @Param company body companyRequest true "Company data (name required)"
// @Success 201 {object} map[string]interface{} "Created"
// @Failure 400 {object} map[string]interface{} "Validation failure"
// @Router /api/companies [post]
func (a *app) createCompany(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		a.respondError(c, errMandatory("name"), "Error creating company")
		return
	}

	company := Company{
		Name:        *req.Name,
		Description: req.Description,
		ContactInfo: req.ContactInfo,
		CreatedAt:   now(),
	}

	doc, err := toDocument(company)
	if err != nil {
		a.respondError(c, err, "Error creating company")
		return
	}

	id, err := a.store.Create(c.Request.Context(), collCompanies, doc)
	if err != nil {
		a.respondError(c, err, "Error creating company")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.Hex(), "message": "Company created successfully"})
}

// @Summary Update company
// @Tags companies
// @Accept json
// @Produce json
// @Param id path string true "Company ID"
// @Param company body companyRequest true "Fields to update"
// @Success 200 {object} map[string]interface{} "Updated"
// @Failure 404 {object} map[string]interface{} "Company not found"
// @Router /api/companies/{id} [put]
func (a *app) updateCompany(c *gin.Context) {
	id, err := parseObjectID("company", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error updating company")
		return
	}

	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	set := bson.M{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			a.respondError(c, errMandatory("name"), "Error updating company")
			return
		}
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.ContactInfo != nil {
		set["contact_info"] = *req.ContactInfo
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	matched, _, err := a.store.Update(c.Request.Context(), collCompanies, id, bson.M{"$set": set})
	if err != nil {
		a.respondError(c, err, "Error updating company")
		return
	}
	if matched == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Company updated successfully"})
}

// @Summary Delete company
// @Description Delete a company. Dependent ownership and transaction records keep their reference (no cascade).
// @Tags companies
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} map[string]interface{} "Deleted"
// @Failure 404 {object} map[string]interface{} "Company not found"
// @Router /api/companies/{id} [delete]
func (a *app) deleteCompany(c *gin.Context) {
	id, err := parseObjectID("company", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error deleting company")
		return
	}

	deleted, err := a.store.Delete(c.Request.Context(), collCompanies, id)
	if err != nil {
		a.respondError(c, err, "Error deleting company")
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Company deleted successfully"})
}
