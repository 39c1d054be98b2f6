package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// Property handler functions

type propertyRequest struct {
	Name        *string  `json:"name"`
	Address     *Address `json:"address"`
	Description *string  `json:"description"`
}

func validatePropertyCreate(req propertyRequest) error {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return errMandatory("name")
	}
	if req.Address == nil {
		return errMandatory("address")
	}
	return nil
}

// @Summary List properties
// @Description Retrieve all properties, optionally filtered by a case-insensitive name substring
// @Tags properties
// @Produce json
// @Param name query string false "Name substring"
// @Success 200 {array} Property "List of properties"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/properties [get]
func (a *app) getProperties(c *gin.Context) {
	filter := bson.M{}
	if name := c.Query("name"); name != "" {
		filter["name"] = substringMatch(name)
	}

	docs, err := a.store.Search(c.Request.Context(), collProperties, filter)
	if err != nil {
		a.respondError(c, err, "Error fetching properties")
		return
	}

	properties, err := decodeDocuments[Property](docs)
	if err != nil {
		a.respondError(c, err, "Error fetching properties")
		return
	}
	c.JSON(http.StatusOK, properties)
}

// @Summary Get property
// @Description Retrieve a single property by ID
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} Property "Property"
// @Failure 404 {object} map[string]interface{} "Property not found"
// @Router /api/properties/{id} [get]
func (a *app) getProperty(c *gin.Context) {
	id, err := parseObjectID("property", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error fetching property")
		return
	}

	doc, err := a.store.Get(c.Request.Context(), collProperties, id)
	if err != nil {
		a.respondError(c, err, "Error fetching property")
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	var property Property
	if err := fromDocument(doc, &property); err != nil {
		a.respondError(c, err, "Error fetching property")
		return
	}
	c.JSON(http.StatusOK, property)
}

// @Summary List properties by state
// @Description Retrieve all properties whose address is in the given state (case-insensitive)
// @Tags properties
// @Produce json
// @Param state path string true "State"
// @Success 200 {array} Property "List of properties"
// @Router /api/properties/state/{state} [get]
func (a *app) getPropertiesByState(c *gin.Context) {
	filter := bson.M{"address.state": exactMatchFold(c.Param("state"))}

	docs, err := a.store.Search(c.Request.Context(), collProperties, filter)
	if err != nil {
		a.respondError(c, err, "Error fetching properties")
		return
	}

	properties, err := decodeDocuments[Property](docs)
	if err != nil {
		a.respondError(c, err, "Error fetching properties")
		return
	}
	c.JSON(http.StatusOK, properties)
}

// @Summary Create property
// @Description Create a new property (name and address are mandatory)
// @Tags properties
// @Accept json
// @Produce json
// @Param property body propertyRequest true "Property data"
// @Success 201 {object} map[string]interface{} "Created"
// @Failure 400 {object} map[string]interface{} "Validation failure"
// @Router /api/properties [post]
func (a *app) createProperty(c *gin.Context) {
	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	if err := validatePropertyCreate(req); err != nil {
		a.respondError(c, err, "Error creating property")
		return
	}

	property := Property{
		Name:        *req.Name,
		Address:     *req.Address,
		Description: req.Description,
		CreatedAt:   now(),
	}

	doc, err := toDocument(property)
	if err != nil {
		a.respondError(c, err, "Error creating property")
		return
	}

	id, err := a.store.Create(c.Request.Context(), collProperties, doc)
	if err != nil {
		a.respondError(c, err, "Error creating property")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.Hex(), "message": "Property created successfully"})
}

// @Summary Update property
// @Description Update the supplied fields of a property
// @Tags properties
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param property body propertyRequest true "Fields to update"
// @Success 200 {object} map[string]interface{} "Updated"
// @Failure 400 {object} map[string]interface{} "Validation failure"
// @Failure 404 {object} map[string]interface{} "Property not found"
// @Router /api/properties/{id} [put]
func (a *app) updateProperty(c *gin.Context) {
	id, err := parseObjectID("property", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error updating property")
		return
	}

	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	set := bson.M{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			a.respondError(c, errMandatory("name"), "Error updating property")
			return
		}
		set["name"] = *req.Name
	}
	if req.Address != nil {
		set["address"] = *req.Address
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	matched, _, err := a.store.Update(c.Request.Context(), collProperties, id, bson.M{"$set": set})
	if err != nil {
		a.respondError(c, err, "Error updating property")
		return
	}
	if matched == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property updated successfully"})
}

// @Summary Update property address
// @Description Replace the address sub-object of a property
// @Tags properties
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param address body Address true "New address"
// @Success 200 {object} map[string]interface{} "Updated"
// @Failure 404 {object} map[string]interface{} "Property not found"
// @Router /api/properties/{id}/address [put]
func (a *app) updatePropertyAddress(c *gin.Context) {
	id, err := parseObjectID("property", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error updating property address")
		return
	}

	var address Address
	if err := c.ShouldBindJSON(&address); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	matched, _, err := a.store.Update(c.Request.Context(), collProperties, id, bson.M{"$set": bson.M{"address": address}})
	if err != nil {
		a.respondError(c, err, "Error updating property address")
		return
	}
	if matched == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property address updated successfully"})
}

// @Summary Delete property
// @Description Delete a property. Ownership and transaction records that
// reference it are left untouched (no cascade).
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} map[string]interface{} "Deleted"
// @Failure 404 {object} map[string]interface{} "Property not found"
// @Router /api/properties/{id} [delete]
func (a *app) deleteProperty(c *gin.Context) {
	id, err := parseObjectID("property", c.Param("id"))
	if err != nil {
		a.respondError(c, err, "Error deleting property")
		return
	}

	deleted, err := a.store.Delete(c.Request.Context(), collProperties, id)
	if err != nil {
		a.respondError(c, err, "Error deleting property")
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property deleted successfully"})
}
