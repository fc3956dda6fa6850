package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/nursery-erp/backend/internal/application/catalog"
)

// PlantHandler handles the plant catalog API endpoints
type PlantHandler struct {
	BaseHandler
	plantService *catalogapp.PlantService
}

// NewPlantHandler creates a new PlantHandler
func NewPlantHandler(plantService *catalogapp.PlantService) *PlantHandler {
	return &PlantHandler{
		plantService: plantService,
	}
}

// Create registers a plant with its type and variety
func (h *PlantHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req catalogapp.CreatePlantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	plant, err := h.plantService.CreatePlant(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, plant)
}

// GetByID retrieves a plant by ID
func (h *PlantHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	plantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid plant ID format")
		return
	}

	plant, err := h.plantService.GetPlant(c.Request.Context(), tenantID, plantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plant)
}

// List lists the plants of the tenant
func (h *PlantHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := parseListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}

	plants, err := h.plantService.ListPlants(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, plants, int64(len(plants)), filter.Page, filter.PageSize)
}
