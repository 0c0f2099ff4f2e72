package handler

import (
	"net/http"

	"canebill/internal/model"
	"canebill/internal/service"
	"canebill/pkg/response"

	"github.com/gin-gonic/gin"
)

type PartyHandler struct {
	partyService service.PartyService
}

func NewPartyHandler(partyService service.PartyService) *PartyHandler {
	return &PartyHandler{partyService: partyService}
}

// RegisterRoutes mounts the farmer and seller route trees. Only farmer
// registration is guarded; the seller flavor of every endpoint is open,
// mirroring the contract existing clients depend on.
func (h *PartyHandler) RegisterRoutes(router *gin.RouterGroup, requireAdmin gin.HandlerFunc) {
	farmers := router.Group("/api/farmer")
	{
		farmers.POST("/register", requireAdmin, h.variantHandler(model.VariantFarmer).register)
		farmers.GET("/all", h.variantHandler(model.VariantFarmer).list)
		farmers.GET("/:id", h.variantHandler(model.VariantFarmer).getByID)
		farmers.PUT("/update/:id", h.variantHandler(model.VariantFarmer).update)
		farmers.DELETE("/delete/:id", h.variantHandler(model.VariantFarmer).delete)
	}

	sellers := router.Group("/api/seller")
	{
		sellers.POST("/register", h.variantHandler(model.VariantSeller).register)
		sellers.GET("/all", h.variantHandler(model.VariantSeller).list)
		sellers.GET("/:id", h.variantHandler(model.VariantSeller).getByID)
		sellers.PUT("/update/:id", h.variantHandler(model.VariantSeller).update)
		sellers.DELETE("/delete/:id", h.variantHandler(model.VariantSeller).delete)
	}
}

// variantHandlers binds one party variant to the shared handler methods
type variantHandlers struct {
	h       *PartyHandler
	variant string
}

func (h *PartyHandler) variantHandler(variant string) variantHandlers {
	return variantHandlers{h: h, variant: variant}
}

// register creates a new party of the variant
// @Summary      Register a farmer or seller
// @Tags         parties
// @Accept       json
// @Produce      json
// @Param        payload  body  service.RegisterPartyRequest  true  "Party payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/farmer/register [post]
func (v variantHandlers) register(c *gin.Context) {
	var req service.RegisterPartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	party, err := v.h.partyService.Register(requestContext(c), v.variant, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, party))
}

// list returns every party of the variant. An empty registry is a normal
// outcome: 200 with an empty array, never 404.
// @Summary      List all farmers or sellers
// @Tags         parties
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/farmer/all [get]
func (v variantHandlers) list(c *gin.Context) {
	parties, err := v.h.partyService.List(c.Request.Context(), v.variant)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, parties))
}

// getByID returns a party with its bill history fully resolved
// @Summary      Get a party with resolved bills
// @Tags         parties
// @Produce      json
// @Param        id  path  string  true  "Party ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/farmer/{id} [get]
func (v variantHandlers) getByID(c *gin.Context) {
	detail, err := v.h.partyService.GetByID(c.Request.Context(), v.variant, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, detail))
}

// update applies a partial name/phone update
// @Summary      Update a party
// @Tags         parties
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Party ID"
// @Param        payload  body  service.UpdatePartyRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/farmer/update/{id} [put]
func (v variantHandlers) update(c *gin.Context) {
	var req service.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	party, err := v.h.partyService.Update(requestContext(c), v.variant, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"message": "Party details updated successfully",
		"party":   party,
	}))
}

// delete removes a party and every bill it owns
// @Summary      Delete a party and cascade its bills
// @Tags         parties
// @Produce      json
// @Param        id  path  string  true  "Party ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/farmer/delete/{id} [delete]
func (v variantHandlers) delete(c *gin.Context) {
	result, err := v.h.partyService.Delete(requestContext(c), v.variant, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"message":            "Party and all associated bills deleted successfully",
		"deleted_name":       result.DeletedName,
		"deleted_bill_count": result.DeletedBillCount,
	}))
}
