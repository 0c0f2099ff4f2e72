package handler

import (
	"net/http"

	"canebill/internal/model"
	"canebill/internal/service"
	"canebill/pkg/pagination"
	"canebill/pkg/response"

	"github.com/gin-gonic/gin"
)

type BillHandler struct {
	billService   service.BillService
	exportService service.ExportService
}

func NewBillHandler(billService service.BillService, exportService service.ExportService) *BillHandler {
	return &BillHandler{billService: billService, exportService: exportService}
}

// RegisterRoutes mounts the farmer bill tree under /api/bill and the seller
// bill tree under /api/sellerbill. Only farmer bill creation requires a
// bearer token; the seller tree (and its legacy create-bill path) is open.
func (h *BillHandler) RegisterRoutes(router *gin.RouterGroup, requireAdmin gin.HandlerFunc) {
	farmer := router.Group("/api/bill")
	{
		farmer.POST("/create", requireAdmin, h.directionHandler(model.DirectionFarmer).create)
		farmer.GET("/all", h.directionHandler(model.DirectionFarmer).list)
		farmer.GET("/:id", h.directionHandler(model.DirectionFarmer).getByID)
		farmer.GET("/:id/pdf", h.directionHandler(model.DirectionFarmer).downloadPDF)
		farmer.POST("/:id/share", h.directionHandler(model.DirectionFarmer).share)
		farmer.DELETE("/delete/:id", h.directionHandler(model.DirectionFarmer).delete)
	}

	seller := router.Group("/api/sellerbill")
	{
		seller.POST("/create-bill", h.directionHandler(model.DirectionSeller).create)
		seller.GET("/all", h.directionHandler(model.DirectionSeller).list)
		seller.GET("/:id", h.directionHandler(model.DirectionSeller).getByID)
		seller.GET("/:id/pdf", h.directionHandler(model.DirectionSeller).downloadPDF)
		seller.POST("/:id/share", h.directionHandler(model.DirectionSeller).share)
		seller.DELETE("/delete/:id", h.directionHandler(model.DirectionSeller).delete)
	}
}

type directionHandlers struct {
	h         *BillHandler
	direction string
}

func (h *BillHandler) directionHandler(direction string) directionHandlers {
	return directionHandlers{h: h, direction: direction}
}

// create records a new bill against a registered party
// @Summary      Create a bill
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateBillRequest  true  "Bill payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/bill/create [post]
func (d directionHandlers) create(c *gin.Context) {
	var req service.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	bill, err := d.h.billService.CreateBill(requestContext(c), d.direction, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{
		"message": "Bill created successfully",
		"bill":    bill,
	}))
}

// list returns bills of the direction, newest first
// @Summary      List bills
// @Tags         bills
// @Produce      json
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Page size"
// @Success      200  {object}  response.Response
// @Router       /api/bill/all [get]
func (d directionHandlers) list(c *gin.Context) {
	params := pagination.Parse(c)

	bills, total, err := d.h.billService.ListBills(c.Request.Context(), d.direction, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, bills, params.Page, params.Limit, total))
}

// getByID returns a single bill
// @Summary      Get a bill
// @Tags         bills
// @Produce      json
// @Param        id  path  string  true  "Bill ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/bill/{id} [get]
func (d directionHandlers) getByID(c *gin.Context) {
	bill, err := d.h.billService.GetBill(c.Request.Context(), d.direction, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, bill))
}

// downloadPDF streams the rendered bill receipt
// @Summary      Download a bill as PDF
// @Tags         bills
// @Produce      application/pdf
// @Param        id  path  string  true  "Bill ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  response.Response
// @Router       /api/bill/{id}/pdf [get]
func (d directionHandlers) downloadPDF(c *gin.Context) {
	data, filename, err := d.h.exportService.RenderBillPDF(c.Request.Context(), d.direction, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// share renders the bill to PDF, uploads it and returns the public URL
// @Summary      Share a bill as an uploaded PDF
// @Tags         bills
// @Produce      json
// @Param        id  path  string  true  "Bill ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/bill/{id}/share [post]
func (d directionHandlers) share(c *gin.Context) {
	url, err := d.h.exportService.ShareBill(requestContext(c), d.direction, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"message": "Bill shared successfully",
		"url":     url,
	}))
}

// delete removes a bill permanently
// @Summary      Delete a bill
// @Tags         bills
// @Produce      json
// @Param        id  path  string  true  "Bill ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/bill/delete/{id} [delete]
func (d directionHandlers) delete(c *gin.Context) {
	if err := d.h.billService.DeleteBill(requestContext(c), d.direction, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"message": "Bill deleted successfully",
	}))
}
