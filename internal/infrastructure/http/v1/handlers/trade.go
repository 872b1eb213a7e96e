package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pharmacore/internal/domain/documents/trade"
	"pharmacore/internal/infrastructure/http/v1/dto"
)

// TradeHandler handles one trade document variant. The same handler
// serves all four route groups; only the kind differs.
type TradeHandler struct {
	*BaseHandler
	service *trade.Service
	kind    trade.Kind
}

// NewTradeHandler creates a handler bound to one document kind.
func NewTradeHandler(base *BaseHandler, service *trade.Service, kind trade.Kind) *TradeHandler {
	return &TradeHandler{
		BaseHandler: base,
		service:     service,
		kind:        kind,
	}
}

// List handles GET /{docs} - list documents of this kind.
func (h *TradeHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.TradeListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	result, err := h.service.List(ctx, query.ToTradeFilter(h.kind))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(result, dto.FromTrades(result.Items)))
}

// Get handles GET /{docs}/:id - get document with lines.
func (h *TradeHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromTrade(doc))
}

// Create handles POST /{docs} - create document and adjust stock.
func (h *TradeHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateTradeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToEntity(h.kind)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, doc, req.Source()); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromTrade(doc))
}

// Update handles PUT /{docs}/:id - replace the document contents.
// Stock effects of the old lines are reverted and the new ones applied.
func (h *TradeHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateTradeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(doc); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, doc, req.Source()); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromTrade(doc))
}

// Delete handles DELETE /{docs}/:id - delete document and revert stock.
func (h *TradeHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
