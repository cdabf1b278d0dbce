package handler

import (
	"github.com/gin-gonic/gin"

	"billaudit/internal/charges"
)

// LookupHandler exposes read-only charge index lookups.
type LookupHandler struct {
	index *charges.Index
}

// NewLookupHandler creates a new LookupHandler.
func NewLookupHandler(index *charges.Index) *LookupHandler {
	return &LookupHandler{index: index}
}

// GetCode handles GET /api/v1/codes/:code?setting=&billing_class=
// A code missing from the disclosure is a normal Found=false 200 response.
func (h *LookupHandler) GetCode(c *gin.Context) {
	result := h.index.Lookup(
		c.Param("code"),
		c.Query("setting"),
		c.Query("billing_class"),
	)
	RespondOK(c, result)
}
