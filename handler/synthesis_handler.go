package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/salesops/contract-extractor/dto"
	"github.com/salesops/contract-extractor/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SynthesisHandler struct {
	synthesizer *service.Synthesizer
}

func NewSynthesisHandler(synthesizer *service.Synthesizer) *SynthesisHandler {
	return &SynthesisHandler{
		synthesizer: synthesizer,
	}
}

// SynthesizeContract handles the POST /contracts/synthesize endpoint. The
// response body is the populated workbook; transport concerns (headers,
// filename, truncation signal) live here and nowhere deeper.
func (h *SynthesisHandler) SynthesizeContract(c *gin.Context) {
	var request dto.SynthesizeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(request.Items) == 0 {
		h.sendError(c, http.StatusBadRequest, dto.ErrNoItems.Error(), dto.ErrNoItems)
		return
	}

	result, err := h.synthesizer.Synthesize(request.Items, request.Location)
	if err != nil {
		if errors.Is(err, dto.ErrTemplateNotFound) {
			h.sendError(c, http.StatusInternalServerError, "Template artifact unavailable", err)
			return
		}
		h.sendError(c, http.StatusInternalServerError, "Failed to synthesize workbook", err)
		return
	}

	log.Printf("Synthesized workbook %s: %d rows written, truncated=%v",
		result.Filename, result.RowsWritten, result.Truncated)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", result.Filename))
	if result.Truncated {
		c.Header("X-Truncated-Rows", strconv.Itoa(result.TruncatedRows))
	}
	c.Data(http.StatusOK, xlsxContentType, result.Data)
}

// sendError sends a structured error response
func (h *SynthesisHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "SYNTHESIS_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
