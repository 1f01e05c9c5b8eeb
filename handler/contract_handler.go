package handler

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salesops/contract-extractor/dto"
	"github.com/salesops/contract-extractor/service"
)

type ContractHandler struct {
	extractionService *service.ExtractionService
	maxFileSize       int64
}

func NewContractHandler(extractionService *service.ExtractionService, maxFileSize int64) *ContractHandler {
	return &ContractHandler{
		extractionService: extractionService,
		maxFileSize:       maxFileSize,
	}
}

// ExtractContract handles the POST /contracts/extract endpoint
func (h *ContractHandler) ExtractContract(c *gin.Context) {
	log.Println("Received contract extraction request")

	fileHeader, err := c.FormFile("email")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Email file is required", err)
		return
	}
	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		h.sendError(c, http.StatusRequestEntityTooLarge, "Email file exceeds the maximum allowed size", nil)
		return
	}

	request := &dto.ContractExtractRequest{
		Email:        fileHeader,
		AddendumURLs: c.PostForm("addendum_urls"),
	}
	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	manualURLs, err := request.ParseAddendumURLs()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to open email file", err)
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to read email file", err)
		return
	}

	response, err := h.extractionService.ExtractContract(c.Request.Context(), raw, manualURLs)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to extract contract", err)
		return
	}

	log.Println("Contract extraction completed successfully")
	c.JSON(http.StatusOK, response)
}

// ValidateTotals handles the POST /contracts/validate endpoint
func (h *ContractHandler) ValidateTotals(c *gin.Context) {
	var request dto.ValidateTotalsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result := service.ValidateTotals(request.Items, request.GrandTotal)
	c.JSON(http.StatusOK, result)
}

// sendError sends a structured error response
func (h *ContractHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "EXTRACTION_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
