package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/salesops/contract-extractor/client"
	"github.com/salesops/contract-extractor/config"
	"github.com/salesops/contract-extractor/handler"
	"github.com/salesops/contract-extractor/service"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()

	// Initialize addendum document fetcher
	fetcher := client.NewDocumentFetcher(cfg.AddendumFetchTimeout)

	// Initialize service layer
	resolver := service.NewAddendumResolver(fetcher, cfg.AddendumFetchTimeout)
	extractionService := service.NewExtractionService(resolver)
	synthesizer := service.NewSynthesizer(cfg.TemplatePath, cfg.TemplateSheet, cfg.MaxItemRows)

	// Initialize handler layer
	contractHandler := handler.NewContractHandler(extractionService, cfg.MaxFileSize)
	synthesisHandler := handler.NewSynthesisHandler(synthesizer)

	// Setup Gin router
	router := gin.Default()

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Contract Extraction",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		contracts := api.Group("/contracts")
		{
			contracts.POST("/extract", contractHandler.ExtractContract)
			contracts.POST("/validate", contractHandler.ValidateTotals)
			contracts.POST("/synthesize", synthesisHandler.SynthesizeContract)
		}
	}

	// Start server
	log.Printf("Starting Contract Extraction Service on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
