package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/rohitk2319/ocr-patient-intake/client"
	"github.com/rohitk2319/ocr-patient-intake/config"
	"github.com/rohitk2319/ocr-patient-intake/dto"
	"github.com/rohitk2319/ocr-patient-intake/handler"
	"github.com/rohitk2319/ocr-patient-intake/service"
	"github.com/rohitk2319/ocr-patient-intake/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Tesseract v5 resolves its models through this variable.
	os.Setenv("TESSDATA_PREFIX", cfg.TesseractDataPath)
	log.Println("TESSDATA_PREFIX set to:", os.Getenv("TESSDATA_PREFIX"))

	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath, cfg.OCRLanguage)
	defer tesseractClient.Close()

	pdfProcessor := service.NewPDFProcessor()
	extractionService := service.NewExtractionService(tesseractClient, pdfProcessor, cfg)

	orderStore, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open order store: %v", err)
	}
	defer orderStore.Close()

	uploadHandler := handler.NewUploadHandler(extractionService, cfg.MaxFileSize)
	orderHandler := handler.NewOrderHandler(orderStore)

	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxFileSize

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, dto.HealthResponse{OK: true, Message: "API is working"})
		})

		api.POST("/upload", uploadHandler.UploadPDF)

		orders := api.Group("/orders")
		{
			orders.GET("", orderHandler.ListOrders)
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PUT("/:id", orderHandler.UpdateOrder)
			orders.DELETE("/:id", orderHandler.DeleteOrder)
		}
	}

	log.Printf("Starting Patient Intake Extraction Service on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
