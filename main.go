package main

import (
	"log"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	"pygamecrafter-server/handlers"
	"pygamecrafter-server/middleware"
	"pygamecrafter-server/services"

	_ "pygamecrafter-server/docs"
)

// @title PyGameCrafter API
// @version 1.0
// @description LLM-assisted pygame editing and sandboxed execution API
// @host localhost:8080
// @BasePath /
func main() {
	// Config
	serverPort := getEnv("SERVER_PORT", "8080")
	pythonBin := getEnv("PYTHON_BIN", "python")
	scratchPath := getEnv("SCRATCH_PATH", "")
	groqBaseURL := getEnv("GROQ_API_URL", services.DefaultGroqBaseURL)
	maxRuns, _ := strconv.ParseInt(getEnv("MAX_CONCURRENT_RUNS", "4"), 10, 64)

	// Initialize services
	creds := services.NewEnvCredentialProvider()
	validator := services.NewSyntaxValidator()

	store, err := services.NewScratchStore(scratchPath)
	if err != nil {
		log.Fatalf("Failed to initialize scratch store: %v", err)
	}
	log.Printf("Scratch store initialized: %s", store.BasePath())

	sandbox := services.NewSandboxService(store, pythonBin)
	generation := services.NewGenerationService(creds, validator, groqBaseURL)

	// Initialize handlers
	improveHandler := handlers.NewImproveHandler(generation)
	runHandler := handlers.NewRunHandler(sandbox, validator, maxRuns)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName: "PyGameCrafter",
	})

	// Middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(middleware.XRayMiddleware())

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health endpoints
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "UP"})
	})

	// API routes
	app.Post("/improve-code", improveHandler.ImproveCode)
	app.Post("/run-code", runHandler.RunCode)

	log.Printf("PyGameCrafter server starting on port %s", serverPort)
	log.Printf("Python binary: %s, max concurrent runs: %d", pythonBin, maxRuns)
	log.Fatal(app.Listen(":" + serverPort))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
