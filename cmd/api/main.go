package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/wyshkit/wyshkit-golang/internal/ai"
	"github.com/wyshkit/wyshkit-golang/internal/database"
	"github.com/wyshkit/wyshkit-golang/internal/handlers"
	"github.com/wyshkit/wyshkit-golang/internal/routes"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// 1. --- Database Connection ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// 2. --- AI Service (Optional) ---
	// Gift message suggestions degrade gracefully when no key is configured.
	var aiService *ai.Service
	if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" {
		aiService, err = ai.NewService(geminiKey)
		if err != nil {
			log.Fatalf("Failed to initialize AI service: %v", err)
		}
		defer aiService.Client.Close()
	} else {
		log.Println("WARNING: GEMINI_API_KEY not set, gift message suggestions disabled.")
	}

	app := &handlers.Handlers{
		DB: db,
		AI: aiService,
	}

	// 3. --- Background Worker ---
	// Chases partners whose design preview deadlines have passed.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		log.Println("Background worker started: monitoring overdue design previews...")

		for range ticker.C {
			app.ProcessOverduePreviews()
		}
	}()

	// 4. --- Router & Server ---
	router := routes.SetupRouter(app)

	log.Println("Starting Wyshkit API server on port 8080...")
	if err := router.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
