package handlers

import (
	"database/sql"

	"github.com/wyshkit/wyshkit-golang/internal/ai"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB *sql.DB
	AI *ai.Service // Gemini-backed gift message suggestions (optional)
}
