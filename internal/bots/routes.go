package bots

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the bot webhook endpoints on the given router.
func RegisterRoutes(r chi.Router, lineHandler *LineHandler) {
	r.Post("/api/bots/line/webhook", lineHandler.HandleWebhook)
}
