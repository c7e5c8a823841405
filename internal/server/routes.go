package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/hexquiz/hexquiz/internal/game"
	"github.com/hexquiz/hexquiz/internal/store"
)

func addRoutes(r chi.Router, logger *slog.Logger, db *sql.DB, st *store.Store, rooms *game.Registry, publicURL string) {
	gw := newGateway(logger, rooms)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("HexQuiz API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))
	r.Get("/ws", gw.handleWS())

	r.Route("/api/rooms", func(r chi.Router) {
		r.Post("/", handleCreateRoom(logger, st, rooms))
		r.Get("/{code}", handleRoomStatus(rooms))
		r.Get("/{code}/qr", handleRoomQR(rooms, publicURL))
	})
}
