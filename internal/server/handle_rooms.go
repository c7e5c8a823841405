package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/hexquiz/hexquiz/internal/game"
	"github.com/hexquiz/hexquiz/internal/store"
)

type CreateRoomRequest struct {
	Settings game.Settings `json:"settings"`
}

type CreateRoomResponse struct {
	RoomCode string `json:"roomCode"`
}

type RoomStatusResponse struct {
	Exists bool        `json:"exists"`
	Status game.Status `json:"status"`
}

func handleCreateRoom(logger *slog.Logger, st *store.Store, rooms *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRoomRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		settings := req.Settings.Normalize()

		code, err := st.AllocateCode(r.Context(), settings)
		if err != nil {
			logger.Error("allocating room code", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		room := game.NewRoom(code, settings, logger, game.Stores{
			Questions: st,
			Sessions:  st,
			History:   st,
		})
		rooms.Add(room)

		logger.Info("room created", "room", code, "board_size", settings.BoardSize)
		writeJSON(w, http.StatusCreated, CreateRoomResponse{RoomCode: code})
	}
}

func handleRoomStatus(rooms *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, ok := rooms.Get(chi.URLParam(r, "code"))
		if !ok {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		writeJSON(w, http.StatusOK, RoomStatusResponse{Exists: true, Status: room.Status()})
	}
}

// handleRoomQR renders a QR code for the public join URL so the host can
// put the room on a shared screen.
func handleRoomQR(rooms *game.Registry, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if _, ok := rooms.Get(code); !ok {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}

		png, err := qrcode.Encode(publicURL+"/game/"+code, qrcode.Medium, 256)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}
