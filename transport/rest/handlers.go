package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/goban-backend/internal/apperror"
	"github.com/rocketscienceinc/goban-backend/internal/entity"
)

type newGameRequest struct {
	Size int `json:"size"`
}

type gameResponse struct {
	ID    string `json:"id"`
	Size  int    `json:"size"`
	Board string `json:"board"`
}

type placeStoneRequest struct {
	Board      string       `json:"board"`
	Coordinate [2]int       `json:"coordinate"`
	Stone      entity.Stone `json:"stone"`
}

type boardResponse struct {
	Board string `json:"board"`
}

type joinRequest struct {
	Size int `json:"size"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleCreateGame")

	var req newGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	gameID, board, err := that.manager.CreateGame(r.Context(), req.Size)
	if err != nil {
		log.Error("failed to create game", "size", req.Size, "error", err)
		that.writeAppError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{ID: gameID, Size: req.Size, Board: board})
}

func (that *Server) handlePlaceStone(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handlePlaceStone")

	var req placeStoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Board == "" {
		that.writeError(w, http.StatusBadRequest, "board is required")
		return
	}

	if req.Stone != entity.StoneBlack && req.Stone != entity.StoneWhite {
		that.writeError(w, http.StatusBadRequest, "stone is required")
		return
	}

	board, err := that.manager.PlaceStone(r.Context(), req.Board, req.Coordinate[0], req.Coordinate[1], req.Stone)
	if err != nil {
		log.Debug("move rejected", "error", err)
		that.writeAppError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, boardResponse{Board: board})
}

func (that *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleJoin")

	// the session a join applies to comes from the page context, carried
	// here as the id query parameter
	gameID := r.URL.Query().Get("id")
	if gameID == "" {
		that.writeError(w, http.StatusBadRequest, "game id is required")
		return
	}

	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	board, err := that.manager.JoinGame(r.Context(), gameID, req.Size)
	if err != nil {
		log.Debug("join rejected", "gameID", gameID, "error", err)
		that.writeAppError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{ID: gameID, Size: req.Size, Board: board})
}

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write ping response", "error", err)
	}
}

// writeAppError - maps the error taxonomy onto response codes.
func (that *Server) writeAppError(w http.ResponseWriter, err error) {
	var status int

	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrSessionFull):
		status = http.StatusConflict
	case errors.Is(err, apperror.ErrMalformedBoard):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrInvalidBoardSize),
		errors.Is(err, apperror.ErrOutOfBounds),
		errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrNotYourTurn):
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
	}

	that.writeError(w, status, err.Error())
}

func (that *Server) writeError(w http.ResponseWriter, status int, message string) {
	that.writeJSON(w, status, errorResponse{Error: message})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
