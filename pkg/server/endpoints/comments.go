package endpoints

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/audit"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store"
)

type createCommentRequest struct {
	Content string `json:"content"`
}

// RegisterCommentsEndpoints registers the ticket comment endpoints
func RegisterCommentsEndpoints(s *server.Server) {
	ticketsStore := s.TicketsStore
	commentsStore := s.CommentsStore

	commentsRouter := s.Router.PathPrefix("/api/tickets/{id}/comments").Subrouter()
	commentsRouter.Use(s.JWTMiddleware.Middleware)

	// GET /api/tickets/{id}/comments - List comments, oldest first
	commentsRouter.HandleFunc("", handleListComments(ticketsStore, commentsStore)).Methods("GET")

	// POST /api/tickets/{id}/comments - Add a comment
	commentsRouter.HandleFunc("", handleCreateComment(ticketsStore, commentsStore)).Methods("POST")
}

func handleListComments(ticketsStore store.TicketsStore, commentsStore store.CommentsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ticket := visibleTicket(w, r, ticketsStore)
		if ticket == nil {
			return
		}

		comments, err := commentsStore.ListComments(ticket.ID)
		if err != nil {
			slog.Error("list comments", "ticket", ticket.ID, "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch comments")
			return
		}
		if comments == nil {
			comments = []store.CommentView{}
		}
		respondWithJSON(w, http.StatusOK, comments)
	}
}

func handleCreateComment(ticketsStore store.TicketsStore, commentsStore store.CommentsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ticket := visibleTicket(w, r, ticketsStore)
		if ticket == nil {
			return
		}

		var req createCommentRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.Content) == "" {
			respondWithError(w, http.StatusBadRequest, "Content is required")
			return
		}

		event := audit.TicketEvent{
			UserID:    id.UserID,
			ClientIP:  clientIP(r),
			TicketID:  ticket.ID,
			Operation: "comment",
		}

		comment, err := commentsStore.CreateComment(ticket.ID, id.UserID, req.Content)
		if err != nil {
			if errors.Is(err, store.ErrTicketNotFound) {
				respondWithError(w, http.StatusNotFound, ticketNotFound)
				return
			}
			slog.Error("create comment", "ticket", ticket.ID, "error", err)
			event.ErrorMessage = err.Error()
			audit.Log(event)
			respondWithError(w, http.StatusInternalServerError, "Failed to add comment")
			return
		}

		event.Success = true
		audit.Log(event)

		respondWithJSON(w, http.StatusCreated, comment)
	}
}
