package endpoints

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/yuin/goldmark"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/audit"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/identity"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store"
)

const ticketNotFound = "Ticket not found"

// TicketUpdateResponse is returned by PATCH /api/tickets/{id}
type TicketUpdateResponse struct {
	Ticket  *store.TicketView     `json:"ticket"`
	History []model.TicketHistory `json:"history"`
}

type createTicketRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CategoryID  int64   `json:"category_id"`
	PriorityID  int64   `json:"priority_id"`
	AssignedTo  *string `json:"assigned_to"`
}

// updateTicketRequest keeps assigned_to raw so that an explicit null
// (unassign) can be told apart from an absent key.
type updateTicketRequest struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	CategoryID  *int64              `json:"category_id"`
	PriorityID  *int64              `json:"priority_id"`
	Status      *model.TicketStatus `json:"status"`
	AssignedTo  json.RawMessage     `json:"assigned_to"`
}

func (req updateTicketRequest) patch() (store.TicketPatch, error) {
	patch := store.TicketPatch{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		PriorityID:  req.PriorityID,
		Status:      req.Status,
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return patch, errors.New("Title cannot be empty")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return patch, errors.New("Invalid status")
	}
	if len(req.AssignedTo) > 0 {
		assignee := ""
		if string(req.AssignedTo) != "null" {
			if err := json.Unmarshal(req.AssignedTo, &assignee); err != nil {
				return patch, errInvalidBody
			}
		}
		patch.AssignedTo = &assignee
	}
	return patch, nil
}

// RegisterTicketsEndpoints registers the ticket endpoints
func RegisterTicketsEndpoints(s *server.Server) {
	ticketsStore := s.TicketsStore

	staffOnly := middleware.RequireRole(model.RoleAgent, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	ticketsRouter := s.Router.PathPrefix("/api/tickets").Subrouter()
	ticketsRouter.Use(s.JWTMiddleware.Middleware)

	// GET /api/tickets - List tickets; requesters only see their own
	ticketsRouter.HandleFunc("", handleListTickets(ticketsStore)).Methods("GET")

	// POST /api/tickets - Open a ticket
	ticketsRouter.HandleFunc("", handleCreateTicket(ticketsStore)).Methods("POST")

	// GET /api/tickets/{id} - Fetch a ticket
	ticketsRouter.HandleFunc("/{id}", handleFetchTicket(ticketsStore)).Methods("GET")

	// PATCH /api/tickets/{id} - Update a ticket (agent or admin)
	ticketsRouter.Handle("/{id}", staffOnly(handleUpdateTicket(ticketsStore))).Methods("PATCH")

	// DELETE /api/tickets/{id} - Delete a ticket (admin)
	ticketsRouter.Handle("/{id}", adminOnly(handleDeleteTicket(ticketsStore))).Methods("DELETE")

	// GET /api/tickets/{id}/history - Field changes, newest first
	ticketsRouter.HandleFunc("/{id}/history", handleTicketHistory(ticketsStore)).Methods("GET")

	// GET /api/tickets/{id}/description - Description rendered as HTML
	ticketsRouter.HandleFunc("/{id}/description", handleTicketDescription(ticketsStore)).Methods("GET")
}

// canView reports whether the caller may read the ticket
func canView(id *identity.Identity, ticket *store.TicketView) bool {
	return id.IsStaff() || ticket.CreatedBy == id.UserID
}

// visibleTicket loads the ticket named in the route and checks the caller
// may see it. It writes the error response itself and returns nil when
// the request should stop. Tickets the caller may not see are reported
// as not found.
func visibleTicket(w http.ResponseWriter, r *http.Request, ticketsStore store.TicketsStore) (*identity.Identity, *store.TicketView) {
	id, ok := identity.Get(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, nil
	}

	ticket, err := ticketsStore.FetchTicket(mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, store.ErrTicketNotFound) {
			respondWithError(w, http.StatusNotFound, ticketNotFound)
			return nil, nil
		}
		slog.Error("fetch ticket", "ticket", mux.Vars(r)["id"], "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch ticket")
		return nil, nil
	}

	if !canView(id, ticket) {
		respondWithError(w, http.StatusNotFound, ticketNotFound)
		return nil, nil
	}
	return id, ticket
}

func parseTicketFilter(r *http.Request) (store.TicketFilter, error) {
	q := r.URL.Query()
	filter := store.TicketFilter{
		Status:     model.TicketStatus(q.Get("status")),
		AssignedTo: q.Get("assigned_to"),
		OrderBy:    q.Get("order"),
	}

	if filter.Status != "" && !filter.Status.Valid() {
		return filter, errors.New("Invalid status")
	}
	if filter.OrderBy != "" && !store.ValidTicketOrder(filter.OrderBy) {
		return filter, errors.New("Invalid order column")
	}

	for _, p := range []struct {
		name string
		dst  **int64
	}{
		{"category_id", &filter.CategoryID},
		{"priority_id", &filter.PriorityID},
	} {
		if raw := q.Get(p.name); raw != "" {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return filter, errors.New("Invalid " + p.name)
			}
			*p.dst = &n
		}
	}

	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"from", &filter.From},
		{"to", &filter.To},
	} {
		if raw := q.Get(p.name); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return filter, errors.New("Invalid " + p.name)
			}
			*p.dst = &n
		}
	}

	if raw := q.Get("ascending"); raw != "" {
		asc, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errors.New("Invalid ascending")
		}
		filter.Ascending = asc
	}

	return filter, nil
}

func handleListTickets(ticketsStore store.TicketsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		filter, err := parseTicketFilter(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if !id.IsStaff() {
			filter.CreatedBy = id.UserID
		}

		tickets, err := ticketsStore.ListTickets(filter)
		if err != nil {
			slog.Error("list tickets", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch tickets")
			return
		}
		if tickets == nil {
			tickets = []store.TicketView{}
		}
		respondWithJSON(w, http.StatusOK, tickets)
	}
}

func handleCreateTicket(ticketsStore store.TicketsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req createTicketRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Title = strings.TrimSpace(req.Title)
		if req.Title == "" || req.CategoryID == 0 || req.PriorityID == 0 {
			respondWithError(w, http.StatusBadRequest, "Title, category_id and priority_id are required")
			return
		}
		if req.AssignedTo != nil && *req.AssignedTo == "" {
			req.AssignedTo = nil
		}
		if req.AssignedTo != nil && !id.IsStaff() {
			respondWithError(w, http.StatusForbidden, "Forbidden")
			return
		}

		event := audit.TicketEvent{
			UserID:    id.UserID,
			ClientIP:  clientIP(r),
			Operation: "create",
		}

		ticket, err := ticketsStore.CreateTicket(store.NewTicket{
			Title:       req.Title,
			Description: req.Description,
			CategoryID:  req.CategoryID,
			PriorityID:  req.PriorityID,
			CreatedBy:   id.UserID,
			AssignedTo:  req.AssignedTo,
		})
		if err != nil {
			slog.Error("create ticket", "user", id.UserID, "error", err)
			event.ErrorMessage = err.Error()
			audit.Log(event)
			respondWithError(w, http.StatusInternalServerError, "Failed to create ticket")
			return
		}

		event.TicketID = ticket.ID
		event.Success = true
		audit.Log(event)

		respondWithJSON(w, http.StatusCreated, ticket)
	}
}

func handleFetchTicket(ticketsStore store.TicketsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ticket := visibleTicket(w, r, ticketsStore)
		if ticket == nil {
			return
		}
		respondWithJSON(w, http.StatusOK, ticket)
	}
}

func handleUpdateTicket(ticketsStore store.TicketsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		ticketID := mux.Vars(r)["id"]

		var req updateTicketRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		patch, err := req.patch()
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if patch.Empty() {
			respondWithError(w, http.StatusBadRequest, "No fields to update")
			return
		}

		event := audit.TicketEvent{
			UserID:    id.UserID,
			ClientIP:  clientIP(r),
			TicketID:  ticketID,
			Operation: "update",
		}

		ticket, history, err := ticketsStore.UpdateTicket(ticketID, id.UserID, patch)
		if err != nil {
			if errors.Is(err, store.ErrTicketNotFound) {
				respondWithError(w, http.StatusNotFound, ticketNotFound)
				return
			}
			slog.Error("update ticket", "ticket", ticketID, "error", err)
			event.ErrorMessage = err.Error()
			audit.Log(event)
			respondWithError(w, http.StatusInternalServerError, "Failed to update ticket")
			return
		}

		for _, h := range history {
			event.Fields = append(event.Fields, h.FieldChanged)
		}
		event.Success = true
		audit.Log(event)

		if history == nil {
			history = []model.TicketHistory{}
		}
		respondWithJSON(w, http.StatusOK, TicketUpdateResponse{Ticket: ticket, History: history})
	}
}

func handleDeleteTicket(ticketsStore store.TicketsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		ticketID := mux.Vars(r)["id"]

		event := audit.TicketEvent{
			UserID:    id.UserID,
			ClientIP:  clientIP(r),
			TicketID:  ticketID,
			Operation: "delete",
		}

		if err := ticketsStore.DeleteTicket(ticketID); err != nil {
			if errors.Is(err, store.ErrTicketNotFound) {
				respondWithError(w, http.StatusNotFound, ticketNotFound)
				return
			}
			slog.Error("delete ticket", "ticket", ticketID, "error", err)
			event.ErrorMessage = err.Error()
			audit.Log(event)
			respondWithError(w, http.StatusInternalServerError, "Failed to delete ticket")
			return
		}

		event.Success = true
		audit.Log(event)

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleTicketHistory(ticketsStore store.TicketsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ticket := visibleTicket(w, r, ticketsStore)
		if ticket == nil {
			return
		}

		history, err := ticketsStore.ListHistory(ticket.ID)
		if err != nil {
			slog.Error("list ticket history", "ticket", ticket.ID, "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch ticket history")
			return
		}
		if history == nil {
			history = []model.TicketHistory{}
		}
		respondWithJSON(w, http.StatusOK, history)
	}
}

func handleTicketDescription(ticketsStore store.TicketsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ticket := visibleTicket(w, r, ticketsStore)
		if ticket == nil {
			return
		}

		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(ticket.Description), &buf); err != nil {
			slog.Error("render ticket description", "ticket", ticket.ID, "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to render description")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	}
}
