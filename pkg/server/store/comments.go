package store

import "github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"

// CommentView is a comment with its author's email
type CommentView struct {
	model.Comment
	Author *model.UserRef `json:"author" cbor:"author" gorm:"-"`
}

// CommentsStore abstracts comment storage operations
type CommentsStore interface {
	// ListComments returns the ticket's comments, oldest first
	ListComments(ticketID string) ([]CommentView, error)

	// CreateComment adds a comment to a ticket.
	// Returns ErrTicketNotFound if the ticket does not exist.
	CreateComment(ticketID, authorID, content string) (*CommentView, error)
}
