package mockdb

import (
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/mockdb"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store"
)

const commentSelect = "*, author:users!author_id(email)"

// Ensure CommentsStore implements store.CommentsStore
var _ store.CommentsStore = (*CommentsStore)(nil)

// CommentsStore implements store.CommentsStore using the in-memory engine
type CommentsStore struct {
	client *mockdb.Client
}

// NewCommentsStore creates a new CommentsStore
func NewCommentsStore(client *mockdb.Client) *CommentsStore {
	return &CommentsStore{client: client}
}

// ListComments returns the ticket's comments, oldest first.
func (s *CommentsStore) ListComments(ticketID string) ([]store.CommentView, error) {
	res := s.client.From("comments").
		Select(commentSelect).
		Eq("ticket_id", ticketID).
		Order("created_at", true).
		Execute()
	if err := res.Err(); err != nil {
		return nil, err
	}
	return model.FromRecords[store.CommentView](res.Data)
}

// CreateComment adds a comment to an existing ticket.
func (s *CommentsStore) CreateComment(ticketID, authorID, content string) (*store.CommentView, error) {
	ticket := s.client.From("tickets").Select("id").Eq("id", ticketID).Single()
	if err := ticket.Err(); err != nil {
		return nil, err
	}
	if ticket.Data == nil {
		return nil, store.ErrTicketNotFound
	}

	res := s.client.From("comments").Insert(mockdb.Record{
		"ticket_id": ticketID,
		"author_id": authorID,
		"content":   content,
	})
	if err := res.Err(); err != nil {
		return nil, err
	}

	created := s.client.From("comments").Select(commentSelect).Eq("id", res.Data[0]["id"]).Single()
	if err := created.Err(); err != nil {
		return nil, err
	}
	return model.FromRecord[store.CommentView](created.Data)
}
