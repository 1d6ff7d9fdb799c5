package gorm

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/model"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/server/store"
)

// Ensure CommentsStore implements store.CommentsStore
var _ store.CommentsStore = (*CommentsStore)(nil)

// commentRow is a comment joined with its author
type commentRow struct {
	model.Comment
	AuthorEmail *string `gorm:"column:author_email"`
}

func (r commentRow) view() store.CommentView {
	v := store.CommentView{Comment: r.Comment}
	if r.AuthorEmail != nil {
		v.Author = &model.UserRef{Email: *r.AuthorEmail}
	}
	return v
}

// CommentsStore implements store.CommentsStore using GORM
type CommentsStore struct {
	db *gorm.DB
}

// NewCommentsStore creates a new CommentsStore
func NewCommentsStore(db *gorm.DB) *CommentsStore {
	return &CommentsStore{db: db}
}

func (s *CommentsStore) commentQuery() *gorm.DB {
	return s.db.Table("comments").
		Select("comments.*, users.email AS author_email").
		Joins("LEFT JOIN users ON users.id = comments.author_id")
}

// ListComments returns the ticket's comments, oldest first.
func (s *CommentsStore) ListComments(ticketID string) ([]store.CommentView, error) {
	var rows []commentRow
	err := s.commentQuery().
		Where("comments.ticket_id = ?", ticketID).
		Order("comments.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	views := make([]store.CommentView, len(rows))
	for i, row := range rows {
		views[i] = row.view()
	}
	return views, nil
}

// CreateComment adds a comment to an existing ticket.
func (s *CommentsStore) CreateComment(ticketID, authorID, content string) (*store.CommentView, error) {
	var count int64
	if err := s.db.Model(&model.Ticket{}).Where("id = ?", ticketID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, store.ErrTicketNotFound
	}

	comment := model.Comment{
		ID:       uuid.NewString(),
		TicketID: ticketID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.db.Omit("created_at").Create(&comment).Error; err != nil {
		return nil, err
	}

	var rows []commentRow
	if err := s.commentQuery().Where("comments.id = ?", comment.ID).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrTicketNotFound
	}
	v := rows[0].view()
	return &v, nil
}
