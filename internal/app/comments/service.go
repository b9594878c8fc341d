package comments

import (
	"context"
	"strings"

	"riffmates/internal/models"
)

// Notifier delivers the comment to site administrators.
type Notifier interface {
	NotifyComment(ctx context.Context, name, comment string) error
}

// Comment is a visitor-submitted message.
type Comment struct {
	Name    string `json:"name" validate:"required,max=100"`
	Comment string `json:"comment" validate:"required"`
}

// Service accepts visitor comments.
type Service interface {
	Submit(ctx context.Context, c Comment) error
}

type service struct {
	notifier Notifier
}

// New constructs a comment Service.
func New(notifier Notifier) Service {
	return &service{notifier: notifier}
}

func (s *service) Submit(ctx context.Context, c Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Comment = strings.TrimSpace(c.Comment)
	if err := models.ValidateStruct(&c); err != nil {
		return err
	}
	return s.notifier.NotifyComment(ctx, c.Name, c.Comment)
}
