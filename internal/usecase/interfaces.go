package usecase

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"ecofinds/pkg/errors"
)

type TokenIssuer interface {
	IssueToken(userID uint, email, username string) (string, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// RealtimePublisher pushes server events to connected sockets. Publishing is
// fire and forget: offline recipients simply miss the event.
type RealtimePublisher interface {
	PublishToConversation(conversationID uint, eventType string, payload interface{})
	PublishToUser(userID uint, eventType string, payload interface{})
}

type RateLimiter interface {
	Allow(subject, action string) (bool, time.Duration)
}

type ImageStore interface {
	UploadImage(ctx context.Context, file io.Reader, contentType string) (string, error)
	DeleteImage(ctx context.Context, fileURL string) error
}

// Server event names shared by the REST and socket paths.
const (
	EventNewMessage      = "new_message"
	EventMessagesRead    = "messages_read"
	EventNewNotification = "new_notification"
)

type noopPublisher struct{}

func (noopPublisher) PublishToConversation(uint, string, interface{}) {}
func (noopPublisher) PublishToUser(uint, string, interface{}) {}

// passThrough keeps application errors as they are and wraps anything else
// as an internal error.
func passThrough(message string, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return errors.Internal(message, err)
}
