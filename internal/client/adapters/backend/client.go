// Package backend предоставляет типизированные операции AITS API поверх rest.Client.
package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"aitsclient/internal/client/adapters/rest"
	"aitsclient/internal/client/ports/api"
	"aitsclient/pkg/logger"
)

// Client реализует интерфейсы пакета ports/api.
type Client struct {
	rest *rest.Client
}

var (
	_ api.AuthAPI         = (*Client)(nil)
	_ api.UserAPI         = (*Client)(nil)
	_ api.IssueAPI        = (*Client)(nil)
	_ api.CommentAPI      = (*Client)(nil)
	_ api.NotificationAPI = (*Client)(nil)
	_ api.CatalogAPI      = (*Client)(nil)
)

// NewClient создает новый экземпляр клиента AITS API.
func NewClient(rc *rest.Client) *Client {
	return &Client{rest: rc}
}

// fail логирует ошибку операции method и оборачивает ее сообщением msg.
func fail(ctx context.Context, method, msg string, err error) error {
	logger.Log(ctx).With(zap.String("method", method)).Warn(ctx, msg, zap.Error(err))
	return fmt.Errorf("%s: %w", msg, err)
}

func issuePath(id int64) string {
	return fmt.Sprintf("/issues/%d/", id)
}
