package rest

import (
	"context"
	"fmt"
	"regexp"

	"github.com/go-resty/resty/v2"

	"aitsclient/pkg/logger"
)

// restyLogger направляет внутренние сообщения resty в общий logger.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...any) {
	ctx := context.Background()
	logger.Log(ctx).Error(ctx, fmt.Sprintf(format, v...))
}

func (restyLogger) Warnf(format string, v ...any) {
	ctx := context.Background()
	logger.Log(ctx).Warn(ctx, fmt.Sprintf(format, v...))
}

func (restyLogger) Debugf(format string, v ...any) {
	ctx := context.Background()
	logger.Log(ctx).Debug(ctx, fmt.Sprintf(format, v...))
}

var secretFields = regexp.MustCompile(`"(access|refresh|password)"\s*:\s*"[^"]*"`)

const redacted = "[REDACTED]"

func redactBody(body string) string {
	return secretFields.ReplaceAllString(body, `"$1":"`+redacted+`"`)
}

// redactRequestLog убирает токены и пароли из debug-вывода resty.
func redactRequestLog(rl *resty.RequestLog) error {
	if rl.Header.Get(headerAuthorization) != "" {
		rl.Header.Set(headerAuthorization, bearerPrefix+redacted)
	}
	rl.Body = redactBody(rl.Body)
	return nil
}

func redactResponseLog(rl *resty.ResponseLog) error {
	rl.Body = redactBody(rl.Body)
	return nil
}
