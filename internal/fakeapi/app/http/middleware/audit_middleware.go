package middleware

import (
	"sync"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/utils/v2"
)

// AuditEntry - запись о принятом запросе.
type AuditEntry struct {
	Method        string
	Path          string
	Authorization string
}

// Audit запоминает заголовки Authorization входящих запросов.
type Audit struct {
	mu      sync.Mutex
	entries []AuditEntry
}

// Handler возвращает middleware, записывающее каждый запрос.
// Строки копируются: буферы fasthttp переиспользуются следующими запросами.
func (a *Audit) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		entry := AuditEntry{
			Method:        utils.CopyString(c.Method()),
			Path:          utils.CopyString(c.Path()),
			Authorization: utils.CopyString(c.Get(fiber.HeaderAuthorization)),
		}

		a.mu.Lock()
		a.entries = append(a.entries, entry)
		a.mu.Unlock()
		return c.Next()
	}
}

// Entries возвращает копию записанных запросов.
func (a *Audit) Entries() []AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]AuditEntry(nil), a.entries...)
}
