package rest

import (
	"maps"
	"net/http"
	"net/url"
)

// Request описывает исходящий вызов API.
// Создается заново для каждого вызова и копируется при повторе.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header

	// Anonymous-запросы не получают bearer-токен и не запускают обновление.
	Anonymous bool

	retried bool
}

// NewRequest создает запрос с указанным методом и путем относительно базового URL.
func NewRequest(method, path string) *Request {
	return &Request{
		Method: method,
		Path:   path,
		Query:  url.Values{},
		Header: http.Header{},
	}
}

// WithBody задает тело запроса, сериализуемое в JSON.
func (r *Request) WithBody(body any) *Request {
	r.Body = body
	return r
}

// WithQuery добавляет параметр строки запроса. Пустые значения пропускаются.
func (r *Request) WithQuery(key, value string) *Request {
	if value == "" {
		return r
	}
	if r.Query == nil {
		r.Query = url.Values{}
	}
	r.Query.Add(key, value)
	return r
}

// AsAnonymous помечает запрос как не требующий авторизации.
func (r *Request) AsAnonymous() *Request {
	r.Anonymous = true
	return r
}

// Retried сообщает, что запрос уже прошел цикл обновления токена и повтора.
func (r *Request) Retried() bool {
	return r.retried
}

// clone копирует запрос вместе с заголовками и параметрами.
// Body разделяется: он только сериализуется и не изменяется.
func (r *Request) clone() *Request {
	c := *r
	c.Header = r.Header.Clone()
	if c.Header == nil {
		c.Header = http.Header{}
	}
	c.Query = maps.Clone(r.Query)
	for k, v := range c.Query {
		c.Query[k] = append([]string(nil), v...)
	}
	return &c
}

// replay возвращает копию запроса для повтора с новым токеном.
func (r *Request) replay(accessToken string) *Request {
	c := r.clone()
	c.retried = true
	c.Header.Set(headerAuthorization, bearerPrefix+accessToken)
	return c
}
