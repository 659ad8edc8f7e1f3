package httputils

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"boscoin.io/governance/lib/errors"
)

const (
	DefaultLimit uint64 = 20
	MaxLimit     uint64 = 100
)

// PageQuery parses `cursor`, `limit` and `reverse` from the request query.
type PageQuery struct {
	request *http.Request
	cursor  string
	reverse bool
	limit   uint64
}

func NewPageQuery(r *http.Request) (*PageQuery, error) {
	p := &PageQuery{
		request: r,
		limit:   DefaultLimit,
	}
	err := p.parseRequest()
	return p, err
}

func (p *PageQuery) Limit() uint64 {
	return p.limit
}

func (p *PageQuery) Reverse() bool {
	return p.reverse
}

func (p *PageQuery) Cursor() string {
	return p.cursor
}

// CursorUint64 is for listings keyed by a number; an empty cursor is 0.
func (p *PageQuery) CursorUint64() (uint64, error) {
	if len(p.cursor) < 1 {
		return 0, nil
	}

	n, err := strconv.ParseUint(p.cursor, 10, 64)
	if err != nil {
		return 0, errors.BadRequestParameter.Clone().SetData("cursor", p.cursor)
	}
	return n, nil
}

func (p *PageQuery) SelfLink() string {
	return p.request.URL.String()
}

func (p *PageQuery) NextLink(cursor string) string {
	return p.link(cursor, p.reverse)
}

func (p *PageQuery) PrevLink(cursor string) string {
	return p.link(cursor, !p.reverse)
}

func (p *PageQuery) link(cursor string, reverse bool) string {
	v := url.Values{
		"reverse": []string{strconv.FormatBool(reverse)},
		"limit":   []string{strconv.FormatUint(p.limit, 10)},
	}
	if len(cursor) > 0 {
		v.Set("cursor", cursor)
	}

	return fmt.Sprintf("%s?%s", p.request.URL.Path, v.Encode())
}

func (p *PageQuery) parseRequest() error {
	q := p.request.URL.Query()

	if r := q.Get("reverse"); r != "" {
		reverse, err := strconv.ParseBool(r)
		if err != nil {
			return errors.BadRequestParameter.Clone().SetData("reverse", r)
		}
		p.reverse = reverse
	}

	p.cursor = q.Get("cursor")

	if l := q.Get("limit"); l != "" {
		limit, err := strconv.ParseUint(l, 10, 64)
		if err != nil || limit < 1 {
			return errors.BadRequestParameter.Clone().SetData("limit", l)
		}
		if limit > MaxLimit {
			limit = MaxLimit
		}
		p.limit = limit
	}

	return nil
}
