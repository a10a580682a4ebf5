package client

import (
	"net/url"
	"strconv"
)

// query collects list parameters, dropping zero values so that the backend
// only sees the filters the caller actually set.
type query struct {
	v url.Values
}

func newQuery() *query {
	return &query{v: url.Values{}}
}

func (q *query) str(key, val string) *query {
	if val != "" {
		q.v.Set(key, val)
	}
	return q
}

func (q *query) num(key string, val int64) *query {
	if val != 0 {
		q.v.Set(key, strconv.FormatInt(val, 10))
	}
	return q
}

func (q *query) boolPtr(key string, val *bool) *query {
	if val != nil {
		q.v.Set(key, strconv.FormatBool(*val))
	}
	return q
}

func (q *query) page(page int) *query {
	return q.num("page", int64(page))
}

func (q *query) values() url.Values {
	return q.v
}

// encodeQuery renders values sorted by key; empty input yields "".
func encodeQuery(v url.Values) string {
	if len(v) == 0 {
		return ""
	}
	return v.Encode()
}
