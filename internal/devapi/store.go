package devapi

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

type record = map[string]any

// collection is an in-memory table of JSON objects keyed by id.
type collection struct {
	mu       sync.RWMutex
	nextID   int64
	items    map[int64]record
	pageSize int
	// filters lists query parameters matched by equality against the
	// record field of the same name.
	filters []string
	// search lists the fields scanned by the "search" and "query" params.
	search []string
	// dateField is compared against date_from/date_to when set.
	dateField string
	// decorate recomputes derived fields (labels, nested objects) after
	// every write.
	decorate func(record)
}

func newCollection(pageSize int, filters ...string) *collection {
	return &collection{
		nextID:   1,
		items:    make(map[int64]record),
		pageSize: pageSize,
		filters:  filters,
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (c *collection) insert(r record) record {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	r = maps.Clone(r)
	r["id"] = id
	ts := now()
	if _, ok := r["created_at"]; !ok {
		r["created_at"] = ts
	}
	r["updated_at"] = ts
	if c.decorate != nil {
		c.decorate(r)
	}
	c.items[id] = r
	return maps.Clone(r)
}

func (c *collection) get(id int64) (record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.items[id]
	if !ok {
		return nil, false
	}
	return maps.Clone(r), true
}

// patch merges top-level keys; id and created_at are immutable.
func (c *collection) patch(id int64, changes record) (record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.items[id]
	if !ok {
		return nil, false
	}
	for k, v := range changes {
		if k == "id" || k == "created_at" {
			continue
		}
		r[k] = v
	}
	r["updated_at"] = now()
	if c.decorate != nil {
		c.decorate(r)
	}
	return maps.Clone(r), true
}

func (c *collection) remove(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	return true
}

func (c *collection) all() []record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := slices.Sorted(maps.Keys(c.items))
	out := make([]record, 0, len(ids))
	for _, id := range ids {
		out = append(out, maps.Clone(c.items[id]))
	}
	return out
}

func (c *collection) count(match func(record) bool) int {
	n := 0
	for _, r := range c.all() {
		if match == nil || match(r) {
			n++
		}
	}
	return n
}

type pageResult struct {
	Count    int      `json:"count"`
	Next     *string  `json:"next"`
	Previous *string  `json:"previous"`
	Results  []record `json:"results"`
}

// list filters newest first and slices out the requested page.
func (c *collection) list(u *url.URL) (*pageResult, error) {
	q := u.Query()
	page := 1
	if p := q.Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid page %q", p)
		}
		page = n
	}

	var matched []record
	for _, r := range slices.Backward(c.all()) {
		if c.matches(r, q) {
			matched = append(matched, r)
		}
	}

	res := &pageResult{Count: len(matched), Results: []record{}}
	start := (page - 1) * c.pageSize
	if start >= len(matched) && page > 1 {
		return nil, fmt.Errorf("invalid page %d", page)
	}
	end := min(start+c.pageSize, len(matched))
	if start < end {
		res.Results = matched[start:end]
	}
	if end < len(matched) {
		res.Next = pageLink(u, page+1)
	}
	if page > 1 {
		res.Previous = pageLink(u, page-1)
	}
	return res, nil
}

func (c *collection) matches(r record, q url.Values) bool {
	for _, f := range c.filters {
		want := q.Get(f)
		if want == "" {
			continue
		}
		if fmt.Sprint(r[f]) != want {
			return false
		}
	}
	if c.dateField != "" {
		day, _ := r[c.dateField].(string)
		if len(day) >= 10 {
			day = day[:10]
		}
		if from := q.Get("date_from"); from != "" && day < from {
			return false
		}
		if to := q.Get("date_to"); to != "" && day > to {
			return false
		}
	}
	text := q.Get("search")
	if text == "" {
		text = q.Get("query")
	}
	if text == "" || len(c.search) == 0 {
		return true
	}
	text = strings.ToLower(text)
	for _, f := range c.search {
		if v, ok := r[f]; ok && v != nil && strings.Contains(strings.ToLower(fmt.Sprint(v)), text) {
			return true
		}
	}
	return false
}

func pageLink(u *url.URL, page int) *string {
	next := *u
	q := next.Query()
	q.Set("page", strconv.Itoa(page))
	next.RawQuery = q.Encode()
	s := next.String()
	return &s
}
