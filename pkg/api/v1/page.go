package v1

// Page is the envelope every list endpoint answers with.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next,omitempty"`
	Previous *string `json:"previous,omitempty"`
	Results  []T     `json:"results"`
}

// TotalPages derives the page count for a fixed server-side page size.
func (p *Page[T]) TotalPages(pageSize int) int {
	if pageSize <= 0 || p.Count <= 0 {
		return 1
	}
	n := p.Count / pageSize
	if p.Count%pageSize > 0 {
		n++
	}
	return n
}
