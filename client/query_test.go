package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterQueries(t *testing.T) {
	approved := true
	rejected := false

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"no filters no page", encodeQuery(DriverFilter{}.values(0).values()), ""},
		{"page only", encodeQuery(OrderFilter{}.values(2).values()), "page=2"},
		{"users", encodeQuery(UserFilter{Query: "aziz"}.values(1).values()), "page=1&query=aziz"},
		{"approved pointer true", encodeQuery(DriverFilter{IsApproved: &approved}.values(0).values()), "is_approved=true"},
		{"approved pointer false is still sent", encodeQuery(DriverFilter{IsApproved: &rejected, Direction: "cargo"}.values(0).values()), "direction=cargo&is_approved=false"},
		{
			"orders sorted by key",
			encodeQuery(OrderFilter{Status: "pending", OrderType: "taxi", DateFrom: "2025-03-01", DateTo: "2025-03-31", Search: "Ali Vali"}.values(3).values()),
			"date_from=2025-03-01&date_to=2025-03-31&order_type=taxi&page=3&search=Ali+Vali&status=pending",
		},
		{"zero driver id omitted", encodeQuery(newQuery().num("driver_id", 0).str("transaction_type", "").values()), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestRouteTemplate(t *testing.T) {
	assert.Equal(t, "/drivers/:id/", routeTemplate("/drivers/17/"))
	assert.Equal(t, "/users/search/", routeTemplate("/users/search/"))
	assert.Equal(t, "/token/refresh/", routeTemplate("/token/refresh/"))
}
