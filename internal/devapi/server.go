// Package devapi is an in-process stand-in for the admin REST backend. It
// issues real JWTs and serves seeded fixtures, so the console and the
// client can be exercised without the production API.
package devapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	v1 "yoladmin/pkg/api/v1"
	"yoladmin/pkg/constraints"

	"github.com/gin-gonic/gin"
)

type Options struct {
	Username   string
	Password   string
	SigningKey []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// RefreshDelay slows the refresh endpoint down, for coalescing drills.
	RefreshDelay time.Duration
	// Empty skips fixture seeding.
	Empty bool
}

func DefaultOptions() Options {
	return Options{
		Username:   "admin",
		Password:   "admin123",
		SigningKey: []byte("yoladmin-devapi-signing-key"),
	}
}

type Server struct {
	opts   Options
	tokens *TokenIssuer
	engine *gin.Engine

	staff  v1.AuthUser
	botMu  sync.Mutex
	bot    record
	invite atomic.Int64

	users        *collection
	drivers      *collection
	orders       *collection
	transactions *collection
	countries    *collection
	prices       *collection
	cards        *collection
	purchases    *collection

	refreshCalls atomic.Int64
	requests     atomic.Int64
}

func New(opts Options) *Server {
	def := DefaultOptions()
	if opts.Username == "" {
		opts.Username, opts.Password = def.Username, def.Password
	}
	if len(opts.SigningKey) == 0 {
		opts.SigningKey = def.SigningKey
	}

	s := &Server{
		opts:   opts,
		tokens: NewTokenIssuer(opts.SigningKey, opts.AccessTTL, opts.RefreshTTL),
		staff: v1.AuthUser{
			ID:         1,
			Username:   opts.Username,
			Email:      opts.Username + "@yol.local",
			FirstName:  "Admin",
			IsStaff:    true,
			IsActive:   true,
			DateJoined: "2024-01-01T00:00:00Z",
		},
		bot: record{
			"id":                      int64(1),
			"driver_request_group_id": "-100123",
			"taxi_group_id":           "",
			"gruz_group_id":           "",
			"avia_group_id":           "",
			"point_purchase_group_id": nil,
			"deport_check_group_id":   nil,
			"deport_price":            nil,
			"admin_username":          nil,
			"admins":                  []any{},
		},
	}
	s.initCollections()
	if !opts.Empty {
		s.seed()
	}
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Tokens() *TokenIssuer {
	return s.tokens
}

// RefreshCalls counts hits on the refresh endpoint, successful or not.
func (s *Server) RefreshCalls() int64 {
	return s.refreshCalls.Load()
}

// Requests counts every request served.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

func (s *Server) initCollections() {
	s.users = newCollection(constraints.PageSizeDefault, "language")
	s.users.search = []string{"full_name", "phone_number", "telegram_id"}

	s.drivers = newCollection(constraints.PageSizeDrivers, "is_approved", "direction", "region")
	s.drivers.search = []string{"car_number", "car_make", "user_name", "user_phone"}
	s.drivers.decorate = func(r record) {
		r["direction_display"] = v1.DirectionLabel(fmt.Sprint(r["direction"]))
		if id, ok := asID(r["user_id"]); ok {
			if u, ok := s.users.get(id); ok {
				r["user"] = u
				r["user_name"] = u["full_name"]
				r["user_phone"] = u["phone_number"]
			}
		}
	}

	s.orders = newCollection(constraints.PageSizeDefault, "status", "order_type", "order_number")
	s.orders.search = []string{"full_name", "phone_number", "from_location", "to_location"}
	s.orders.dateField = "created_at"
	s.orders.decorate = func(r record) {
		r["order_number"] = fmt.Sprint(r["id"])
		r["status_display"] = v1.OrderStatusLabel(fmt.Sprint(r["status"]))
		r["order_type_display"] = v1.OrderTypeLabel(fmt.Sprint(r["order_type"]))
		s.embedDriver(r)
	}

	s.transactions = newCollection(constraints.PageSizeDefault, "driver_id", "transaction_type")
	s.transactions.decorate = func(r record) {
		r["transaction_type_display"] = v1.TransactionTypeLabel(fmt.Sprint(r["transaction_type"]))
		s.embedDriver(r)
	}

	s.countries = newCollection(constraints.PageSizeDefault)
	s.prices = newCollection(constraints.PageSizeDefault, "service")
	s.prices.decorate = func(r record) {
		price, _ := asFloat(r["price"])
		discount, _ := asFloat(r["discount_percentage"])
		r["final_price"] = price * (100 - discount) / 100
		switch r["service"] {
		case constraints.ServiceCargo:
			r["service_display"] = "Yuk"
		case constraints.ServiceTaxiPackage:
			r["service_display"] = "Taksi / Pasilka"
		default:
			r["service_display"] = v1.UnknownLabel
		}
	}
	s.cards = newCollection(constraints.PageSizeDefault, "is_active")

	s.purchases = newCollection(constraints.PageSizeDefault, "status", "driver_id")
	s.purchases.decorate = func(r record) {
		r["status_display"] = v1.PurchaseStatusLabel(fmt.Sprint(r["status"]))
		s.embedDriver(r)
		if id, ok := asID(r["point_price_id"]); ok {
			if p, ok := s.prices.get(id); ok {
				r["point_price"] = p
			}
		}
	}
}

// embedDriver resolves driver_id into the nested driver object.
func (s *Server) embedDriver(r record) {
	id, ok := asID(r["driver_id"])
	if !ok {
		return
	}
	if d, ok := s.drivers.get(id); ok {
		r["driver"] = d
	}
}

func asID(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func bearer(header string) string {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
