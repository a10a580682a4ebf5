package devapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	v1 "yoladmin/pkg/api/v1"

	"github.com/gin-gonic/gin"
)

const (
	opList = 1 << iota
	opGet
	opCreate
	opUpdate
	opDelete

	opAll = opList | opGet | opCreate | opUpdate | opDelete
)

const operatorKey = "devapi.operator"

func detail(msg string) gin.H {
	return gin.H{"detail": msg}
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.RedirectTrailingSlash = false
	r.Use(gin.Recovery(), func(c *gin.Context) {
		s.requests.Add(1)
		c.Next()
	})

	api := r.Group("/api")
	api.POST("/token/", s.login)
	api.POST("/token/refresh/", s.refresh)

	authed := api.Group("/", s.authenticate)
	authed.GET("/auth/user/", func(c *gin.Context) { c.JSON(http.StatusOK, s.staff) })

	// /users/search/ shares the :id slot with item routes.
	authed.GET("/users/", s.listHandler(s.users))
	authed.GET("/users/:id/", func(c *gin.Context) {
		if c.Param("id") == "search" {
			s.listHandler(s.users)(c)
			return
		}
		s.getHandler(s.users)(c)
	})
	authed.POST("/users/", s.createHandler(s.users, "telegram_id"))
	authed.DELETE("/users/:id/", s.deleteHandler(s.users))

	mount(s, authed, "/drivers/", s.drivers, opAll&^opCreate)
	authed.POST("/drivers/", s.createDriver)

	mount(s, authed, "/orders/", s.orders, opAll&^opCreate)
	mount(s, authed, "/point-transactions/", s.transactions, opAll, "driver_id", "amount", "transaction_type")
	mount(s, authed, "/countries/", s.countries, opAll, "code", "name_uz", "name_ru")
	mount(s, authed, "/point-prices/", s.prices, opAll, "name", "service", "point_amount", "price")
	mount(s, authed, "/cards/", s.cards, opAll, "card_number", "card_holder_name", "bank_name")
	mount(s, authed, "/point-purchase-requests/", s.purchases, opAll&^opCreate)

	authed.GET("/bot-settings/", s.getBotSettings)
	authed.PATCH("/bot-settings/", s.patchBotSettings)
	authed.GET("/statistics/", s.statistics)
	authed.POST("/invite-links/create/", s.createInvite)
	authed.POST("/invite-links/revoke/", s.revokeInvite)
	return r
}

func mount(s *Server, g *gin.RouterGroup, path string, c *collection, ops int, required ...string) {
	item := path + ":id/"
	if ops&opList != 0 {
		g.GET(path, s.listHandler(c))
	}
	if ops&opGet != 0 {
		g.GET(item, s.getHandler(c))
	}
	if ops&opCreate != 0 {
		g.POST(path, s.createHandler(c, required...))
	}
	if ops&opUpdate != 0 {
		g.PATCH(item, s.updateHandler(c))
	}
	if ops&opDelete != 0 {
		g.DELETE(item, s.deleteHandler(c))
	}
}

func (s *Server) login(c *gin.Context) {
	var body v1.Credentials
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Username != s.opts.Username || body.Password != s.opts.Password {
		c.JSON(http.StatusUnauthorized, detail("No active account found with the given credentials"))
		return
	}
	access, refresh, err := s.tokens.Pair(s.staff.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, detail("token issuing failed"))
		return
	}
	c.JSON(http.StatusOK, v1.TokenPair{Access: access, Refresh: refresh})
}

func (s *Server) refresh(c *gin.Context) {
	s.refreshCalls.Add(1)
	if s.opts.RefreshDelay > 0 {
		time.Sleep(s.opts.RefreshDelay)
	}

	var body v1.RefreshRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Refresh == "" {
		c.JSON(http.StatusBadRequest, gin.H{"refresh": []string{"This field is required."}})
		return
	}
	access, err := s.tokens.Refresh(body.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}
	c.JSON(http.StatusOK, v1.AccessToken{Access: access})
}

func (s *Server) authenticate(c *gin.Context) {
	raw := bearer(c.GetHeader("Authorization"))
	if raw == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, detail("Authentication credentials were not provided."))
		return
	}
	claims, err := s.tokens.VerifyAccess(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"detail": "Given token not valid for any token type",
			"code":   "token_not_valid",
		})
		return
	}
	c.Set(operatorKey, claims.UserID)
	c.Next()
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, detail("Not found."))
		return 0, false
	}
	return id, true
}

// absoluteURL rebuilds the request URL so pagination links are absolute.
func absoluteURL(c *gin.Context) *url.URL {
	u := *c.Request.URL
	u.Scheme = "http"
	u.Host = c.Request.Host
	return &u
}

func (s *Server) listHandler(coll *collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := coll.list(absoluteURL(c))
		if err != nil {
			c.JSON(http.StatusNotFound, detail("Invalid page."))
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func (s *Server) getHandler(coll *collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		r, found := coll.get(id)
		if !found {
			c.JSON(http.StatusNotFound, detail("Not found."))
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func (s *Server) createHandler(coll *collection, required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body record
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, detail("JSON parse error - "+err.Error()))
			return
		}
		missing := gin.H{}
		for _, f := range required {
			if v, ok := body[f]; !ok || v == nil || v == "" {
				missing[f] = []string{"This field is required."}
			}
		}
		if len(missing) > 0 {
			c.JSON(http.StatusBadRequest, missing)
			return
		}
		c.JSON(http.StatusCreated, coll.insert(body))
	}
}

func (s *Server) updateHandler(coll *collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var body record
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, detail("JSON parse error - "+err.Error()))
			return
		}
		r, found := coll.patch(id, body)
		if !found {
			c.JSON(http.StatusNotFound, detail("Not found."))
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func (s *Server) deleteHandler(coll *collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if !coll.remove(id) {
			c.JSON(http.StatusNotFound, detail("Not found."))
			return
		}
		c.Status(http.StatusNoContent)
	}
}

var driverPhotos = []string{"passport_photo", "driver_license_photo", "sts_photo", "car_photo"}

func (s *Server) createDriver(c *gin.Context) {
	errs := gin.H{}
	r := record{"is_approved": false, "points": 0, "rating": 0.0}

	userID, err := strconv.ParseInt(c.PostForm("user_id"), 10, 64)
	if _, ok := s.users.get(userID); err != nil || !ok {
		errs["user_id"] = []string{"Invalid pk - object does not exist."}
	}
	r["user_id"] = userID

	direction := c.PostForm("direction")
	if direction == "" {
		errs["direction"] = []string{"This field is required."}
	}
	r["direction"] = direction

	for _, field := range driverPhotos {
		fh, err := c.FormFile(field)
		if err != nil {
			errs[field] = []string{"No file was submitted."}
			continue
		}
		stored := fmt.Sprintf("drivers/%s/%s", field, fh.Filename)
		r[field] = stored
		r[field+"_url"] = fmt.Sprintf("http://%s/media/%s", c.Request.Host, stored)
	}

	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}
	c.JSON(http.StatusCreated, s.drivers.insert(r))
}

func (s *Server) getBotSettings(c *gin.Context) {
	s.botMu.Lock()
	defer s.botMu.Unlock()
	c.JSON(http.StatusOK, s.bot)
}

func (s *Server) patchBotSettings(c *gin.Context) {
	var body record
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, detail("JSON parse error - "+err.Error()))
		return
	}

	s.botMu.Lock()
	defer s.botMu.Unlock()
	for k, v := range body {
		if k == "id" || k == "admins" {
			continue
		}
		if k == "admin_ids" {
			ids, _ := v.([]any)
			admins := make([]any, 0, len(ids))
			for _, raw := range ids {
				if id, ok := asID(raw); ok {
					if u, ok := s.users.get(id); ok {
						admins = append(admins, u)
					}
				}
			}
			s.bot["admins"] = admins
			continue
		}
		s.bot[k] = v
	}
	c.JSON(http.StatusOK, s.bot)
}

func (s *Server) statistics(c *gin.Context) {
	byStatus := gin.H{}
	byType := gin.H{}
	for _, o := range s.orders.all() {
		status := fmt.Sprint(o["status"])
		n, _ := byStatus[status].(int)
		byStatus[status] = n + 1
		kind := fmt.Sprint(o["order_type"])
		n, _ = byType[kind].(int)
		byType[kind] = n + 1
	}
	c.JSON(http.StatusOK, gin.H{
		"total_users":   s.users.count(nil),
		"total_drivers": s.drivers.count(nil),
		"approved_drivers": s.drivers.count(func(r record) bool {
			approved, _ := r["is_approved"].(bool)
			return approved
		}),
		"total_orders":     s.orders.count(nil),
		"orders_by_status": byStatus,
		"orders_by_type":   byType,
	})
}

func (s *Server) createInvite(c *gin.Context) {
	var body v1.InviteLinkRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.GroupID == "" {
		c.JSON(http.StatusBadRequest, v1.InviteLinkResult{Message: "group_id is required"})
		return
	}
	n := s.invite.Add(1)
	c.JSON(http.StatusOK, v1.InviteLinkResult{
		Success:    true,
		InviteLink: fmt.Sprintf("https://t.me/+dev%s%d", body.GroupID, n),
		Message:    "Invite link created",
	})
}

func (s *Server) revokeInvite(c *gin.Context) {
	var body v1.InviteLinkRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.GroupID == "" || body.InviteLink == "" {
		c.JSON(http.StatusBadRequest, v1.InviteLinkResult{Message: "group_id and invite_link are required"})
		return
	}
	c.JSON(http.StatusOK, v1.InviteLinkResult{Success: true, Message: "Invite link revoked"})
}
