package req

type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SidebarReq struct {
	Open *bool `json:"open" binding:"required"`
}
