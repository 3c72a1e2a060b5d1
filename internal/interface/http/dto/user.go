package dto

// TokenObtainRequest 登录换取Token对
type TokenObtainRequest struct {
	Username string `json:"username" binding:"required,max=150" example:"librarian"`
	Password string `json:"password" binding:"required" example:"correct-horse"`
}

// TokenRefreshRequest 刷新Access Token
type TokenRefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// TokenRevokeRequest 注销，refresh可选，传入时同时作废
type TokenRevokeRequest struct {
	Refresh string `json:"refresh"`
}
