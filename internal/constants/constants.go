package constants

// Centralized constants for env keys, headers, routes and shared messages.
const (
	// Environment variable keys
	EnvJWTSecret          = "WEBOS_JWT_SECRET"
	EnvRefreshSecret      = "WEBOS_REFRESH_SECRET"
	EnvConfigPath         = "WEBOS_CONFIG"
	EnvDBPath             = "WEBOS_DB"
	EnvGoogleClientID     = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret = "GOOGLE_CLIENT_SECRET"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// Token lifetimes
	AccessTokenTTLMinutes = 15
	RefreshTokenTTLDays   = 7

	// Google OAuth constants
	GoogleOAuthRedirect = "postmessage"
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	// Scopes for Google userinfo
	GoogleUserInfoScopes = []string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
	}
)

// Routes used by the backend router
const (
	RouteAPIPrefix = "/api"

	RouteAuthRegister       = "/auth/register"
	RouteAuthLogin          = "/auth/login"
	RouteAuthRefresh        = "/auth/refresh"
	RouteAuthLogout         = "/auth/logout"
	RouteAuthProfile        = "/auth/profile"
	RouteAuthGoogleCallBack = "/auth/google/oauth2callback"

	RouteNotes    = "/notes"
	RouteNoteByID = "/notes/:noteID"

	RouteFiles    = "/files"
	RouteFileByID = "/files/:fileID"

	RouteAIChat    = "/ai/chat"
	RouteAIHistory = "/ai/history"

	RouteAdminUsers    = "/admin/users"
	RouteAdminUserByID = "/admin/users/:userID"
	RouteAdminStats    = "/admin/stats"

	RouteMenu            = "/restaurant/menu"
	RouteMenuItemByID    = "/restaurant/menu/:itemID"
	RouteOrders          = "/restaurant/orders"
	RouteOrdersToday     = "/restaurant/orders/today"
	RouteOrderStatusByID = "/restaurant/orders/:orderID/status"
	RouteRestaurantStats = "/restaurant/stats"

	RouteBattleWS = "/ws/battle"
	RouteVersion  = "/version"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
	JSONKeyStatus  = "status"
	JSONKeyData    = "data"
	JSONKeySuccess = "success"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest   = "Invalid request"
	ErrAuthRequired     = "Not authorized, no token"
	ErrInvalidSession   = "Not authorized, token failed"
	ErrAdminOnly        = "Not authorized as admin"
	ErrMissingGoogleEnv = "Missing GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET in environment"

	ErrUserExists         = "User already exists"
	ErrInvalidCredentials = "Invalid email or password"
	ErrRefreshRequired    = "Refresh token required"
	ErrInvalidRefresh     = "Invalid refresh token"
	ErrRefreshExpired     = "Refresh token expired"
	ErrUserNotFound       = "User not found"
	ErrCannotDeleteAdmin  = "Cannot delete admin user"

	ErrNoteNotFound = "Note not found"
	ErrFileNotFound = "File not found"
	ErrNoFile       = "No file uploaded"

	ErrMessageRequired = "Message is required"

	ErrOrderEmpty         = "Order must contain at least one item"
	ErrOrderNotFound      = "Order not found"
	ErrMenuItemNotFound   = "Menu item not found"
	ErrInvalidOrderType   = "Invalid order type"
	ErrInvalidOrderStatus = "Invalid order status"

	ErrFailedExchangeToken    = "Failed to exchange authorization code"
	ErrFailedGetUserInfo      = "Failed to get user info from Google"
	ErrNoEmailInGoogleProfile = "No email found in Google profile"
	ErrFailedCreateSession    = "Failed to create session"
)

// Websocket error messages (sent as structured acks, never as failures)
const (
	WSErrRoomNotFound    = "Room not found"
	WSErrRoomFull        = "Room is full"
	WSErrRoomNotJoinable = "Room is not joinable"
	WSErrNeedTwoPlayers  = "Need two players to start"
	WSErrAlreadyStarted  = "Battle already started"
	WSErrBattleNotActive = "Battle not active"
	WSErrPlayerNotInRoom = "Player not in room"
)

// Structured log field names
const (
	LogFieldAddr    = "addr"
	LogFieldRoomID  = "room_id"
	LogFieldUserID  = "user_id"
	LogFieldOrderID = "order_id"
	LogFieldReason  = "reason"
	LogFieldWinner  = "winner"
)
