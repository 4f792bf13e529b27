package transport

// SessionCookie is the sole session transport: the cookie carrying the
// signed token. There is no Authorization-header path.
const SessionCookie = "token"

// Message is the body of every non-payload response, success or failure.
type Message struct {
	Message string `json:"message"`
}

// UserSummary is the reduced projection returned on login. Never the hash.
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginResponse pairs the confirmation message with the user projection.
type LoginResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
}

// DeleteUserResponse echoes the removed account.
type DeleteUserResponse struct {
	Message string      `json:"message"`
	User    interface{} `json:"deletedUser"`
}
