package domain

// EnforceRequest carries one authorization question: may an actor with this
// role perform action on resource. Actor identity is resolved once at the HTTP
// boundary and passed along explicitly.
type EnforceRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Role     Role   `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
