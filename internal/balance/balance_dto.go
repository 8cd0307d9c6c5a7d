package balance

type BucketResponse struct {
	Total     int `json:"total"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

type BalanceResponse struct {
	UserID string         `json:"user_id"`
	Annual BucketResponse `json:"annual"`
	Sick   BucketResponse `json:"sick"`
	Casual BucketResponse `json:"casual"`
}
