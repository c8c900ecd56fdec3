package entity

type User struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}
