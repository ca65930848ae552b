package entity

type Player struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
	Mark Mark   `json:"mark,omitempty"`
}
