package model

type Thread struct {
	Comment
	Starred    bool   `json:"starred"`
	ReplyDraft string `json:"reply_draft"`
}

// PanelView is everything a render surface needs to draw the panel.
type PanelView struct {
	Threads        []Thread  `json:"threads"`
	Pending        string    `json:"pending"`
	Sort           SortOrder `json:"sort"`
	ShowTimestamps bool      `json:"show_timestamps"`
	Starred        []int64   `json:"starred"`
	Total          int       `json:"total"`
}
