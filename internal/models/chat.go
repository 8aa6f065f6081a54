package models

// ChatUser is a single chat participant decoded from the roster wire
// format. Gender holds the display label when the wire code is one of the
// known codes, otherwise the raw code verbatim.
type ChatUser struct {
	Username string `json:"username"`
	Status   string `json:"status"`
	Gender   string `json:"gender"`
}
