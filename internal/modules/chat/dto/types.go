package dto

type MessageOutput struct {
	Role    string
	Content string
}

type ReplyOutput struct {
	Text            string
	Advice          string
	Recommendations []string
}
