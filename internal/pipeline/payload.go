package pipeline

type Payload struct {
	ChatID       int64
	UserID       int64
	SenderChatID int64
	Username     string
	MessageID    int
	ThreadID     int
}
