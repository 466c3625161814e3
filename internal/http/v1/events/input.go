package events

// MessageCreatedInput for POST /events/messages/{messageId}
type MessageCreatedInput struct {
	Token     string         `header:"X-Events-Token" doc:"Shared secret of the event publisher"`
	MessageID string         `path:"messageId"        doc:"ID of the created message document" maxLength:"128" example:"msg-123"`
	Body      map[string]any `required:"false"        doc:"Message document data"`
}

// UserDeletedInput for DELETE /events/users/{userId}
type UserDeletedInput struct {
	Token  string `header:"X-Events-Token" doc:"Shared secret of the event publisher"`
	UserID string `path:"userId"           doc:"ID of the removed profile document" maxLength:"128" example:"user-123"`
}
