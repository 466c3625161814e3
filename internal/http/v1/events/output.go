package events

// Result reports what the event handler did. Failures are logged server-side and still
// acknowledged so the publisher does not redeliver.
type Result struct {
	Outcome string `json:"outcome" doc:"Handler outcome" example:"created"`
}

// ResultOutput is the 202 Accepted response for every event.
type ResultOutput struct {
	Body Result
}
