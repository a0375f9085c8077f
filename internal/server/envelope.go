package server

const (
	msgCreated         = "record created successfully"
	msgList            = "record list"
	msgFound           = "record found"
	msgNotFound        = "record not found"
	msgUpdated         = "record updated successfully"
	msgDeleted         = "record deleted successfully"
	msgValidationError = "validation error"
	msgInternalError   = "internal server error"
	msgTooManyRequests = "too many requests"
)

// Envelope wraps every housing response. Content is always present and is
// null when there is nothing to return.
type Envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Content any               `json:"content"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

func success(message string, content any) Envelope {
	return Envelope{Status: true, Message: message, Content: content}
}

func failure(message string) Envelope {
	return Envelope{Status: false, Message: message}
}
