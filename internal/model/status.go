package model

// APIStatus classifies the outcome of a single remote call.
type APIStatus int

const (
	StatusSuccess APIStatus = iota
	StatusNetworkError
	StatusAuthError
	StatusRateLimited
	StatusNotFound
	StatusParseError
	StatusUnknownError
)

func (s APIStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNetworkError:
		return "network-error"
	case StatusAuthError:
		return "auth-error"
	case StatusRateLimited:
		return "rate-limited"
	case StatusNotFound:
		return "not-found"
	case StatusParseError:
		return "parse-error"
	default:
		return "unknown-error"
	}
}

// ErrorInfo is the content of the error screen.
type ErrorInfo struct {
	Status     APIStatus
	Message    string
	Suggestion string
}

// Describe returns a human-readable category and a suggested remedy
// for a failed call.
func Describe(status APIStatus) ErrorInfo {
	e := ErrorInfo{Status: status}
	switch status {
	case StatusSuccess:
		e.Message = "Done"
	case StatusNetworkError:
		e.Message = "Network error"
		e.Suggestion = "Check connection and try again"
	case StatusAuthError:
		e.Message = "Authentication failed"
		e.Suggestion = "Check API key and token (pocketboard setup)"
	case StatusRateLimited:
		e.Message = "Too many requests"
		e.Suggestion = "Wait a moment before retrying"
	case StatusNotFound:
		e.Message = "Card or list not found"
		e.Suggestion = "It may have been deleted; refresh the list"
	case StatusParseError:
		e.Message = "Unexpected response from server"
		e.Suggestion = "Refresh; clear the cache if it keeps happening"
	default:
		e.Message = "Something went wrong"
		e.Suggestion = "Try again"
	}
	return e
}
