// Package handlers provides HTTP request handling
package handlers

// Slug identifies the outcome class of an API response
type Slug string

// Response slugs
const (
	SuccessSlug      Slug = "success"
	ErrorSlug        Slug = "error"
	InvalidInputSlug Slug = "invalid-input"
	NotFoundSlug     Slug = "not-found"
	ServerErrorSlug  Slug = "server-error"
)

// Response is the envelope for all API responses
type Response struct {
	Slug  Slug        `json:"slug"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

func success(data interface{}) Response {
	return Response{
		Slug: SuccessSlug,
		Data: data,
	}
}

func errInvalidInput(msg string) Response {
	return Response{
		Slug:  InvalidInputSlug,
		Error: msg,
	}
}

func errNotFound(msg string) Response {
	return Response{
		Slug:  NotFoundSlug,
		Error: msg,
	}
}

func errServer(msg string) Response {
	return Response{
		Slug:  ServerErrorSlug,
		Error: msg,
	}
}
