package dto

// ErrorResponse is the uniform error body returned by the API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PageResponse echoes the pagination used for a list call.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
