package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	publicHandler        publicHandler
	contactHandler       contactHandler
	authHandler          authHandler
	dashboardHandler     dashboardHandler
	projectHandler       projectHandler
	skillHandler         skillHandler
	certificationHandler certificationHandler
	blogPostHandler      blogPostHandler
	aboutHandler         aboutHandler
	settingsHandler      settingsHandler
	analyticsHandler     analyticsHandler
	mediaHandler         mediaHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// StatusResponse acknowledges a mutation without a body of its own.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
