package handler

const (
	// RootPath is the root path of the route group.
	RootPath = "/"

	// APIPath is the base path of the JSON API.
	APIPath = "/api"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
