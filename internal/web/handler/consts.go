package handler

const (
	// APIPrefix is the path prefix of the console api.
	APIPrefix = "/api"

	// RootPath is the root path the route group.
	RootPath = "/"

	// ErrNilDepsMsg is used if router or a required dependency is nil.
	ErrNilDepsMsg = "router or handler dependency is nil"
)
