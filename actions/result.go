package actions

// Error codes surfaced to callers alongside a human-readable message.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeProjectNotFound = "PROJECT_NOT_FOUND"
	CodeInvalidStatus   = "INVALID_STATUS"
	CodeGetProjects     = "GET_PROJECTS_ERROR"
	CodeGetProject      = "GET_PROJECT_ERROR"
	CodeCreateProject   = "CREATE_PROJECT_ERROR"
	CodeUpdateProject   = "UPDATE_PROJECT_ERROR"
	CodeCompleteProject = "COMPLETE_PROJECT_ERROR"
	CodeAbandonProject  = "ABANDON_PROJECT_ERROR"
	CodeReviveProject   = "REVIVE_PROJECT_ERROR"
	CodeDeleteProject   = "DELETE_PROJECT_ERROR"
	CodeGetStats        = "GET_STATS_ERROR"
	CodeGetAnalytics    = "GET_ANALYTICS_ERROR"
)

// Result is the typed value every action returns to the presentation layer.
// Exactly one of the two shapes applies: {Success:true, Data} or
// {Success:false, Error, Code}. Actions never panic across this boundary.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func success[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func failure[T any](code, message string) Result[T] {
	return Result[T]{Success: false, Error: message, Code: code}
}
