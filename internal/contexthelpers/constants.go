package contexthelpers

type contextKey string

const requestIDContextKey = contextKey("requestID")
const currentPathContextKey = contextKey("currentPath")
