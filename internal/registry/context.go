package registry

import "context"

// labelKey is the context.Context key carrying the current goroutine's
// registered label — the Go realization of "thread-local label" from
// spec.md §9 DESIGN NOTES: task-local storage in the concurrency runtime,
// never a process-global.
type labelKey struct{}

// ContextWithLabel returns a child context carrying label as the current
// thread's identity.
func ContextWithLabel(ctx context.Context, label string) context.Context {
	return context.WithValue(ctx, labelKey{}, label)
}

// LabelFromContext extracts the label installed by ContextWithLabel, if any.
func LabelFromContext(ctx context.Context) (string, bool) {
	label, ok := ctx.Value(labelKey{}).(string)
	return label, ok
}
