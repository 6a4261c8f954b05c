package actions

// Revalidator is notified after every successful mutation with the view
// paths whose rendered or cached form is now stale. The presentation layer
// decides what, if anything, to do about it; the contract here is only that
// no caller may observe stale aggregate data after a mutation.
type Revalidator interface {
	Revalidate(paths ...string)
}

// NopRevalidator ignores every notification. It is the default when the
// presentation layer does no caching of its own.
type NopRevalidator struct{}

func (NopRevalidator) Revalidate(paths ...string) {}
