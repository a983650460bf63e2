package azure

// fakeSource is a literal scope → records map in declaration order.
type fakeSource[T any] struct {
	scopes  []string
	records map[string][]T
}

func (f fakeSource[T]) Scopes() []string     { return f.scopes }
func (f fakeSource[T]) Get(scope string) []T { return f.records[scope] }

func oneScope[T any](scope string, recs ...T) fakeSource[T] {
	return fakeSource[T]{scopes: []string{scope}, records: map[string][]T{scope: recs}}
}

const subscriptionID = "00000000-0000-0000-0000-000000000000"
