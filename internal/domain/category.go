package domain

// Category is an admin-managed ticket category. Tickets reference categories
// by name snapshot only, so deleting one has no cascading effect.
type Category struct {
	ID   int64
	Name string
}
