package orgtree

import "github.com/theirongolddev/orgchart/internal/model"

// SeedNodes returns the starter chart used when no saved chart exists.
func SeedNodes() []model.Node {
	return []model.Node{
		{
			ID: "1", Name: "John Doe", Title: "CEO", Department: "Executive",
			Children: []string{"2", "3"}, IsAdmin: true,
			Position: model.Position{X: 200, Y: 50},
		},
		{
			ID: "2", Name: "Jane Smith", Title: "CTO", Department: "Engineering",
			ReportsTo: "1", Children: []string{"4", "5"}, IsAdmin: true,
			Position: model.Position{X: 100, Y: 150},
		},
		{
			ID: "3", Name: "Bob Johnson", Title: "CMO", Department: "Marketing",
			ReportsTo: "1", Children: []string{"6"},
			Position: model.Position{X: 300, Y: 150},
		},
		{
			ID: "4", Name: "Alice Brown", Title: "Senior Developer", Department: "Engineering",
			ReportsTo: "2", Children: []string{},
			Position: model.Position{X: 50, Y: 250},
		},
		{
			ID: "5", Name: "Charlie Wilson", Title: "DevOps Engineer", Department: "Engineering",
			ReportsTo: "2", Children: []string{},
			Position: model.Position{X: 150, Y: 250},
		},
		{
			ID: "6", Name: "Diana Lee", Title: "Marketing Manager", Department: "Marketing",
			ReportsTo: "3", Children: []string{},
			Position: model.Position{X: 300, Y: 250},
		},
	}
}

// NewSeeded returns a tree built from SeedNodes.
func NewSeeded(opts ...Option) *Tree {
	t, err := New(SeedNodes(), opts...)
	if err != nil {
		panic("orgtree: seed chart is invalid: " + err.Error())
	}
	return t
}
