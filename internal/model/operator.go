package model

// Operator is the person driving the chart. Authentication is mocked: the
// identity comes from config or flags and is trusted as given.
type Operator struct {
	Name    string
	IsAdmin bool
}

// String returns the operator name with a role suffix for display.
func (o Operator) String() string {
	name := o.Name
	if name == "" {
		name = "anonymous"
	}
	if o.IsAdmin {
		return name + " (admin)"
	}
	return name
}
