package pipeline

import (
	"sort"
	"strings"

	"github.com/theirongolddev/orgchart/internal/model"
)

// AggregateDepartments computes per-department headcount rollups, sorted by
// headcount (largest first) then name.
func AggregateDepartments(nodes []model.Node) []model.DepartmentStats {
	deptMap := make(map[string]*model.DepartmentStats)

	for _, n := range nodes {
		ds, ok := deptMap[n.Department]
		if !ok {
			ds = &model.DepartmentStats{Department: n.Department}
			deptMap[n.Department] = ds
		}
		ds.Headcount++
		if n.IsAdmin {
			ds.Admins++
		}
		if len(n.Children) > 0 {
			ds.Managers++
		}
	}

	depts := make([]model.DepartmentStats, 0, len(deptMap))
	for _, ds := range deptMap {
		if len(nodes) > 0 {
			ds.SharePercent = float64(ds.Headcount) / float64(len(nodes)) * 100
		}
		depts = append(depts, *ds)
	}
	sort.Slice(depts, func(i, j int) bool {
		if depts[i].Headcount != depts[j].Headcount {
			return depts[i].Headcount > depts[j].Headcount
		}
		return depts[i].Department < depts[j].Department
	})

	return depts
}

// FilterByDepartment returns nodes whose department contains the substring
// (case-insensitive), keeping their order.
func FilterByDepartment(nodes []model.Node, department string) []model.Node {
	var result []model.Node
	for _, n := range nodes {
		if containsIgnoreCase(n.Department, department) {
			result = append(result, n)
		}
	}
	return result
}

// SpanOfControl returns the number of direct reports per manager id.
func SpanOfControl(nodes []model.Node) map[string]int {
	spans := make(map[string]int)
	for _, n := range nodes {
		if len(n.Children) > 0 {
			spans[n.ID] = len(n.Children)
		}
	}
	return spans
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
