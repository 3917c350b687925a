package model

// DepartmentStats holds the rollup of one department across the chart.
type DepartmentStats struct {
	Department   string  `json:"department"`
	Headcount    int     `json:"headcount"`
	Admins       int     `json:"admins"`
	Managers     int     `json:"managers"`
	SharePercent float64 `json:"share_percent"`
}
