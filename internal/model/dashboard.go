package model

// DashboardStats is the admin dashboard aggregate, recomputed per request
type DashboardStats struct {
	Users             UserCounts     `json:"users"`
	AvailableByType   []TypeQuantity `json:"available_by_type"`
	Donations         StatusCounts   `json:"donations"`
	Appointments      StatusCounts   `json:"appointments"`
	Requests          StatusCounts   `json:"requests"`
	AppointmentsToday int            `json:"appointments_today"`
}
