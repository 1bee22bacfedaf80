package dashboard

// StatsResponse is the public shape of the dashboard summary.
type StatsResponse struct {
	Date               string `json:"date"`
	TodayOrders        int64  `json:"today_orders"`
	MonthlyCustomers   int64  `json:"monthly_customers"`
	ShopCustomers      int64  `json:"shop_customers"`
	CansDeliveredToday int64  `json:"cans_delivered_today"`
	CansCollectedToday int64  `json:"cans_collected_today"`
	PendingCans        int64  `json:"pending_cans"`
}

// NewStatsResponse maps the summary to its response shape.
func NewStatsResponse(stats *Stats) StatsResponse {
	return StatsResponse{
		Date:               stats.Date.Format("2006-01-02"),
		TodayOrders:        stats.TodayOrders,
		MonthlyCustomers:   stats.MonthlyCustomers,
		ShopCustomers:      stats.ShopCustomers,
		CansDeliveredToday: stats.CansDeliveredToday,
		CansCollectedToday: stats.CansCollectedToday,
		PendingCans:        stats.PendingCans,
	}
}
