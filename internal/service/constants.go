package service

const (
	// Unit conversions
	MetersPerKilometer = 1000.0

	// Time windows
	ChartWeeks       = 12
	FitnessTrendDays = 90

	// Pagination limits
	RecentActivitiesLimit     = 10
	HistoricalActivitiesLimit = 200
	FTPHistoryLimit           = 50

	// Seconds per minute for chart bucketing
	SecondsPerMinute = 60
)