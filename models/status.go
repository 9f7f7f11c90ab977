package models

// Shapes below mirror the upstream backend's status payloads. Field names
// must stay in upstream form (snake_case, nullable timestamps as strings)
// because fallback payloads and passthrough responses share them.

// AIServiceState describes the upstream AI data service.
type AIServiceState struct {
	IsInitialized       bool    `json:"is_initialized"`
	HasAPIKey           bool    `json:"has_api_key"`
	LastFetch           *string `json:"last_fetch"`
	LastDailyUpdate     *string `json:"last_daily_update"`
	DailyUpdatesRunning bool    `json:"daily_updates_running"`
	Service             string  `json:"service"`
}

// RealtimeServiceState describes the upstream realtime fetch service.
type RealtimeServiceState struct {
	IsRunning bool     `json:"is_running"`
	LastFetch *string  `json:"last_fetch"`
	Sources   []string `json:"sources"`
}

// SchedulerState summarizes the upstream task scheduler.
type SchedulerState struct {
	IsRunning     bool `json:"is_running"`
	ActiveTasks   int  `json:"active_tasks"`
	TotalTasks    int  `json:"total_tasks"`
	ScheduledJobs int  `json:"scheduled_jobs"`
}

// TaskState is one scheduled task's bookkeeping. Status is one of
// pending, running, completed, failed.
type TaskState struct {
	Interval int64   `json:"interval"`
	NextRun  float64 `json:"next_run"`
	LastRun  *string `json:"last_run"`
	Status   string  `json:"status"`
}

// Upstream task names and their intervals in seconds.
const (
	TaskPeriodicFetch = "periodic_fetch"
	TaskMarketUpdate  = "market_update"
	TaskDailyFetch    = "daily_fetch"
	TaskWeeklyCleanup = "weekly_cleanup"

	TaskPeriodicFetchInterval = 7200
	TaskMarketUpdateInterval  = 1800
	TaskDailyFetchInterval    = 3600
	TaskWeeklyCleanupInterval = 86400
)
