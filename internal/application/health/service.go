package health

import (
	"context"
	"strconv"
	"time"

	"unimarket-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// DBPinger is optional for the health check. If nil, the database is
// reported as disconnected.
type DBPinger interface {
	Ping() error
}

// Result is the /health/json payload.
type Result struct {
	Status        string               `json:"status"`
	UptimeSeconds int64                `json:"uptimeSeconds"`
	Traffic       Traffic              `json:"traffic"`
	Dependencies  map[string]DepStatus `json:"dependencies"`
}

type Traffic struct {
	TotalRequests int    `json:"totalRequests"`
	FailedCount   int    `json:"failedCount"`
	AvgResponseMs string `json:"avgResponseMs"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs int64  `json:"pingMs"`
}

// Collect gathers health data from Redis counters and an optional DB ping.
func Collect(ctx context.Context, rdb *redis.Client, db DBPinger, startedAt time.Time) Result {
	res := Result{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(startedAt).Seconds()),
		Dependencies:  map[string]DepStatus{},
	}

	if rdb != nil {
		t := time.Now()
		if err := rdb.Ping(ctx).Err(); err != nil {
			res.Dependencies["redis"] = DepStatus{Status: "disconnected"}
			res.Status = "degraded"
		} else {
			res.Dependencies["redis"] = DepStatus{Status: "connected", PingMs: time.Since(t).Milliseconds()}
			total, _ := strconv.Atoi(rdb.Get(ctx, middleware.KeyReqTotal).Val())
			failed, _ := strconv.Atoi(rdb.Get(ctx, middleware.KeyReqErrors).Val())
			resTime, _ := strconv.ParseInt(rdb.Get(ctx, middleware.KeyResTime).Val(), 10, 64)
			resCount, _ := strconv.ParseInt(rdb.Get(ctx, middleware.KeyResCount).Val(), 10, 64)
			avg := "n/a"
			if resCount > 0 {
				avg = strconv.FormatInt(resTime/resCount, 10) + "ms"
			}
			res.Traffic = Traffic{TotalRequests: total, FailedCount: failed, AvgResponseMs: avg}
		}
	} else {
		res.Dependencies["redis"] = DepStatus{Status: "disconnected"}
		res.Status = "degraded"
	}

	if db == nil {
		res.Dependencies["database"] = DepStatus{Status: "disconnected"}
		res.Status = "degraded"
	} else {
		t := time.Now()
		if err := db.Ping(); err != nil {
			res.Dependencies["database"] = DepStatus{Status: "disconnected"}
			res.Status = "degraded"
		} else {
			res.Dependencies["database"] = DepStatus{Status: "connected", PingMs: time.Since(t).Milliseconds()}
		}
	}

	return res
}
