package common

import (
	"sync"

	"go.opentelemetry.io/otel/metric"

	"github.com/hunt-ops/hunt-manager/global"
)

var (
	huntsUDCounter     metric.Int64UpDownCounter
	huntsUDCounterOnce sync.Once

	teamsUDCounter     metric.Int64UpDownCounter
	teamsUDCounterOnce sync.Once

	submissionsUDCounter     metric.Int64UpDownCounter
	submissionsUDCounterOnce sync.Once
)

func HuntsUDCounter() metric.Int64UpDownCounter {
	huntsUDCounterOnce.Do(func() {
		cnt, err := global.Meter.Int64UpDownCounter("started_hunts",
			metric.WithDescription("The number of live started hunts"),
		)
		if err != nil {
			panic(err)
		}
		huntsUDCounter = cnt
	})
	return huntsUDCounter
}

func TeamsUDCounter() metric.Int64UpDownCounter {
	teamsUDCounterOnce.Do(func() {
		cnt, err := global.Meter.Int64UpDownCounter("teams",
			metric.WithDescription("The number of registered teams"),
		)
		if err != nil {
			panic(err)
		}
		teamsUDCounter = cnt
	})
	return teamsUDCounter
}

func SubmissionsUDCounter() metric.Int64UpDownCounter {
	submissionsUDCounterOnce.Do(func() {
		cnt, err := global.Meter.Int64UpDownCounter("submissions",
			metric.WithDescription("The number of stored submissions"),
		)
		if err != nil {
			panic(err)
		}
		submissionsUDCounter = cnt
	})
	return submissionsUDCounter
}
