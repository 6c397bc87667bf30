package weather

import "time"

// GroupByDay buckets readings by the calendar date of their (already decoded)
// timestamp and averages each bucket. Days appear in order of their first reading,
// which is chronological for a forecast sequence.
// The most frequent condition wins; ties go to the condition seen first.
func GroupByDay(readings []NormalizedReading) []DailyAggregate {
	type bucket struct {
		day        time.Time
		location   string
		readings   []NormalizedReading
		condOrder  []string
		condCounts map[string]int
	}

	var (
		order   []string
		buckets = make(map[string]*bucket)
	)

	for _, r := range readings {
		ts := r.Timestamp
		k := ts.Format("2006-01-02")

		b, ok := buckets[k]
		if !ok {
			b = &bucket{
				day:        time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location()),
				location:   r.Location,
				condCounts: make(map[string]int),
			}
			buckets[k] = b
			order = append(order, k)
		}

		b.readings = append(b.readings, r)
		if b.condCounts[r.Condition] == 0 {
			b.condOrder = append(b.condOrder, r.Condition)
		}
		b.condCounts[r.Condition]++
	}

	days := make([]DailyAggregate, 0, len(order))
	for _, k := range order {
		b := buckets[k]
		agg := aggregateDay(b.location, b.day, b.readings)

		bestCount := 0
		for _, cond := range b.condOrder {
			if c := b.condCounts[cond]; c > bestCount {
				bestCount = c
				agg.Condition = cond
			}
		}

		days = append(days, agg)
	}
	return days
}

// aggregateDay averages the numeric fields of one non-empty day bucket.
func aggregateDay(location string, day time.Time, readings []NormalizedReading) DailyAggregate {
	var (
		sumTemp      float64
		sumFeelsLike float64
		sumHumidity  float64
		sumWind      float64
	)

	minTemp := readings[0].Temperature
	maxTemp := readings[0].Temperature

	for _, r := range readings {
		sumTemp += r.Temperature
		sumFeelsLike += r.FeelsLike
		sumHumidity += float64(r.Humidity)
		sumWind += r.WindSpeed

		if r.Temperature < minTemp {
			minTemp = r.Temperature
		}
		if r.Temperature > maxTemp {
			maxTemp = r.Temperature
		}
	}

	n := float64(len(readings))

	return DailyAggregate{
		Location:       location,
		Date:           day,
		Points:         len(readings),
		AvgTemperature: sumTemp / n,
		MinTemperature: minTemp,
		MaxTemperature: maxTemp,
		AvgFeelsLike:   sumFeelsLike / n,
		AvgHumidity:    sumHumidity / n,
		AvgWindSpeed:   sumWind / n,
	}
}
