package weather

import (
	"context"
	"strconv"
	"testing"
	"time"
)

const parisCurrentJSON = `{
	"name": "Paris",
	"dt": 1700000000,
	"main": {"temp": 15.2, "feels_like": 14.0, "humidity": 72, "pressure": 1012},
	"wind": {"speed": 3.1, "deg": 200},
	"weather": [{"main": "Clear", "description": "clear sky"}]
}`

// startOfDay is 2023-11-14T00:00:00Z.
const startOfDay int64 = 1699920000

func mustDecodeCurrent(t *testing.T, s string) RawCurrentReading {
	t.Helper()
	raw, err := DecodeCurrent([]byte(s))
	if err != nil {
		t.Fatalf("decode current: %v", err)
	}
	return raw
}

func forecastPoint(dt int64, temp, humidity float64, cond string) RawForecastPoint {
	e := Epoch(strconv.FormatInt(dt, 10))
	feels := temp - 1
	wind := 2.5
	return RawForecastPoint{
		Dt:      &e,
		Main:    &RawMain{Temp: &temp, FeelsLike: &feels, Humidity: &humidity},
		Wind:    &RawWind{Speed: &wind},
		Weather: []RawCondition{{Main: &cond}},
	}
}

// fiveDayForecast returns 40 points, 3 hours apart, starting at midnight UTC.
func fiveDayForecast() RawForecast {
	points := make([]RawForecastPoint, 0, 40)
	for i := 0; i < 40; i++ {
		day := i / 8
		points = append(points, forecastPoint(startOfDay+int64(i)*3*3600, float64(10+day), 60, "Clouds"))
	}
	return RawForecast{City: &RawCity{Name: "Paris", Country: "FR"}, List: points}
}

type fakeSource struct {
	current      RawCurrentReading
	forecast     RawForecast
	currentErr   error
	forecastErr  error
	currentCalls int
	forecastCall int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchCurrent(ctx context.Context, loc Location) (RawCurrentReading, error) {
	f.currentCalls++
	return f.current, f.currentErr
}

func (f *fakeSource) FetchForecast(ctx context.Context, loc Location) (RawForecast, error) {
	f.forecastCall++
	return f.forecast, f.forecastErr
}

type mapCache struct {
	data map[string][]byte
	sets int
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (m *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapCache) Set(_ context.Context, key string, payload []byte, _ time.Duration) error {
	m.sets++
	m.data[key] = payload
	return nil
}
