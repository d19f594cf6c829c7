package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Domain field helpers

func Component(name string) Field {
	return String("component", name)
}

// Date is the snapshot date key
func Date(date string) Field {
	return String("date", date)
}

func PrevDate(date string) Field {
	return String("prev_date", date)
}

// Community is a community ID within a snapshot
func Community(id string) Field {
	return String("community", id)
}

func PrevCommunity(id string) Field {
	return String("prev_community", id)
}

func RunID(id string) Field {
	return String("run_id", id)
}

func Similarity(v float64) Field {
	return Float64("similarity", v)
}

func Universe(n int) Field {
	return Int("universe", n)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}

func Threshold(v float64) Field {
	return Float64("threshold", v)
}
