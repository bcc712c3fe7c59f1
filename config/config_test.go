package config

import (
	"testing"
	"time"
)

func TestScheduleValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     ScheduleConfig
		wantErr bool
	}{
		{"defaults", ScheduleConfig{Morning: "08:00", Evening: "20:00", Timezone: "UTC"}, false},
		{"empty times allowed", ScheduleConfig{Timezone: "Europe/Moscow"}, false},
		{"bad time", ScheduleConfig{Morning: "8am", Timezone: "UTC"}, true},
		{"hour out of range", ScheduleConfig{Morning: "25:00", Timezone: "UTC"}, true},
		{"bad timezone", ScheduleConfig{Morning: "08:00", Timezone: "Mars/Olympus"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPostgresConnString(t *testing.T) {
	p := PostgresConfig{URL: "postgres://u:p@h:5432/db"}
	if got := p.ConnString(); got != "postgres://u:p@h:5432/db" {
		t.Fatalf("url passthrough broken: %s", got)
	}

	p = PostgresConfig{Host: "localhost", Port: "5432", User: "herald", Password: "x", DBName: "herald", Timeout: time.Second}
	want := "host=localhost port=5432 user=herald password=x dbname=herald sslmode=disable"
	if got := p.ConnString(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRedisAddrDefaults(t *testing.T) {
	var r RedisConfig
	if got := r.Addr(); got != "localhost:6379" {
		t.Fatalf("got %q", got)
	}
	r = RedisConfig{Host: "cache", Port: "6380"}
	if got := r.Addr(); got != "cache:6380" {
		t.Fatalf("got %q", got)
	}
}
