package scheduler_test

import (
	"io"
	"testing"
	"time"

	"diary-app/src/scheduler"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestBuildDailySpec(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "深夜0時", input: "00:00", want: "0 0 0 * * *"},
		{name: "通常", input: "23:59", want: "0 59 23 * * *"},
		{name: "時が範囲外", input: "24:00", wantErr: true},
		{name: "分が範囲外", input: "12:60", wantErr: true},
		{name: "形式不正", input: "1200", wantErr: true},
		{name: "数字以外", input: "ab:cd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scheduler.BuildDailySpec(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScheduler_ScheduleInterval(t *testing.T) {
	s := scheduler.NewScheduler(time.UTC, quietLogger())

	_, err := s.ScheduleInterval("zero", 0, func() {})
	assert.Error(t, err)

	fired := make(chan struct{}, 4)
	_, err = s.ScheduleInterval("tick", time.Second, func() { fired <- struct{}{} })
	require.NoError(t, err)
	_, err = s.ScheduleInterval("panics", time.Second, func() { panic("boom") })
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	s.Start()
	defer s.Stop()

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("ジョブが実行されませんでした")
	}
}

func TestScheduler_ScheduleDaily(t *testing.T) {
	s := scheduler.NewScheduler(time.UTC, quietLogger())

	_, err := s.ScheduleDaily("rotate", "00:00", func() {})
	require.NoError(t, err)
	_, err = s.ScheduleDaily("bad", "25:00", func() {})
	assert.Error(t, err)
	assert.Equal(t, 1, s.Len())
}
