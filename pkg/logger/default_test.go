package logger_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/pitchfx/internal/domain/feed"
	"github.com/okian/pitchfx/internal/domain/pitchfx"
	"github.com/okian/pitchfx/pkg/logger"
)

func TestDefaultWithoutInit(t *testing.T) {
	restore := logger.ResetGlobal()
	defer restore()

	l := logger.Default()
	if l == nil {
		t.Fatal("Default returned nil before Init")
	}
	l.Named("idle").With(logger.String("k", "v")).Warn(context.Background(), "discarded")
}

func TestConverterWithoutInit(t *testing.T) {
	restore := logger.ResetGlobal()
	defer restore()

	f := &feed.GameFeed{GamePk: 565432}
	f.GameData.Teams.Home.TeamCode = "bos"
	f.GameData.Teams.Away.TeamCode = "nya"

	c := pitchfx.NewConverter()
	res, err := c.Convert(context.Background(), f, time.Date(2019, time.April, 1, 0, 0, 0, 0, time.UTC), "BOS201904010")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if res.PitchCount != 0 {
		t.Errorf("unexpected pitch count: %d", res.PitchCount)
	}
}
