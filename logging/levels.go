package logging

import "log/slog"

const (
	// Level Debug -4
	// LevelRemoteIO traces individual calendar and timetable calls
	LevelRemoteIO slog.Level = -2
	// Level Info 0
	// Level Warn 4
	// Level Error 8
)
