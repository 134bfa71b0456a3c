package engine

import "errors"

// Store is the persistence the engine needs at run boundaries.
// Calls are infrequent; failures are logged and ignored.
type Store interface {
	BestScore(mapID string) (int, error)
	SetBestScore(mapID string, score int) error
	Setting(key string) (string, bool, error)
	SetSetting(key, value string) error
}

// RunRecorder is optionally implemented by a Store to keep run history.
type RunRecorder interface {
	SaveRun(run RunSummary) error
}

// RunSummary describes a finished run.
type RunSummary struct {
	MapID  string
	Score  int
	Round  int
	Level  int
	Kills  int
	Frames uint64
}

// Setting keys shared by the engine and its collaborators.
const (
	SettingLastMap    = "last_map"
	SettingDifficulty = "difficulty"
	SettingBell       = "bell"
)

var (
	// ErrUnknownMap is returned by StartGame for a map id not in the config.
	ErrUnknownMap = errors.New("engine: unknown map")
	// ErrMapLocked is returned by StartGame for a locked map.
	ErrMapLocked = errors.New("engine: map is locked")
	// ErrNotRunning is returned by operations that need an active run.
	ErrNotRunning = errors.New("engine: no run in progress")
)
