package tui

type state int

const (
	urlState state = iota
	loadingState
	formatsState
	videoState
	audioState
	actionState
	scheduleState
	jobsState
	confirmState
	errorState
)
