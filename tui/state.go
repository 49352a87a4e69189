package tui

type state int

const (
	loadingState state = iota
	errorState
	historyState
	browseState
	watchState
	pipState
)
