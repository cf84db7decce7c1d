package cli

import "robocup-tournament/logger"

// newLogger creates the console logger every command writes its progress to
func newLogger(level string) (logger.Logger, error) {
	return logger.New(logger.Config{Level: level, Console: true})
}
