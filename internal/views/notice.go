package views

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is the transient message a page shows after an action.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func Success(msg string) Notice { return Notice{Level: LevelSuccess, Message: msg} }
func Error(msg string) Notice   { return Notice{Level: LevelError, Message: msg} }
func Info(msg string) Notice    { return Notice{Level: LevelInfo, Message: msg} }
