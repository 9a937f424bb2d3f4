package form

import "github.com/bytespark/pdfdeck/internal/logger"

// Level is the severity of a Notice.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "success"
}

// Notice is a short user-facing message emitted after an operation.
type Notice struct {
	Level   Level
	Message string
}

// Messages shown to the user.
const (
	MsgSlideAdded        = "New slide added!"
	MsgSlideRemoved      = "Slide removed!"
	MsgLastSlide         = "You need at least one slide!"
	MsgCenterImageUpload = "Center image uploaded!"
	MsgCompanyLogoUpload = "Company logo uploaded!"
	MsgCenterImageFailed = "Could not read center image"
	MsgCompanyLogoFailed = "Could not read company logo"
	MsgContentGenerated  = "Content generated!"
	MsgGenerationFailed  = "Failed to generate content. Please try again."
)

func success(msg string) Notice { return Notice{Level: LevelSuccess, Message: msg} }
func failure(msg string) Notice { return Notice{Level: LevelError, Message: msg} }

// Notifier receives notices. Notify runs on the goroutine that submitted the
// operation, after the new snapshot is in place, so it may call back into
// the Controller. Notices of concurrent operations can arrive in any order.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// LogNotifier writes notices to a logger. It is the default Notifier.
type LogNotifier struct {
	Log *logger.Logger
}

func (n LogNotifier) Notify(notice Notice) {
	if n.Log == nil {
		return
	}
	if notice.Level == LevelError {
		n.Log.Warn(notice.Message, "notice", notice.Level.String())
		return
	}
	n.Log.Info(notice.Message, "notice", notice.Level.String())
}
