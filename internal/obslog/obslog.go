// Package obslog is the scheduler's structured logging facade. It wraps a
// single *logrus.Logger with the handful of call sites the tick loop and
// transport layer need, playing the role the original C source gave its
// DBG() macro — except this one is controlled by a runtime level instead
// of a compile-time NDEBUG define.
package obslog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is a thin, pre-fielded logrus.Logger.
type Logger struct {
	*logrus.Logger
}

// New builds a Logger writing to stderr with the given level name
// ("debug", "info", "warn", "error"). An unrecognized level falls back to
// info, matching Cobra/logrus convention of failing soft on cosmetic
// flags.
func New(level string) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	return &Logger{Logger: l}
}

// ClientConnected logs a newly accepted client, replacing the C DBG line
// "[Scheduler] New client connected: fd=%d".
func (l *Logger) ClientConnected(pid int32, fd int) {
	l.WithFields(logrus.Fields{"pid": pid, "fd": fd}).Debug("client connected")
}

// ClientDisconnected logs a departed client (EOF or fatal read/write
// error) being reclaimed from whichever queue held it.
func (l *Logger) ClientDisconnected(pid int32, fd int, cause error) {
	l.WithFields(logrus.Fields{"pid": pid, "fd": fd, "cause": cause}).Info("client disconnected")
}

// ProtocolError logs an unexpected opcode or malformed frame, per spec.md
// §7's "Unknown request opcode: ignore frame, keep PCB; log".
func (l *Logger) ProtocolError(pid int32, fd int, detail string) {
	l.WithFields(logrus.Fields{"pid": pid, "fd": fd}).Warn("protocol error: " + detail)
}

// AcceptDrainStopped logs EMFILE/ENFILE during accept, per spec.md §7.
func (l *Logger) AcceptDrainStopped(err error) {
	l.WithError(err).Error("accept drain stopped: too many open files")
}

// Heartbeat logs the one-line-per-second tick heartbeat from spec.md §4.D
// step 3.
func (l *Logger) Heartbeat(seconds uint32) {
	l.WithField("seconds", seconds).Info("tick heartbeat")
}

// PolicyNotFound logs a fatal unknown-policy-name error before process
// exit, per spec.md §7.
func (l *Logger) PolicyNotFound(name string, known []string) {
	l.WithFields(logrus.Fields{"policy": name, "known": known}).Error("unknown scheduling policy")
}
