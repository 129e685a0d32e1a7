package bootstrap

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

type DebugSeverity uint32

const (
	SeverityVerbose DebugSeverity = 0x0001
	SeverityInfo    DebugSeverity = 0x0010
	SeverityWarning DebugSeverity = 0x0100
	SeverityError   DebugSeverity = 0x1000

	SeverityAll = SeverityVerbose | SeverityInfo | SeverityWarning | SeverityError
)

func (s DebugSeverity) String() string {
	var names []string
	if s&SeverityVerbose != 0 {
		names = append(names, "Verbose")
	}
	if s&SeverityInfo != 0 {
		names = append(names, "Info")
	}
	if s&SeverityWarning != 0 {
		names = append(names, "Warning")
	}
	if s&SeverityError != 0 {
		names = append(names, "Error")
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, "|")
}

type DebugMessageType uint32

const (
	TypeGeneral     DebugMessageType = 0x1
	TypeValidation  DebugMessageType = 0x2
	TypePerformance DebugMessageType = 0x4

	TypeAll = TypeGeneral | TypeValidation | TypePerformance
)

func (t DebugMessageType) String() string {
	var names []string
	if t&TypeGeneral != 0 {
		names = append(names, "General")
	}
	if t&TypeValidation != 0 {
		names = append(names, "Validation")
	}
	if t&TypePerformance != 0 {
		names = append(names, "Performance")
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, "|")
}

type DebugMessage struct {
	Severity DebugSeverity
	Types    DebugMessageType
	Text     string
}

// DebugCallback runs synchronously inside whatever driver call produced the
// message. The returned value is handed back to the driver, which never aborts
// the call because of it.
type DebugCallback func(msg DebugMessage) bool

type DebugMessengerCreateInfo struct {
	Severities DebugSeverity
	Types      DebugMessageType
	Callback   DebugCallback
}

// DiagnosticsSink receives validation-layer messages and forwards the ones that
// pass Filter to Handler, or to the log when no handler is set.
type DiagnosticsSink struct {
	Severities DebugSeverity
	Types      DebugMessageType
	Filter     DebugSeverity
	Handler    func(msg DebugMessage)

	Objects *Objects
	Log     logrus.FieldLogger
}

func NewDiagnosticsSink(objects *Objects, filter DebugSeverity, log logrus.FieldLogger) *DiagnosticsSink {
	return &DiagnosticsSink{
		Severities: SeverityVerbose | SeverityWarning | SeverityError,
		Types:      TypeAll,
		Filter:     filter,
		Objects:    objects,
		Log:        loggerOr(log),
	}
}

func (s *DiagnosticsSink) CreateInfo() DebugMessengerCreateInfo {
	return DebugMessengerCreateInfo{
		Severities: s.Severities,
		Types:      s.Types,
		Callback:   s.receive,
	}
}

func (s *DiagnosticsSink) receive(msg DebugMessage) bool {
	if msg.Severity&s.Filter == 0 {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			loggerOr(s.Log).WithField("panic", r).Error("diagnostics handler panicked")
		}
	}()

	if s.Handler != nil {
		s.Handler(msg)
		return false
	}

	entry := loggerOr(s.Log).WithField("type", msg.Types.String())
	switch {
	case msg.Severity&SeverityError != 0:
		entry.Error(msg.Text)
	case msg.Severity&SeverityWarning != 0:
		entry.Warn(msg.Text)
	case msg.Severity&SeverityInfo != 0:
		entry.Info(msg.Text)
	default:
		entry.Debug(msg.Text)
	}
	return false
}

type DiagnosticsHandle struct {
	messenger DebugMessenger
	obj       *Object
	objects   *Objects
}

func (h *DiagnosticsHandle) Object() *Object { return h.obj }

func (h *DiagnosticsHandle) Destroy() error {
	return h.objects.Release(h.obj)
}

// Attach registers the sink on an instance that was built with diagnostics enabled.
func (s *DiagnosticsSink) Attach(instance *InstanceHandle) (*DiagnosticsHandle, error) {
	if err := requireLive("attach diagnostics", instance.obj); err != nil {
		return nil, err
	}
	if !instance.DiagnosticsEnabled() {
		return nil, unsupported(CapabilityInstanceExtension, DebugUtilsExtension)
	}

	messenger, err := instance.instance.CreateDebugMessenger(s.CreateInfo())
	if err != nil {
		return nil, errors.Wrap(err, "create debug messenger")
	}

	obj, err := s.Objects.Track(KindDiagnostics, "", messenger.Destroy, instance.obj)
	if err != nil {
		messenger.Destroy()
		return nil, err
	}

	loggerOr(s.Log).WithFields(logrus.Fields{
		"severities": s.Severities.String(),
		"filter":     s.Filter.String(),
	}).Debug("diagnostics attached")

	return &DiagnosticsHandle{messenger: messenger, obj: obj, objects: s.Objects}, nil
}
