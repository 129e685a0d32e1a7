package bootstrap

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestDiagnosticsFilter(t *testing.T) {
	var received []DebugMessage
	sink := NewDiagnosticsSink(NewObjects(quietLogger()), SeverityWarning|SeverityError, quietLogger())
	sink.Handler = func(msg DebugMessage) { received = append(received, msg) }

	callback := sink.CreateInfo().Callback
	messages := []DebugMessage{
		{Severity: SeverityVerbose, Types: TypeGeneral, Text: "loaded layer"},
		{Severity: SeverityWarning, Types: TypeValidation, Text: "image layout mismatch"},
		{Severity: SeverityInfo, Types: TypeGeneral, Text: "device lost? no"},
		{Severity: SeverityError, Types: TypeValidation, Text: "vkDestroyInstance: live objects"},
	}
	for _, msg := range messages {
		if callback(msg) {
			t.Errorf("callback asked the driver to abort for %q", msg.Text)
		}
	}

	if len(received) != 2 {
		t.Fatalf("expected 2 messages through the filter, got %d", len(received))
	}
	if received[0].Text != "image layout mismatch" || received[1].Severity != SeverityError {
		t.Errorf("unexpected messages %+v", received)
	}
}

func TestDiagnosticsLogLevels(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	sink := NewDiagnosticsSink(NewObjects(quietLogger()), SeverityAll, log)
	callback := sink.CreateInfo().Callback

	tests := []struct {
		severity DebugSeverity
		level    logrus.Level
	}{
		{SeverityError, logrus.ErrorLevel},
		{SeverityWarning, logrus.WarnLevel},
		{SeverityInfo, logrus.InfoLevel},
		{SeverityVerbose, logrus.DebugLevel},
	}
	for _, tt := range tests {
		hook.Reset()
		callback(DebugMessage{Severity: tt.severity, Types: TypeValidation, Text: "message"})

		entry := hook.LastEntry()
		if entry == nil {
			t.Fatalf("%s: nothing logged", tt.severity)
		}
		if entry.Level != tt.level {
			t.Errorf("%s: expected level %s, got %s", tt.severity, tt.level, entry.Level)
		}
		if entry.Data["type"] != "Validation" {
			t.Errorf("%s: unexpected type field %v", tt.severity, entry.Data["type"])
		}
	}
}

func TestDiagnosticsHandlerPanicIsContained(t *testing.T) {
	log, hook := test.NewNullLogger()
	sink := NewDiagnosticsSink(NewObjects(quietLogger()), SeverityAll, log)
	sink.Handler = func(DebugMessage) { panic("handler bug") }

	if sink.CreateInfo().Callback(DebugMessage{Severity: SeverityError, Text: "boom"}) {
		t.Error("callback returned true")
	}
	if entry := hook.LastEntry(); entry == nil || entry.Level != logrus.ErrorLevel {
		t.Error("panic was not logged")
	}
}

func TestAttachRequiresDiagnosticsInstance(t *testing.T) {
	host := newFakeHost()
	instance, objects, err := buildInstance(host, false)
	if err != nil {
		t.Fatal(err)
	}

	sink := NewDiagnosticsSink(objects, SeverityWarning|SeverityError, quietLogger())
	_, err = sink.Attach(instance)
	if !errors.Is(err, ErrUnsupportedCapability) {
		t.Errorf("expected ErrUnsupportedCapability, got %v", err)
	}
}

func TestAttachTracksMessengerUnderInstance(t *testing.T) {
	host := newFakeHost()
	instance, objects, err := buildInstance(host, true)
	if err != nil {
		t.Fatal(err)
	}

	sink := NewDiagnosticsSink(objects, SeverityWarning|SeverityError, quietLogger())
	handle, err := sink.Attach(instance)
	if err != nil {
		t.Fatal(err)
	}

	info := host.loader.instance.messengerInfo
	if info == nil {
		t.Fatal("messenger not created")
	}
	if info.Severities != SeverityVerbose|SeverityWarning|SeverityError || info.Types != TypeAll {
		t.Errorf("unexpected registration %s / %s", info.Severities, info.Types)
	}

	if err := instance.Destroy(); !errors.Is(err, ErrDependencyInUse) {
		t.Errorf("instance released under a live messenger: %v", err)
	}

	host.rec.reset()
	objects.ReleaseAll()
	if len(host.rec.events) != 2 || host.rec.events[0] != "destroy diagnostics" || host.rec.events[1] != "destroy instance" {
		t.Errorf("unexpected teardown %v", host.rec.events)
	}
	if !handle.Object().Released() {
		t.Error("messenger not released")
	}
}

func TestSeverityString(t *testing.T) {
	if s := (SeverityWarning | SeverityError).String(); s != "Warning|Error" {
		t.Errorf("unexpected %q", s)
	}
	if s := DebugSeverity(0).String(); s != "None" {
		t.Errorf("unexpected %q", s)
	}
	if s := TypeAll.String(); s != "General|Validation|Performance" {
		t.Errorf("unexpected %q", s)
	}
}
