package grbl

import (
	"fmt"
	"strconv"
	"strings"
)

// Message is a single line received from Grbl.
type Message interface {
	String() string
}

// MessageWelcome is the banner Grbl prints after reset.
type MessageWelcome struct {
	Version string
}

func (m *MessageWelcome) String() string {
	return fmt.Sprintf("Grbl %s", m.Version)
}

// MessageResponse terminates a command: "ok" or "error:N".
type MessageResponse struct {
	// Err is nil for "ok".
	Err error
}

func (m *MessageResponse) String() string {
	if m.Err == nil {
		return "ok"
	}
	return m.Err.Error()
}

// Error code meanings per the Grbl v1.1 interface documentation, reduced to the codes a motion /
// probe stream can hit.
var errorCodeMessages = map[int]string{
	1:  "G-code words consist of a letter and a value. Letter was not found.",
	2:  "Numeric value format is not valid or missing an expected value.",
	3:  "Grbl '$' system command was not recognized or supported.",
	9:  "G-code locked out during alarm or jog state.",
	15: "Jog target exceeds machine travel.",
	17: "Laser mode requires PWM output.",
	20: "Unsupported or invalid g-code command found in block.",
	22: "Feed rate has not yet been set or is undefined.",
	24: "Two G-code commands that both require the use of the XYZ axis words were detected in the block.",
}

type ResponseError struct {
	Code int
}

func (e *ResponseError) Error() string {
	if message, ok := errorCodeMessages[e.Code]; ok {
		return fmt.Sprintf("error:%d: %s", e.Code, message)
	}
	return fmt.Sprintf("error:%d", e.Code)
}

// MessageAlarm is an "ALARM:N" push message. Alarms 4 and 5 are the probe failures.
type MessageAlarm struct {
	Code int
}

var alarmCodeMessages = map[int]string{
	1: "Hard limit triggered.",
	2: "G-code motion target exceeds machine travel.",
	3: "Reset while in motion.",
	4: "Probe fail. The probe is not in the expected initial state before starting probe cycle.",
	5: "Probe fail. Probe did not contact the workpiece within the programmed travel.",
	6: "Homing fail. Reset during active homing cycle.",
	9: "Homing fail. Could not find limit switch within search distance.",
}

func (m *MessageAlarm) String() string {
	if message, ok := alarmCodeMessages[m.Code]; ok {
		return fmt.Sprintf("ALARM:%d: %s", m.Code, message)
	}
	return fmt.Sprintf("ALARM:%d", m.Code)
}

// MessageProbe is a "[PRB:x,y,z:success]" report, pushed after a G38.x probe cycle.
type MessageProbe struct {
	Coordinates Coordinates
	Successful  bool
}

func (m *MessageProbe) String() string {
	success := "0"
	if m.Successful {
		success = "1"
	}
	return fmt.Sprintf(
		"[PRB:%.3f,%.3f,%.3f:%s]",
		m.Coordinates.X, m.Coordinates.Y, m.Coordinates.Z, success,
	)
}

func newMessageProbe(line string) (*MessageProbe, error) {
	content := line[len("[PRB:") : len(line)-1]

	lastColonIdx := strings.LastIndex(content, ":")
	if lastColonIdx == -1 {
		return nil, fmt.Errorf("probe message missing success flag: %#v", line)
	}

	coordinates, err := NewCoordinatesFromCSV(content[:lastColonIdx])
	if err != nil {
		return nil, fmt.Errorf("probe message coordinates invalid: %#v: %w", line, err)
	}

	successStr := content[lastColonIdx+1:]
	if successStr != "0" && successStr != "1" {
		return nil, fmt.Errorf("probe message success flag invalid: %#v", line)
	}

	return &MessageProbe{
		Coordinates: *coordinates,
		Successful:  successStr == "1",
	}, nil
}

// MessageStatus is a "<...>" real time status report. Only the raw content is kept: probing does
// not need the fields.
type MessageStatus struct {
	Raw string
}

func (m *MessageStatus) String() string {
	return m.Raw
}

// MessageFeedback is any other "[...]" push message, eg "[MSG:...]".
type MessageFeedback struct {
	Raw string
}

func (m *MessageFeedback) String() string {
	return m.Raw
}

// NewMessage parses a single line received from Grbl.
func NewMessage(line string) (Message, error) {
	switch {
	case line == "ok":
		return &MessageResponse{}, nil
	case strings.HasPrefix(line, "error:"):
		code, err := strconv.Atoi(line[len("error:"):])
		if err != nil {
			return nil, fmt.Errorf("error message malformed: %#v", line)
		}
		return &MessageResponse{Err: &ResponseError{Code: code}}, nil
	case strings.HasPrefix(line, "ALARM:"):
		code, err := strconv.Atoi(line[len("ALARM:"):])
		if err != nil {
			return nil, fmt.Errorf("alarm message malformed: %#v", line)
		}
		return &MessageAlarm{Code: code}, nil
	case strings.HasPrefix(line, "Grbl "):
		return &MessageWelcome{Version: strings.TrimPrefix(line, "Grbl ")}, nil
	case strings.HasPrefix(line, "[PRB:") && strings.HasSuffix(line, "]"):
		return newMessageProbe(line)
	case strings.HasPrefix(line, "<") && strings.HasSuffix(line, ">"):
		return &MessageStatus{Raw: line}, nil
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return &MessageFeedback{Raw: line}, nil
	}
	return nil, fmt.Errorf("unexpected message: %#v", line)
}
