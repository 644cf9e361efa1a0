package sequence

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Step is one timed switch command within a sequence. Switch carries the
// 1-based switch number as written in the document; DelayMS is the pause
// after the command is sent, before the next step runs.
type Step struct {
	Switch   int  `json:"switch"`
	Position bool `json:"position"`
	DelayMS  int  `json:"delay_ms"`
}

// Channel returns the zero-based relay channel for the step's switch.
func (s Step) Channel() int {
	return s.Switch - 1
}

// xmlSequence mirrors the <Sequence> document root.
type xmlSequence struct {
	XMLName xml.Name  `xml:"Sequence"`
	Steps   []xmlStep `xml:"Step"`
}

// xmlStep mirrors one <Step>. Each field may appear as an attribute or as a
// child element; the attribute wins when both are present.
type xmlStep struct {
	SwitchAttr   string `xml:"switch,attr"`
	PositionAttr string `xml:"position,attr"`
	DelayAttr    string `xml:"delay,attr"`
	SwitchText   string `xml:"switch,omitempty"`
	PositionText string `xml:"position,omitempty"`
	DelayText    string `xml:"delay,omitempty"`
}

// attrOrText prefers the attribute form of a step field over the child
// element form.
func attrOrText(attr, text string) string {
	if strings.TrimSpace(attr) != "" {
		return attr
	}
	return text
}

// parseBool interprets the accepted boolean spellings used by the sequence
// editors: 1/true/t/yes/y/on, case-insensitive. Anything else is false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// Parse reads a <Sequence> document tolerantly. Malformed switch or delay
// values fall back to 0, malformed positions to false; a negative delay is
// clamped to 0. Returns ErrInvalidDocument if the document is malformed or
// its root is not <Sequence>.
func Parse(data []byte) ([]Step, error) {
	var doc xmlSequence
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	steps := make([]Step, 0, len(doc.Steps))
	for _, el := range doc.Steps {
		var step Step
		if n, err := strconv.Atoi(strings.TrimSpace(attrOrText(el.SwitchAttr, el.SwitchText))); err == nil {
			step.Switch = n
		}
		step.Position = parseBool(attrOrText(el.PositionAttr, el.PositionText))
		if d, err := strconv.Atoi(strings.TrimSpace(attrOrText(el.DelayAttr, el.DelayText))); err == nil && d > 0 {
			step.DelayMS = d
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// Marshal serialises steps as a <Sequence> document in the canonical
// attribute form.
func Marshal(steps []Step) ([]byte, error) {
	doc := xmlSequence{}
	for _, s := range steps {
		doc.Steps = append(doc.Steps, xmlStep{
			SwitchAttr:   strconv.Itoa(s.Switch),
			PositionAttr: strconv.FormatBool(s.Position),
			DelayAttr:    strconv.Itoa(s.DelayMS),
		})
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sequence document: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
