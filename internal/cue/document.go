package cue

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// File permissions for saved cue documents.
const documentPermissions = 0600

// xmlCues mirrors the <Cues> document root.
type xmlCues struct {
	XMLName xml.Name `xml:"Cues"`
	Cues    []xmlCue `xml:"Cue"`
}

// xmlCue mirrors one <Cue> element. Switch states are child elements named
// Switch1..Switch8, captured generically so missing switches default cleanly.
type xmlCue struct {
	Name     string       `xml:"name,attr"`
	Order    string       `xml:"order,attr"`
	Sequence string       `xml:"sequence,attr"`
	Delay    string       `xml:"delay,attr"`
	Children []xmlElement `xml:",any"`
}

// xmlElement captures an arbitrary child element and its text content.
type xmlElement struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

// switchIndex extracts the zero-based switch slot from an element name like
// "Switch3". Returns -1 for anything else.
func switchIndex(name string) int {
	const prefix = "Switch"
	if !strings.HasPrefix(name, prefix) {
		return -1
	}
	n, err := strconv.Atoi(name[len(prefix):])
	if err != nil || n < 1 || n > NumSwitches {
		return -1
	}
	return n - 1
}

// parseBool interprets the accepted boolean spellings used by the cue and
// sequence editors: 1/true/t/yes/y/on, case-insensitive. Anything else is
// false; string fields never fail to parse.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// Parse reads a <Cues> document tolerantly, for editor-facing loads.
//
// Missing or non-integer order values are kept as unset rather than
// rejected; missing switches default to false; delays default to 0. The
// result is sorted by order with unordered cues last (stable).
//
// Returns ErrInvalidDocument if the document is malformed or its root is
// not <Cues>.
func Parse(data []byte) ([]Cue, error) {
	var doc xmlCues
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	cues := make([]Cue, 0, len(doc.Cues))
	for _, el := range doc.Cues {
		c := Cue{
			Name:        el.Name,
			SequenceRef: strings.TrimSpace(el.Sequence),
		}
		if n, err := strconv.Atoi(strings.TrimSpace(el.Order)); err == nil {
			c.Order = &n
		}
		if d, err := strconv.Atoi(strings.TrimSpace(el.Delay)); err == nil && d >= 0 {
			c.DelayMS = d
		}
		for _, child := range el.Children {
			if idx := switchIndex(child.XMLName.Local); idx >= 0 {
				c.Switches[idx] = parseBool(child.Text)
			}
		}
		cues = append(cues, c)
	}

	SortByOrder(cues)
	return cues, nil
}

// ParseBatch reads a <Cues> document strictly, for batch execution.
//
// Every cue must carry an integer order. Switch children must spell exactly
// true or false (case-insensitive). A cue with no switch children and no
// sequence reference would produce no device command and is rejected.
//
// The result is NOT sorted; the batch runner owns ordering.
func ParseBatch(data []byte) ([]Cue, error) {
	var doc xmlCues
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	cues := make([]Cue, 0, len(doc.Cues))
	for _, el := range doc.Cues {
		c := Cue{
			Name:        el.Name,
			SequenceRef: strings.TrimSpace(el.Sequence),
		}

		orderRaw := strings.TrimSpace(el.Order)
		if orderRaw == "" {
			return nil, fmt.Errorf("cue %q: %w", el.Name, ErrMissingOrder)
		}
		n, err := strconv.Atoi(orderRaw)
		if err != nil {
			return nil, fmt.Errorf("cue %q: %w: %q", el.Name, ErrInvalidOrder, orderRaw)
		}
		c.Order = &n

		if delayRaw := strings.TrimSpace(el.Delay); delayRaw != "" {
			d, delayErr := strconv.Atoi(delayRaw)
			if delayErr != nil || d < 0 {
				return nil, fmt.Errorf("cue %q: %w: %q", el.Name, ErrInvalidDelay, delayRaw)
			}
			c.DelayMS = d
		}

		hasSwitches := false
		for _, child := range el.Children {
			idx := switchIndex(child.XMLName.Local)
			if idx < 0 {
				continue
			}
			switch strings.ToLower(strings.TrimSpace(child.Text)) {
			case "true":
				c.Switches[idx] = true
			case "false":
				c.Switches[idx] = false
			default:
				return nil, fmt.Errorf("cue %q: %w: <%s>%q", el.Name, ErrInvalidSwitch, child.XMLName.Local, child.Text)
			}
			hasSwitches = true
		}
		if !hasSwitches && c.SequenceRef == "" {
			return nil, fmt.Errorf("cue %q: %w", el.Name, ErrNoSwitches)
		}

		cues = append(cues, c)
	}

	return cues, nil
}

// Marshal serialises cues as a <Cues> document in the canonical form the
// editors write: name/order/sequence/delay attributes plus one Switch1..8
// child per slot with true/false text.
func Marshal(cues []Cue) ([]byte, error) {
	doc := xmlCues{}
	for i := range cues {
		c := &cues[i]
		el := xmlCue{
			Name:     c.Name,
			Sequence: c.SequenceRef,
			Delay:    strconv.Itoa(c.DelayMS),
		}
		if c.Order != nil {
			el.Order = strconv.Itoa(*c.Order)
		}
		for s := 0; s < NumSwitches; s++ {
			el.Children = append(el.Children, xmlElement{
				XMLName: xml.Name{Local: fmt.Sprintf("Switch%d", s+1)},
				Text:    strconv.FormatBool(c.Switches[s]),
			})
		}
		doc.Cues = append(doc.Cues, el)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling cue document: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// LoadFile reads and tolerantly parses the cue table document at path.
func LoadFile(path string) ([]Cue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cue document: %w", err)
	}
	return Parse(data)
}

// LoadBatchFile reads and strictly parses the cue table document at path.
// Batch execution always runs what is on disk, not the in-memory table.
func LoadBatchFile(path string) ([]Cue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cue document: %w", err)
	}
	return ParseBatch(data)
}

// SaveFile writes the cue table document atomically: the new content lands
// in a temp file in the same directory, then renames over the target, so a
// crash mid-write never corrupts the previous document.
func SaveFile(path string, cues []Cue) error {
	data, err := Marshal(cues)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".cues-*.xml")
	if err != nil {
		return fmt.Errorf("creating temp cue document: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing cue document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing cue document: %w", err)
	}
	if err := os.Chmod(tmpName, documentPermissions); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting cue document permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing cue document: %w", err)
	}
	return nil
}
