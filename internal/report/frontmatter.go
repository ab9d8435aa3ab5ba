package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoFrontMatter indicates the report did not start with a YAML fence.
	ErrNoFrontMatter = errors.New("report: missing frontmatter")
	// ErrMalformedFrontMatter indicates the YAML block could not be parsed.
	ErrMalformedFrontMatter = errors.New("report: malformed frontmatter")
)

// Metadata is the machine-readable header of a rendered report.
type Metadata struct {
	Title     string
	ModelID   string
	Generated time.Time
	Zones     int
	Stages    int
	Elements  int
}

// ParseFrontMatter extracts the metadata block and body from a report
// that starts with `---` YAML fences.
func ParseFrontMatter(content []byte) (Metadata, []byte, error) {
	if len(content) == 0 {
		return Metadata{}, nil, ErrNoFrontMatter
	}
	normalized := normalizeNewlines(content)
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return Metadata{}, nil, ErrNoFrontMatter
	}
	rest := normalized[4:]
	parts := bytes.SplitN(rest, []byte("\n---\n"), 2)
	if len(parts) < 2 {
		return Metadata{}, nil, ErrMalformedFrontMatter
	}
	var envelope erectorEnvelope
	if err := yaml.Unmarshal(parts[0], &envelope); err != nil {
		return Metadata{}, nil, fmt.Errorf("report: parse frontmatter: %w", err)
	}
	meta, err := envelope.toMetadata()
	if err != nil {
		return Metadata{}, nil, err
	}
	return meta, parts[1], nil
}

// WriteFrontMatter renders metadata + body with YAML fences.
func WriteFrontMatter(meta Metadata, body []byte) ([]byte, error) {
	if meta.Title == "" {
		return nil, fmt.Errorf("report: metadata missing title")
	}
	envelope := erectorEnvelope{}
	envelope.fromMetadata(meta)
	data, err := yaml.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("report: encode frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(bytes.TrimRight(data, "\n"))
	buf.WriteString("\n---\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

type erectorEnvelope struct {
	Erector erectorMetadata `yaml:"erector"`
}

type erectorMetadata struct {
	Title     string `yaml:"title"`
	Model     string `yaml:"model,omitempty"`
	Generated string `yaml:"generated"`
	Zones     int    `yaml:"zones"`
	Stages    int    `yaml:"stages"`
	Elements  int    `yaml:"elements"`
}

func (e erectorEnvelope) toMetadata() (Metadata, error) {
	if e.Erector.Title == "" {
		return Metadata{}, ErrMalformedFrontMatter
	}
	generated, err := parseTime(e.Erector.Generated)
	if err != nil {
		return Metadata{}, fmt.Errorf("report: parse generated timestamp: %w", err)
	}
	return Metadata{
		Title:     e.Erector.Title,
		ModelID:   e.Erector.Model,
		Generated: generated,
		Zones:     e.Erector.Zones,
		Stages:    e.Erector.Stages,
		Elements:  e.Erector.Elements,
	}, nil
}

func (e *erectorEnvelope) fromMetadata(meta Metadata) {
	e.Erector.Title = meta.Title
	e.Erector.Model = meta.ModelID
	e.Erector.Generated = meta.Generated.UTC().Format(timeLayout)
	e.Erector.Zones = meta.Zones
	e.Erector.Stages = meta.Stages
	e.Erector.Elements = meta.Elements
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func parseTime(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("report: empty generated timestamp")
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func normalizeNewlines(content []byte) []byte {
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
}
