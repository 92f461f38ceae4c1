package models

import (
	"encoding/json"
	"fmt"
)

type ContentType string

const (
	ContentVideo    ContentType = "VIDEO"
	ContentDocument ContentType = "DOCUMENT"
)

// ContentSource is where a module's video or document lives once persisted.
type ContentSource string

const (
	SourceURL   ContentSource = "URL"
	SourceDrive ContentSource = "DRIVE"
	SourceLocal ContentSource = "LOCAL"
)

// ModuleContent is either VideoContent or DocumentContent, never both.
type ModuleContent interface {
	Type() ContentType
	Location() string
	SourceKind() ContentSource
	isModuleContent()
}

type VideoContent struct {
	URL    string        `json:"videoUrl"`
	Source ContentSource `json:"videoSource"`
}

func (VideoContent) Type() ContentType           { return ContentVideo }
func (v VideoContent) Location() string          { return v.URL }
func (v VideoContent) SourceKind() ContentSource { return v.Source }
func (VideoContent) isModuleContent()            {}

type DocumentContent struct {
	URL    string        `json:"documentUrl"`
	Source ContentSource `json:"documentSource"`
}

func (DocumentContent) Type() ContentType           { return ContentDocument }
func (d DocumentContent) Location() string          { return d.URL }
func (d DocumentContent) SourceKind() ContentSource { return d.Source }
func (DocumentContent) isModuleContent()            {}

// Module is a content unit of a course. Order is dense and 1-based within the course.
type Module struct {
	ID            uint          `json:"id,omitempty"`
	Key           string        `json:"key,omitempty"`
	CourseID      uint          `json:"courseId,omitempty"`
	Title         string        `json:"title" validate:"max=200"`
	Description   string        `json:"description,omitempty"`
	Order         int           `json:"order" validate:"min=0"`
	Content       ModuleContent `json:"-"`
	TheoryContent string        `json:"theoryContent,omitempty"`
	Quiz          *Quiz         `json:"quiz,omitempty"`
}

func (m *Module) GetID() uint        { return m.ID }
func (m *Module) GetOrder() int      { return m.Order }
func (m *Module) SetOrder(order int) { m.Order = order }

// ContentType reports the active content variant, or "" when none is set.
func (m *Module) ContentType() ContentType {
	if m.Content == nil {
		return ""
	}
	return m.Content.Type()
}

// SetVideo replaces any existing content with a video.
func (m *Module) SetVideo(url string, source ContentSource) {
	m.Content = VideoContent{URL: url, Source: source}
}

// SetDocument replaces any existing content with a document.
func (m *Module) SetDocument(url string, source ContentSource) {
	m.Content = DocumentContent{URL: url, Source: source}
}

// moduleWire is the flattened shape the remote API speaks.
type moduleWire struct {
	ID             uint          `json:"id,omitempty"`
	CourseID       uint          `json:"courseId,omitempty"`
	Title          string        `json:"title"`
	Description    string        `json:"description,omitempty"`
	Order          int           `json:"order"`
	ContentType    ContentType   `json:"contentType,omitempty"`
	VideoURL       string        `json:"videoUrl,omitempty"`
	VideoSource    ContentSource `json:"videoSource,omitempty"`
	DocumentURL    string        `json:"documentUrl,omitempty"`
	DocumentSource ContentSource `json:"documentSource,omitempty"`
	TheoryContent  string        `json:"theoryContent,omitempty"`
	Quiz           *Quiz         `json:"quiz,omitempty"`
}

func (m Module) MarshalJSON() ([]byte, error) {
	w := moduleWire{
		ID:            m.ID,
		CourseID:      m.CourseID,
		Title:         m.Title,
		Description:   m.Description,
		Order:         m.Order,
		TheoryContent: m.TheoryContent,
		Quiz:          m.Quiz,
	}
	switch c := m.Content.(type) {
	case VideoContent:
		w.ContentType = ContentVideo
		w.VideoURL = c.URL
		w.VideoSource = c.Source
	case DocumentContent:
		w.ContentType = ContentDocument
		w.DocumentURL = c.URL
		w.DocumentSource = c.Source
	}
	return json.Marshal(w)
}

func (m *Module) UnmarshalJSON(data []byte) error {
	var w moduleWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*m = Module{
		ID:            w.ID,
		CourseID:      w.CourseID,
		Title:         w.Title,
		Description:   w.Description,
		Order:         w.Order,
		TheoryContent: w.TheoryContent,
		Quiz:          w.Quiz,
	}

	contentType := w.ContentType
	if contentType == "" {
		// Older records omit contentType; infer it from whichever URL is present.
		switch {
		case w.VideoURL != "":
			contentType = ContentVideo
		case w.DocumentURL != "":
			contentType = ContentDocument
		}
	}

	switch contentType {
	case ContentVideo:
		m.SetVideo(w.VideoURL, w.VideoSource)
	case ContentDocument:
		m.SetDocument(w.DocumentURL, w.DocumentSource)
	case "":
	default:
		return fmt.Errorf("unknown content type %q", w.ContentType)
	}
	return nil
}
