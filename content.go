package wabridge

// Payload is the JSON body of one request
type Payload map[string]any

// Content is the body of one message. Exactly one kind is carried per value:
// TextContent, ImageContent, VideoContent, AudioContent or DocumentContent.
// A nil Content sends an empty payload.
type Content interface {
	apply(p Payload)
	isMedia() bool
}

// TextContent is a plain text message
type TextContent struct {
	Text string
}

// ImageContent sends the image at URL
type ImageContent struct {
	URL     string
	Caption string
}

// VideoContent sends the video at URL
type VideoContent struct {
	URL     string
	Caption string
}

// AudioContent sends the audio at URL. PTT marks it as a voice note; nil leaves
// the choice to the bridge.
type AudioContent struct {
	URL string
	PTT *bool
}

// DocumentContent sends the file at URL
type DocumentContent struct {
	URL      string
	Mimetype string
	FileName string
	Caption  string
}

func (c TextContent) apply(p Payload) {
	if c.Text != "" {
		p["message"] = c.Text
	}
}

func (c TextContent) isMedia() bool { return false }

func (c ImageContent) apply(p Payload) {
	p["image"] = c.URL
	setIf(p, "caption", c.Caption)
}

func (c ImageContent) isMedia() bool { return true }

func (c VideoContent) apply(p Payload) {
	p["video"] = c.URL
	setIf(p, "caption", c.Caption)
}

func (c VideoContent) isMedia() bool { return true }

func (c AudioContent) apply(p Payload) {
	p["audio"] = c.URL
	if c.PTT != nil {
		p["ptt"] = *c.PTT
	}
}

func (c AudioContent) isMedia() bool { return true }

func (c DocumentContent) apply(p Payload) {
	p["document"] = c.URL
	setIf(p, "mimetype", c.Mimetype)
	setIf(p, "fileName", c.FileName)
	setIf(p, "caption", c.Caption)
}

func (c DocumentContent) isMedia() bool { return true }

func setIf(p Payload, key, value string) {
	if value != "" {
		p[key] = value
	}
}

// MediaOptions is the loose option set accepted by Send. Empty strings are unset.
type MediaOptions struct {
	Image    string
	Video    string
	Audio    string
	Document string
	Caption  string
	Mimetype string
	FileName string
	PTT      *bool
}

// HasMedia reports whether any media URL is set
func (o MediaOptions) HasMedia() bool {
	return o.Image != "" || o.Video != "" || o.Audio != "" || o.Document != ""
}

// BuildContent picks one content kind from message and opts.
// Precedence is image, video, audio, document, then text. It returns nil when
// nothing is set.
func BuildContent(message string, opts MediaOptions) Content {
	switch {
	case opts.Image != "":
		return ImageContent{URL: opts.Image, Caption: opts.Caption}
	case opts.Video != "":
		return VideoContent{URL: opts.Video, Caption: opts.Caption}
	case opts.Audio != "":
		return AudioContent{URL: opts.Audio, PTT: opts.PTT}
	case opts.Document != "":
		return DocumentContent{
			URL:      opts.Document,
			Mimetype: opts.Mimetype,
			FileName: opts.FileName,
			Caption:  opts.Caption,
		}
	case message != "":
		return TextContent{Text: message}
	}
	return nil
}

// Bool returns a pointer to b, for AudioContent.PTT and MediaOptions.PTT
func Bool(b bool) *bool {
	return &b
}

// payloadFor renders c into a fresh payload, prefixed by the routing fields
func payloadFor(c Content, routing ...string) Payload {
	p := Payload{}
	for i := 0; i+1 < len(routing); i += 2 {
		p[routing[i]] = routing[i+1]
	}
	if c != nil {
		c.apply(p)
	}
	return p
}

func hasMedia(c Content) bool {
	return c != nil && c.isMedia()
}
