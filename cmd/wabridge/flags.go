package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nahidhasan98/wabridge"
)

// mediaFlags are the media options shared by the send commands
type mediaFlags struct {
	image    string
	video    string
	audio    string
	document string
	caption  string
	mimetype string
	fileName string
	ptt      bool
}

func (m *mediaFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&m.image, "image", "", "image URL")
	f.StringVar(&m.video, "video", "", "video URL")
	f.StringVar(&m.audio, "audio", "", "audio URL")
	f.StringVar(&m.document, "document", "", "document URL")
	f.StringVar(&m.caption, "caption", "", "caption for image, video or document")
	f.StringVar(&m.mimetype, "mimetype", "", "document MIME type")
	f.StringVar(&m.fileName, "filename", "", "document file name")
	f.BoolVar(&m.ptt, "ptt", false, "send audio as a voice note")
}

// options converts the flags. PTT is only set when --ptt was given.
func (m *mediaFlags) options(cmd *cobra.Command) wabridge.MediaOptions {
	opts := wabridge.MediaOptions{
		Image:    m.image,
		Video:    m.video,
		Audio:    m.audio,
		Document: m.document,
		Caption:  m.caption,
		Mimetype: m.mimetype,
		FileName: m.fileName,
	}
	if cmd.Flags().Changed("ptt") {
		opts.PTT = wabridge.Bool(m.ptt)
	}
	return opts
}

// parseBatch reads phone,message rows. Blank rows are skipped and a leading
// header row is ignored.
func parseBatch(r io.Reader) ([]wabridge.BatchItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var items []wabridge.BatchItem
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: want phone,message", line)
		}

		phone := strings.TrimSpace(record[0])
		message := strings.TrimSpace(record[1])
		if line == 1 && strings.EqualFold(phone, "phone") {
			continue
		}
		items = append(items, wabridge.BatchItem{Phone: phone, Message: message})
	}

	if len(items) == 0 {
		return nil, errors.New("no messages found")
	}
	return items, nil
}
