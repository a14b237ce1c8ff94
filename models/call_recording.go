package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// recordingFilenameLayout is the timestamp half of the recording filename
// pattern YYYY.MM.DD__HH-MM-SS__from__to.ext. The PBX writes naive local
// timestamps; they are parsed as UTC and the link tolerance absorbs skew.
const recordingFilenameLayout = "2006.01.02__15-04-05"

// CallRecording holds call metadata decoded from a downloaded recording's
// filename. It is not persisted; the only durable trace of a recording is
// the file itself plus Request.RecordingFilePath once linked.
type CallRecording struct {
	FileName   string    `json:"file_name"`
	CalledAt   time.Time `json:"called_at"`
	FromNumber string    `json:"from_number"`
	ToNumber   string    `json:"to_number"`
}

// EncodeRecordingFilename renders call metadata into the canonical
// recording filename. It is the exact inverse of ParseRecordingFilename;
// the two must change together.
func EncodeRecordingFilename(calledAt time.Time, fromNumber, toNumber, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return fmt.Sprintf("%s__%s__%s.%s", calledAt.UTC().Format(recordingFilenameLayout), fromNumber, toNumber, ext)
}

// ParseRecordingFilename decodes a recording filename of the form
// YYYY.MM.DD__HH-MM-SS__from__to.ext. Filenames that do not match the
// pattern yield an error; callers keep such files but skip linking.
func ParseRecordingFilename(name string) (*CallRecording, error) {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	parts := strings.Split(stem, "__")
	if len(parts) != 4 {
		return nil, fmt.Errorf("recording filename %q does not match pattern date__time__from__to", base)
	}

	calledAt, err := time.Parse(recordingFilenameLayout, parts[0]+"__"+parts[1])
	if err != nil {
		return nil, fmt.Errorf("recording filename %q has invalid timestamp: %w", base, err)
	}

	if parts[2] == "" || parts[3] == "" {
		return nil, fmt.Errorf("recording filename %q is missing a phone number", base)
	}

	return &CallRecording{
		FileName:   base,
		CalledAt:   calledAt,
		FromNumber: parts[2],
		ToNumber:   parts[3],
	}, nil
}
