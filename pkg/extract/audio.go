package extract

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// AudioExtractor pulls the audio track out of a video file using ffmpeg.
// Output is mono 16kHz wav, the format Whisper models expect.
type AudioExtractor struct {
	FFmpegPath string
}

func NewAudioExtractor() *AudioExtractor {
	return &AudioExtractor{FFmpegPath: "ffmpeg"}
}

// Extract writes <video-base>.wav into tempDir and returns its path.
// The caller owns the temp file and must remove it when done.
func (e *AudioExtractor) Extract(ctx context.Context, videoPath, tempDir string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	audioPath := filepath.Join(tempDir, base+".wav")

	args := []string{"-y", "-i", videoPath, "-vn", "-ac", "1", "-ar", "16000", "-f", "wav", audioPath}
	cmd := exec.CommandContext(ctx, e.FFmpegPath, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ffmpeg audio extraction failed: %w: %s", err, tail(string(out)))
	}
	return audioPath, nil
}

// tail keeps error output readable; ffmpeg prints its banner first and
// the actual failure last.
func tail(s string) string {
	s = strings.TrimSpace(s)
	const max = 300
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}
