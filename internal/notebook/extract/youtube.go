package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kart-io/logger"

	"github.com/infinita-io/notebookd/pkg/llm"
)

// YouTubeExtractor downloads the audio track of a YouTube video with
// yt-dlp and transcribes it.
type YouTubeExtractor struct {
	ytdlpPath   string
	tempDir     string
	transcriber llm.Transcriber
}

// NewYouTubeExtractor creates a YouTube extractor. tempDir holds the
// downloaded audio files; each file is removed after transcription.
func NewYouTubeExtractor(ytdlpPath, tempDir string, transcriber llm.Transcriber) *YouTubeExtractor {
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &YouTubeExtractor{
		ytdlpPath:   ytdlpPath,
		tempDir:     tempDir,
		transcriber: transcriber,
	}
}

// Extract downloads and transcribes the video behind url. It returns the
// video ID and the transcript text.
func (e *YouTubeExtractor) Extract(ctx context.Context, url string) (string, string, error) {
	if e.transcriber == nil {
		return "", "", fmt.Errorf("no transcription provider configured")
	}

	videoID, err := e.resolveVideoID(ctx, url)
	if err != nil {
		return "", "", err
	}

	audioPath, err := e.downloadAudio(ctx, url, videoID)
	if err != nil {
		return videoID, "", err
	}
	defer func() {
		if err := os.Remove(audioPath); err != nil && !os.IsNotExist(err) {
			logger.Warnw("failed to remove temporary audio file", "path", audioPath, "error", err)
		}
	}()

	transcript, err := e.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return videoID, "", fmt.Errorf("failed to transcribe audio for %s: %w", videoID, err)
	}
	if strings.TrimSpace(transcript) == "" {
		return videoID, "", fmt.Errorf("empty transcript for %s", videoID)
	}

	return videoID, transcript, nil
}

// resolveVideoID asks yt-dlp for the canonical video ID without
// downloading anything.
func (e *YouTubeExtractor) resolveVideoID(ctx context.Context, url string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.ytdlpPath, "--print", "%(id)s", "--no-progress", url)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("yt-dlp failed to resolve video id: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	videoID := strings.TrimSpace(stdout.String())
	if videoID == "" {
		return "", fmt.Errorf("yt-dlp returned an empty video id for %s", url)
	}
	return videoID, nil
}

// downloadAudio fetches the lowest-bandwidth audio stream and converts it
// to 16 kHz mono mp3, which keeps transcription uploads small.
func (e *YouTubeExtractor) downloadAudio(ctx context.Context, url, videoID string) (string, error) {
	outputTemplate := filepath.Join(e.tempDir, videoID+".%(ext)s")
	audioPath := filepath.Join(e.tempDir, videoID+".mp3")

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.ytdlpPath,
		"-f", "worstaudio/worst",
		"-x",
		"--audio-format", "mp3",
		"--postprocessor-args", "-ar 16000 -ac 1",
		"--no-continue",
		"--no-part",
		"--no-progress",
		"-o", outputTemplate,
		url,
	)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("yt-dlp failed to download audio for %s: %w: %s", videoID, err, strings.TrimSpace(stderr.String()))
	}

	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("yt-dlp produced no audio file for %s: %w", videoID, err)
	}

	return audioPath, nil
}
