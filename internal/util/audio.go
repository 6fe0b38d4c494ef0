package util

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// AudioInfo holds recording metadata probed via ffmpeg
type AudioInfo struct {
	Duration float64 `json:"duration"` // seconds
	Codec    string  `json:"codec"`
	Channels int     `json:"channels"`
	Size     int64   `json:"size"`
}

func GetAudioInfo(audioPath string) (*AudioInfo, error) {
	fileInfo, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("audio file not found: %v", err)
	}

	jsonOutput, err := ffmpeg.Probe(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to probe audio: %v", err)
	}

	var result struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			CodecName string `json:"codec_name"`
			Channels  int    `json:"channels"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
			Size     string `json:"size"`
		} `json:"format"`
	}

	if err := json.Unmarshal([]byte(jsonOutput), &result); err != nil {
		return nil, fmt.Errorf("failed to parse audio info: %v", err)
	}

	var codec string
	var channels int
	for _, stream := range result.Streams {
		if stream.CodecType == "audio" {
			codec = stream.CodecName
			channels = stream.Channels
			break
		}
	}

	duration, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		duration = 0
	}

	size, err := strconv.ParseInt(result.Format.Size, 10, 64)
	if err != nil {
		size = fileInfo.Size()
	}

	return &AudioInfo{
		Duration: duration,
		Codec:    codec,
		Channels: channels,
		Size:     size,
	}, nil
}

// NormalizeAudio transcodes a recording to 16kHz mono PCM WAV, the input
// shape the transcription service handles best. Browser recorders deliver
// webm/opus or ogg depending on the platform.
func NormalizeAudio(inputPath, outputPath string) error {
	return ffmpeg.Input(inputPath).
		Output(outputPath, ffmpeg.KwArgs{
			"ar":  "16000",
			"ac":  "1",
			"c:a": "pcm_s16le",
		}).
		OverWriteOutput().
		Run()
}
